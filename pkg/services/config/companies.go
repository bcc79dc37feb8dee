package config

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/ini.v1"
)

var ErrCompanyNotFound = errors.New("company not found")

// Company is one connected accounting company. RealmID is the identifier the
// statements backend expects.
type Company struct {
	Name        string
	RealmID     string
	DisplayName string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetCompany(ctx context.Context, name string) (Company, error)
}

type iniRegistry struct {
	cfg *ini.File
}

// NewRegistry loads company profiles from an INI file, one section per company:
//
//	[acme]
//	realm_id = 9130350000000000
//	display_name = Acme Corp
func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load companies file: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if section.HasKey("realm_id") {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *iniRegistry) GetCompany(_ context.Context, name string) (Company, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil || !section.HasKey("realm_id") {
		return Company{}, fmt.Errorf("%w: %s", ErrCompanyNotFound, name)
	}

	company := Company{
		Name:        name,
		RealmID:     section.Key("realm_id").String(),
		DisplayName: section.Key("display_name").MustString(name),
	}
	if company.RealmID == "" {
		return Company{}, fmt.Errorf("company %s has an empty realm_id", name)
	}
	return company, nil
}
