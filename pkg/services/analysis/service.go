// Package analysis ties normalization, insight derivation and the statements
// backend together for the CLI and HTTP surfaces.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/de-tools/clarity/pkg/models/domain"
	"github.com/de-tools/clarity/pkg/models/raw"
	"github.com/de-tools/clarity/pkg/models/store"
	"github.com/de-tools/clarity/pkg/services/compare"
	"github.com/de-tools/clarity/pkg/services/config"
	"github.com/de-tools/clarity/pkg/services/insight"
	"github.com/de-tools/clarity/pkg/services/report"
	"github.com/de-tools/clarity/pkg/store/client"
	"github.com/de-tools/clarity/pkg/store/snapshot"
	"github.com/rs/zerolog"
)

var (
	ErrNotConfigured     = errors.New("statements backend is not configured")
	ErrSnapshotsDisabled = errors.New("snapshot storage is not configured")
)

type Service interface {
	Analyze(ctx context.Context, doc raw.Report, hint domain.StatementKind) domain.Analysis
	CompareReports(ctx context.Context, current, previous raw.Report, hint domain.StatementKind) domain.Comparison
	Fetch(ctx context.Context, company string, kind domain.StatementKind, period domain.Period) (domain.Analysis, error)
	Compare(ctx context.Context, company string, kind domain.StatementKind, current, previous domain.Period) (domain.Comparison, error)
	Companies(ctx context.Context) ([]config.Company, error)
	Snapshots(ctx context.Context, company string, kind domain.StatementKind) ([]store.Snapshot, error)
	AnalyzeSnapshot(ctx context.Context, id string) (domain.Analysis, error)
}

type Option func(*service)

// WithSnapshots keeps every fetched statement in s.
func WithSnapshots(s snapshot.Store) Option {
	return func(svc *service) {
		svc.snapshots = s
	}
}

type service struct {
	statements client.StatementClient
	companies  config.Registry
	snapshots  snapshot.Store
}

// NewService builds the analysis service. statements and companies may be nil
// when only local documents are analyzed; the fetching methods then fail.
func NewService(statements client.StatementClient, companies config.Registry, opts ...Option) Service {
	svc := &service{statements: statements, companies: companies}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) Analyze(ctx context.Context, doc raw.Report, hint domain.StatementKind) domain.Analysis {
	logger := zerolog.Ctx(ctx)

	normalized := report.Normalize(doc, hint)
	result := domain.Analysis{
		Report:          normalized,
		Insights:        insight.Derive(normalized),
		Recommendations: insight.Recommendations(normalized),
	}
	if health, ok := insight.HealthScore(normalized); ok {
		result.Health = &health
	}

	event := logger.Debug()
	if len(normalized.Issues) > 0 {
		event = logger.Warn().Int("issues", len(normalized.Issues))
	}
	event.
		Str("kind", normalized.Kind.String()).
		Int("sections", len(normalized.Sections)).
		Int("insights", len(result.Insights)).
		Msg("report analyzed")

	return result
}

func (s *service) CompareReports(ctx context.Context, current, previous raw.Report, hint domain.StatementKind) domain.Comparison {
	cur := report.Normalize(current, hint)
	if !hint.Known() {
		// both periods must be read as the same statement
		hint = cur.Kind
	}
	prev := report.Normalize(previous, hint)

	zerolog.Ctx(ctx).Debug().
		Str("kind", cur.Kind.String()).
		Int("current_sections", len(cur.Sections)).
		Int("previous_sections", len(prev.Sections)).
		Msg("reports compared")

	return compare.Compare(cur, prev)
}

func (s *service) Fetch(
	ctx context.Context,
	company string,
	kind domain.StatementKind,
	period domain.Period,
) (domain.Analysis, error) {
	doc, err := s.fetch(ctx, company, kind, period)
	if err != nil {
		return domain.Analysis{}, err
	}
	return s.Analyze(ctx, doc, kind), nil
}

func (s *service) Compare(
	ctx context.Context,
	company string,
	kind domain.StatementKind,
	current, previous domain.Period,
) (domain.Comparison, error) {
	cur, err := s.fetch(ctx, company, kind, current)
	if err != nil {
		return domain.Comparison{}, err
	}
	prev, err := s.fetch(ctx, company, kind, previous)
	if err != nil {
		return domain.Comparison{}, err
	}
	return s.CompareReports(ctx, cur, prev, kind), nil
}

func (s *service) Companies(ctx context.Context) ([]config.Company, error) {
	if s.companies == nil {
		return nil, nil
	}
	names, err := s.companies.GetProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	companies := make([]config.Company, 0, len(names))
	for _, name := range names {
		company, err := s.companies.GetCompany(ctx, name)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("company", name).Msg("skipping company profile")
			continue
		}
		companies = append(companies, company)
	}
	return companies, nil
}

func (s *service) fetch(
	ctx context.Context,
	company string,
	kind domain.StatementKind,
	period domain.Period,
) (raw.Report, error) {
	if s.statements == nil || s.companies == nil {
		return raw.Report{}, ErrNotConfigured
	}

	profile, err := s.companies.GetCompany(ctx, company)
	if err != nil {
		return raw.Report{}, err
	}

	logger := zerolog.Ctx(ctx).With().
		Str("company", company).
		Str("kind", kind.String()).
		Logger()

	doc, err := s.statements.GetStatement(ctx, kind, profile.RealmID, period)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch statement")
		return raw.Report{}, fmt.Errorf("failed to fetch statement for %s: %w", company, err)
	}

	logger.Info().Str("start", period.Start).Str("end", period.End).Msg("statement fetched")
	s.keep(ctx, company, kind, period, doc)
	return doc, nil
}

// keep stores a fetched statement. A failed write is logged and does not
// fail the fetch.
func (s *service) keep(ctx context.Context, company string, kind domain.StatementKind, period domain.Period, doc raw.Report) {
	if s.snapshots == nil {
		return
	}
	logger := zerolog.Ctx(ctx)

	document := doc.Source
	if len(document) == 0 {
		var err error
		if document, err = json.Marshal(doc); err != nil {
			logger.Warn().Err(err).Msg("failed to encode statement snapshot")
			return
		}
	}
	saved, err := s.snapshots.Add(ctx, store.Snapshot{
		Company:  company,
		Kind:     kind.String(),
		Start:    period.Start,
		End:      period.End,
		Document: document,
	})
	if err != nil {
		logger.Warn().Err(err).Str("company", company).Msg("failed to store statement snapshot")
		return
	}
	logger.Debug().Str("snapshot", saved.ID).Msg("statement snapshot stored")
}

func (s *service) Snapshots(ctx context.Context, company string, kind domain.StatementKind) ([]store.Snapshot, error) {
	if s.snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	filter := ""
	if kind.Known() {
		filter = kind.String()
	}
	return s.snapshots.List(ctx, company, filter)
}

// AnalyzeSnapshot runs the current rules over a stored statement.
func (s *service) AnalyzeSnapshot(ctx context.Context, id string) (domain.Analysis, error) {
	if s.snapshots == nil {
		return domain.Analysis{}, ErrSnapshotsDisabled
	}
	snap, err := s.snapshots.Get(ctx, id)
	if err != nil {
		return domain.Analysis{}, err
	}
	doc, err := raw.Decode(snap.Document)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("snapshot %s: %w", id, err)
	}
	kind, err := domain.ParseStatementKind(snap.Kind)
	if err != nil {
		kind = domain.StatementUnknown
	}
	return s.Analyze(ctx, doc, kind), nil
}
