package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "CLARITY"

type Config struct {
	Server        ServerConfig  `mapstructure:"server"`
	Backend       BackendConfig `mapstructure:"backend"`
	Log           LogConfig     `mapstructure:"log"`
	Storage       StorageConfig `mapstructure:"storage"`
	Sync          SyncConfig    `mapstructure:"sync"`
	CompaniesFile string        `mapstructure:"companies_file"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gte=0,lte=65535"`
}

// BackendConfig points at the service that serves raw statements.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// StorageConfig locates the snapshot database. Snapshots are off when Path is
// empty.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// SyncConfig schedules statement refreshes in cron syntax. Empty disables
// them.
type SyncConfig struct {
	Schedule string `mapstructure:"schedule"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
}

// LoadConfig reads the YAML file at path (optional when empty) and applies
// CLARITY_* environment overrides, e.g. CLARITY_BACKEND_BASE_URL.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.path", "")
	v.SetDefault("sync.schedule", "")
	v.SetDefault("companies_file", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
