// Package config resolves the review store configuration from defaults,
// an optional config.yaml, and environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rpattn/reviewstore/internal/dates"
)

// Config carries every tunable of the review store.
type Config struct {
	DataDir     string
	CatalogFile string
	EditLogFile string
	AuditFile   string

	AllowedTags     []string
	MinAllowedDate  time.Time
	StrictTestDate  bool
	OverdueMonths   int
	LockTimeout     time.Duration
	PageSize        int
	PageSizeOptions []int
}

// CatalogPath returns the catalog file path under the data directory.
func (c Config) CatalogPath() string { return filepath.Join(c.DataDir, c.CatalogFile) }

// EditLogPath returns the edit log file path under the data directory.
func (c Config) EditLogPath() string { return filepath.Join(c.DataDir, c.EditLogFile) }

// AuditPath returns the audit trail file path under the data directory.
func (c Config) AuditPath() string { return filepath.Join(c.DataDir, c.AuditFile) }

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		DataDir:         "data",
		CatalogFile:     "clients.csv",
		EditLogFile:     "user_inputs.csv",
		AuditFile:       "audit_log.csv",
		AllowedTags:     []string{"G", "U", "P"},
		MinAllowedDate:  time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC),
		StrictTestDate:  true,
		OverdueMonths:   12,
		LockTimeout:     10 * time.Second,
		PageSize:        50,
		PageSizeOptions: []int{25, 50, 100, 200},
	}
}

// Load resolves the configuration. configPath points at the directory
// holding an optional config.yaml; environment variables prefixed
// REVIEW_ override individual keys either way.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("REVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("store.data_dir")
	v.BindEnv("store.catalog_file")
	v.BindEnv("store.edit_log_file")
	v.BindEnv("store.audit_file")
	v.BindEnv("store.lock_timeout")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		// No config.yaml is fine: defaults plus env vars apply.
	}

	if v.IsSet("store.data_dir") {
		cfg.DataDir = v.GetString("store.data_dir")
	}
	if v.IsSet("store.catalog_file") {
		cfg.CatalogFile = v.GetString("store.catalog_file")
	}
	if v.IsSet("store.edit_log_file") {
		cfg.EditLogFile = v.GetString("store.edit_log_file")
	}
	if v.IsSet("store.audit_file") {
		cfg.AuditFile = v.GetString("store.audit_file")
	}
	if v.IsSet("store.lock_timeout") {
		cfg.LockTimeout = v.GetDuration("store.lock_timeout")
	}
	if v.IsSet("review.allowed_tags") {
		cfg.AllowedTags = v.GetStringSlice("review.allowed_tags")
	}
	if v.IsSet("review.min_allowed_date") {
		raw := v.GetString("review.min_allowed_date")
		parsed, ok := dates.Parse(raw)
		if !ok {
			return Config{}, fmt.Errorf("invalid review.min_allowed_date %q", raw)
		}
		cfg.MinAllowedDate = parsed
	}
	if v.IsSet("review.strict_test_date") {
		cfg.StrictTestDate = v.GetBool("review.strict_test_date")
	}
	if v.IsSet("review.overdue_months") {
		months := v.GetInt("review.overdue_months")
		if months <= 0 {
			return Config{}, fmt.Errorf("invalid review.overdue_months %d", months)
		}
		cfg.OverdueMonths = months
	}
	if v.IsSet("review.page_size") {
		cfg.PageSize = v.GetInt("review.page_size")
	}
	if v.IsSet("review.page_size_options") {
		cfg.PageSizeOptions = v.GetIntSlice("review.page_size_options")
	}

	return cfg, nil
}
