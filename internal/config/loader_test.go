package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, []string{"G", "U", "P"}, cfg.AllowedTags)
	require.Equal(t, 10*time.Second, cfg.LockTimeout)
	require.True(t, cfg.StrictTestDate)
	require.Equal(t, 12, cfg.OverdueMonths)
	require.Equal(t, 50, cfg.PageSize)
	require.Equal(t, filepath.Join("data", "clients.csv"), cfg.CatalogPath())
	require.Equal(t, filepath.Join("data", "user_inputs.csv"), cfg.EditLogPath())
	require.Equal(t, filepath.Join("data", "audit_log.csv"), cfg.AuditPath())
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
store:
  data_dir: /srv/review
  catalog_file: catalog.xlsx
  lock_timeout: 3s
review:
  allowed_tags: [A, B]
  min_allowed_date: "2005-01-01"
  strict_test_date: false
  overdue_months: 6
  page_size: 100
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "/srv/review", cfg.DataDir)
	require.Equal(t, "catalog.xlsx", cfg.CatalogFile)
	require.Equal(t, 3*time.Second, cfg.LockTimeout)
	require.Equal(t, []string{"A", "B"}, cfg.AllowedTags)
	require.Equal(t, time.Date(2005, time.January, 1, 0, 0, 0, 0, time.UTC), cfg.MinAllowedDate)
	require.False(t, cfg.StrictTestDate)
	require.Equal(t, 6, cfg.OverdueMonths)
	require.Equal(t, 100, cfg.PageSize)
	// Untouched keys keep their defaults.
	require.Equal(t, "user_inputs.csv", cfg.EditLogFile)
}

func TestLoadRejectsBadMinimumDate(t *testing.T) {
	dir := t.TempDir()
	content := "review:\n  min_allowed_date: nonsense\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveOverdueMonths(t *testing.T) {
	dir := t.TempDir()
	content := "review:\n  overdue_months: 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("REVIEW_STORE_DATA_DIR", "/env/data")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "/env/data", cfg.DataDir)
}
