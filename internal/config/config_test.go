package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "INV", cfg.Invoice.NumberPrefix)
	assert.NotEmpty(t, cfg.Reports.OutputDir)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_OverridesAndKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
invoice:
  number_prefix: GST
seller:
  name: Sharma Traders
  gstin: 27AAAPL1234C1ZV
logging:
  level: debug
  format: json
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "GST", cfg.Invoice.NumberPrefix)
	assert.Equal(t, "Sharma Traders", cfg.Seller.Name)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Invoice.OutputDir)
	assert.NotEmpty(t, cfg.Database.Path)
}

func TestLoad_RejectsBadPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invoice:\n  number_prefix: \"a/b\"\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "db", "gstbill.db")
	cfg.Invoice.OutputDir = filepath.Join(dir, "invoices")
	cfg.Reports.OutputDir = filepath.Join(dir, "reports")

	require.NoError(t, cfg.EnsureDirectories())
	for _, d := range []string{"db", "invoices", "reports"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Reports.OutputDir, loaded.Reports.OutputDir)
}
