package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "data/leads.db", cfg.Store.SQLitePath)
	assert.Equal(t, "data", cfg.Pipeline.DataDir)
	assert.InDelta(t, 40, cfg.Pipeline.MinExportScore, 0.001)
	assert.InDelta(t, 0.30, cfg.Scorer.RecencyWeight, 0.001)
	assert.InDelta(t, 0.25, cfg.Scorer.CategoryWeight, 0.001)
	assert.InDelta(t, 0.25, cfg.Scorer.SectorWeight, 0.001)
	assert.InDelta(t, 0.20, cfg.Scorer.StatusWeight, 0.001)
	assert.Equal(t, 30, cfg.Scorer.FreshDays)
	assert.Equal(t, 365, cfg.Scorer.StaleDays)
	assert.InDelta(t, 75, cfg.Scorer.Tier1MinScore, 0.001)
	assert.InDelta(t, 50, cfg.Scorer.Tier2MinScore, 0.001)
	assert.Equal(t, "gazetteer", cfg.Geocode.Provider)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocode.BaseURL)
	assert.InDelta(t, 1, cfg.Geocode.RateRPS, 0.001)
	assert.Equal(t, 3, cfg.Geocode.MaxRetries)
	assert.Equal(t, "config/officers.yaml", cfg.Registry.OfficersFile)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leads
log:
  level: debug
  format: console
server:
  port: 9090
scorer:
  fresh_days: 14
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leads", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 14, cfg.Scorer.FreshDays)
	// Defaults still apply for unset values
	assert.Equal(t, 365, cfg.Scorer.StaleDays)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chtemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("FURNACEX_STORE_DRIVER", "postgres")
	t.Setenv("FURNACEX_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chtemp(t)

	t.Setenv("FURNACEX_SERVER_PORT", "3000")
	t.Setenv("FURNACEX_GEOCODE_PROVIDER", "nominatim")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "nominatim", cfg.Geocode.Provider)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
