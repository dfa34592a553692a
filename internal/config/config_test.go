package config

import (
	"testing"
	"time"

	"corrplot/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GIN_MODE", "SHUTDOWN_TIMEOUT", "MAX_UPLOAD_MB", "UPLOAD_RATE_PER_SEC",
		"UPLOAD_BURST", "PREVIEW_ROWS", "SESSION_TTL", "SESSION_SWEEP_INTERVAL",
		"CHART_WIDTH", "CHART_HEIGHT", "LOG_LEVEL", "LOG_FORMAT", "PPROF_PORT", "PPROF_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 50, cfg.Upload.MaxMB)
	assert.Equal(t, int64(50*1024*1024), cfg.Upload.MaxUploadBytes())
	assert.Equal(t, 2.0, cfg.Upload.RatePerSec)
	assert.Equal(t, 5, cfg.Upload.Burst)
	assert.Equal(t, 20, cfg.Upload.PreviewRows)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, 600, cfg.Chart.Width)
	assert.Equal(t, 600, cfg.Chart.Height)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Profiling.Enabled)
	assert.Equal(t, "6060", cfg.Profiling.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CHART_WIDTH", "800")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("PPROF_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, 5, cfg.Upload.MaxMB)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 800, cfg.Chart.Width)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Profiling.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"port":          {"PORT": "http"},
		"gin mode":      {"GIN_MODE": "verbose"},
		"upload limit":  {"MAX_UPLOAD_MB": "0"},
		"burst":         {"UPLOAD_BURST": "-1"},
		"chart size":    {"CHART_HEIGHT": "10"},
		"log level":     {"LOG_LEVEL": "LOUD"},
		"log format":    {"LOG_FORMAT": "xml"},
		"sweep vs ttl":  {"SESSION_TTL": "1m", "SESSION_SWEEP_INTERVAL": "5m"},
		"pprof port":    {"PPROF_PORT": "six"},
		"negative rate": {"UPLOAD_RATE_PER_SEC": "-2"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestUnparseableValuesFallBack(t *testing.T) {
	t.Setenv("UPLOAD_BURST", "lots")
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Upload.Burst)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}
