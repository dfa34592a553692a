package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"corrplot/internal/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig  `validate:"required"`
	Upload    UploadConfig  `validate:"required"`
	Session   SessionConfig `validate:"required"`
	Chart     ChartConfig   `validate:"required"`
	Logging   LoggingConfig `validate:"required"`
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	GinMode         string        `validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// UploadConfig bounds dataset uploads
type UploadConfig struct {
	MaxMB       int     `validate:"gt=0,lte=1024"`
	RatePerSec  float64 `validate:"gt=0"`
	Burst       int     `validate:"gte=1"`
	PreviewRows int     `validate:"gte=0,lte=1000"`
}

// SessionConfig controls in-memory session lifetime
type SessionConfig struct {
	TTL           time.Duration `validate:"gt=0"`
	SweepInterval time.Duration `validate:"gt=0"`
}

// ChartConfig holds the rendered chart size in pixels
type ChartConfig struct {
	Width  int `validate:"gte=100,lte=4000"`
	Height int `validate:"gte=100,lte=4000"`
}

// LoggingConfig selects log verbosity and encoding
type LoggingConfig struct {
	Level  string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
	Format string `validate:"oneof=text json"`
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string `validate:"omitempty,numeric"`
	Enabled bool
}

// MaxUploadBytes returns the upload limit in bytes
func (c UploadConfig) MaxUploadBytes() int64 {
	return int64(c.MaxMB) * 1024 * 1024
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Upload:    *loadUploadConfig(),
		Session:   *loadSessionConfig(),
		Chart:     *loadChartConfig(),
		Logging:   *loadLoggingConfig(),
		Profiling: *loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxMB:       getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
		RatePerSec:  getEnvFloatOrDefault("UPLOAD_RATE_PER_SEC", 2),
		Burst:       getEnvIntOrDefault("UPLOAD_BURST", 5),
		PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", 20),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TTL:           getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
		SweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", time.Minute),
	}
}

func loadChartConfig() *ChartConfig {
	return &ChartConfig{
		Width:  getEnvIntOrDefault("CHART_WIDTH", 600),
		Height: getEnvIntOrDefault("CHART_HEIGHT", 600),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.ConfigInvalid(fmt.Sprintf("%s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return errors.ConfigInvalid(err.Error())
	}
	if config.Session.SweepInterval > config.Session.TTL {
		return errors.ConfigInvalid("SESSION_SWEEP_INTERVAL must not exceed SESSION_TTL")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
