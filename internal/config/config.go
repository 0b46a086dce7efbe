// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Calendar
	CalendarBackend string        // lunar or arithmetic
	CalendarMinYear int           // earliest year sent to the precise backend
	CalendarMaxYear int           // latest year sent to the precise backend
	CalendarTimeout time.Duration // bound on one precise lookup; 0 disables

	// Request limits
	RateLimitRPS   float64 // sustained requests per second, 0 disables
	RateLimitBurst int     // burst allowance on top of RateLimitRPS
	BatchLimit     int     // max births per batch request

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Calendar backends
const (
	BackendLunar      = "lunar"
	BackendArithmetic = "arithmetic"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Calendar
	cfg.CalendarBackend = getEnv("CALENDAR_BACKEND", BackendLunar)
	cfg.CalendarMinYear = getEnvInt("CALENDAR_MIN_YEAR", 1900)
	cfg.CalendarMaxYear = getEnvInt("CALENDAR_MAX_YEAR", 2100)
	cfg.CalendarTimeout = getEnvDuration("CALENDAR_TIMEOUT", 2*time.Second)

	// Request limits
	cfg.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", 20)
	cfg.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 40)
	cfg.BatchLimit = getEnvInt("BATCH_LIMIT", 100)

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	// Validate port range
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	// Validate environment
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	switch c.CalendarBackend {
	case BackendLunar, BackendArithmetic:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("CALENDAR_BACKEND must be one of: lunar, arithmetic; got %q", c.CalendarBackend))
	}

	if c.CalendarMinYear > c.CalendarMaxYear {
		errs = append(errs, fmt.Errorf("CALENDAR_MIN_YEAR (%d) must not exceed CALENDAR_MAX_YEAR (%d)", c.CalendarMinYear, c.CalendarMaxYear))
	}

	if c.CalendarTimeout < 0 {
		errs = append(errs, errors.New("CALENDAR_TIMEOUT must not be negative"))
	}

	if c.RateLimitRPS < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must not be negative"))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled"))
	}

	if c.BatchLimit < 1 {
		errs = append(errs, fmt.Errorf("BATCH_LIMIT must be at least 1, got %d", c.BatchLimit))
	}

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	// Validate log format
	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// UsesPreciseCalendar reports whether the lunar backend is enabled.
func (c *Config) UsesPreciseCalendar() bool {
	return c.CalendarBackend == BackendLunar
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat reads an environment variable as a float with a default fallback.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration reads an environment variable as a time.Duration ("500ms", "2s").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
