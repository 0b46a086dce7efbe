package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"PORT", "ENV",
	"CALENDAR_BACKEND", "CALENDAR_MIN_YEAR", "CALENDAR_MAX_YEAR", "CALENDAR_TIMEOUT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BATCH_LIMIT",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv removes all config-related environment variables
func clearEnv() {
	for _, k := range envKeys {
		os.Unsetenv(k)
	}
}

func validConfig() Config {
	return Config{
		Port:            8080,
		Env:             EnvDevelopment,
		CalendarBackend: BackendLunar,
		CalendarMinYear: 1900,
		CalendarMaxYear: 2100,
		CalendarTimeout: time.Second,
		RateLimitRPS:    10,
		RateLimitBurst:  20,
		BatchLimit:      50,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.CalendarBackend != BackendLunar {
		t.Errorf("CalendarBackend = %q, want %q", cfg.CalendarBackend, BackendLunar)
	}
	if cfg.CalendarMinYear != 1900 || cfg.CalendarMaxYear != 2100 {
		t.Errorf("calendar range = %d-%d, want 1900-2100", cfg.CalendarMinYear, cfg.CalendarMaxYear)
	}
	if cfg.CalendarTimeout != 2*time.Second {
		t.Errorf("CalendarTimeout = %v, want 2s", cfg.CalendarTimeout)
	}
	if cfg.BatchLimit != 100 {
		t.Errorf("BatchLimit = %d, want 100", cfg.BatchLimit)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if !cfg.UsesPreciseCalendar() {
		t.Error("UsesPreciseCalendar() = false, want true")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv()

	os.Setenv("PORT", "3000")
	os.Setenv("ENV", "production")
	os.Setenv("CALENDAR_BACKEND", "arithmetic")
	os.Setenv("CALENDAR_TIMEOUT", "250ms")
	os.Setenv("RATE_LIMIT_RPS", "0.5")
	os.Setenv("RATE_LIMIT_BURST", "3")
	os.Setenv("BATCH_LIMIT", "12")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.UsesPreciseCalendar() {
		t.Error("UsesPreciseCalendar() = true, want false")
	}
	if cfg.CalendarTimeout != 250*time.Millisecond {
		t.Errorf("CalendarTimeout = %v, want 250ms", cfg.CalendarTimeout)
	}
	if cfg.RateLimitRPS != 0.5 {
		t.Errorf("RateLimitRPS = %v, want 0.5", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 3 {
		t.Errorf("RateLimitBurst = %d, want 3", cfg.RateLimitBurst)
	}
	if cfg.BatchLimit != 12 {
		t.Errorf("BatchLimit = %d, want 12", cfg.BatchLimit)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("logging = %q/%q, want debug/json", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	clearEnv()

	os.Setenv("PORT", "not-a-number")
	os.Setenv("CALENDAR_TIMEOUT", "soon")
	defer clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.CalendarTimeout != 2*time.Second {
		t.Errorf("CalendarTimeout = %v, want 2s", cfg.CalendarTimeout)
	}
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	clearEnv()

	os.Setenv("CALENDAR_BACKEND", "oracle")
	defer clearEnv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for unknown calendar backend")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "rate limiting disabled", mutate: func(c *Config) { c.RateLimitRPS = 0; c.RateLimitBurst = 0 }},
		{name: "zero timeout", mutate: func(c *Config) { c.CalendarTimeout = 0 }},
		{name: "invalid port", mutate: func(c *Config) { c.Port = 0 }, wantErr: "PORT"},
		{name: "port too high", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "PORT"},
		{name: "invalid env", mutate: func(c *Config) { c.Env = "testing" }, wantErr: "ENV"},
		{name: "unknown backend", mutate: func(c *Config) { c.CalendarBackend = "oracle" }, wantErr: "CALENDAR_BACKEND"},
		{name: "inverted range", mutate: func(c *Config) { c.CalendarMinYear = 2200 }, wantErr: "CALENDAR_MIN_YEAR"},
		{name: "negative timeout", mutate: func(c *Config) { c.CalendarTimeout = -time.Second }, wantErr: "CALENDAR_TIMEOUT"},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimitRPS = -1 }, wantErr: "RATE_LIMIT_RPS"},
		{name: "missing burst", mutate: func(c *Config) { c.RateLimitBurst = 0 }, wantErr: "RATE_LIMIT_BURST"},
		{name: "zero batch", mutate: func(c *Config) { c.BatchLimit = 0 }, wantErr: "BATCH_LIMIT"},
		{name: "invalid log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: "LOG_LEVEL"},
		{name: "invalid log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateJoinsErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = 0
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"PORT", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %v, want mention of %s", err, want)
		}
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := validConfig()
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	cfg.Env = EnvStaging
	if cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("staging reported as development or production")
	}
}
