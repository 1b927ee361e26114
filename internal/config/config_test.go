package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		DBPath:    "/tmp/financify.db",
		JWTSecret: "a-strong-secret",
		TokenTTL:  24 * time.Hour,
		LogLevel:  "info",
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		if err := validConfig().Validate(); err != nil {
			t.Errorf("Expected valid config, got %v", err)
		}
	})

	t.Run("missing secret rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Expected an error for empty JWT secret")
		}
	})

	t.Run("tiny token TTL rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.TokenTTL = time.Second
		if err := cfg.Validate(); err == nil {
			t.Error("Expected an error for sub-minute token TTL")
		}
	})

	t.Run("bad log level rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.LogLevel = "loud"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected an error for unknown log level")
		}
	})

	t.Run("all problems reported together", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate()
		if err == nil {
			t.Fatal("Expected validation to fail")
		}
		for _, want := range []string{"database path", "FINANCIFY_JWT_SECRET", "token TTL", "log level"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("Expected error to mention %q, got: %v", want, err)
			}
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"FINANCIFY_DB_PATH", "FINANCIFY_TOKEN_TTL", "FINANCIFY_SESSION_FILE", "FINANCIFY_IMPORT_STRICT_DATES"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.DBPath == "" {
		t.Error("Expected a default database path")
	}
	if cfg.SessionFile == "" {
		t.Error("Expected a default session file path")
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("Default token TTL: got %v, want 24h", cfg.TokenTTL)
	}
	if cfg.ImportStrictDates {
		t.Error("Strict date imports must default to off")
	}
}
