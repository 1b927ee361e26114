// Package config loads engine configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBPath string

	// Sessions
	JWTSecret   string
	TokenTTL    time.Duration
	SessionFile string

	// Import behavior: when true, rows with unparseable dates are rejected
	// instead of defaulting to today.
	ImportStrictDates bool

	// Logging
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".financify")

	return &Config{
		DBPath:            getEnv("FINANCIFY_DB_PATH", filepath.Join(dataDir, "financify.db")),
		JWTSecret:         getEnv("FINANCIFY_JWT_SECRET", ""),
		TokenTTL:          getEnvDuration("FINANCIFY_TOKEN_TTL", 24*time.Hour),
		SessionFile:       getEnv("FINANCIFY_SESSION_FILE", filepath.Join(dataDir, "session")),
		ImportStrictDates: getEnvBool("FINANCIFY_IMPORT_STRICT_DATES", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns an error describing every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}
	if c.JWTSecret == "" {
		errs = append(errs, "FINANCIFY_JWT_SECRET must be set to a strong random string")
	}
	if c.TokenTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid token TTL %v: must be at least 1 minute", c.TokenTTL))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level %q: must be debug, info, warn or error", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
