package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every runtime knob of the application.
type Config struct {
	// Database
	DBPath string

	// Credential scheme: "plain" or "bcrypt"
	CredentialScheme string

	// Logging
	LogLevel slog.Level
}

// Load reads configuration from the environment, with a .env file as an
// optional source. Missing values fall back to defaults compatible with
// databases from earlier releases (finance.db next to the binary, plaintext
// credentials).
func Load() *Config {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	return &Config{
		DBPath:           getEnv("FINANCE_DB_PATH", "finance.db"),
		CredentialScheme: getEnv("CREDENTIAL_SCHEME", "plain"),
		LogLevel:         parseLevel(getEnv("LOG_LEVEL", "info")),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	} else if dir := filepath.Dir(c.DBPath); dir != "." && dir != "" && c.DBPath != ":memory:" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
			}
		}
	}

	switch c.CredentialScheme {
	case "plain", "bcrypt":
	default:
		errs = append(errs, fmt.Sprintf("invalid credential scheme '%s': must be 'plain' or 'bcrypt'", c.CredentialScheme))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
