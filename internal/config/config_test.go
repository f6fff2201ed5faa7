package config

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FINANCE_DB_PATH", "")
	t.Setenv("CREDENTIAL_SCHEME", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()

	assert.Equal(t, "finance.db", cfg.DBPath)
	assert.Equal(t, "plain", cfg.CredentialScheme)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FINANCE_DB_PATH", "/tmp/custom.db")
	t.Setenv("CREDENTIAL_SCHEME", "bcrypt")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "bcrypt", cfg.CredentialScheme)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestValidateRejectsUnknownScheme(t *testing.T) {
	cfg := &Config{DBPath: "finance.db", CredentialScheme: "md5"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credential scheme")
}

func TestValidateRejectsEmptyDBPath(t *testing.T) {
	cfg := &Config{DBPath: "", CredentialScheme: "plain"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path")
}

func TestValidateCreatesMissingDBDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := &Config{DBPath: filepath.Join(dir, "finance.db"), CredentialScheme: "plain"}

	require.NoError(t, cfg.Validate())
	assert.DirExists(t, dir)
}

func TestValidateAllowsMemoryPath(t *testing.T) {
	cfg := &Config{DBPath: ":memory:", CredentialScheme: "plain"}
	assert.NoError(t, cfg.Validate())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"ERROR":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}
