package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markassist/markassist/internal/store"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MARKASSIST_DB_DRIVER", "MARKASSIST_DB_DSN", "MARKASSIST_HTTP_ADDR",
		"MARKASSIST_CORS_ORIGINS", "MARKASSIST_RATE_LIMIT", "MARKASSIST_LOG_LEVEL",
		"MARKASSIST_LLM_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, store.DriverSQLite, cfg.DB.Driver)
	assert.Empty(t, cfg.DB.DSN)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LLMConfigured)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MARKASSIST_DB_DRIVER", "pgx")
	t.Setenv("MARKASSIST_DB_DSN", "postgres://localhost/marks")
	t.Setenv("MARKASSIST_CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("MARKASSIST_RATE_LIMIT", "30")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, store.DriverPgx, cfg.DB.Driver)
	assert.Equal(t, "postgres://localhost/marks", cfg.DB.DSN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 30, cfg.RateLimit)
	assert.True(t, cfg.LLMConfigured)
	assert.Equal(t, "openai", cfg.LLM.Provider)
}

func TestFromEnv_BadRateLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("MARKASSIST_RATE_LIMIT", "lots")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "MARKASSIST_RATE_LIMIT")
}

func TestLoadFiles_DotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MARKASSIST_LOG_LEVEL=debug\nMARKASSIST_HTTP_ADDR=:9000\n"), 0o644))
	t.Setenv("MARKASSIST_HTTP_ADDR", ":7000")

	cfg, err := LoadFiles(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":7000", cfg.HTTPAddr, "environment wins over .env")
}

func TestResolveDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg := Config{DB: store.Config{Driver: store.DriverSQLite}}
	require.NoError(t, cfg.ResolveDSN())
	assert.Equal(t, "marks.db", filepath.Base(cfg.DB.DSN))

	cfg = Config{DB: store.Config{Driver: store.DriverPostgres}}
	assert.Error(t, cfg.ResolveDSN())
}
