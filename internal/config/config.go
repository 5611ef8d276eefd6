// Package config reads markassist settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/markassist/markassist/internal/llm"
	"github.com/markassist/markassist/internal/store"
)

// Config holds every setting the commands need.
type Config struct {
	DB store.Config

	HTTPAddr    string
	CORSOrigins []string
	// RateLimit is the number of API requests allowed per client IP per minute.
	RateLimit int

	LogLevel string

	LLM llm.Config
	// LLMConfigured is false when no provider was selected and no API key
	// was discovered.
	LLMConfigured bool
}

// Load reads .env from the working directory if present, then the process
// environment. Variables already set in the environment win over .env.
func Load() (Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit .env paths. Missing files are skipped.
func LoadFiles(paths ...string) (Config, error) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", p, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	cfg := Config{
		DB: store.Config{
			Driver: store.Driver(envOr("MARKASSIST_DB_DRIVER", string(store.DriverSQLite))),
			DSN:    os.Getenv("MARKASSIST_DB_DSN"),
		},
		HTTPAddr:    envOr("MARKASSIST_HTTP_ADDR", ":8080"),
		CORSOrigins: csvOr("MARKASSIST_CORS_ORIGINS", "http://localhost:3000"),
		LogLevel:    envOr("MARKASSIST_LOG_LEVEL", "info"),
	}

	limit, err := strconv.Atoi(envOr("MARKASSIST_RATE_LIMIT", "120"))
	if err != nil || limit <= 0 {
		return Config{}, fmt.Errorf("MARKASSIST_RATE_LIMIT must be a positive integer, got %q", os.Getenv("MARKASSIST_RATE_LIMIT"))
	}
	cfg.RateLimit = limit

	if os.Getenv("MARKASSIST_LLM_PROVIDER") != "" {
		cfg.LLM = llm.ConfigFromEnv()
		cfg.LLMConfigured = true
	} else if discovered, ok := llm.DiscoverConfig(); ok {
		cfg.LLM = discovered
		cfg.LLMConfigured = true
	}

	return cfg, nil
}

// ResolveDSN fills in the default SQLite database path when no DSN is set.
func (c *Config) ResolveDSN() error {
	if c.DB.DSN != "" {
		return nil
	}
	if c.DB.Driver != store.DriverSQLite {
		return fmt.Errorf("MARKASSIST_DB_DSN is required for the %s driver", c.DB.Driver)
	}
	p, err := store.DefaultDBPath()
	if err != nil {
		return err
	}
	c.DB.DSN = p
	return nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func csvOr(k, def string) []string {
	parts := strings.Split(envOr(k, def), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
