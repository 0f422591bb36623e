// Package config loads the application configuration from the environment.
//
// Everything the auth and token components need is passed down explicitly
// from this one struct — there is no package-level state and no fallback
// signing key. If JWT_SECRET is unset the process refuses to start.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration. Fields are populated from the
// environment by Load; defaults are declared in the struct tags so the
// whole surface is visible in one place.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/todolist.db"`

	// JWTSecret signs and verifies access tokens. Required — generate one
	// with: openssl rand -hex 32
	JWTSecret   string `env:"JWT_SECRET"`
	JWTIssuer   string `env:"JWT_ISSUER" envDefault:"todolist-api"`
	JWTAudience string `env:"JWT_AUDIENCE" envDefault:"todolist-api"`

	// SeedDemo inserts a demo user and a handful of todos on startup when
	// the store is empty. For local development only.
	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config and validates the parts that
// have no safe default.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: JWT_SECRET must be set")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: PORT %d out of range", cfg.Port)
	}

	return cfg, nil
}
