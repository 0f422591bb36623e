package config

import (
	"log/slog"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "data/todolist.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "data/todolist.db")
	}
	if cfg.JWTIssuer != "todolist-api" {
		t.Errorf("JWTIssuer = %q, want %q", cfg.JWTIssuer, "todolist-api")
	}
	if cfg.JWTAudience != "todolist-api" {
		t.Errorf("JWTAudience = %q, want %q", cfg.JWTAudience, "todolist-api")
	}
	if cfg.SeedDemo {
		t.Error("SeedDemo should default to false")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_MissingSecretFailsFast(t *testing.T) {
	// No implicit fallback key: an unset JWT_SECRET must be a startup error.
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail when JWT_SECRET is unset")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error = %v, want mention of JWT_SECRET", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "9999")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("SEED_DEMO", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.DBPath != ":memory:" {
		t.Errorf("DBPath = %q, want :memory:", cfg.DBPath)
	}
	if !cfg.SeedDemo {
		t.Error("SeedDemo should be true")
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16-chars!!")
	t.Setenv("PORT", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a negative port")
	}
}
