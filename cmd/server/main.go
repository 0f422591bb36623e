// Package main is the entry point for the todo list API server.
//
// main stays minimal: load configuration, build the logger, hand both to
// the server package, and exit non-zero on failure. Everything else lives
// in internal/.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/todolist-api/internal/config"
	"github.com/sakif/todolist-api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger's level comes from the config, so configuration
		// failures are reported with a bootstrap logger.
		slog.New(slog.NewTextHandler(os.Stderr, nil)).
			Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// The SQLite file lives in a directory that may not exist yet.
	// ":memory:" has no directory to create.
	if cfg.DBPath != ":memory:" {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				logger.Error("failed to create database directory",
					slog.String("dir", dir),
					slog.String("error", err.Error()),
				)
				os.Exit(1)
			}
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
