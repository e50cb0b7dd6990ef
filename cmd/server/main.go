// Package main is the entry point for the survivaldisc server. It stays
// minimal: load config, build the logger and the optional annotation
// provider, then hand everything to internal/server.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/survivaldisc/internal/annotate"
	"github.com/sakif/survivaldisc/internal/config"
	"github.com/sakif/survivaldisc/internal/server"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// The auth cookie is worthless if anyone can forge it, so a missing
	// secret is a startup error, not a warning.
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set — generate one with: openssl rand -hex 32")
		os.Exit(1)
	}

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// The annotation provider is optional: with no API key the server runs
	// with fixed fallback strings and never makes a network call.
	var annotator annotate.Provider = annotate.Static{}
	if cfg.GeminiAPIKey != "" {
		annotator = annotate.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		logger.Info("annotation provider enabled", slog.String("model", cfg.GeminiModel))
	} else {
		logger.Info("no GEMINI_API_KEY set — using static annotation fallbacks")
	}

	srv, err := server.New(cfg, annotator, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// logLevel maps the LOG_LEVEL string to a slog level, defaulting to info.
func logLevel(s string) slog.Level {
	switch s {
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
