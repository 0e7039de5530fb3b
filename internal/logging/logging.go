// Package logging configures the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
)

// Config holds logger configuration
type Config struct {
	Level string // debug, info, warn, error
	JSON  bool
}

// Init initializes the global slog logger with the given configuration and
// returns it.
func Init(cfg Config) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
