// Package logging constructs the process-wide slog.Logger, grounded on
// exiledb's cmd/exiledb/main.go log setup: tint for colored terminal output,
// a plain JSON handler for non-interactive use.
package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// New builds a slog.Logger writing to stderr. format "json" selects
// slog.NewJSONHandler; anything else (including "") selects tint's colored
// handler (spec §6's "colored terminal output" collaborator concern).
func New(level, format string) *slog.Logger {
	lvl := parseLevel(level)

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: lvl})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
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
