package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger: JSON to stdout, info level. Handlers and
// services add request-scoped attrs themselves.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// NewAt returns a logger at the given level, for tests that want debug output.
func NewAt(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
