package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON-structured logger for the editor process.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
