package utils

import (
	"log/slog"
	"os"
)

// SetupLogger builds the process logger: readable text output at debug level
// for local development, JSON at info level everywhere else.
func SetupLogger(env string) *slog.Logger {
	if env == "local" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
