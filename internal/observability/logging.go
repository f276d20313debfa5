// Package observability provides logging, metrics, and tracing.
package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the application's JSON slog logger. Debug level is only
// enabled outside production profiles.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "development" || env == "test" {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}
