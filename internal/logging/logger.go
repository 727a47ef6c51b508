package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
func Setup(env string) {
	slog.SetDefault(slog.New(NewStdoutHandler(env)))
}

// NewStdoutHandler logs debug records outside production.
func NewStdoutHandler(env string) slog.Handler {
	level := slog.LevelDebug
	if env == "production" {
		level = slog.LevelInfo
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}
