// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Initialize sets up the global slog logger. Interactive terminals get
// a compact colored handler; everything else gets JSON so wrapping
// automation can parse diagnostics.
func Initialize(level slog.Level) *slog.Logger {
	var handler slog.Handler

	if isatty.IsTerminal(os.Stderr.Fd()) {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("logger initialized", "level", level)

	return logger
}
