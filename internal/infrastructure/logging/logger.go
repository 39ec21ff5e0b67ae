// Package logging provides structured logging utilities.
//
// The default console format is compact and scannable:
// [LEVEL] [SCOPE] [HH:MM:SS] message key=value
// Setting format to "json" switches to slog's JSON handler for log
// shippers.
package logging

import (
	"log/slog"
	"os"

	"github.com/auditlab/invoice-reconciler/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = NewConsoleHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// NewLoggerWithScope creates a logger tagged with a subsystem name
// (e.g., "api", "cli", "ocr") shown in the console prefix.
func NewLoggerWithScope(cfg config.LoggingConfig, scope string) *slog.Logger {
	return NewLogger(cfg).With("scope", scope)
}
