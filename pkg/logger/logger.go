// Package logger provides the structured logger threaded through every
// component of this service, adapted from the teacher's
// pkg/logger/logger.go: a thin wrapper around log/slog that picks a JSON
// handler in production and a text handler in development.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger for structured logging.
type Logger struct {
	logger *slog.Logger
}

// New builds a Logger whose handler depends on ENVIRONMENT: text output
// when it's "development", JSON otherwise.
func New() *Logger {
	var handler slog.Handler
	if os.Getenv("ENVIRONMENT") == "development" {
		handler = slog.NewTextHandler(os.Stdout, nil)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	return &Logger{logger: slog.New(handler)}
}

// Default wraps slog.Default(), for call sites (mainly tests) that just
// need a throwaway logger without an explicit environment.
func Default() *Logger {
	return &Logger{logger: slog.Default()}
}

// NewText builds a Logger that always uses a text handler, writing to w.
// Used by CLI subcommands whose stdout is reserved for structured JSON
// output (spec.md §6 CLI) and must never be interleaved with log lines.
func NewText(w io.Writer) *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(w, nil))}
}

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// With returns a Logger with args bound as persistent fields.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}
