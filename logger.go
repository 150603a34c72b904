package shelfgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with shelfgo-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))}
}

// WithBlob adds the blob name to the logger.
func (l *Logger) WithBlob(name string) *Logger {
	return &Logger{Logger: l.Logger.With("blob", name)}
}

// LogCreate logs an item creation.
func (l *Logger) LogCreate(ctx context.Context, id int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "create item failed", "error", err)
	} else {
		l.DebugContext(ctx, "item created", "id", id)
	}
}

// LogList logs a list operation.
func (l *Logger) LogList(ctx context.Context, returned, total int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "list items failed", "error", err)
	} else {
		l.DebugContext(ctx, "items listed", "returned", returned, "total", total)
	}
}

// LogStatistics logs a statistics read.
func (l *Logger) LogStatistics(ctx context.Context, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "statistics failed", "error", err)
	} else {
		l.DebugContext(ctx, "statistics served", "duration", duration)
	}
}
