package pincache

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pincache-specific context.
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
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithFile adds a file field to the logger.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogEvict logs an eviction, including a flush failure if one occurred.
func (l *Logger) LogEvict(name string, dirty bool, err error) {
	if err != nil {
		l.Error("evict flush failed",
			"file", name,
			"error", err,
		)
	} else {
		l.Debug("evicted",
			"file", name,
			"flushed", dirty,
		)
	}
}

// LogTeardownFlush logs a flush performed during Close.
func (l *Logger) LogTeardownFlush(name string, pins int, err error) {
	if err != nil {
		l.Error("teardown flush failed",
			"file", name,
			"pins", pins,
			"error", err,
		)
	} else {
		l.Debug("teardown flush completed",
			"file", name,
			"pins", pins,
		)
	}
}
