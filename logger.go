package terngo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with terngo-specific context.
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

// WithStrategy adds a strategy field to the logger.
func (l *Logger) WithStrategy(strategy Strategy) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", strategy.String()),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogQuantize logs a quantize operation.
func (l *Logger) LogQuantize(ctx context.Context, dimension, nonZero int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "quantize failed",
			"dimension", dimension,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "quantize completed",
			"dimension", dimension,
			"non_zero", nonZero,
		)
	}
}

// LogReconstruct logs a reconstruct operation.
func (l *Logger) LogReconstruct(ctx context.Context, dimension int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reconstruct failed",
			"dimension", dimension,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "reconstruct completed",
			"dimension", dimension,
		)
	}
}

// LogBatchSimilarity logs a batch similarity operation.
func (l *Logger) LogBatchSimilarity(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch similarity failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "batch similarity completed",
			"count", count,
		)
	}
}

// LogBackendInit logs the compute backend selected at startup.
func (l *Logger) LogBackendInit(ctx context.Context, name string, accelerated, fellBack bool, reason string) {
	if fellBack {
		l.InfoContext(ctx, "compute backend fell back",
			"backend", name,
			"reason", reason,
		)
	} else {
		l.InfoContext(ctx, "compute backend selected",
			"backend", name,
			"accelerated", accelerated,
		)
	}
}
