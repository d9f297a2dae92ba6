package bitvis

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with bitvis-specific context.
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

// WithStoreID adds a store_id field to the logger, used once at
// construction to tag every subsequent log line with the store instance.
func (l *Logger) WithStoreID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("store_id", id),
	}
}

// LogGroupOpen logs a new group being opened.
func (l *Logger) LogGroupOpen(ctx context.Context, csn int64) {
	l.DebugContext(ctx, "group opened",
		"csn", csn,
	)
}

// LogPlaceholder logs a placeholder reservation (phase 1/2 of insert).
func (l *Logger) LogPlaceholder(ctx context.Context, csn int64, opened bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "placeholder reservation failed",
			"csn", csn,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "placeholder reserved",
		"csn", csn,
		"opened_group", opened,
	)
}

// LogMaterialize logs a placeholder being filled with content (phase 3).
func (l *Logger) LogMaterialize(ctx context.Context, csn int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "materialize failed",
			"csn", csn,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "materialize completed",
			"csn", csn,
		)
	}
}

// LogPropagation logs how many sibling deltas a materialize call updated.
func (l *Logger) LogPropagation(ctx context.Context, csn int64, siblingsUpdated int) {
	l.DebugContext(ctx, "propagated delta into siblings",
		"csn", csn,
		"siblings_updated", siblingsUpdated,
	)
}

// LogRead logs a CSN lookup.
func (l *Logger) LogRead(ctx context.Context, csn int64, found bool) {
	l.DebugContext(ctx, "read completed",
		"csn", csn,
		"found", found,
	)
}

// LogSweep logs a retention sweep's report.
func (l *Logger) LogSweep(ctx context.Context, groupsReclaimable, deltasReclaimable int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sweep failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "sweep completed",
		"groups_reclaimable", groupsReclaimable,
		"deltas_reclaimable", deltasReclaimable,
	)
}
