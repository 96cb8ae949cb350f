package crcgo

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with crcgo-specific context.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithAlgorithm adds the CRC algorithm name to the logger.
func (l *Logger) WithAlgorithm(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("algorithm", name),
	}
}

// WithStore adds a store description to the logger.
func (l *Logger) WithStore(store string) *Logger {
	return &Logger{
		Logger: l.Logger.With("store", store),
	}
}

// LogSum logs the checksum of a single blob.
func (l *Logger) LogSum(ctx context.Context, name string, size int64, checksum uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sum failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "sum completed",
			"name", name,
			"size", size,
			"checksum", checksum,
		)
	}
}

// LogSnapshot logs a snapshot over a prefix.
func (l *Logger) LogSnapshot(ctx context.Context, prefix string, entries int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"prefix", prefix,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot completed",
			"prefix", prefix,
			"entries", entries,
			"bytes", bytes,
		)
	}
}

// LogVerify logs a verification run.
func (l *Logger) LogVerify(ctx context.Context, r *Report, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "verify failed",
			"error", err,
		)
	case !r.OK():
		l.WarnContext(ctx, "verify found damage",
			"manifest", r.ManifestID,
			"checked", r.Checked,
			"mismatched", len(r.Mismatches),
			"missing", len(r.Missing),
		)
	default:
		l.InfoContext(ctx, "verify completed",
			"manifest", r.ManifestID,
			"checked", r.Checked,
		)
	}
}

// LogCommit logs a manifest commit.
func (l *Logger) LogCommit(ctx context.Context, id uint64, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "commit failed",
			"entries", entries,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "manifest committed",
			"id", id,
			"entries", entries,
		)
	}
}
