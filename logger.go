package memkit

import (
	"context"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/memkit/alloc"
)

// Logger wraps slog.Logger with memkit-specific context.
// This provides structured logging with consistent field names.
//
// Logger implements alloc.Observer, so it can be handed to a strategy with
// alloc.WithObserver to trace every allocation and free.
type Logger struct {
	*slog.Logger
}

var _ alloc.Observer = (*Logger)(nil)

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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithStrategy adds a strategy field to the logger.
func (l *Logger) WithStrategy(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", name),
	}
}

// WithContainer adds a container field to the logger.
func (l *Logger) WithContainer(kind string) *Logger {
	return &Logger{
		Logger: l.Logger.With("container", kind),
	}
}

// LogAlloc logs an allocation attempt.
func (l *Logger) LogAlloc(ctx context.Context, strategy string, bytes int, err error) {
	if err != nil {
		l.WarnContext(ctx, "allocation failed",
			"strategy", strategy,
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "allocation completed",
			"strategy", strategy,
			"bytes", bytes,
			"size", humanize.IBytes(uint64(bytes)), //nolint:gosec // bytes > 0 on success
		)
	}
}

// LogFree logs a released block.
func (l *Logger) LogFree(ctx context.Context, strategy string, bytes int) {
	l.DebugContext(ctx, "block freed",
		"strategy", strategy,
		"bytes", bytes,
	)
}

// LogStats logs a strategy's counters.
func (l *Logger) LogStats(ctx context.Context, strategy string, s alloc.Stats) {
	l.InfoContext(ctx, "allocator stats",
		"strategy", strategy,
		"allocs", s.Allocs,
		"frees", s.Frees,
		"failures", s.Failures,
		"live", humanize.IBytes(uint64(max(s.LiveBytes, 0))),
		"peak", humanize.IBytes(uint64(max(s.PeakBytes, 0))),
	)
}

// RecordAlloc implements alloc.Observer.
func (l *Logger) RecordAlloc(strategy string, bytes int, err error) {
	l.LogAlloc(context.Background(), strategy, bytes, err)
}

// RecordFree implements alloc.Observer.
func (l *Logger) RecordFree(strategy string, bytes int) {
	l.LogFree(context.Background(), strategy, bytes)
}
