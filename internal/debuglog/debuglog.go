// Package debuglog provides the optional validation debug log. Logging is
// best-effort: failures to open or write the log never reach the caller.
package debuglog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open returns a JSON logger appending to path when enabled, or a discarding
// logger otherwise. The returned close function is always safe to call.
func Open(path string, enabled bool) (*slog.Logger, func() error) {
	noop := func() error { return nil }
	if !enabled || path == "" {
		return Discard(), noop
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Discard(), noop
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return Discard(), noop
	}

	w := &bestEffortWriter{w: f}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, f.Close
}

// bestEffortWriter swallows write errors so that a full disk or closed file
// cannot change the outcome of a validation.
type bestEffortWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (b *bestEffortWriter) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.w.Write(p)
	return len(p), nil
}

type contextKey struct{}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger attached to ctx, or a discarding logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return Discard()
}
