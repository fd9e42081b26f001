package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithContext stores a logger in the context for downstream handlers.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the contextual logger, falling back to the process
// default so callers never have to nil-check.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
