package logger

import (
	"context"

	"go.uber.org/zap"
)

// loggerKey keys the request-scoped logger inside a context.
type loggerKey struct{}

// ContextWithLogger attaches a request-scoped logger to the context so
// handlers further down the chain log with the request fields already bound.
func ContextWithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// FromContext returns the logger attached by ContextWithLogger. Callers
// outside a request scope get a no-op logger rather than nil.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}
