// Package ctxlog carries a *zap.Logger through context.Context.
package ctxlog

import (
	"context"

	"go.uber.org/zap"
)

type key struct{}

var loggerKey = key{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or zap.L() when there is
// none. Library packages are called without a configured logger often
// enough that a missing one is not a programming error here.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok && logger != nil {
			return logger
		}
	}
	return zap.L()
}
