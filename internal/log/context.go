// SPDX-License-Identifier: MIT

package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey string

const runIDKey ctxKey = "run_id"

// ContextWithRunID stores the provided lint run ID in the context.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run ID from context if present.
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}

// FromContext returns the base logger enriched with correlation fields
// from ctx.
func FromContext(ctx context.Context) zerolog.Logger {
	return WithContext(ctx, Base())
}

// WithContext enriches the supplied logger with correlation fields from ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return logger
	}
	if rid := RunIDFromContext(ctx); rid != "" {
		return logger.With().Str("run_id", rid).Logger()
	}
	return logger
}

// WithComponentFromContext returns a component logger enriched with
// correlation fields from ctx.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return WithContext(ctx, WithComponent(component))
}
