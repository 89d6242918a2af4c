package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextTokenKey ctxKey = "bearerToken"

// TokenFromContext returns the bearer token forwarded from the incoming request, if any.
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if token, ok := ctx.Value(ContextTokenKey).(string); ok {
		return token
	}
	return ""
}

func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextTokenKey, token)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
