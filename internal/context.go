package internal

import (
	"context"
	"time"
)

type userIDKey struct{}

const defaultOpTimeout = 5 * time.Second

// ContextWithUserID stamps the authenticated user's id onto the context.
// The auth middleware calls this once per request after token validation.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user's id, or 0 when the
// request never passed through the auth middleware.
func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(userIDKey{}).(int64)
	return id
}

// WithTimeout bounds an operation, substituting a sane default when the
// caller passes a zero or negative duration.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultOpTimeout
	}
	return context.WithTimeout(ctx, d)
}
