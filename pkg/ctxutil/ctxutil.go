// Package ctxutil carries request-scoped values through context.Context.
package ctxutil

import (
	"context"
	"log/slog"
)

type requestIDKey struct{}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromCtx returns the request ID, or "" if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDAttr is the log attribute used to correlate records of one request.
func RequestIDAttr(ctx context.Context) slog.Attr {
	return slog.String("request_id", RequestIDFromCtx(ctx))
}
