// Package context carries per-request values across layer boundaries,
// currently just the request id stamped by the HTTP middleware.
package context

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the id stamped on ctx, or "" when the request
// never passed through the middleware (background sweeps, tests).
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
