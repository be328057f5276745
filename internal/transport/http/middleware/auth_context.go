package middleware

import "context"

type ctxKey int

const (
	ctxUserID ctxKey = iota
	ctxRole
)

// WithUser stamps the authenticated identity on ctx. Handlers read it
// back through the FromContext accessors rather than re-parsing claims.
func WithUser(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxRole, role)
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(ctxUserID).(int64)
	return v, ok && v > 0
}

func RoleFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxRole).(string)
	return v, ok && v != ""
}
