package auth

import "context"

type ctxKey int

const (
	ctxKeySub ctxKey = iota
	ctxKeyRole
)

// WithIdentity stores the authenticated subject and role on the context.
// Engine calls take these as explicit parameters; the context is only the
// hand-off between middleware and handler.
func WithIdentity(ctx context.Context, sub, role string) context.Context {
	ctx = context.WithValue(ctx, ctxKeySub, sub)
	return context.WithValue(ctx, ctxKeyRole, role)
}

func SubjectFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeySub).(string); ok {
		return s
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyRole).(string); ok {
		return s
	}
	return ""
}
