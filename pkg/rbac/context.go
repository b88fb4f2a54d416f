package rbac

import "context"

type roleCtxKey struct{}

// SetRoleToContext stores the principal's effective role in the context.
// An empty role is not stored.
func SetRoleToContext(ctx context.Context, role string) context.Context {
	if role == "" {
		return ctx
	}
	return context.WithValue(ctx, roleCtxKey{}, role)
}

// GetRoleFromContext returns the role stored by SetRoleToContext.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleCtxKey{}).(string)
	return role, ok
}
