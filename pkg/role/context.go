package role

import "context"

type roleContextKey struct{}

// WithRole stores a resolved role in ctx.
func WithRole(ctx context.Context, r Role) context.Context {
	return context.WithValue(ctx, roleContextKey{}, r)
}

// FromContext returns the role stored by WithRole, or Standard.
func FromContext(ctx context.Context) Role {
	if r, ok := ctx.Value(roleContextKey{}).(Role); ok {
		return r
	}
	return Standard
}
