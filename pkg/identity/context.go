package identity

import "context"

type contextKey struct{ name string }

func (c contextKey) String() string { return c.name }

var identityContextKey = &contextKey{name: "identity"}

// WithIdentity stores id in ctx. A nil id leaves ctx anonymous.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	if id == nil {
		return ctx
	}
	return context.WithValue(ctx, identityContextKey, id)
}

// FromContext returns the identity attached by Middleware.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok && id != nil
}

// IDFromContext is a logger.ContextExtractor-friendly accessor.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	return id.ID.String(), true
}
