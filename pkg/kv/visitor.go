package kv

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	DefaultVisitorCookie = "gw_visitor"
	visitorMaxAge        = 365 * 24 * 60 * 60
)

type visitorKey struct{}

// WithVisitor stores the anonymous visitor id in ctx.
func WithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, visitorKey{}, id)
}

// VisitorFromContext returns the anonymous visitor id, if any.
func VisitorFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(visitorKey{}).(string)
	return id, ok && id != ""
}

// VisitorMiddleware assigns every browser a stable random visitor id kept in
// a long-lived cookie. The id only namespaces server-side storage; it is not
// an identity.
func VisitorMiddleware(cookieName string, secure bool) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultVisitorCookie
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   visitorMaxAge,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithVisitor(r.Context(), id)))
		})
	}
}
