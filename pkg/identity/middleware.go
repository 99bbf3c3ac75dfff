package identity

import (
	"log/slog"
	"net/http"
	"strings"
)

// Extractor pulls a raw token from a request.
type Extractor func(r *http.Request) (string, error)

// BearerExtractor reads "Authorization: Bearer <token>".
func BearerExtractor(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// CookieExtractor reads the token from the named cookie.
func CookieExtractor(name string) Extractor {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", ErrMissingToken
		}
		return c.Value, nil
	}
}

// TokenParser is satisfied by *Parser.
type TokenParser interface {
	Parse(token string) (*Identity, error)
}

// Middleware attaches the identity resolved by the first extractor that
// yields a token. Invalid tokens are logged and treated as anonymous.
func Middleware(p TokenParser, log *slog.Logger, extractors ...Extractor) func(http.Handler) http.Handler {
	if len(extractors) == 0 {
		extractors = []Extractor{BearerExtractor}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, extract := range extractors {
				token, err := extract(r)
				if err != nil {
					continue
				}
				id, err := p.Parse(token)
				if err != nil {
					log.DebugContext(r.Context(), "discarding invalid access token", slog.Any("error", err))
					break
				}
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
