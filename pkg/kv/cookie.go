package kv

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"
)

const minSecretLength = 32

// CookieOptions are the attributes of cookies written by Cookie.
type CookieOptions struct {
	Prefix   string
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	SameSite http.SameSite
}

type CookieOption func(*CookieOptions)

func WithCookiePrefix(p string) CookieOption {
	return func(o *CookieOptions) { o.Prefix = p }
}

func WithCookieDomain(d string) CookieOption {
	return func(o *CookieOptions) { o.Domain = d }
}

func WithCookieMaxAge(seconds int) CookieOption {
	return func(o *CookieOptions) { o.MaxAge = seconds }
}

func WithCookieSecure(secure bool) CookieOption {
	return func(o *CookieOptions) { o.Secure = secure }
}

// Cookie stores each key in its own signed cookie. Values are readable by the
// client but not forgeable without one of the secrets. The first secret signs;
// all secrets verify so keys can be rotated.
type Cookie struct {
	secrets []string
	opts    CookieOptions
}

func NewCookie(secrets []string, opts ...CookieOption) (*Cookie, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	o := CookieOptions{
		Prefix:   "gw_",
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cookie{secrets: secrets, opts: o}, nil
}

type binding struct {
	w http.ResponseWriter
	r *http.Request

	mu sync.Mutex
	// writes made during this request; nil marks a removal
	pending map[string][]byte
}

type bindingKey struct{}

// Middleware binds the request and response to the context so Get, Set and
// Remove can reach the cookie jar.
func (c *Cookie) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := &binding{w: w, r: r, pending: make(map[string][]byte)}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), bindingKey{}, b)))
	})
}

func bindingFrom(ctx context.Context) (*binding, error) {
	b, ok := ctx.Value(bindingKey{}).(*binding)
	if !ok {
		return nil, ErrNoRequestBinding
	}
	return b, nil
}

func (c *Cookie) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	b, err := bindingFrom(ctx)
	if err != nil {
		return nil, err
	}
	name := c.cookieName(key)

	b.mu.Lock()
	v, written := b.pending[name]
	b.mu.Unlock()
	if written {
		if v == nil {
			return nil, ErrNotFound
		}
		return append([]byte(nil), v...), nil
	}

	ck, err := b.r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c.verify(ck.Value)
}

func (c *Cookie) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	b, err := bindingFrom(ctx)
	if err != nil {
		return err
	}
	name := c.cookieName(key)

	http.SetCookie(b.w, &http.Cookie{
		Name:     name,
		Value:    c.sign(value),
		Path:     c.opts.Path,
		Domain:   c.opts.Domain,
		MaxAge:   c.opts.MaxAge,
		Secure:   c.opts.Secure,
		HttpOnly: true,
		SameSite: c.opts.SameSite,
	})

	b.mu.Lock()
	b.pending[name] = append([]byte{}, value...)
	b.mu.Unlock()
	return nil
}

func (c *Cookie) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	b, err := bindingFrom(ctx)
	if err != nil {
		return err
	}
	name := c.cookieName(key)

	http.SetCookie(b.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     c.opts.Path,
		Domain:   c.opts.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   c.opts.Secure,
		HttpOnly: true,
		SameSite: c.opts.SameSite,
	})

	b.mu.Lock()
	b.pending[name] = nil
	b.mu.Unlock()
	return nil
}

// cookieName maps a namespaced key such as "glutenworld:trial:x" to a valid
// cookie token.
func (c *Cookie) cookieName(key string) string {
	return c.opts.Prefix + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '.'
		}
	}, key)
}

func (c *Cookie) sign(value []byte) string {
	mac := hmac.New(sha256.New, []byte(c.secrets[0]))
	mac.Write(value)
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return base64.RawURLEncoding.EncodeToString(value) + "|" + sig
}

func (c *Cookie) verify(signed string) ([]byte, error) {
	encoded, sig, ok := strings.Cut(signed, "|")
	if !ok {
		return nil, ErrInvalidFormat
	}
	value, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	for _, secret := range c.secrets {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(value)
		expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
		if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) == 1 {
			return value, nil
		}
	}
	return nil, ErrInvalidSignature
}
