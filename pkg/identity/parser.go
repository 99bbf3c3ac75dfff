package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload issued by the auth collaborator.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Parser validates HS256 access tokens.
type Parser struct {
	secret []byte
	leeway time.Duration
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLeeway tolerates clock skew when validating exp/nbf.
func WithLeeway(d time.Duration) ParserOption {
	return func(p *Parser) { p.leeway = d }
}

func NewParser(secret string, opts ...ParserOption) (*Parser, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	p := &Parser{secret: []byte(secret)}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse validates token and returns the identity it names.
func (p *Parser) Parse(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(p.leeway))
	if err != nil || !parsed.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.Join(ErrInvalidSubject, err)
	}

	return &Identity{ID: id, Email: claims.Email}, nil
}

// Issue signs a token for id. The production issuer is the auth
// collaborator; this exists for local tooling and tests.
func (p *Parser) Issue(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
