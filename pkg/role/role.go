// Package role resolves the application-level role of an identity.
//
// Roles are not carried by the access token; they are queried from the
// backend. The only role with special meaning is Owner, which bypasses every
// commercial check. That rule lives in BypassesCommercialGating and nowhere
// else.
package role

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Role is the application-level role of a user.
type Role string

const (
	Standard Role = "standard"
	Owner    Role = "owner"
)

var ErrRoleFetchFailed = errors.New("role.fetch_failed")

// Parse maps a stored role name to a Role. Unknown or empty values are
// Standard so that a typo can never grant privileges.
func Parse(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case Owner:
		return Owner
	default:
		return Standard
	}
}

func (r Role) String() string { return string(r) }

// BypassesCommercialGating reports whether r is exempt from subscription and
// trial checks.
func BypassesCommercialGating(r Role) bool {
	return r == Owner
}

// Source is the backend role query.
type Source interface {
	Role(ctx context.Context, identityID uuid.UUID) (Role, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, identityID uuid.UUID) (Role, error)

func (f SourceFunc) Role(ctx context.Context, identityID uuid.UUID) (Role, error) {
	return f(ctx, identityID)
}

// Static returns a Source mapping known ids to roles; all others are Standard.
func Static(roles map[uuid.UUID]Role) Source {
	return SourceFunc(func(_ context.Context, id uuid.UUID) (Role, error) {
		if r, ok := roles[id]; ok {
			return r, nil
		}
		return Standard, nil
	})
}
