package identity

import "github.com/google/uuid"

// Identity is the authenticated user. It carries no role; roles come from
// the role query.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email,omitempty"`
}
