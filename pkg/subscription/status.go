package subscription

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
)

// Status is the commercial status of one identity. Subscribed and Trialing
// may both be true while a trial converts into a subscription.
type Status struct {
	Subscribed     bool       `json:"subscribed"`
	Tier           string     `json:"subscription_tier,omitempty"`
	RenewsAt       *time.Time `json:"subscription_end,omitempty"`
	Trialing       bool       `json:"is_trialing"`
	TrialExpiresAt *time.Time `json:"trial_end,omitempty"`
}

// HasAccessAt reports whether the status grants access at now.
// A trial counts only while its expiry is strictly after now.
func (s Status) HasAccessAt(now time.Time) bool {
	if s.Subscribed {
		return true
	}
	return s.TrialActiveAt(now)
}

// TrialActiveAt reports whether a running trial has not yet expired.
func (s Status) TrialActiveAt(now time.Time) bool {
	return s.Trialing && s.TrialExpiresAt != nil && s.TrialExpiresAt.After(now)
}

// TrialDaysRemaining is DaysRemaining for the trial expiry, or 0 when no
// trial is running.
func (s Status) TrialDaysRemaining(now time.Time) int {
	if !s.Trialing || s.TrialExpiresAt == nil {
		return 0
	}
	return DaysRemaining(*s.TrialExpiresAt, now)
}

// DaysRemaining returns the whole days left until expiresAt, rounded up and
// never negative. Display only; do not derive access from it.
func DaysRemaining(expiresAt, now time.Time) int {
	left := expiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(float64(left) / float64(24*time.Hour)))
}

// Source is the backend commercial-status query.
type Source interface {
	Status(ctx context.Context, identityID uuid.UUID) (Status, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, identityID uuid.UUID) (Status, error)

func (f SourceFunc) Status(ctx context.Context, identityID uuid.UUID) (Status, error) {
	return f(ctx, identityID)
}
