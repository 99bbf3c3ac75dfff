package gate

import (
	"errors"
	"time"

	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/role"
	"github.com/carlfalc/glutenworld-sub001/pkg/subscription"
)

// Outcome is what the caller should do with the protected content.
type Outcome string

const (
	OutcomePending           Outcome = "pending"
	OutcomeRender            Outcome = "render"
	OutcomeRedirectToAuth    Outcome = "redirectToAuth"
	OutcomeRedirectToPaywall Outcome = "redirectToPaywall"
)

// Reason explains an outcome.
type Reason string

const (
	ReasonAuthUnresolved    Reason = "auth_unresolved"
	ReasonLoading           Reason = "loading"
	ReasonStatusFetchFailed Reason = "status_fetch_failed"
	ReasonUnauthenticated   Reason = "unauthenticated"
	ReasonOwner             Reason = "owner"
	ReasonSubscribed        Reason = "subscribed"
	ReasonTrialing          Reason = "trialing"
	ReasonAccessDenied      Reason = "access_denied"
)

// Input holds every observation the gate decides on.
type Input struct {
	Identity Observed[*identity.Identity]
	Status   Observed[subscription.Status]
	Role     Observed[role.Role]
	Now      time.Time
}

// Decision is the result of Decide. Err is set only for pending outcomes
// caused by a failed fetch, so callers can offer a retry.
type Decision struct {
	Outcome Outcome
	Reason  Reason
	Err     error
}

// Decide applies the gate rules to in. It has no side effects.
func Decide(in Input) Decision {
	switch in.Identity.Phase {
	case PhaseSettled:
	case PhaseFailed:
		return Decision{Outcome: OutcomePending, Reason: ReasonAuthUnresolved, Err: in.Identity.Err}
	default:
		return Decision{Outcome: OutcomePending, Reason: ReasonAuthUnresolved}
	}

	if in.Identity.Value == nil {
		return Decision{Outcome: OutcomeRedirectToAuth, Reason: ReasonUnauthenticated}
	}

	if AllSettled(in.Status.Phase, in.Role.Phase) == PhasePending {
		return Decision{Outcome: OutcomePending, Reason: ReasonLoading}
	}

	if in.Role.Phase == PhaseFailed {
		return Decision{
			Outcome: OutcomePending,
			Reason:  ReasonStatusFetchFailed,
			Err:     errors.Join(subscription.ErrStatusFetchFailed, in.Role.Err),
		}
	}

	if role.BypassesCommercialGating(in.Role.Value) {
		return Decision{Outcome: OutcomeRender, Reason: ReasonOwner}
	}

	if in.Status.Phase == PhaseFailed {
		err := in.Status.Err
		if !errors.Is(err, subscription.ErrStatusFetchFailed) {
			err = errors.Join(subscription.ErrStatusFetchFailed, err)
		}
		return Decision{Outcome: OutcomePending, Reason: ReasonStatusFetchFailed, Err: err}
	}

	status := in.Status.Value
	if status.Subscribed {
		return Decision{Outcome: OutcomeRender, Reason: ReasonSubscribed}
	}
	if status.TrialActiveAt(in.Now) {
		return Decision{Outcome: OutcomeRender, Reason: ReasonTrialing}
	}
	return Decision{Outcome: OutcomeRedirectToPaywall, Reason: ReasonAccessDenied}
}
