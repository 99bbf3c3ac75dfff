package httpapi

import (
	"net/http"
	"strconv"

	"github.com/carlfalc/glutenworld-sub001/handler"
	"github.com/carlfalc/glutenworld-sub001/pkg/gate"
	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/role"
	"github.com/carlfalc/glutenworld-sub001/pkg/subscription"
)

type accessView struct {
	Outcome       gate.Outcome         `json:"outcome"`
	Reason        gate.Reason          `json:"reason"`
	Role          role.Role            `json:"role"`
	SignedIn      bool                 `json:"signed_in"`
	Status        *subscription.Status `json:"status,omitempty"`
	HasAccess     bool                 `json:"has_access"`
	DaysRemaining int                  `json:"trial_days_remaining"`
}

func (a *api) resolver() *subscription.Resolver {
	return subscription.NewResolver(a.Statuses,
		subscription.WithLogger(a.Logger),
		subscription.WithRecorder(a.Metrics),
		subscription.WithClock(a.Now),
	)
}

// access reports what the gate would decide for the caller right now.
func (a *api) access(r *http.Request) handler.Response {
	ctx := r.Context()
	id, _ := identity.FromContext(ctx)

	in := gate.Collect(ctx, id, a.resolver(), a.Roles, a.Now())
	d := gate.Decide(in)
	a.Metrics.GateDecision(string(d.Outcome))

	if d.Err != nil {
		return handler.JSONError(
			handler.ServiceUnavailable(string(d.Reason), "We could not check your access. Please retry.", d.Err),
			handler.WithJSONHeader("Retry-After", strconv.Itoa(int(a.retryAfter().Seconds()))),
			handler.WithJSONMeta(map[string]any{"retry": true}),
		)
	}

	view := accessView{
		Outcome:  d.Outcome,
		Reason:   d.Reason,
		Role:     in.Role.Value,
		SignedIn: id != nil,
	}
	if id != nil && in.Status.Phase == gate.PhaseSettled {
		st := in.Status.Value
		view.Status = &st
		view.HasAccess = st.HasAccessAt(in.Now)
		view.DaysRemaining = st.TrialDaysRemaining(in.Now)
	}
	if role.BypassesCommercialGating(view.Role) {
		view.HasAccess = true
	}
	return handler.JSON(view)
}

// refresh refetches the caller's status, typically after checkout.
func (a *api) refresh(r *http.Request) handler.Response {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return fail(errSignInRequired)
	}
	snap, err := a.resolver().Resolve(r.Context(), id)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(snap)
}

// protected is the default content behind the gate.
func (a *api) protected(r *http.Request) handler.Response {
	d, _ := gate.DecisionFromContext(r.Context())
	return handler.JSON(map[string]any{
		"path":   r.URL.Path,
		"reason": d.Reason,
		"role":   role.FromContext(r.Context()),
	})
}
