package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/carlfalc/glutenworld-sub001/handler"
	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
	"github.com/carlfalc/glutenworld-sub001/pkg/role"
	"github.com/carlfalc/glutenworld-sub001/pkg/trial"
)

type trialView struct {
	CanUse    bool        `json:"can_use"`
	State     trial.State `json:"state,omitempty"`
	Unlimited bool        `json:"unlimited"`
	UsedAt    *time.Time  `json:"used_at,omitempty"`
}

func (a *api) trialState(r *http.Request) handler.Response {
	ctx := r.Context()
	id, _ := identity.FromContext(ctx)

	// a signed-in caller passes regardless of role
	can, err := a.limiter.CanUse(ctx, id, role.Standard)
	if id != nil {
		return handler.JSON(trialView{CanUse: can, Unlimited: true})
	}
	switch {
	case errors.Is(err, trial.ErrCorruptRecord):
		// unreadable record counts as used
		a.Logger.WarnContext(ctx, "corrupt trial record", logger.Error(err))
		return handler.JSON(trialView{State: trial.StateUsed})
	case err != nil:
		return fail(err)
	}

	rec, err := a.limiter.Record(ctx)
	if err != nil {
		return fail(err)
	}
	view := trialView{CanUse: can, State: trial.StateUnused}
	if rec.FeatureUsed {
		view.State = trial.StateUsed
		if !rec.UsageDate.IsZero() {
			view.UsedAt = &rec.UsageDate
		}
	}
	return handler.JSON(view)
}

// useTrial consumes the anonymous try. Signed-in callers are never limited
// and nothing is recorded for them.
func (a *api) useTrial(r *http.Request) handler.Response {
	ctx := r.Context()
	id, _ := identity.FromContext(ctx)

	can, err := a.limiter.CanUse(ctx, id, role.Standard)
	if id != nil {
		return handler.JSON(trialView{CanUse: can, Unlimited: true})
	}
	if err != nil && !errors.Is(err, trial.ErrCorruptRecord) {
		return fail(err)
	}
	if err != nil || !can {
		return fail(errTrialUsed)
	}

	if err := a.limiter.MarkUsed(ctx); err != nil {
		return fail(err)
	}
	return handler.JSON(trialView{State: trial.StateUsed})
}

// resetTrial clears the anonymous try. Signed-in callers leave the record
// untouched.
func (a *api) resetTrial(r *http.Request) handler.Response {
	if id, _ := identity.FromContext(r.Context()); id != nil {
		return handler.JSON(trialView{CanUse: true, Unlimited: true})
	}
	if err := a.limiter.Clear(r.Context()); err != nil {
		return fail(err)
	}
	return handler.Empty()
}
