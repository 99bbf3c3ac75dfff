package httpapi

import (
	"errors"
	"net/http"

	"github.com/carlfalc/glutenworld-sub001/handler"
	"github.com/carlfalc/glutenworld-sub001/pkg/billing"
	"github.com/carlfalc/glutenworld-sub001/pkg/subscription"
	"github.com/carlfalc/glutenworld-sub001/pkg/trial"
)

var (
	errSignInRequired = handler.Unauthorized("sign_in_required", "Please sign in to continue.")
	errTrialUsed      = handler.NewHTTPError(http.StatusForbidden, "trial_used", "The free try has been used. Sign in or subscribe to keep going.", nil)
)

// mapError translates domain errors into HTTP errors. Unknown errors stay
// 500s.
func mapError(err error) error {
	var httpErr *handler.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return err
	case errors.Is(err, billing.ErrPlanNotFound):
		return handler.NewHTTPError(http.StatusNotFound, "plan_not_found", "Unknown plan.", err)
	case errors.Is(err, billing.ErrBillingDisabled):
		return handler.NewHTTPError(http.StatusNotImplemented, "billing_disabled", "Billing is not available.", err)
	case errors.Is(err, billing.ErrMissingCustomer):
		return handler.NewHTTPError(http.StatusConflict, "no_billing_account", "There is no subscription to manage yet.", err)
	case errors.Is(err, billing.ErrMissingReturnURL), errors.Is(err, billing.ErrMissingPriceID):
		return handler.NewHTTPError(http.StatusBadRequest, "invalid_billing_request", "", err)
	case errors.Is(err, billing.ErrProviderUnavailable), errors.Is(err, billing.ErrNoCheckoutURL), errors.Is(err, billing.ErrNoPortalURL):
		return handler.NewHTTPError(http.StatusBadGateway, "billing_unavailable", "The payment provider did not respond. Please retry.", err)
	case errors.Is(err, subscription.ErrStatusFetchFailed):
		return handler.ServiceUnavailable("status_fetch_failed", "We could not check your subscription. Please retry.", err)
	case errors.Is(err, trial.ErrStorage):
		return handler.ServiceUnavailable("trial_storage_failed", "Please retry.", err)
	}
	return err
}

func fail(err error) handler.Response {
	return handler.JSONError(mapError(err))
}
