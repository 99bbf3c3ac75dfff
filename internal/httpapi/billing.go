package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/carlfalc/glutenworld-sub001/handler"
	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
)

type checkoutRequest struct {
	PlanID     string `json:"plan_id"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

type portalRequest struct {
	ReturnURL string `json:"return_url"`
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return handler.BadRequest("invalid_json", "Request body is not valid JSON.")
	}
	return nil
}

// absolute resolves path against BaseURL.
func (a *api) absolute(path string) string {
	return strings.TrimRight(a.BaseURL, "/") + path
}

// sameOrigin keeps caller-supplied redirect targets on our own host.
func (a *api) sameOrigin(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	if !u.IsAbs() {
		if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
			return a.absolute(raw)
		}
		return fallback
	}
	base, err := url.Parse(a.BaseURL)
	if err != nil || base.Host != u.Host || base.Scheme != u.Scheme {
		return fallback
	}
	return raw
}

func (a *api) plans(r *http.Request) handler.Response {
	return handler.JSON(a.Billing.Plans(), handler.WithJSONMeta(map[string]any{
		"provider": a.Billing.Provider(),
	}))
}

func (a *api) checkout(r *http.Request) handler.Response {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return fail(errSignInRequired)
	}
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		return fail(err)
	}
	if req.PlanID == "" {
		return fail(handler.BadRequest("missing_plan", "plan_id is required."))
	}

	link, err := a.Billing.Checkout(r.Context(), *id, req.PlanID,
		a.sameOrigin(req.SuccessURL, a.absolute("/v1/billing/return")),
		a.sameOrigin(req.CancelURL, a.absolute(a.PaywallPath)),
	)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(link, handler.WithJSONStatus(http.StatusCreated))
}

func (a *api) portal(r *http.Request) handler.Response {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return fail(errSignInRequired)
	}
	var req portalRequest
	if err := decodeJSON(r, &req); err != nil {
		return fail(err)
	}

	link, err := a.Billing.Portal(r.Context(), *id, a.sameOrigin(req.ReturnURL, a.absolute("/app/")))
	if err != nil {
		return fail(err)
	}
	return handler.JSON(link)
}

// billingReturn is where checkout sends the user back. It refetches the
// status so the gate sees the new subscription, then forwards to the app or
// back to the paywall.
func (a *api) billingReturn(r *http.Request) handler.Response {
	ctx := r.Context()
	id, ok := identity.FromContext(ctx)
	if !ok {
		return handler.Redirect(a.AuthPath)
	}

	snap, err := a.resolver().Resolve(ctx, id)
	if err != nil {
		a.Logger.WarnContext(ctx, "status refresh after checkout failed", logger.IdentityID(id.ID), logger.Error(err))
		return handler.Redirect(a.PaywallPath)
	}
	if !snap.Status.HasAccessAt(a.Now()) {
		return handler.Redirect(a.PaywallPath)
	}
	return handler.Redirect("/app/")
}
