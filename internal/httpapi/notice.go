package httpapi

import (
	"net/http"
	"time"

	"github.com/carlfalc/glutenworld-sub001/handler"
	"github.com/carlfalc/glutenworld-sub001/pkg/gate"
)

func (a *api) retryAfter() time.Duration {
	if a.RetryAfter <= 0 {
		return 5 * time.Second
	}
	return a.RetryAfter
}

// popNotice returns the pending redirect notice once, or 204.
func (a *api) popNotice(r *http.Request) handler.Response {
	n, ok, err := a.notices.Pop(r.Context())
	if err != nil {
		return fail(err)
	}
	if !ok {
		return handler.Empty()
	}
	return handler.JSON(n)
}

type pageView struct {
	Page   string         `json:"page"`
	Notice *gate.Notice   `json:"notice,omitempty"`
	Plans  any            `json:"plans,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

func (a *api) page(r *http.Request, name string) (pageView, error) {
	view := pageView{Page: name}
	n, ok, err := a.notices.Pop(r.Context())
	if err != nil {
		return view, err
	}
	if ok {
		view.Notice = &n
	}
	return view, nil
}

// authPage is the sign-in landing. Sign-in itself is handled elsewhere.
func (a *api) authPage(r *http.Request) handler.Response {
	view, err := a.page(r, "auth")
	if err != nil {
		return fail(err)
	}
	return handler.JSON(view)
}

func (a *api) paywallPage(r *http.Request) handler.Response {
	view, err := a.page(r, "pricing")
	if err != nil {
		return fail(err)
	}
	view.Plans = a.Billing.Plans()
	view.Meta = map[string]any{"provider": a.Billing.Provider()}
	return handler.JSON(view)
}
