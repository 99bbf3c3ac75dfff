// Package httpapi exposes access resolution, the anonymous trial and billing
// links over HTTP, and mounts gated routes behind the access gate.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/carlfalc/glutenworld-sub001/handler"
	"github.com/carlfalc/glutenworld-sub001/pkg/billing"
	"github.com/carlfalc/glutenworld-sub001/pkg/gate"
	"github.com/carlfalc/glutenworld-sub001/pkg/httpserver"
	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/kv"
	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
	"github.com/carlfalc/glutenworld-sub001/pkg/metrics"
	"github.com/carlfalc/glutenworld-sub001/pkg/role"
	"github.com/carlfalc/glutenworld-sub001/pkg/subscription"
	"github.com/carlfalc/glutenworld-sub001/pkg/trial"
)

// Deps are the collaborators of the API. Statuses, Roles, Tokens and Store
// are required.
type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; nil disables the route.
	Gatherer prometheus.Gatherer

	Tokens     identity.TokenParser
	AuthCookie string

	Statuses subscription.Source
	Roles    role.Source

	// Store holds per-browser state: the trial record and pending notices.
	// StoreMiddleware binds it to the request when the store needs it.
	Store           kv.Store
	StoreMiddleware func(http.Handler) http.Handler

	Billing *billing.Service

	AuthPath    string
	PaywallPath string
	RetryAfter  time.Duration
	BaseURL     string

	Checks []httpserver.Check
	Now    func() time.Time
}

type api struct {
	Deps
	errs     handler.ErrorHandler
	notices  *gate.KVNotifier
	limiter  *trial.Limiter
	gateConf gate.MiddlewareConfig
}

// NewRouter builds the HTTP handler.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.AuthPath == "" {
		d.AuthPath = gate.DefaultAuthPath
	}
	if d.PaywallPath == "" {
		d.PaywallPath = gate.DefaultPaywallPath
	}
	if d.Billing == nil {
		d.Billing = billing.NewService(billing.Disabled{}, nil, nil)
	}

	a := &api{
		Deps:    d,
		errs:    handler.LoggingErrorHandler(d.Logger),
		notices: gate.NewKVNotifier(d.Store),
		limiter: trial.NewLimiter(d.Store,
			trial.WithClock(d.Now),
			trial.WithLogger(d.Logger),
			trial.WithRecorder(d.Metrics),
		),
	}
	a.gateConf = gate.MiddlewareConfig{
		Statuses:    d.Statuses,
		Roles:       d.Roles,
		Notifier:    a.notices,
		AuthPath:    d.AuthPath,
		PaywallPath: d.PaywallPath,
		RetryAfter:  d.RetryAfter,
		Recorder:    d.Metrics,
		Logger:      d.Logger,
		Now:         d.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(d.Metrics.Middleware)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(d.Logger, 3*time.Second, d.Checks...))
	if d.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(d.Gatherer))
	}

	r.Group(func(r chi.Router) {
		extractors := []identity.Extractor{identity.BearerExtractor}
		if d.AuthCookie != "" {
			extractors = append(extractors, identity.CookieExtractor(d.AuthCookie))
		}
		r.Use(identity.Middleware(d.Tokens, d.Logger, extractors...))
		if d.StoreMiddleware != nil {
			r.Use(d.StoreMiddleware)
		}

		r.Get(d.AuthPath, a.wrap(a.authPage))
		r.Get(d.PaywallPath, a.wrap(a.paywallPage))
		r.Get("/v1/notice", a.wrap(a.popNotice))

		r.Route("/v1/access", func(r chi.Router) {
			r.Get("/", a.wrap(a.access))
			r.Post("/refresh", a.wrap(a.refresh))
		})

		r.Route("/v1/trial", func(r chi.Router) {
			r.Get("/", a.wrap(a.trialState))
			r.Post("/use", a.wrap(a.useTrial))
			r.Delete("/", a.wrap(a.resetTrial))
		})

		r.Route("/v1/billing", func(r chi.Router) {
			r.Get("/plans", a.wrap(a.plans))
			r.Post("/checkout", a.wrap(a.checkout))
			r.Post("/portal", a.wrap(a.portal))
			r.Get("/return", a.wrap(a.billingReturn))
		})

		r.Route("/app", func(r chi.Router) {
			r.Use(gate.Middleware(a.gateConf))
			r.Get("/*", a.wrap(a.protected))
		})
	})

	return r
}

func (a *api) wrap(f handler.Func) http.HandlerFunc {
	return handler.Wrap(f, a.errs)
}
