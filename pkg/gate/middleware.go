package gate

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/carlfalc/glutenworld-sub001/handler"
	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
	"github.com/carlfalc/glutenworld-sub001/pkg/role"
	"github.com/carlfalc/glutenworld-sub001/pkg/subscription"
)

// MiddlewareConfig wires the gate into an HTTP stack.
type MiddlewareConfig struct {
	Statuses subscription.Source
	Roles    role.Source

	// Notifier receives the one-shot notice for browser redirects.
	// JSON clients get the notice in the response body instead.
	Notifier Notifier

	AuthPath    string
	PaywallPath string
	Copy        *Copy
	RetryAfter  time.Duration

	Recorder interface {
		DecisionRecorder
		subscription.FetchRecorder
	}
	Logger *slog.Logger
	Now    func() time.Time
}

type decisionKey struct{}

// DecisionFromContext returns the decision that let the request through.
func DecisionFromContext(ctx context.Context) (Decision, bool) {
	d, ok := ctx.Value(decisionKey{}).(Decision)
	return d, ok
}

// Middleware evaluates the gate for every request. Rendered requests carry
// the role and decision in their context. Redirects become 303 responses for
// browsers and 401 or 402 JSON errors for API clients. A failed fetch is a
// 503 with Retry-After so the client can offer a retry.
//
// A fresh Resolver and Guard serve each request. Across requests a notice
// is shown once because KVNotifier keeps a single slot that the next
// notice overwrites.
func Middleware(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	if cfg.RetryAfter <= 0 {
		cfg.RetryAfter = 5 * time.Second
	}
	copyText := DefaultCopy
	if cfg.Copy != nil {
		copyText = *cfg.Copy
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id, _ := identity.FromContext(ctx)

			resolverOpts := []subscription.ResolverOption{subscription.WithLogger(cfg.Logger)}
			guardOpts := []GuardOption{
				WithAuthPath(cfg.AuthPath),
				WithPaywallPath(cfg.PaywallPath),
				WithCopy(copyText),
				WithGuardLogger(cfg.Logger),
			}
			if cfg.Recorder != nil {
				resolverOpts = append(resolverOpts, subscription.WithRecorder(cfg.Recorder))
				guardOpts = append(guardOpts, WithDecisionRecorder(cfg.Recorder))
			}
			wantsJSON := handler.WantsJSON(r)
			if cfg.Notifier != nil && !wantsJSON {
				guardOpts = append(guardOpts, WithNotifier(cfg.Notifier))
			}

			resolver := subscription.NewResolver(cfg.Statuses, resolverOpts...)
			in := Collect(ctx, id, resolver, cfg.Roles, cfg.Now())
			act := NewGuard(guardOpts...).Evaluate(ctx, in, r.URL.Path)

			switch act.Outcome {
			case OutcomeRender:
				ctx = role.WithRole(ctx, in.Role.Value)
				ctx = context.WithValue(ctx, decisionKey{}, act.Decision)
				next.ServeHTTP(w, r.WithContext(ctx))
				return

			case OutcomeRedirectToAuth, OutcomeRedirectToPaywall:
				if act.Navigate == "" {
					// already at the target; let it render itself
					next.ServeHTTP(w, r)
					return
				}
				if wantsJSON {
					renderRedirectJSON(w, r, act, copyText)
					return
				}
				_ = handler.Redirect(act.Navigate).Render(w, r)
				return
			}

			retry := strconv.Itoa(int(cfg.RetryAfter.Seconds()))
			msg := "Access is still being checked. Please retry."
			code := string(act.Reason)
			if act.Err != nil {
				msg = "We could not check your subscription. Please retry."
				cfg.Logger.WarnContext(ctx, "gate unavailable", logger.Error(act.Err))
			}
			_ = handler.JSONError(
				handler.ServiceUnavailable(code, msg, act.Err),
				handler.WithJSONHeader("Retry-After", retry),
				handler.WithJSONMeta(map[string]any{"retry": true}),
			).Render(w, r)
		})
	}
}

func renderRedirectJSON(w http.ResponseWriter, r *http.Request, act Action, c Copy) {
	status, notice := http.StatusUnauthorized, c.SignIn
	if act.Outcome == OutcomeRedirectToPaywall {
		status, notice = http.StatusPaymentRequired, c.Subscription
	}
	_ = handler.JSONError(
		handler.NewHTTPError(status, string(act.Reason), notice.Message, nil),
		handler.WithJSONMeta(map[string]any{
			"outcome":  act.Outcome,
			"redirect": act.Navigate,
			"notice":   notice,
		}),
	).Render(w, r)
}
