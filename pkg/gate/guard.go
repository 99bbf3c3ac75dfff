package gate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
)

const (
	DefaultAuthPath    = "/auth"
	DefaultPaywallPath = "/pricing"
)

// DecisionRecorder counts gate outcomes.
type DecisionRecorder interface {
	GateDecision(outcome string)
}

// Action is what the caller must do after an evaluation. Navigate is empty
// when no navigation is needed; Notice is nil when nothing new must be shown.
type Action struct {
	Decision
	Navigate string
	Notice   *Notice
}

// Guard evaluates decisions for one viewer and suppresses repeated side
// effects: re-evaluating to the same outcome does not notify again, and a
// viewer already at the redirect target is neither moved nor notified.
type Guard struct {
	authPath    string
	paywallPath string
	copy        Copy
	notifier    Notifier
	recorder    DecisionRecorder
	log         *slog.Logger

	mu   sync.Mutex
	last Outcome
}

type GuardOption func(*Guard)

func WithAuthPath(p string) GuardOption {
	return func(g *Guard) {
		if p != "" {
			g.authPath = p
		}
	}
}

func WithPaywallPath(p string) GuardOption {
	return func(g *Guard) {
		if p != "" {
			g.paywallPath = p
		}
	}
}

func WithCopy(c Copy) GuardOption {
	return func(g *Guard) { g.copy = c }
}

func WithNotifier(n Notifier) GuardOption {
	return func(g *Guard) { g.notifier = n }
}

func WithDecisionRecorder(r DecisionRecorder) GuardOption {
	return func(g *Guard) {
		if r != nil {
			g.recorder = r
		}
	}
}

func WithGuardLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.log = l
		}
	}
}

func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{
		authPath:    DefaultAuthPath,
		paywallPath: DefaultPaywallPath,
		copy:        DefaultCopy,
		recorder:    nopRecorder{},
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Evaluate decides on in for a viewer currently at location.
func (g *Guard) Evaluate(ctx context.Context, in Input, location string) Action {
	d := Decide(in)
	g.recorder.GateDecision(string(d.Outcome))
	act := Action{Decision: d}

	if d.Outcome == OutcomePending {
		if d.Err != nil {
			g.log.WarnContext(ctx, "gate waiting on failed fetch",
				logger.Outcome(string(d.Outcome)),
				logger.Error(d.Err),
			)
		}
		return act
	}

	var target string
	var notice Notice
	switch d.Outcome {
	case OutcomeRedirectToAuth:
		target, notice = g.authPath, g.copy.SignIn
	case OutcomeRedirectToPaywall:
		target, notice = g.paywallPath, g.copy.Subscription
	default:
		g.mu.Lock()
		g.last = d.Outcome
		g.mu.Unlock()
		return act
	}

	// last only tracks redirects that were notified
	if location == target {
		return act
	}
	act.Navigate = target

	g.mu.Lock()
	repeated := g.last == d.Outcome
	g.last = d.Outcome
	g.mu.Unlock()
	if repeated {
		return act
	}
	act.Notice = &notice
	if g.notifier != nil {
		if err := g.notifier.Notify(ctx, notice); err != nil {
			g.log.WarnContext(ctx, "failed to deliver gate notice", logger.Error(err))
		}
	}
	g.log.DebugContext(ctx, "gate redirect",
		logger.Outcome(string(d.Outcome)),
		slog.String("target", target),
	)
	return act
}

// Reset forgets the last outcome, e.g. after sign-out.
func (g *Guard) Reset() {
	g.mu.Lock()
	g.last = ""
	g.mu.Unlock()
}

type nopRecorder struct{}

func (nopRecorder) GateDecision(string) {}
