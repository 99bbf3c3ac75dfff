package subscription

import (
	"log/slog"
	"time"
)

// FetchRecorder counts status query results.
type FetchRecorder interface {
	StatusFetch(result string)
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

func WithRecorder(rec FetchRecorder) ResolverOption {
	return func(r *Resolver) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}
