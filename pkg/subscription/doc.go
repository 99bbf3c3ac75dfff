// Package subscription resolves the commercial status of an identity.
//
// Status is the normalized answer of the backend commercial-status query:
// whether the user is subscribed, whether a trial is running and when it ends.
// Access is granted when the user is subscribed or the trial expiry lies
// strictly after now; DaysRemaining exists only for display.
//
// Resolver keeps exactly one Status for the current identity and moves
// through the states idle, loading, loaded and error. It never retries on its
// own. Results that arrive after the identity changed, or after a newer
// resolution started, are dropped with ErrStaleResponse so a slow response for
// a previous user can never overwrite the current one.
//
//	r := subscription.NewResolver(store, subscription.WithLogger(log))
//	snap, err := r.Resolve(ctx, id)
//	if errors.Is(err, subscription.ErrStatusFetchFailed) {
//		// keep showing the previous snapshot and offer a retry
//	}
//
// After any checkout or billing-portal round trip callers must call Refresh
// before the gate evaluates again.
package subscription
