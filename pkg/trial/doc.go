// Package trial lets anonymous visitors try one designated feature once
// before signing up.
//
// The usage record lives in client-side storage (a kv.Store), so it is easy to
// reset for anyone who tries. That is accepted: the limiter adds friction, it
// is not a security boundary. Authenticated identities and owners are never
// limited and never read or write the record.
//
//	lim := trial.NewLimiter(store)
//	ok, err := lim.CanUse(ctx, id, r)
//	if ok && id == nil {
//		err = lim.MarkUsed(ctx)
//	}
package trial
