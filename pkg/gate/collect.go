package gate

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/role"
	"github.com/carlfalc/glutenworld-sub001/pkg/subscription"
)

// Collect gathers the status and role of id concurrently and returns a
// settled Input. Both fetches always complete; neither result is acted on
// until the other has arrived. A nil id yields the anonymous input without
// any fetch.
func Collect(ctx context.Context, id *identity.Identity, resolver *subscription.Resolver, roles role.Source, now time.Time) Input {
	in := Input{
		Identity: Settled(id),
		Now:      now,
	}
	if id == nil {
		_, _ = resolver.Resolve(ctx, nil)
		in.Status = Settled(subscription.Status{})
		in.Role = Settled(role.Standard)
		return in
	}

	var g errgroup.Group
	g.Go(func() error {
		snap, err := resolver.Resolve(ctx, id)
		switch {
		case errors.Is(err, subscription.ErrStaleResponse):
			// a newer resolution owns the record
			in.Status = Pending[subscription.Status]()
		case err != nil:
			in.Status = Failed[subscription.Status](err)
		default:
			in.Status = Settled(snap.Status)
		}
		return nil
	})
	g.Go(func() error {
		r, err := roles.Role(ctx, id.ID)
		if err != nil {
			err = errors.Join(role.ErrRoleFetchFailed, err)
		}
		in.Role = From(r, err)
		return nil
	})
	_ = g.Wait()

	return in
}
