package subscription

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
)

// State is the lifecycle of the resolver's single record.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// Snapshot is a point-in-time copy of the resolver.
type Snapshot struct {
	IdentityID uuid.UUID `json:"identity_id"`
	Status     Status    `json:"status"`
	State      State     `json:"state"`
	Loading    bool      `json:"loading"`
	LastErr    error     `json:"-"`
	FetchedAt  time.Time `json:"fetched_at,omitzero"`
}

// Resolver caches the commercial status of the current identity.
// It is safe for concurrent use; the most recently started resolution wins.
type Resolver struct {
	src      Source
	log      *slog.Logger
	recorder FetchRecorder
	now      func() time.Time

	mu      sync.Mutex
	gen     uint64
	current *identity.Identity
	snap    Snapshot
}

func NewResolver(src Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		src:      src,
		log:      logger.Discard(),
		recorder: nopRecorder{},
		now:      time.Now,
		snap:     Snapshot{State: StateIdle},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve loads the status for id. A nil id resets the resolver to the
// anonymous snapshot without touching the source and invalidates any fetch
// still in flight.
func (r *Resolver) Resolve(ctx context.Context, id *identity.Identity) (Snapshot, error) {
	r.mu.Lock()
	r.gen++
	gen := r.gen

	if id == nil {
		r.current = nil
		r.snap = Snapshot{State: StateIdle}
		snap := r.snap
		r.mu.Unlock()
		return snap, nil
	}

	if r.current == nil || r.current.ID != id.ID {
		// never carry one user's status over to another
		r.snap = Snapshot{IdentityID: id.ID}
	}
	r.current = id
	r.snap.State = StateLoading
	r.snap.Loading = true
	r.mu.Unlock()

	return r.fetch(ctx, gen, id.ID)
}

// Refresh re-runs the status query for the current identity. With no
// identity it returns the idle snapshot.
func (r *Resolver) Refresh(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	id := r.current
	r.mu.Unlock()

	return r.Resolve(ctx, id)
}

// Snapshot returns the current record.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Identity returns the identity the resolver currently tracks.
func (r *Resolver) Identity() *identity.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Resolver) fetch(ctx context.Context, gen uint64, id uuid.UUID) (Snapshot, error) {
	status, err := r.src.Status(ctx, id)

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen || r.current == nil || r.current.ID != id {
		r.recorder.StatusFetch("stale")
		r.log.DebugContext(ctx, "discarding stale status response", logger.IdentityID(id))
		return r.snap, ErrStaleResponse
	}

	r.snap.Loading = false
	if err != nil {
		r.snap.State = StateError
		r.snap.LastErr = errors.Join(ErrStatusFetchFailed, err)
		r.recorder.StatusFetch("error")
		r.log.WarnContext(ctx, "status query failed", logger.IdentityID(id), logger.Error(err))
		return r.snap, r.snap.LastErr
	}

	r.snap.Status = status
	r.snap.State = StateLoaded
	r.snap.LastErr = nil
	r.snap.FetchedAt = r.now()
	r.recorder.StatusFetch("ok")
	return r.snap, nil
}

type nopRecorder struct{}

func (nopRecorder) StatusFetch(string) {}
