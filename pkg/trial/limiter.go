package trial

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/kv"
	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
	"github.com/carlfalc/glutenworld-sub001/pkg/role"
)

// DefaultKey is the storage key of the recipe generator trial.
const DefaultKey = "glutenworld:trial:recipe-generator"

var (
	ErrCorruptRecord = errors.New("trial.corrupt_record")
	ErrStorage       = errors.New("trial.storage_failed")
)

// State of the anonymous trial.
type State string

const (
	StateUnused State = "unused"
	StateUsed   State = "used"
)

// Record is the persisted usage record.
type Record struct {
	FeatureUsed bool      `json:"featureUsed"`
	UsageDate   time.Time `json:"usageDate,omitzero"`
}

// CheckRecorder counts limiter decisions.
type CheckRecorder interface {
	TrialCheck(result string)
}

type Limiter struct {
	store    kv.Store
	key      string
	now      func() time.Time
	log      *slog.Logger
	recorder CheckRecorder
}

type Option func(*Limiter)

func WithKey(key string) Option {
	return func(l *Limiter) {
		if key != "" {
			l.key = key
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Limiter) {
		if log != nil {
			l.log = log
		}
	}
}

func WithRecorder(rec CheckRecorder) Option {
	return func(l *Limiter) {
		if rec != nil {
			l.recorder = rec
		}
	}
}

func NewLimiter(store kv.Store, opts ...Option) *Limiter {
	l := &Limiter{
		store:    store,
		key:      DefaultKey,
		now:      time.Now,
		log:      logger.Discard(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CanUse reports whether the feature may be used. Owners and signed-in users
// always may; anonymous visitors may until MarkUsed.
func (l *Limiter) CanUse(ctx context.Context, id *identity.Identity, r role.Role) (bool, error) {
	if role.BypassesCommercialGating(r) {
		l.recorder.TrialCheck("bypass")
		return true, nil
	}
	if id != nil {
		l.recorder.TrialCheck("authenticated")
		return true, nil
	}

	state, err := l.State(ctx)
	if err != nil {
		l.recorder.TrialCheck("error")
		return false, err
	}
	if state == StateUsed {
		l.recorder.TrialCheck("denied")
		return false, nil
	}
	l.recorder.TrialCheck("allowed")
	return true, nil
}

// State reads the anonymous record. Absence means unused.
func (l *Limiter) State(ctx context.Context) (State, error) {
	rec, err := l.Record(ctx)
	if err != nil {
		return "", err
	}
	if rec.FeatureUsed {
		return StateUsed, nil
	}
	return StateUnused, nil
}

// Record returns the stored record, or the zero record when none exists.
func (l *Limiter) Record(ctx context.Context) (Record, error) {
	raw, err := l.store.Get(ctx, l.key)
	if errors.Is(err, kv.ErrNotFound) {
		return Record{}, nil
	}
	if err != nil {
		if errors.Is(err, kv.ErrInvalidSignature) || errors.Is(err, kv.ErrInvalidFormat) {
			return Record{}, errors.Join(ErrCorruptRecord, err)
		}
		return Record{}, errors.Join(ErrStorage, err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, errors.Join(ErrCorruptRecord, err)
	}
	return rec, nil
}

// MarkUsed moves the trial to used. Calling it again leaves the stored record
// untouched, including the first usage date.
func (l *Limiter) MarkUsed(ctx context.Context) error {
	rec, err := l.Record(ctx)
	if err != nil && !errors.Is(err, ErrCorruptRecord) {
		return err
	}
	if err == nil && rec.FeatureUsed {
		return nil
	}

	raw, err := json.Marshal(Record{FeatureUsed: true, UsageDate: l.now().UTC()})
	if err != nil {
		return err
	}
	if err := l.store.Set(ctx, l.key, raw); err != nil {
		return errors.Join(ErrStorage, err)
	}
	l.log.DebugContext(ctx, "anonymous trial used", slog.String("key", l.key))
	return nil
}

// Clear resets the trial to unused. Only for an explicit "reset my demo".
func (l *Limiter) Clear(ctx context.Context) error {
	if err := l.store.Remove(ctx, l.key); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

type nopRecorder struct{}

func (nopRecorder) TrialCheck(string) {}
