package trial_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/kv"
	"github.com/carlfalc/glutenworld-sub001/pkg/role"
	"github.com/carlfalc/glutenworld-sub001/pkg/trial"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockStore) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestLimiter_AnonymousLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.NewMemory()
	lim := trial.NewLimiter(store)

	for range 3 {
		ok, err := lim.CanUse(ctx, nil, role.Standard)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	require.NoError(t, lim.MarkUsed(ctx))

	for range 3 {
		ok, err := lim.CanUse(ctx, nil, role.Standard)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	require.NoError(t, lim.Clear(ctx))
	ok, err := lim.CanUse(ctx, nil, role.Standard)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_SignInOverridesUsedTrial(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	lim := trial.NewLimiter(kv.NewMemory())

	ok, err := lim.CanUse(ctx, nil, role.Standard)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, lim.MarkUsed(ctx))

	ok, err = lim.CanUse(ctx, nil, role.Standard)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = lim.CanUse(ctx, &identity.Identity{ID: uuid.New()}, role.Standard)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_BypassesNeverTouchStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := &mockStore{}
	lim := trial.NewLimiter(store)

	ok, err := lim.CanUse(ctx, &identity.Identity{ID: uuid.New()}, role.Standard)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lim.CanUse(ctx, nil, role.Owner)
	require.NoError(t, err)
	assert.True(t, ok)

	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestLimiter_MarkUsedIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.NewMemory()
	first := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

	lim := trial.NewLimiter(store, trial.WithClock(fixedClock(first)))
	require.NoError(t, lim.MarkUsed(ctx))
	once, err := store.Get(ctx, trial.DefaultKey)
	require.NoError(t, err)

	later := trial.NewLimiter(store, trial.WithClock(fixedClock(first.Add(48*time.Hour))))
	require.NoError(t, later.MarkUsed(ctx))
	twice, err := store.Get(ctx, trial.DefaultKey)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.JSONEq(t, `{"featureUsed":true,"usageDate":"2026-05-01T09:30:00Z"}`, string(twice))

	rec, err := later.Record(ctx)
	require.NoError(t, err)
	assert.True(t, rec.FeatureUsed)
	assert.True(t, first.Equal(rec.UsageDate))
}

func TestLimiter_MissingRecordIsUnused(t *testing.T) {
	t.Parallel()
	lim := trial.NewLimiter(kv.NewMemory())
	state, err := lim.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trial.StateUnused, state)
}

func TestLimiter_ExplicitUnusedRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, trial.DefaultKey, []byte(`{"featureUsed":false}`)))

	ok, err := trial.NewLimiter(store).CanUse(ctx, nil, role.Standard)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiter_CorruptRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, trial.DefaultKey, []byte("{not json")))
	lim := trial.NewLimiter(store)

	ok, err := lim.CanUse(ctx, nil, role.Standard)
	assert.ErrorIs(t, err, trial.ErrCorruptRecord)
	assert.False(t, ok)

	require.NoError(t, lim.MarkUsed(ctx))
	state, err := lim.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, trial.StateUsed, state)
}

func TestLimiter_StorageFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("unavailable")

	store := &mockStore{}
	store.On("Get", mock.Anything, "custom:key").Return(nil, boom)
	store.On("Remove", mock.Anything, "custom:key").Return(boom)
	lim := trial.NewLimiter(store, trial.WithKey("custom:key"))

	ok, err := lim.CanUse(ctx, nil, role.Standard)
	assert.False(t, ok)
	assert.ErrorIs(t, err, trial.ErrStorage)
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, lim.MarkUsed(ctx), trial.ErrStorage)
	assert.ErrorIs(t, lim.Clear(ctx), trial.ErrStorage)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}
