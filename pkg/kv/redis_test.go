package kv_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlfalc/glutenworld-sub001/pkg/kv"
)

func TestConnectRedis_InvalidURL(t *testing.T) {
	t.Parallel()
	_, err := kv.ConnectRedis(context.Background(), kv.RedisConfig{
		ConnectionURL:  "://bad",
		ConnectTimeout: time.Second,
	})
	assert.ErrorIs(t, err, kv.ErrFailedToParseRedisConnString)
}

func TestRedis_RequiresVisitor(t *testing.T) {
	t.Parallel()
	s := kv.NewRedis(nil, "p:", 0)
	_, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, kv.ErrNoVisitor)
	assert.ErrorIs(t, s.Set(context.Background(), "", nil), kv.ErrEmptyKey)
}

// TestRedis_Live runs against REDIS_TEST_URL when it is set.
func TestRedis_Live(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	ctx := context.Background()
	client, err := kv.ConnectRedis(ctx, kv.RedisConfig{
		ConnectionURL:  url,
		RetryAttempts:  1,
		RetryInterval:  time.Millisecond,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, kv.RedisHealthcheck(client)(ctx))

	s := kv.NewRedis(client, "test:"+uuid.NewString()+":", time.Minute)
	a := kv.WithVisitor(ctx, "a")
	b := kv.WithVisitor(ctx, "b")

	require.NoError(t, s.Set(a, key, []byte("used")))
	got, err := s.Get(a, key)
	require.NoError(t, err)
	assert.Equal(t, "used", string(got))

	_, err = s.Get(b, key)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Remove(a, key))
	_, err = s.Get(a, key)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}
