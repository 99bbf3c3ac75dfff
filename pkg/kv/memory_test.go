package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlfalc/glutenworld-sub001/pkg/kv"
)

func TestMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := kv.NewMemory()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	buf := []byte("v1")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Remove(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	assert.ErrorIs(t, s.Set(ctx, "", nil), kv.ErrEmptyKey)
	assert.NoError(t, s.Remove(ctx, "never-set"))
}

func TestPop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := kv.NewMemory()
	require.NoError(t, s.Set(ctx, "notice", []byte("hi")))

	v, err := kv.Pop(ctx, s, "notice")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(v))

	_, err = kv.Pop(ctx, s, "notice")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}
