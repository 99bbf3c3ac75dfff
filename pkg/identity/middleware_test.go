package identity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	p, err := identity.NewParser(secret)
	require.NoError(t, err)
	want := identity.Identity{ID: uuid.New()}
	token, err := p.Issue(want, time.Hour)
	require.NoError(t, err)

	capture := func(got **identity.Identity) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*got, _ = identity.FromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
	}

	t.Run("bearer token", func(t *testing.T) {
		t.Parallel()
		var got *identity.Identity
		h := identity.Middleware(p, nil)(capture(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, want.ID, got.ID)
	})

	t.Run("cookie token", func(t *testing.T) {
		t.Parallel()
		var got *identity.Identity
		h := identity.Middleware(p, nil, identity.BearerExtractor, identity.CookieExtractor("gw_token"))(capture(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "gw_token", Value: token})
		h.ServeHTTP(httptest.NewRecorder(), req)

		require.NotNil(t, got)
		assert.Equal(t, want.ID, got.ID)
	})

	t.Run("invalid token continues anonymously", func(t *testing.T) {
		t.Parallel()
		var got *identity.Identity
		h := identity.Middleware(p, nil)(capture(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Nil(t, got)
	})

	t.Run("no token", func(t *testing.T) {
		t.Parallel()
		var got *identity.Identity
		h := identity.Middleware(p, nil)(capture(&got))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Nil(t, got)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := identity.WithIdentity(context.Background(), nil)
	_, ok := identity.FromContext(ctx)
	assert.False(t, ok)

	id := &identity.Identity{ID: uuid.New()}
	ctx = identity.WithIdentity(ctx, id)
	got, ok := identity.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, id, got)

	s, ok := identity.IDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id.ID.String(), s)
}
