//go:build integration

package pgstore_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/carlfalc/glutenworld-sub001/pkg/pgstore"
	"github.com/carlfalc/glutenworld-sub001/pkg/role"
	"github.com/carlfalc/glutenworld-sub001/pkg/subscription"
)

func TestStoresAgainstPostgres(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("glutenworld"),
		postgres.WithUsername("glutenworld"),
		postgres.WithPassword("glutenworld"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := pgstore.Config{
		ConnectionString: connStr,
		MaxOpenConns:     4,
		MaxIdleConns:     1,
		RetryAttempts:    3,
		RetryInterval:    time.Second,
		MigrationsTable:  "access_schema_migrations",
	}
	pool, err := pgstore.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pgstore.Migrate(ctx, pool, cfg, slog.New(slog.DiscardHandler)))
	require.NoError(t, pgstore.Healthcheck(pool)(ctx))

	statuses := pgstore.NewStatusStore(pool)
	roles := pgstore.NewRoleStore(pool)
	id := uuid.New()

	st, err := statuses.Status(ctx, id)
	require.NoError(t, err)
	assert.False(t, st.HasAccessAt(time.Now()))

	end := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Microsecond)
	require.NoError(t, statuses.SaveStatus(ctx, id, subscription.Status{Trialing: true, TrialExpiresAt: &end}))

	st, err = statuses.Status(ctx, id)
	require.NoError(t, err)
	assert.True(t, st.TrialActiveAt(time.Now()))
	assert.True(t, end.Equal(*st.TrialExpiresAt))

	r, err := roles.Role(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, role.Standard, r)

	require.NoError(t, roles.SetRole(ctx, id, role.Owner))
	r, err = roles.Role(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, role.Owner, r)
}
