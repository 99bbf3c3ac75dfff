package pgstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carlfalc/glutenworld-sub001/pkg/role"
	"github.com/carlfalc/glutenworld-sub001/pkg/subscription"
)

// DB is the subset of *pgxpool.Pool the stores use.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// StatusStore reads and writes rows of the subscribers table.
type StatusStore struct {
	db DB
}

func NewStatusStore(db DB) *StatusStore {
	return &StatusStore{db: db}
}

const selectStatus = `
SELECT subscribed, COALESCE(subscription_tier, ''), subscription_end, is_trialing, trial_end
FROM subscribers
WHERE user_id = $1`

// Status implements subscription.Source.
func (s *StatusStore) Status(ctx context.Context, identityID uuid.UUID) (subscription.Status, error) {
	var (
		st       subscription.Status
		renews   *time.Time
		trialEnd *time.Time
	)
	err := s.db.QueryRow(ctx, selectStatus, identityID).Scan(&st.Subscribed, &st.Tier, &renews, &st.Trialing, &trialEnd)
	if isNotFound(err) {
		return subscription.Status{}, nil
	}
	if err != nil {
		return subscription.Status{}, errors.Join(ErrQueryFailed, err)
	}
	st.RenewsAt = renews
	st.TrialExpiresAt = trialEnd
	return st, nil
}

const upsertStatus = `
INSERT INTO subscribers (user_id, subscribed, subscription_tier, subscription_end, is_trialing, trial_end, updated_at)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NOW())
ON CONFLICT (user_id) DO UPDATE SET
    subscribed = EXCLUDED.subscribed,
    subscription_tier = EXCLUDED.subscription_tier,
    subscription_end = EXCLUDED.subscription_end,
    is_trialing = EXCLUDED.is_trialing,
    trial_end = EXCLUDED.trial_end,
    updated_at = NOW()`

// SaveStatus stores st for identityID. Used by operator tooling.
func (s *StatusStore) SaveStatus(ctx context.Context, identityID uuid.UUID, st subscription.Status) error {
	if _, err := s.db.Exec(ctx, upsertStatus, identityID, st.Subscribed, st.Tier, st.RenewsAt, st.Trialing, st.TrialExpiresAt); err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}

const selectCustomer = `
SELECT COALESCE(billing_customer_id, ''), COALESCE(billing_subscription_id, '')
FROM subscribers
WHERE user_id = $1`

// BillingCustomer implements billing.CustomerLookup.
func (s *StatusStore) BillingCustomer(ctx context.Context, identityID uuid.UUID) (string, string, error) {
	var customerID, subscriptionID string
	err := s.db.QueryRow(ctx, selectCustomer, identityID).Scan(&customerID, &subscriptionID)
	if isNotFound(err) {
		return "", "", nil
	}
	if err != nil {
		return "", "", errors.Join(ErrQueryFailed, err)
	}
	return customerID, subscriptionID, nil
}

// RoleStore reads and writes the user_roles table.
type RoleStore struct {
	db DB
}

func NewRoleStore(db DB) *RoleStore {
	return &RoleStore{db: db}
}

// Role implements role.Source.
func (s *RoleStore) Role(ctx context.Context, identityID uuid.UUID) (role.Role, error) {
	var name string
	err := s.db.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, identityID).Scan(&name)
	if isNotFound(err) {
		return role.Standard, nil
	}
	if err != nil {
		return role.Standard, errors.Join(ErrQueryFailed, err)
	}
	return role.Parse(name), nil
}

const upsertRole = `
INSERT INTO user_roles (user_id, role, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()`

// SetRole assigns r to identityID.
func (s *RoleStore) SetRole(ctx context.Context, identityID uuid.UUID, r role.Role) error {
	if _, err := s.db.Exec(ctx, upsertRole, identityID, string(r)); err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}
