package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carlfalc/glutenworld-sub001/pkg/billing"
	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) CreateCheckoutLink(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutLink, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CheckoutLink), args.Error(1)
}

func (m *mockProvider) GetCustomerPortalLink(ctx context.Context, req billing.PortalRequest) (*billing.PortalLink, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PortalLink), args.Error(1)
}

type mockCustomers struct {
	mock.Mock
}

func (m *mockCustomers) BillingCustomer(ctx context.Context, id uuid.UUID) (string, string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.String(1), args.Error(2)
}

type linkCounter struct{ ok, failed int }

func (c *linkCounter) BillingLink(_, _ string, err error) {
	if err != nil {
		c.failed++
		return
	}
	c.ok++
}

func testCatalog(t *testing.T) *billing.Catalog {
	t.Helper()
	c, err := billing.NewCatalog(billing.Plan{ID: "premium", PriceID: "price_1", TrialDays: billing.DefaultTrialDays})
	require.NoError(t, err)
	return c
}

func TestService_Checkout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	id := identity.Identity{ID: uuid.New(), Email: "cook@example.com"}

	provider := &mockProvider{}
	provider.On("CreateCheckoutLink", mock.Anything, billing.CheckoutRequest{
		PriceID:    "price_1",
		TrialDays:  5,
		IdentityID: id.ID.String(),
		CustomerID: "cus_1",
		Email:      id.Email,
		SuccessURL: "/ok",
		CancelURL:  "/cancel",
	}).Return(&billing.CheckoutLink{URL: "https://pay"}, nil)
	customers := &mockCustomers{}
	customers.On("BillingCustomer", mock.Anything, id.ID).Return("cus_1", "", nil)
	rec := &linkCounter{}

	svc := billing.NewService(provider, testCatalog(t), customers, billing.WithLinkRecorder(rec))
	link, err := svc.Checkout(ctx, id, "premium", "/ok", "/cancel")
	require.NoError(t, err)
	assert.Equal(t, "https://pay", link.URL)
	assert.Equal(t, 1, rec.ok)
	provider.AssertExpectations(t)

	_, err = svc.Checkout(ctx, id, "unknown", "/ok", "/cancel")
	assert.ErrorIs(t, err, billing.ErrPlanNotFound)
}

func TestService_Portal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	subscriber := identity.Identity{ID: uuid.New()}
	stranger := identity.Identity{ID: uuid.New()}
	boom := errors.New("provider down")

	provider := &mockProvider{}
	provider.On("GetCustomerPortalLink", mock.Anything, billing.PortalRequest{
		CustomerID: "cus_1", SubscriptionID: "sub_1", ReturnURL: "/back",
	}).Return(nil, boom)
	customers := &mockCustomers{}
	customers.On("BillingCustomer", mock.Anything, subscriber.ID).Return("cus_1", "sub_1", nil)
	customers.On("BillingCustomer", mock.Anything, stranger.ID).Return("", "", nil)
	rec := &linkCounter{}

	svc := billing.NewService(provider, testCatalog(t), customers, billing.WithLinkRecorder(rec))

	_, err := svc.Portal(ctx, subscriber, "/back")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, rec.failed)

	_, err = svc.Portal(ctx, stranger, "/back")
	assert.ErrorIs(t, err, billing.ErrMissingCustomer)
}

func TestService_Disabled(t *testing.T) {
	t.Parallel()
	svc := billing.NewService(nil, testCatalog(t), nil)
	assert.Equal(t, "none", svc.Provider())

	_, err := svc.Checkout(context.Background(), identity.Identity{ID: uuid.New()}, "premium", "", "")
	assert.ErrorIs(t, err, billing.ErrBillingDisabled)
}
