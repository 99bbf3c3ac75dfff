package billing_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"

	"github.com/carlfalc/glutenworld-sub001/pkg/billing"
)

type stripeStub struct {
	mu    sync.Mutex
	forms map[string]url.Values
}

func newStripeStub(t *testing.T) (*billing.Stripe, *stripeStub) {
	t.Helper()
	stub := &stripeStub{forms: map[string]url.Values{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		stub.mu.Lock()
		stub.forms[r.URL.Path] = r.PostForm
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/checkout/sessions":
			fmt.Fprint(w, `{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_1","expires_at":1780000000}`)
		case "/v1/billing_portal/sessions":
			fmt.Fprint(w, `{"id":"bps_1","object":"billing_portal.session","url":"https://billing.stripe.com/p/session/bps_1"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"unknown"}}`)
		}
	}))
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return billing.NewStripeWithBackend("sk_test_123", backend), stub
}

func (s *stripeStub) form(path string) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forms[path]
}

func TestNewStripe_RequiresKey(t *testing.T) {
	t.Parallel()
	_, err := billing.NewStripe(billing.StripeConfig{})
	assert.ErrorIs(t, err, billing.ErrMissingAPIKey)
}

func TestStripe_CreateCheckoutLink(t *testing.T) {
	t.Parallel()
	p, stub := newStripeStub(t)

	link, err := p.CreateCheckoutLink(context.Background(), billing.CheckoutRequest{
		PriceID:    "price_monthly",
		TrialDays:  billing.DefaultTrialDays,
		IdentityID: "3f1b6c8e-0000-4000-8000-000000000001",
		Email:      "cook@example.com",
		SuccessURL: "https://app.example/v1/billing/return",
		CancelURL:  "https://app.example/pricing",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", link.URL)
	assert.Equal(t, "cs_test_1", link.SessionID)
	assert.Equal(t, int64(1780000000), link.ExpiresAt.Unix())

	form := stub.form("/v1/checkout/sessions")
	assert.Equal(t, "subscription", form.Get("mode"))
	assert.Equal(t, "price_monthly", form.Get("line_items[0][price]"))
	assert.Equal(t, "5", form.Get("subscription_data[trial_period_days]"))
	assert.Equal(t, "cook@example.com", form.Get("customer_email"))
	assert.Equal(t, "3f1b6c8e-0000-4000-8000-000000000001", form.Get("client_reference_id"))
}

func TestStripe_CheckoutWithoutTrial(t *testing.T) {
	t.Parallel()
	p, stub := newStripeStub(t)

	_, err := p.CreateCheckoutLink(context.Background(), billing.CheckoutRequest{
		PriceID:    "price_yearly",
		IdentityID: "id",
		CustomerID: "cus_123",
	})
	require.NoError(t, err)

	form := stub.form("/v1/checkout/sessions")
	assert.Empty(t, form.Get("subscription_data[trial_period_days]"))
	assert.Equal(t, "cus_123", form.Get("customer"))
	assert.Empty(t, form.Get("customer_email"))
}

func TestStripe_GetCustomerPortalLink(t *testing.T) {
	t.Parallel()
	p, stub := newStripeStub(t)

	link, err := p.GetCustomerPortalLink(context.Background(), billing.PortalRequest{
		CustomerID: "cus_123",
		ReturnURL:  "https://app.example/v1/billing/return",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.com/p/session/bps_1", link.URL)
	assert.Equal(t, "cus_123", stub.form("/v1/billing_portal/sessions").Get("customer"))

	_, err = p.GetCustomerPortalLink(context.Background(), billing.PortalRequest{ReturnURL: "x"})
	assert.ErrorIs(t, err, billing.ErrMissingCustomer)
	_, err = p.GetCustomerPortalLink(context.Background(), billing.PortalRequest{CustomerID: "cus_123"})
	assert.ErrorIs(t, err, billing.ErrMissingReturnURL)
}

func TestStripe_ValidatesCheckout(t *testing.T) {
	t.Parallel()
	p, _ := newStripeStub(t)
	_, err := p.CreateCheckoutLink(context.Background(), billing.CheckoutRequest{IdentityID: "id"})
	assert.ErrorIs(t, err, billing.ErrMissingPriceID)
	_, err = p.CreateCheckoutLink(context.Background(), billing.CheckoutRequest{PriceID: "p"})
	assert.ErrorIs(t, err, billing.ErrMissingCustomer)
}
