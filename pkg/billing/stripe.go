package billing

import (
	"context"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v75"
	portalsession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// StripeConfig configures the Stripe provider.
type StripeConfig struct {
	SecretKey string `env:"STRIPE_SECRET_KEY"`
}

// Stripe creates Stripe Checkout and Billing Portal sessions. It uses
// per-instance clients instead of the package-level stripe.Key.
type Stripe struct {
	checkout checkoutsession.Client
	portal   portalsession.Client
}

func NewStripe(cfg StripeConfig) (*Stripe, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}
	return NewStripeWithBackend(cfg.SecretKey, stripe.GetBackend(stripe.APIBackend)), nil
}

// NewStripeWithBackend uses a custom API backend, e.g. one pointed at a test
// server.
func NewStripeWithBackend(key string, backend stripe.Backend) *Stripe {
	return &Stripe{
		checkout: checkoutsession.Client{B: backend, Key: key},
		portal:   portalsession.Client{B: backend, Key: key},
	}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
		ClientReferenceID: stripe.String(req.IdentityID),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"identity_id": req.IdentityID},
		},
	}
	params.Context = ctx
	if req.SuccessURL != "" {
		params.SuccessURL = stripe.String(req.SuccessURL)
	}
	if req.CancelURL != "" {
		params.CancelURL = stripe.String(req.CancelURL)
	}
	if req.TrialDays > 0 {
		params.SubscriptionData.TrialPeriodDays = stripe.Int64(int64(req.TrialDays))
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	} else if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}

	sess, err := s.checkout.New(params)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	if sess.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	expires := time.Now().Add(24 * time.Hour)
	if sess.ExpiresAt > 0 {
		expires = time.Unix(sess.ExpiresAt, 0)
	}
	return &CheckoutLink{URL: sess.URL, SessionID: sess.ID, ExpiresAt: expires}, nil
}

func (s *Stripe) GetCustomerPortalLink(ctx context.Context, req PortalRequest) (*PortalLink, error) {
	if req.CustomerID == "" {
		return nil, ErrMissingCustomer
	}
	if req.ReturnURL == "" {
		return nil, ErrMissingReturnURL
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(req.CustomerID),
		ReturnURL: stripe.String(req.ReturnURL),
	}
	params.Context = ctx

	sess, err := s.portal.New(params)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	if sess.URL == "" {
		return nil, ErrNoPortalURL
	}
	// portal sessions are short-lived and single use
	return &PortalLink{URL: sess.URL, ExpiresAt: time.Now().Add(5 * time.Minute)}, nil
}
