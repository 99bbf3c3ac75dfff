package billing

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBillingDisabled     = errors.New("billing.disabled")
	ErrPlanNotFound        = errors.New("billing.plan_not_found")
	ErrInvalidPlanCatalog  = errors.New("billing.invalid_plan_catalog")
	ErrMissingAPIKey       = errors.New("billing.missing_api_key")
	ErrInvalidEnvironment  = errors.New("billing.invalid_environment")
	ErrMissingPriceID      = errors.New("billing.missing_price_id")
	ErrMissingCustomer     = errors.New("billing.missing_customer")
	ErrMissingReturnURL    = errors.New("billing.missing_return_url")
	ErrNoCheckoutURL       = errors.New("billing.no_checkout_url")
	ErrNoPortalURL         = errors.New("billing.no_portal_url")
	ErrProviderUnavailable = errors.New("billing.provider_unavailable")
)

// CheckoutRequest describes a hosted checkout for one plan.
type CheckoutRequest struct {
	PriceID    string
	TrialDays  int
	IdentityID string // our user id, echoed back in provider metadata
	CustomerID string // provider customer id, when one already exists
	Email      string
	SuccessURL string
	CancelURL  string
}

// CheckoutLink is a hosted checkout session.
type CheckoutLink struct {
	URL       string    `json:"url"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PortalRequest describes a customer portal session.
type PortalRequest struct {
	CustomerID     string
	SubscriptionID string
	ReturnURL      string
}

// PortalLink is a pre-authenticated customer portal URL.
type PortalLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Provider is a payment processor.
type Provider interface {
	Name() string
	CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)
	GetCustomerPortalLink(ctx context.Context, req PortalRequest) (*PortalLink, error)
}

// Disabled is the Provider used when no processor is configured.
type Disabled struct{}

func (Disabled) Name() string { return "none" }

func (Disabled) CreateCheckoutLink(context.Context, CheckoutRequest) (*CheckoutLink, error) {
	return nil, ErrBillingDisabled
}

func (Disabled) GetCustomerPortalLink(context.Context, PortalRequest) (*PortalLink, error) {
	return nil, ErrBillingDisabled
}
