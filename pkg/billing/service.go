package billing

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
)

// CustomerLookup resolves the processor-side customer and subscription ids of
// an identity. Either may be empty for users who never checked out.
type CustomerLookup interface {
	BillingCustomer(ctx context.Context, identityID uuid.UUID) (customerID, subscriptionID string, err error)
}

// LinkRecorder counts created links.
type LinkRecorder interface {
	BillingLink(provider, kind string, err error)
}

// Service builds checkout and portal links for signed-in users.
type Service struct {
	provider  Provider
	catalog   *Catalog
	customers CustomerLookup
	log       *slog.Logger
	recorder  LinkRecorder
}

type ServiceOption func(*Service)

func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithLinkRecorder(r LinkRecorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func NewService(provider Provider, catalog *Catalog, customers CustomerLookup, opts ...ServiceOption) *Service {
	if provider == nil {
		provider = Disabled{}
	}
	s := &Service{
		provider:  provider,
		catalog:   catalog,
		customers: customers,
		log:       logger.Discard(),
		recorder:  nopLinkRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Provider() string { return s.provider.Name() }

// Plans lists the catalog.
func (s *Service) Plans() []Plan {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Plans()
}

// Checkout starts a checkout for planID on behalf of id.
func (s *Service) Checkout(ctx context.Context, id identity.Identity, planID, successURL, cancelURL string) (*CheckoutLink, error) {
	if s.catalog == nil {
		return nil, ErrPlanNotFound
	}
	plan, err := s.catalog.Plan(planID)
	if err != nil {
		return nil, err
	}

	req := CheckoutRequest{
		PriceID:    plan.PriceID,
		TrialDays:  plan.TrialDays,
		IdentityID: id.ID.String(),
		Email:      id.Email,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	}
	if s.customers != nil {
		customerID, _, err := s.customers.BillingCustomer(ctx, id.ID)
		if err != nil {
			return nil, err
		}
		req.CustomerID = customerID
	}

	link, err := s.provider.CreateCheckoutLink(ctx, req)
	s.recorder.BillingLink(s.provider.Name(), "checkout", err)
	if err != nil {
		s.log.ErrorContext(ctx, "checkout link failed",
			logger.Provider(s.provider.Name()),
			logger.IdentityID(id.ID),
			logger.Error(err),
		)
		return nil, err
	}
	return link, nil
}

// Portal opens the customer portal for id.
func (s *Service) Portal(ctx context.Context, id identity.Identity, returnURL string) (*PortalLink, error) {
	if s.customers == nil {
		return nil, ErrMissingCustomer
	}
	customerID, subscriptionID, err := s.customers.BillingCustomer(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		return nil, ErrMissingCustomer
	}

	link, err := s.provider.GetCustomerPortalLink(ctx, PortalRequest{
		CustomerID:     customerID,
		SubscriptionID: subscriptionID,
		ReturnURL:      returnURL,
	})
	s.recorder.BillingLink(s.provider.Name(), "portal", err)
	if err != nil {
		s.log.ErrorContext(ctx, "portal link failed",
			logger.Provider(s.provider.Name()),
			logger.IdentityID(id.ID),
			logger.Error(err),
		)
		return nil, err
	}
	return link, nil
}

type nopLinkRecorder struct{}

func (nopLinkRecorder) BillingLink(string, string, error) {}
