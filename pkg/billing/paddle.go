package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleConfig configures the Paddle provider.
type PaddleConfig struct {
	APIKey      string `env:"PADDLE_API_KEY"`
	Environment string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

// Paddle creates Paddle transactions and customer portal sessions.
// Trial length is configured on the Paddle price; the requested length is
// echoed in custom data for reconciliation.
type Paddle struct {
	client *paddle.SDK
}

func NewPaddle(cfg PaddleConfig) (*Paddle, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var (
		client *paddle.SDK
		err    error
	)
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEnvironment, cfg.Environment)
	}
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	return &Paddle{client: client}, nil
}

func (p *Paddle) Name() string { return "paddle" }

func (p *Paddle) CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.PriceID,
		Quantity: 1,
	})
	txReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"identity_id": req.IdentityID,
			"trial_days":  strconv.Itoa(req.TrialDays),
		},
	}
	if req.Email != "" {
		txReq.CustomData["email"] = req.Email
	}
	if req.SuccessURL != "" {
		txReq.Checkout = &paddle.TransactionCheckout{URL: paddle.PtrTo(req.SuccessURL)}
	}

	tx, err := p.client.TransactionsClient.CreateTransaction(ctx, txReq)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	if tx.Checkout == nil || tx.Checkout.URL == nil || *tx.Checkout.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	return &CheckoutLink{
		URL:       *tx.Checkout.URL,
		SessionID: tx.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}, nil
}

func (p *Paddle) GetCustomerPortalLink(ctx context.Context, req PortalRequest) (*PortalLink, error) {
	if req.CustomerID == "" {
		return nil, ErrMissingCustomer
	}

	sessReq := &paddle.CreateCustomerPortalSessionRequest{CustomerID: req.CustomerID}
	if req.SubscriptionID != "" {
		sessReq.SubscriptionIDs = []string{req.SubscriptionID}
	}

	sess, err := p.client.CustomerPortalSessionsClient.CreateCustomerPortalSession(ctx, sessReq)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}

	url := sess.URLs.General.Overview
	for _, sub := range sess.URLs.Subscriptions {
		// prefer the deep link for the subscription being managed
		if sub.ID == req.SubscriptionID && sub.UpdateSubscriptionPaymentMethod != "" {
			url = sub.UpdateSubscriptionPaymentMethod
			break
		}
	}
	if url == "" {
		return nil, ErrNoPortalURL
	}
	return &PortalLink{URL: url, ExpiresAt: time.Now().Add(24 * time.Hour)}, nil
}

func validateCheckout(req CheckoutRequest) error {
	if req.PriceID == "" {
		return ErrMissingPriceID
	}
	if req.IdentityID == "" {
		return ErrMissingCustomer
	}
	return nil
}
