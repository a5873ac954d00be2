package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"

	"github.com/oxalabs/oxakit/pkg/entitlement"
)

// PaddleConfig configures the Paddle billing provider.
type PaddleConfig struct {
	APIKey        string `env:"PADDLE_API_KEY,required"`
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
	Environment   string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
	SuccessURL    string `env:"PADDLE_SUCCESS_URL"`

	// Paddle price IDs for the two plans. Purchases map the toolkit's
	// product IDs onto these.
	PriceIDMonthly string `env:"PADDLE_PRICE_ID_MONTHLY"`
	PriceIDYearly  string `env:"PADDLE_PRICE_ID_YEARLY"`
}

// PaddleProvider implements Provider over Paddle hosted checkout. Paddle
// has no client-side purchase call: PurchaseProduct creates a catalog
// transaction and hands back its checkout URL, and the entitlement arrives
// later through a verified webhook, which updates the cached customer
// document and fires the registered listeners.
type PaddleProvider struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
	config   PaddleConfig

	mu        sync.RWMutex
	appUserID string
	info      *entitlement.CustomerInfo
	listeners []CustomerInfoListener
}

// NewPaddleProvider creates a Paddle provider for the configured
// environment.
func NewPaddleProvider(cfg PaddleConfig) (*PaddleProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("billing: paddle webhook secret is required")
	}

	var client *paddle.SDK
	var err error
	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("billing: invalid paddle environment: %s", cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("billing: failed to create paddle client: %w", err)
	}

	return &PaddleProvider{
		client:   client,
		verifier: paddle.NewWebhookVerifier(cfg.WebhookSecret),
		config:   cfg,
	}, nil
}

// Configure binds the provider to an app user and clears any cached
// document from a previous user.
func (p *PaddleProvider) Configure(_ context.Context, appUserID string) error {
	if appUserID == "" {
		return NewError(CodeInvalidCredentials, fmt.Errorf("app user ID is required"))
	}
	p.mu.Lock()
	p.appUserID = appUserID
	p.info = emptyCustomerInfo(appUserID)
	p.mu.Unlock()
	return nil
}

// GetCustomerInfo returns the cached document. Paddle pushes entitlement
// changes through webhooks; there is no per-customer pull here.
func (p *PaddleProvider) GetCustomerInfo(_ context.Context) (*entitlement.CustomerInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.appUserID == "" {
		return nil, NewError(CodeInvalidCredentials, ErrNotConfigured)
	}
	return p.info, nil
}

// GetOfferings returns the two configured plans.
func (p *PaddleProvider) GetOfferings(_ context.Context) (*Offerings, error) {
	offerings := &Offerings{}
	if p.config.PriceIDMonthly != "" {
		offerings.Current = append(offerings.Current, Package{
			Identifier: "$monthly",
			ProductID:  entitlement.ProductIDMonthly,
		})
	}
	if p.config.PriceIDYearly != "" {
		offerings.Current = append(offerings.Current, Package{
			Identifier: "$yearly",
			ProductID:  entitlement.ProductIDYearly,
		})
	}
	return offerings, nil
}

// PurchaseProduct creates a hosted-checkout transaction for the plan. The
// returned result carries the checkout URL and no customer document; the
// document update arrives via webhook once payment completes.
func (p *PaddleProvider) PurchaseProduct(ctx context.Context, productID string) (*PurchaseResult, error) {
	userID, err := p.userID()
	if err != nil {
		return nil, err
	}

	priceID, err := p.priceFor(productID)
	if err != nil {
		return nil, err
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  priceID,
		Quantity: 1,
	})

	req := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"app_user_id": userID,
			"product_id":  productID,
		},
	}
	if p.config.SuccessURL != "" {
		req.Checkout = &paddle.TransactionCheckout{
			URL: paddle.PtrTo(p.config.SuccessURL),
		}
	}

	transaction, err := p.client.TransactionsClient.CreateTransaction(ctx, req)
	if err != nil {
		return nil, NewError(CodeStoreProblem, fmt.Errorf("failed to create paddle transaction: %w", err))
	}

	if transaction.Checkout == nil || transaction.Checkout.URL == nil {
		return nil, NewError(CodeBackendError, fmt.Errorf("no checkout URL returned from paddle"))
	}

	return &PurchaseResult{
		TransactionID: transaction.ID,
		CheckoutURL:   *transaction.Checkout.URL,
	}, nil
}

// RestorePurchases returns the cached document; Paddle state is
// webhook-driven and already current.
func (p *PaddleProvider) RestorePurchases(ctx context.Context) (*entitlement.CustomerInfo, error) {
	return p.GetCustomerInfo(ctx)
}

// AddCustomerInfoListener registers a callback fired on every webhook that
// changes the customer document.
func (p *PaddleProvider) AddCustomerInfoListener(fn CustomerInfoListener) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// HandleWebhook verifies and applies a Paddle subscription webhook. Events
// for other app users are ignored. The HTTP layer embedding this provider
// routes the raw body and Paddle-Signature header here.
func (p *PaddleProvider) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("billing: failed to build verification request: %w", err)
	}
	req.Header.Set("Paddle-Signature", signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return fmt.Errorf("billing: webhook verification error: %w", err)
	}
	if !valid {
		return fmt.Errorf("billing: webhook signature verification failed")
	}

	var event struct {
		EventType string `json:"event_type"`
		Data      struct {
			ID           string     `json:"id"`
			Status       string     `json:"status"`
			NextBilledAt *time.Time `json:"next_billed_at"`
			CustomData   struct {
				AppUserID string `json:"app_user_id"`
				ProductID string `json:"product_id"`
			} `json:"custom_data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("billing: failed to parse webhook payload: %w", err)
	}

	if !strings.HasPrefix(event.EventType, "subscription.") {
		return nil
	}

	p.mu.Lock()
	if event.Data.CustomData.AppUserID != p.appUserID || p.appUserID == "" {
		p.mu.Unlock()
		return nil
	}

	info := emptyCustomerInfo(p.appUserID)
	record := entitlement.Entitlement{
		IsActive:          true,
		WillRenew:         event.Data.Status == "active" || event.Data.Status == "trialing",
		ProductIdentifier: event.Data.CustomData.ProductID,
		ExpirationDate:    event.Data.NextBilledAt,
	}
	info.Entitlements.All[entitlement.PremiumEntitlement] = record

	switch event.Data.Status {
	case "active", "trialing", "past_due":
		info.Entitlements.Active[entitlement.PremiumEntitlement] = record
		info.ActiveSubscriptions = []string{event.Data.CustomData.ProductID}
	default:
		// canceled, paused, expired: the grant stays in All only.
		record.IsActive = false
		info.Entitlements.All[entitlement.PremiumEntitlement] = record
	}

	p.info = info
	listeners := make([]CustomerInfoListener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(info)
	}
	return nil
}

func (p *PaddleProvider) userID() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.appUserID == "" {
		return "", NewError(CodeInvalidCredentials, ErrNotConfigured)
	}
	return p.appUserID, nil
}

func (p *PaddleProvider) priceFor(productID string) (string, error) {
	switch productID {
	case entitlement.ProductIDMonthly:
		if p.config.PriceIDMonthly != "" {
			return p.config.PriceIDMonthly, nil
		}
	case entitlement.ProductIDYearly:
		if p.config.PriceIDYearly != "" {
			return p.config.PriceIDYearly, nil
		}
	}
	return "", NewError(CodePurchaseInvalid, fmt.Errorf("no paddle price configured for product %q", productID))
}

func emptyCustomerInfo(appUserID string) *entitlement.CustomerInfo {
	return &entitlement.CustomerInfo{
		AppUserID: appUserID,
		Entitlements: entitlement.Entitlements{
			Active: make(map[string]entitlement.Entitlement),
			All:    make(map[string]entitlement.Entitlement),
		},
	}
}
