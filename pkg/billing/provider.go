package billing

import (
	"context"

	"github.com/oxalabs/oxakit/pkg/entitlement"
)

// Provider is the minimal surface the orchestrator needs from a billing
// backend. It mirrors the shape of mobile in-app-purchase SDKs so an
// embedding client can swap the native SDK in without touching the
// orchestration layer.
type Provider interface {
	// Configure binds the provider to an app user. Must be called before
	// any other method.
	Configure(ctx context.Context, appUserID string) error

	// GetCustomerInfo fetches the current customer document.
	GetCustomerInfo(ctx context.Context) (*entitlement.CustomerInfo, error)

	// GetOfferings returns the purchasable packages.
	GetOfferings(ctx context.Context) (*Offerings, error)

	// PurchaseProduct buys one product and returns the updated customer
	// document.
	PurchaseProduct(ctx context.Context, productID string) (*PurchaseResult, error)

	// RestorePurchases re-syncs past purchases into the customer document.
	RestorePurchases(ctx context.Context) (*entitlement.CustomerInfo, error)

	// AddCustomerInfoListener registers a callback invoked whenever the
	// provider pushes a new customer document.
	AddCustomerInfoListener(fn CustomerInfoListener)
}

// CustomerInfoListener receives pushed customer-document updates.
type CustomerInfoListener func(info *entitlement.CustomerInfo)

// Package is one purchasable plan inside an offering.
type Package struct {
	Identifier  string // e.g. "$rc_monthly"
	ProductID   string
	PriceString string // localized display price, e.g. "$4.99"
}

// Offerings is the provider's current paywall configuration.
type Offerings struct {
	Current []Package
}

// PurchaseResult is the outcome of a successful purchase call.
type PurchaseResult struct {
	CustomerInfo  *entitlement.CustomerInfo
	TransactionID string

	// CheckoutURL is set by redirect-based providers (Paddle): the purchase
	// completes out of band and the customer document arrives via webhook.
	CheckoutURL string
}
