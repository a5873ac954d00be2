package billing

import (
	"context"
	"sync"

	"github.com/oxalabs/oxakit/pkg/entitlement"
)

// NoopProvider is the provider used when no billing backend is wired in,
// for example in development builds or regions without in-app purchases.
// Everyone stays on the free tier, purchase attempts fail with a clear
// billing error, and Grant lets tests and support tooling flip a user to
// premium locally.
type NoopProvider struct {
	mu        sync.RWMutex
	appUserID string
	info      *entitlement.CustomerInfo
	listeners []CustomerInfoListener
}

// NewNoopProvider creates a provider with no backend.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Configure(_ context.Context, appUserID string) error {
	if appUserID == "" {
		return NewError(CodeInvalidCredentials, ErrNotConfigured)
	}
	p.mu.Lock()
	p.appUserID = appUserID
	if p.info == nil {
		p.info = emptyCustomerInfo(appUserID)
	}
	p.mu.Unlock()
	return nil
}

func (p *NoopProvider) GetCustomerInfo(_ context.Context) (*entitlement.CustomerInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.appUserID == "" {
		return nil, NewError(CodeInvalidCredentials, ErrNotConfigured)
	}
	return p.info, nil
}

func (p *NoopProvider) GetOfferings(_ context.Context) (*Offerings, error) {
	return &Offerings{}, nil
}

func (p *NoopProvider) PurchaseProduct(_ context.Context, _ string) (*PurchaseResult, error) {
	return nil, NewError(CodePurchaseNotAllowed, ErrBillingUnavailable)
}

func (p *NoopProvider) RestorePurchases(ctx context.Context) (*entitlement.CustomerInfo, error) {
	return p.GetCustomerInfo(ctx)
}

func (p *NoopProvider) AddCustomerInfoListener(fn CustomerInfoListener) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// Grant marks the configured user premium and pushes the update to
// listeners. Intended for local development and tests.
func (p *NoopProvider) Grant(productID string) {
	p.mu.Lock()
	if p.appUserID == "" {
		p.mu.Unlock()
		return
	}
	info := emptyCustomerInfo(p.appUserID)
	record := entitlement.Entitlement{
		IsActive:          true,
		WillRenew:         true,
		ProductIdentifier: productID,
	}
	info.Entitlements.Active[entitlement.PremiumEntitlement] = record
	info.Entitlements.All[entitlement.PremiumEntitlement] = record
	info.ActiveSubscriptions = []string{productID}
	p.info = info
	listeners := make([]CustomerInfoListener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(info)
	}
}
