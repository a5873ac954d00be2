package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/oxalabs/oxakit/pkg/entitlement"
)

// RevenueCatConfig configures the RevenueCat REST provider.
type RevenueCatConfig struct {
	APIKey  string        `env:"REVENUECAT_API_KEY,required"`
	BaseURL string        `env:"REVENUECAT_BASE_URL" envDefault:"https://api.revenuecat.com/v1"`
	Timeout time.Duration `env:"REVENUECAT_TIMEOUT" envDefault:"30s"`
}

// RevenueCatProvider implements Provider over the RevenueCat v1 REST API.
// RevenueCat has no official Go SDK, so the three read paths (subscriber,
// offerings, restore-as-refresh) are implemented directly. Store purchases
// cannot be initiated server-side; PurchaseProduct reports a not-allowed
// billing error so callers fall back to a store client.
type RevenueCatProvider struct {
	config RevenueCatConfig
	client *http.Client

	mu        sync.RWMutex
	appUserID string
	listeners []CustomerInfoListener
}

// NewRevenueCatProvider creates a provider from config. The API key is
// required; everything else has defaults.
func NewRevenueCatProvider(cfg RevenueCatConfig, opts ...func(*RevenueCatProvider)) (*RevenueCatProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.revenuecat.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	p := &RevenueCatProvider{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) func(*RevenueCatProvider) {
	return func(p *RevenueCatProvider) {
		if client != nil {
			p.client = client
		}
	}
}

// Configure binds the provider to an app user.
func (p *RevenueCatProvider) Configure(_ context.Context, appUserID string) error {
	if appUserID == "" {
		return NewError(CodeInvalidCredentials, fmt.Errorf("app user ID is required"))
	}
	p.mu.Lock()
	p.appUserID = appUserID
	p.mu.Unlock()
	return nil
}

// GetCustomerInfo fetches and maps the subscriber document.
func (p *RevenueCatProvider) GetCustomerInfo(ctx context.Context) (*entitlement.CustomerInfo, error) {
	userID, err := p.userID()
	if err != nil {
		return nil, err
	}

	var resp subscriberResponse
	if err := p.get(ctx, "/subscribers/"+url.PathEscape(userID), &resp); err != nil {
		return nil, err
	}

	info := resp.toCustomerInfo()
	p.notifyListeners(info)
	return info, nil
}

// GetOfferings returns the current paywall packages.
func (p *RevenueCatProvider) GetOfferings(ctx context.Context) (*Offerings, error) {
	userID, err := p.userID()
	if err != nil {
		return nil, err
	}

	var resp offeringsResponse
	if err := p.get(ctx, "/subscribers/"+url.PathEscape(userID)+"/offerings", &resp); err != nil {
		return nil, err
	}

	offerings := &Offerings{}
	for _, off := range resp.Offerings {
		if off.Identifier != resp.CurrentOfferingID {
			continue
		}
		for _, pkg := range off.Packages {
			offerings.Current = append(offerings.Current, Package{
				Identifier: pkg.Identifier,
				ProductID:  pkg.PlatformProductIdentifier,
			})
		}
	}
	return offerings, nil
}

// PurchaseProduct always fails: RevenueCat purchases originate from the
// platform store client, never from a server credential.
func (p *RevenueCatProvider) PurchaseProduct(_ context.Context, _ string) (*PurchaseResult, error) {
	return nil, NewError(CodePurchaseNotAllowed, ErrPurchaseNotSupported)
}

// RestorePurchases re-fetches the subscriber document. RevenueCat keeps
// purchase history server-side, so a refresh is a restore.
func (p *RevenueCatProvider) RestorePurchases(ctx context.Context) (*entitlement.CustomerInfo, error) {
	return p.GetCustomerInfo(ctx)
}

// AddCustomerInfoListener registers a callback invoked on every freshly
// fetched subscriber document.
func (p *RevenueCatProvider) AddCustomerInfoListener(fn CustomerInfoListener) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

func (p *RevenueCatProvider) userID() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.appUserID == "" {
		return "", NewError(CodeInvalidCredentials, ErrNotConfigured)
	}
	return p.appUserID, nil
}

func (p *RevenueCatProvider) notifyListeners(info *entitlement.CustomerInfo) {
	p.mu.RLock()
	listeners := make([]CustomerInfoListener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.RUnlock()

	for _, fn := range listeners {
		fn(info)
	}
}

func (p *RevenueCatProvider) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+path, nil)
	if err != nil {
		return NewError(CodeUnknown, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return NewError(CodeNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewError(CodeNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK, resp.StatusCode == http.StatusCreated:
		// RevenueCat returns 201 when the GET implicitly creates the subscriber.
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return NewError(CodeInvalidCredentials,
			fmt.Errorf("revenuecat returned status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return NewError(CodeBackendError,
			fmt.Errorf("revenuecat returned status %d: %s", resp.StatusCode, string(body)))
	default:
		return NewError(CodeStoreProblem,
			fmt.Errorf("revenuecat returned status %d: %s", resp.StatusCode, string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return NewError(CodeBackendError, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// RevenueCat API payloads, reduced to the fields consumed.

type subscriberResponse struct {
	RequestDate time.Time `json:"request_date"`
	Subscriber  struct {
		OriginalAppUserID string `json:"original_app_user_id"`
		Entitlements      map[string]struct {
			ExpiresDate       *time.Time `json:"expires_date"`
			ProductIdentifier string     `json:"product_identifier"`
		} `json:"entitlements"`
		Subscriptions map[string]struct {
			ExpiresDate           *time.Time `json:"expires_date"`
			UnsubscribeDetectedAt *time.Time `json:"unsubscribe_detected_at"`
		} `json:"subscriptions"`
	} `json:"subscriber"`
}

func (r subscriberResponse) toCustomerInfo() *entitlement.CustomerInfo {
	now := r.RequestDate
	if now.IsZero() {
		now = time.Now().UTC()
	}

	info := &entitlement.CustomerInfo{
		AppUserID:   r.Subscriber.OriginalAppUserID,
		RequestDate: &now,
		Entitlements: entitlement.Entitlements{
			Active: make(map[string]entitlement.Entitlement),
			All:    make(map[string]entitlement.Entitlement),
		},
	}

	for name, ent := range r.Subscriber.Entitlements {
		willRenew := true
		if sub, ok := r.Subscriber.Subscriptions[ent.ProductIdentifier]; ok {
			willRenew = sub.UnsubscribeDetectedAt == nil
		}

		active := ent.ExpiresDate == nil || ent.ExpiresDate.After(now)
		record := entitlement.Entitlement{
			IsActive:          active,
			WillRenew:         willRenew,
			ProductIdentifier: ent.ProductIdentifier,
			ExpirationDate:    ent.ExpiresDate,
		}

		info.Entitlements.All[name] = record
		if active {
			info.Entitlements.Active[name] = record
		}
	}

	for productID, sub := range r.Subscriber.Subscriptions {
		if sub.ExpiresDate == nil || sub.ExpiresDate.After(now) {
			info.ActiveSubscriptions = append(info.ActiveSubscriptions, productID)
		}
	}
	return info
}

type offeringsResponse struct {
	CurrentOfferingID string `json:"current_offering_id"`
	Offerings         []struct {
		Identifier string `json:"identifier"`
		Packages   []struct {
			Identifier                string `json:"identifier"`
			PlatformProductIdentifier string `json:"platform_product_identifier"`
		} `json:"packages"`
	} `json:"offerings"`
}
