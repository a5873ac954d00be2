package billing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/oxalabs/oxakit/pkg/entitlement"
	"github.com/oxalabs/oxakit/pkg/kv"
	"github.com/oxalabs/oxakit/pkg/notify"
)

// StatusStorageKey is where the orchestrator caches the last known
// subscription state for offline starts.
const StatusStorageKey = "oxakit:subscription_status"

// Attempt budgets per operation. Purchase gets a single attempt so a
// timed-out-but-actually-charged transaction is never re-issued.
const (
	initializeAttempts = 2
	purchaseAttempts   = 1
	restoreAttempts    = 2
)

// ReceiptSender mails purchase receipts and billing-failure notices.
// *notify.Mailer satisfies it.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, to, planName string) error
	SendBillingFailure(ctx context.Context, to string) error
}

// Orchestrator owns the cached customer document and its derived
// subscription status. All provider failures are classified, logged, and
// surfaced as user-facing notifications; a failed call never disturbs the
// previously cached state.
type Orchestrator struct {
	mu       sync.RWMutex
	provider Provider
	notifier notify.Notifier
	log      *slog.Logger
	store    kv.Store
	backoff  BackoffStrategy

	receipts     ReceiptSender
	receiptEmail string

	info   *entitlement.CustomerInfo
	status entitlement.Status
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithNotifier sets the user-facing notification sink.
func WithNotifier(n notify.Notifier) OrchestratorOption {
	return func(o *Orchestrator) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(log *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithStatusStore enables persisting the last known subscription state so
// the next start can gate features before the provider answers.
func WithStatusStore(store kv.Store) OrchestratorOption {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithBackoff overrides the retry backoff strategy.
func WithBackoff(b BackoffStrategy) OrchestratorOption {
	return func(o *Orchestrator) {
		if b != nil {
			o.backoff = b
		}
	}
}

// WithReceipts enables purchase receipt and billing-failure emails to the
// given address.
func WithReceipts(sender ReceiptSender, email string) OrchestratorOption {
	return func(o *Orchestrator) {
		if sender != nil && email != "" {
			o.receipts = sender
			o.receiptEmail = email
		}
	}
}

// NewOrchestrator creates an orchestrator over the given provider and
// subscribes to its customer-info updates. Status starts as StatusLoading
// until Initialize completes.
func NewOrchestrator(provider Provider, opts ...OrchestratorOption) *Orchestrator {
	if provider == nil {
		panic("billing: Provider is required")
	}

	o := &Orchestrator{
		provider: provider,
		log:      slog.Default(),
		backoff:  DefaultBackoff(),
		status:   entitlement.StatusLoading,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.notifier == nil {
		o.notifier = notify.NewSlogNotifier(o.log)
	}

	provider.AddCustomerInfoListener(o.handleUpdate)
	return o
}

// Status returns the current subscription tier. Safe to use as the
// quota engine's StatusFunc.
func (o *Orchestrator) Status() entitlement.Status {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status
}

// CustomerInfo returns the cached customer document. Callers must treat it
// as read-only; it is replaced, never mutated, on updates.
func (o *Orchestrator) CustomerInfo() *entitlement.CustomerInfo {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.info
}

// Initialize configures the provider for the given user and fetches the
// initial customer document, retrying transient failures. On failure the
// cached state from a previous session (if any) is used and the status
// degrades to free rather than staying in loading forever.
func (o *Orchestrator) Initialize(ctx context.Context, appUserID string) error {
	err := Retry(ctx, RetryOptions{MaxAttempts: initializeAttempts, Backoff: o.backoff}, func(ctx context.Context) error {
		if err := o.provider.Configure(ctx, appUserID); err != nil {
			return err
		}
		info, err := o.provider.GetCustomerInfo(ctx)
		if err != nil {
			return err
		}
		o.apply(ctx, info)
		return nil
	})
	if err == nil {
		return nil
	}

	berr := Classify(err)
	o.log.WarnContext(ctx, "billing initialization failed",
		"code", berr.Code, "error", berr.Err)

	if !o.restoreCached(ctx) {
		o.mu.Lock()
		o.status = entitlement.StatusFree
		o.mu.Unlock()
	}
	return berr
}

// Purchase buys the given product. A single provider attempt is made; any
// failure is surfaced to the user and leaves the cached state untouched.
// An already-purchased error offers a Restore action instead of retrying
// the purchase.
func (o *Orchestrator) Purchase(ctx context.Context, productID string) bool {
	var result *PurchaseResult
	err := Retry(ctx, RetryOptions{MaxAttempts: purchaseAttempts, Backoff: o.backoff}, func(ctx context.Context) error {
		r, err := o.provider.PurchaseProduct(ctx, productID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		o.surfaceFailure(ctx, "Purchase failed", err)
		if berr := Classify(err); berr.Code != CodePurchaseCancelled {
			o.sendBillingFailure(ctx)
		}
		return false
	}

	o.log.InfoContext(ctx, "purchase completed",
		"product_id", productID, "transaction_id", result.TransactionID)

	if result.CustomerInfo == nil && result.CheckoutURL != "" {
		// Redirect provider: the entitlement arrives via webhook after the
		// customer finishes hosted checkout.
		o.notifier.Show(ctx, notify.Notification{
			Title:   "Almost there",
			Message: "Finish your purchase at the checkout page to activate premium.",
		})
		return true
	}

	if result.CustomerInfo != nil {
		o.apply(ctx, result.CustomerInfo)
	}
	o.notifier.Show(ctx, notify.Notification{
		Title:   "Welcome to premium",
		Message: "Your subscription is active. All limits are lifted.",
	})
	o.sendReceipt(ctx, productID)
	return true
}

// Restore re-syncs past purchases, retrying transient failures.
func (o *Orchestrator) Restore(ctx context.Context) bool {
	var info *entitlement.CustomerInfo
	err := Retry(ctx, RetryOptions{MaxAttempts: restoreAttempts, Backoff: o.backoff}, func(ctx context.Context) error {
		i, err := o.provider.RestorePurchases(ctx)
		if err != nil {
			return err
		}
		info = i
		return nil
	})
	if err != nil {
		o.surfaceFailure(ctx, "Restore failed", err)
		return false
	}

	o.apply(ctx, info)

	if entitlement.IsPremium(info) {
		o.notifier.Show(ctx, notify.Notification{
			Title:   "Purchases restored",
			Message: "Your premium subscription is active again.",
		})
	} else {
		o.notifier.Show(ctx, notify.Notification{
			Title:   "No purchases found",
			Message: "There is no previous subscription on this account.",
		})
	}
	return true
}

// Offerings fetches the current paywall packages, retrying transient
// failures.
func (o *Orchestrator) Offerings(ctx context.Context) (*Offerings, error) {
	var offerings *Offerings
	err := Retry(ctx, RetryOptions{MaxAttempts: restoreAttempts, Backoff: o.backoff}, func(ctx context.Context) error {
		of, err := o.provider.GetOfferings(ctx)
		if err != nil {
			return err
		}
		offerings = of
		return nil
	})
	if err != nil {
		berr := Classify(err)
		o.log.WarnContext(ctx, "failed to load offerings", "code", berr.Code, "error", berr.Err)
		return nil, berr
	}
	return offerings, nil
}

// handleUpdate is the provider listener: a pushed document replaces the
// cache wholesale and recomputes the status, flipping feature gates
// mid-session with no restart.
func (o *Orchestrator) handleUpdate(info *entitlement.CustomerInfo) {
	o.apply(context.Background(), info)
}

func (o *Orchestrator) apply(ctx context.Context, info *entitlement.CustomerInfo) {
	status := entitlement.Resolve(info)

	o.mu.Lock()
	o.info = info
	o.status = status
	o.mu.Unlock()

	o.log.InfoContext(ctx, "subscription status updated", "status", status)
	o.persistCached(ctx, info, status)
}

func (o *Orchestrator) surfaceFailure(ctx context.Context, title string, err error) {
	berr := Classify(err)
	o.log.WarnContext(ctx, "billing call failed", "code", berr.Code, "error", berr.Err)

	n := notify.Notification{Title: title, Message: berr.UserMessage()}
	if berr.Code == CodeAlreadyPurchased {
		n.Action = &notify.Action{
			Label: berr.ActionLabel(),
			Handler: func() {
				o.Restore(context.WithoutCancel(ctx))
			},
		}
	} else if label := berr.ActionLabel(); label != "" {
		n.Action = &notify.Action{Label: label}
	}
	o.notifier.Show(ctx, n)
}

func (o *Orchestrator) sendReceipt(ctx context.Context, productID string) {
	if o.receipts == nil {
		return
	}
	plan := "Premium"
	switch productID {
	case entitlement.ProductIDMonthly:
		plan = "Premium Monthly"
	case entitlement.ProductIDYearly:
		plan = "Premium Yearly"
	}
	if err := o.receipts.SendReceipt(ctx, o.receiptEmail, plan); err != nil {
		o.log.WarnContext(ctx, "failed to send purchase receipt", "error", err)
	}
}

func (o *Orchestrator) sendBillingFailure(ctx context.Context) {
	if o.receipts == nil {
		return
	}
	if err := o.receipts.SendBillingFailure(ctx, o.receiptEmail); err != nil {
		o.log.WarnContext(ctx, "failed to send billing failure notice", "error", err)
	}
}

type cachedState struct {
	Status entitlement.Status        `json:"status"`
	Info   *entitlement.CustomerInfo `json:"customer_info,omitempty"`
}

func (o *Orchestrator) persistCached(ctx context.Context, info *entitlement.CustomerInfo, status entitlement.Status) {
	if o.store == nil {
		return
	}
	raw, err := json.Marshal(cachedState{Status: status, Info: info})
	if err != nil {
		return
	}
	if err := o.store.Set(ctx, StatusStorageKey, string(raw)); err != nil {
		o.log.WarnContext(ctx, "failed to cache subscription state", "error", err)
	}
}

// restoreCached loads the last persisted state. Corrupt or missing cache
// reports false so the caller can fall back to the free tier.
func (o *Orchestrator) restoreCached(ctx context.Context) bool {
	if o.store == nil {
		return false
	}
	raw, err := o.store.Get(ctx, StatusStorageKey)
	if err != nil {
		if !errors.Is(err, kv.ErrKeyNotFound) {
			o.log.WarnContext(ctx, "failed to read cached subscription state", "error", err)
		}
		return false
	}

	var cached cachedState
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		o.log.WarnContext(ctx, "discarding corrupt cached subscription state", "error", err)
		return false
	}

	// Recompute rather than trust the stored status string.
	status := entitlement.Resolve(cached.Info)

	o.mu.Lock()
	o.info = cached.Info
	o.status = status
	o.mu.Unlock()
	return true
}
