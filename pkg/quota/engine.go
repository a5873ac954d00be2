package quota

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/oxalabs/oxakit/pkg/entitlement"
	"github.com/oxalabs/oxakit/pkg/kv"
	"github.com/oxalabs/oxakit/pkg/notify"
	"github.com/oxalabs/oxakit/pkg/period"
)

// DefaultStorageKey is where the engine persists its state.
const DefaultStorageKey = "oxakit:usage_limits"

// StatusFunc reports the caller's current subscription tier. The engine
// calls it on every operation so a mid-session upgrade takes effect
// immediately, without reloading anything.
type StatusFunc func() entitlement.Status

// Engine enforces the three usage tracks. Construct it explicitly with
// NewEngine and share the one instance; all methods are safe for concurrent
// use.
type Engine struct {
	mu       sync.Mutex
	store    kv.Store
	key      string
	status   StatusFunc
	notifier notify.Notifier
	log      *slog.Logger
	now      func() time.Time
	bypass   bool

	limits Limits
	loaded bool
}

// NewEngine creates an engine over the given store and tier source.
// Panics if store or status is nil: both are programming errors that would
// otherwise surface as nil dereferences mid-session.
func NewEngine(store kv.Store, status StatusFunc, opts ...Option) *Engine {
	if store == nil {
		panic("quota: kv.Store is required")
	}
	if status == nil {
		panic("quota: StatusFunc is required")
	}

	e := &Engine{
		store:  store,
		key:    DefaultStorageKey,
		status: status,
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.notifier == nil {
		e.notifier = notify.NewSlogNotifier(e.log)
	}
	return e
}

// Load reads persisted state from the store. A missing key or a value that
// fails to decode degrades to freshly initialized state; only store access
// failures are returned as errors.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	raw, err := e.store.Get(ctx, e.key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		e.limits = NewLimits(now)
		e.loaded = true
		return nil
	}
	if err != nil {
		return errors.Join(ErrFailedToLoadState, err)
	}

	var limits Limits
	if err := json.Unmarshal([]byte(raw), &limits); err != nil {
		e.log.WarnContext(ctx, "discarding corrupt usage-limit state", "error", err)
		e.limits = NewLimits(now)
		e.loaded = true
		return nil
	}

	e.limits = limits.normalized(now)
	e.loaded = true
	return nil
}

// Save persists the current state.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persist(ctx)
}

// Reset reinitializes all counters and persists the result. This is the
// explicit reset the tracking invariant refers to; production code paths
// never call it.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.limits = NewLimits(e.now())
	e.loaded = true
	return e.persist(ctx)
}

// SetBypass toggles bypass mode at runtime.
func (e *Engine) SetBypass(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bypass = enabled
}

// Limits returns a snapshot of the effective state for the current period.
// Intended for display; mutating the copy has no effect.
func (e *Engine) Limits() Limits {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureLoaded()
	return e.limits.effective(e.now())
}

// --- Oracle track ---

// CanAskOracle reports whether one more Oracle question is allowed right
// now. Read-only: a rolled-over period is reflected without being persisted.
func (e *Engine) CanAskOracle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass {
		return true
	}

	e.ensureLoaded()
	eff := e.limits.Oracle.effective(e.now())
	if e.premium() {
		return eff.TodayCount < eff.DailyLimit
	}
	return eff.MonthlyCount < eff.MonthlyLimit
}

// RemainingOracle returns how many questions remain for the caller's tier.
func (e *Engine) RemainingOracle() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass {
		return UnlimitedRemaining
	}

	e.ensureLoaded()
	eff := e.limits.Oracle.effective(e.now())
	if e.premium() {
		return max(0, eff.DailyLimit-eff.TodayCount)
	}
	return max(0, eff.MonthlyLimit-eff.MonthlyCount)
}

// AskOracle consumes one Oracle question. Returns false without mutating
// state when the tier's limit is reached; the denial is also surfaced
// through the notifier. A non-nil error means the consume succeeded in
// memory but could not be persisted.
func (e *Engine) AskOracle(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass {
		return true, nil
	}

	e.ensureLoaded()
	now := e.now()
	eff := e.limits.Oracle.effective(now)

	premium := e.premium()
	if premium && eff.TodayCount >= eff.DailyLimit {
		e.notifyLimit(ctx, "Oracle limit reached",
			"You have used all 40 questions for today. Your allowance resets tomorrow.", false)
		return false, nil
	}
	if !premium && eff.MonthlyCount >= eff.MonthlyLimit {
		e.notifyLimit(ctx, "Oracle limit reached",
			"You have used all 10 free questions this month. Upgrade for 40 questions a day.", true)
		return false, nil
	}

	// Both counters advance so a tier change mid-period stays consistent.
	eff.MonthlyCount++
	eff.TodayCount++
	e.limits.Oracle = eff
	return true, e.persist(ctx)
}

// --- Recipe track ---

// CanCreateRecipe reports whether one more recipe generation is allowed.
func (e *Engine) CanCreateRecipe() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass {
		return true
	}

	e.ensureLoaded()
	eff := e.limits.Recipes.effective(e.now())
	if e.premium() {
		return eff.TodayCount < eff.DailyLimit
	}
	return eff.CurrentCount < eff.FreeLimit
}

// RemainingRecipes returns how many recipe generations remain for the
// caller's tier.
func (e *Engine) RemainingRecipes() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass {
		return UnlimitedRemaining
	}

	e.ensureLoaded()
	eff := e.limits.Recipes.effective(e.now())
	if e.premium() {
		return max(0, eff.DailyLimit-eff.TodayCount)
	}
	return max(0, eff.FreeLimit-eff.CurrentCount)
}

// RecordRecipe consumes one recipe generation. The free-tier allowance is a
// lifetime total and never comes back; the premium allowance refills daily.
func (e *Engine) RecordRecipe(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass {
		return true, nil
	}

	e.ensureLoaded()
	eff := e.limits.Recipes.effective(e.now())

	premium := e.premium()
	if premium && eff.TodayCount >= eff.DailyLimit {
		e.notifyLimit(ctx, "Recipe limit reached",
			"You have generated 10 recipes today. Your allowance resets tomorrow.", false)
		return false, nil
	}
	if !premium && eff.CurrentCount >= eff.FreeLimit {
		e.notifyLimit(ctx, "Recipe limit reached",
			"The free plan includes one generated recipe. Upgrade for 10 a day.", true)
		return false, nil
	}

	eff.CurrentCount++
	eff.TodayCount++
	e.limits.Recipes = eff
	return true, e.persist(ctx)
}

// --- Tracking track ---

// CanTrack reports whether meal tracking is allowed today. Free tier allows
// the first FreeTrackingDays calendar days from first use; premium is
// unlimited.
func (e *Engine) CanTrack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass || e.premium() {
		return true
	}

	e.ensureLoaded()
	return e.trackingDay() <= e.limits.Tracking.FreeDays
}

// RemainingTrackingDays returns how many tracking days remain, or the
// unlimited sentinel for premium.
func (e *Engine) RemainingTrackingDays() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass || e.premium() {
		return UnlimitedRemaining
	}

	e.ensureLoaded()
	t := e.limits.Tracking
	if t.StartDate == "" {
		return t.FreeDays
	}
	return max(0, t.FreeDays-max(t.DaysUsed, e.trackingDay()))
}

// StartTracking begins the tracking window on first use: the start date is
// set to today and day 1 is consumed. On later calls it behaves like
// RecordTrackingDay.
func (e *Engine) StartTracking(ctx context.Context) (bool, error) {
	return e.RecordTrackingDay(ctx)
}

// RecordTrackingDay marks today as a tracked day. DaysUsed follows elapsed
// calendar days rather than call counts, so repeated calls on the same day
// are idempotent.
func (e *Engine) RecordTrackingDay(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bypass {
		return true, nil
	}

	e.ensureLoaded()
	now := e.now()
	t := e.limits.Tracking

	if t.StartDate == "" {
		t.StartDate = period.DayStamp(now)
		t.DaysUsed = 1
		e.limits.Tracking = t
		return true, e.persist(ctx)
	}

	day := e.trackingDay()
	if !e.premium() && day > t.FreeDays {
		e.notifyLimit(ctx, "Tracking limit reached",
			"Your 3 free tracking days are used up. Upgrade to keep tracking every day.", true)
		return false, nil
	}

	if day > t.DaysUsed {
		t.DaysUsed = day
		e.limits.Tracking = t
		return true, e.persist(ctx)
	}
	return true, nil
}

// trackingDay returns the 1-based day of the tracking window, or 0 when
// tracking has not started. A corrupt start date is treated as not started.
// Callers must hold the mutex.
func (e *Engine) trackingDay() int {
	t := e.limits.Tracking
	if t.StartDate == "" {
		return 0
	}
	day, err := period.DaysSince(t.StartDate, e.now())
	if err != nil {
		e.log.Warn("discarding corrupt tracking start date", "start_date", t.StartDate, "error", err)
		e.limits.Tracking.StartDate = ""
		e.limits.Tracking.DaysUsed = 0
		return 0
	}
	return day
}

// --- internals ---

func (e *Engine) premium() bool {
	return e.status() == entitlement.StatusPremium
}

func (e *Engine) ensureLoaded() {
	if !e.loaded {
		e.limits = NewLimits(e.now())
		e.loaded = true
	}
}

func (e *Engine) persist(ctx context.Context) error {
	raw, err := json.Marshal(e.limits)
	if err != nil {
		return errors.Join(ErrFailedToPersistState, err)
	}
	if err := e.store.Set(ctx, e.key, string(raw)); err != nil {
		return errors.Join(ErrFailedToPersistState, err)
	}
	return nil
}

func (e *Engine) notifyLimit(ctx context.Context, title, message string, upgrade bool) {
	n := notify.Notification{Title: title, Message: message}
	if upgrade {
		n.Action = &notify.Action{Label: "Upgrade"}
	}
	e.notifier.Show(ctx, n)
}
