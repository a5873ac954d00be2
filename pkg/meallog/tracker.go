package meallog

import (
	"context"
	"time"

	"github.com/oxalabs/oxakit/pkg/foodcatalog"
	"github.com/oxalabs/oxakit/pkg/period"
	"github.com/oxalabs/oxakit/pkg/quota"
)

// DefaultDailyLimitMg is the daily oxalate budget used when none is
// configured. 40-50mg/day is the common clinical guidance for a
// low-oxalate diet.
const DefaultDailyLimitMg = 50

// DaySummary is one day's log with its running total.
type DaySummary struct {
	Day     string
	Entries []Entry
	TotalMg float64
	LimitMg float64
}

// RemainingMg returns the budget left for the day, clamped at zero.
func (s DaySummary) RemainingMg() float64 {
	if remaining := s.LimitMg - s.TotalMg; remaining > 0 {
		return remaining
	}
	return 0
}

// OverLimit reports whether the day's total exceeds the budget.
func (s DaySummary) OverLimit() bool {
	return s.TotalMg > s.LimitMg
}

// Tracker logs meals against the daily oxalate budget. Logging consumes the
// usage engine's tracking allowance, so free-tier users are cut off after
// their trial days while reads stay unrestricted.
type Tracker struct {
	store      Store
	engine     *quota.Engine
	dailyLimit float64
	now        func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithDailyLimit overrides the daily oxalate budget in milligrams.
func WithDailyLimit(mg float64) TrackerOption {
	return func(t *Tracker) {
		if mg > 0 {
			t.dailyLimit = mg
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates a tracker over the given store and usage engine.
// Panics if either is nil.
func NewTracker(store Store, engine *quota.Engine, opts ...TrackerOption) *Tracker {
	if store == nil {
		panic("meallog: Store is required")
	}
	if engine == nil {
		panic("meallog: quota.Engine is required")
	}

	t := &Tracker{
		store:      store,
		engine:     engine,
		dailyLimit: DefaultDailyLimitMg,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CanLog reports whether the tracking allowance permits logging today.
func (t *Tracker) CanLog() bool {
	return t.engine.CanTrack()
}

// LogMeal records a portion of a food for today. Returns the stored entry
// and false (with no error) when the tracking allowance denies the day.
func (t *Tracker) LogMeal(ctx context.Context, food foodcatalog.Food, portion float64) (Entry, bool, error) {
	if portion <= 0 {
		return Entry{}, false, ErrInvalidPortion
	}

	allowed, err := t.engine.RecordTrackingDay(ctx)
	if err != nil {
		return Entry{}, false, err
	}
	if !allowed {
		return Entry{}, false, nil
	}

	now := t.now()
	entry := Entry{
		ID:        newEntryID(),
		FoodID:    food.ID,
		FoodName:  food.Name,
		Portion:   portion,
		OxalateMg: food.OxalatePerServing * portion,
		Day:       period.DayStamp(now),
		LoggedAt:  now,
	}
	if err := t.store.Add(ctx, entry); err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// Remove deletes a logged entry.
func (t *Tracker) Remove(ctx context.Context, id string) error {
	return t.store.Remove(ctx, id)
}

// Day returns the summary for the given day stamp.
func (t *Tracker) Day(ctx context.Context, day string) (DaySummary, error) {
	entries, err := t.store.ListDay(ctx, day)
	if err != nil {
		return DaySummary{}, err
	}

	summary := DaySummary{Day: day, Entries: entries, LimitMg: t.dailyLimit}
	for _, entry := range entries {
		summary.TotalMg += entry.OxalateMg
	}
	return summary, nil
}

// Today returns the summary for the current day.
func (t *Tracker) Today(ctx context.Context) (DaySummary, error) {
	return t.Day(ctx, period.DayStamp(t.now()))
}
