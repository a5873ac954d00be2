package quota

import (
	"time"

	"github.com/oxalabs/oxakit/pkg/period"
)

// Canonical quota tables. Limit fields in persisted state are overwritten
// with these on load so quota changes ship with the code, not the data.
const (
	FreeOracleMonthly  = 10
	PremiumOracleDaily = 40
	FreeRecipeTotal    = 1
	PremiumRecipeDaily = 10
	FreeTrackingDays   = 3

	// UnlimitedRemaining is the sentinel remaining count for unmetered
	// tracks (premium tracking, bypass mode).
	UnlimitedRemaining = 999
)

// OracleLimits holds the counters for the Q&A track. The free tier meters
// per calendar month, premium per calendar day; both counters are kept so a
// mid-period tier change needs no migration.
type OracleLimits struct {
	MonthlyLimit     int    `json:"monthly_limit"`
	MonthlyCount     int    `json:"monthly_count"`
	LastMonthlyReset string `json:"last_monthly_reset_date"`
	DailyLimit       int    `json:"daily_limit"`
	TodayCount       int    `json:"today_count"`
	LastReset        string `json:"last_reset_date"`
}

// RecipeLimits holds the counters for recipe generation. CurrentCount is a
// lifetime total and never resets; TodayCount meters the premium daily
// allowance.
type RecipeLimits struct {
	FreeLimit    int    `json:"free_limit"`
	CurrentCount int    `json:"current_count"`
	DailyLimit   int    `json:"daily_limit"`
	TodayCount   int    `json:"today_count"`
	LastReset    string `json:"last_reset_date"`
}

// TrackingLimits holds the meal-tracking day span. StartDate is set on first
// use and DaysUsed records elapsed calendar days, not call counts: recording
// twice on the same day is idempotent.
type TrackingLimits struct {
	FreeDays  int    `json:"free_days"`
	StartDate string `json:"start_date,omitempty"`
	DaysUsed  int    `json:"days_used"`
}

// Limits is the persisted aggregate for all three tracks.
type Limits struct {
	Oracle   OracleLimits   `json:"oracle_questions"`
	Recipes  RecipeLimits   `json:"recipes"`
	Tracking TrackingLimits `json:"tracking"`
}

// NewLimits returns zeroed counters stamped with the current day and month.
func NewLimits(now time.Time) Limits {
	return Limits{
		Oracle: OracleLimits{
			MonthlyLimit:     FreeOracleMonthly,
			LastMonthlyReset: period.MonthStamp(now),
			DailyLimit:       PremiumOracleDaily,
			LastReset:        period.DayStamp(now),
		},
		Recipes: RecipeLimits{
			FreeLimit:  FreeRecipeTotal,
			DailyLimit: PremiumRecipeDaily,
			LastReset:  period.DayStamp(now),
		},
		Tracking: TrackingLimits{
			FreeDays: FreeTrackingDays,
		},
	}
}

// effective returns the oracle counters as they stand for the current
// period, zeroing any counter whose reset stamp has rolled over. Pure: the
// receiver is a copy.
func (o OracleLimits) effective(now time.Time) OracleLimits {
	if !period.IsCurrentMonth(o.LastMonthlyReset, now) {
		o.MonthlyCount = 0
		o.LastMonthlyReset = period.MonthStamp(now)
	}
	if !period.IsToday(o.LastReset, now) {
		o.TodayCount = 0
		o.LastReset = period.DayStamp(now)
	}
	return o
}

// effective returns the recipe counters for the current day. The lifetime
// total is untouched.
func (r RecipeLimits) effective(now time.Time) RecipeLimits {
	if !period.IsToday(r.LastReset, now) {
		r.TodayCount = 0
		r.LastReset = period.DayStamp(now)
	}
	return r
}

// effective applies both per-track rollovers.
func (l Limits) effective(now time.Time) Limits {
	l.Oracle = l.Oracle.effective(now)
	l.Recipes = l.Recipes.effective(now)
	return l
}

// normalized repairs state loaded from storage: limit fields are pinned to
// the canonical quota tables and counters are clamped to be non-negative.
func (l Limits) normalized(now time.Time) Limits {
	l.Oracle.MonthlyLimit = FreeOracleMonthly
	l.Oracle.DailyLimit = PremiumOracleDaily
	l.Recipes.FreeLimit = FreeRecipeTotal
	l.Recipes.DailyLimit = PremiumRecipeDaily
	l.Tracking.FreeDays = FreeTrackingDays

	l.Oracle.MonthlyCount = max(0, l.Oracle.MonthlyCount)
	l.Oracle.TodayCount = max(0, l.Oracle.TodayCount)
	l.Recipes.CurrentCount = max(0, l.Recipes.CurrentCount)
	l.Recipes.TodayCount = max(0, l.Recipes.TodayCount)
	l.Tracking.DaysUsed = max(0, l.Tracking.DaysUsed)

	if l.Oracle.LastMonthlyReset == "" {
		l.Oracle.LastMonthlyReset = period.MonthStamp(now)
	}
	if l.Oracle.LastReset == "" {
		l.Oracle.LastReset = period.DayStamp(now)
	}
	if l.Recipes.LastReset == "" {
		l.Recipes.LastReset = period.DayStamp(now)
	}
	return l
}
