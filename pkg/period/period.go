package period

import (
	"errors"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// ErrInvalidStamp is returned when a persisted period stamp cannot be parsed.
var ErrInvalidStamp = errors.New("period: invalid date stamp")

// DayStamp formats t as a calendar-day stamp in t's location.
func DayStamp(t time.Time) string {
	return t.Format(dayLayout)
}

// MonthStamp formats t as a calendar-month stamp in t's location.
func MonthStamp(t time.Time) string {
	return t.Format(monthLayout)
}

// IsToday reports whether stamp identifies the same calendar day as now.
// An empty or malformed stamp never matches, which callers treat as a
// stale counter that must be reset.
func IsToday(stamp string, now time.Time) bool {
	return stamp == DayStamp(now)
}

// IsCurrentMonth reports whether stamp identifies the same calendar month as now.
func IsCurrentMonth(stamp string, now time.Time) bool {
	return stamp == MonthStamp(now)
}

// DaysSince returns the 1-based count of calendar days elapsed since the
// given day stamp: the start day itself counts as day 1, the following day
// as day 2, and so on. The stamp is interpreted at midnight in now's
// location.
//
// A stamp in the future (clock skew, corrupted persisted state) is clamped
// to 1 instead of going negative so span checks downstream stay monotonic.
func DaysSince(stamp string, now time.Time) (int, error) {
	start, err := time.ParseInLocation(dayLayout, stamp, now.Location())
	if err != nil {
		return 0, errors.Join(ErrInvalidStamp, err)
	}

	days := int(now.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1, nil
	}
	return days, nil
}
