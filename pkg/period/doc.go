// Package period provides calendar-period helpers for quota bookkeeping.
//
// Usage counters in this toolkit reset on calendar boundaries (a day or a
// month) rather than on rolling windows. Periods are identified by plain
// string stamps ("2025-03-14" for days, "2025-03" for months) so they can be
// persisted as-is and compared with simple equality. All helpers take an
// explicit reference time, which makes the rollover logic trivially testable
// with a fixed clock.
package period
