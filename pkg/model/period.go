package model

import "time"

// Interval is a closed [Start, End] date range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the interval, inclusive on both ends.
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}

// Key returns the period-instance identity used in alert dedup keys,
// e.g. "2026-08-01..2026-08-31". Two evaluations inside the same period
// produce the same key; the next period produces a fresh one.
func (i Interval) Key() string {
	return i.Start.Format("2006-01-02") + ".." + i.End.Format("2006-01-02")
}

// ResolvePeriod maps a budget's period descriptor to the concrete interval
// containing now.
//
//   - monthly: first to last instant of the calendar month.
//   - weekly: Sunday 00:00:00 through end of Saturday. Weeks start on
//     Sunday everywhere in this codebase.
//   - custom: [startDate, endDate] verbatim when both parse; falls back to
//     monthly when either is missing or malformed.
//
// Never fails; always returns a valid interval.
func ResolvePeriod(period BudgetPeriod, startDate, endDate string, now time.Time) Interval {
	switch period {
	case PeriodWeekly:
		start := time.Date(now.Year(), now.Month(), now.Day()-int(now.Weekday()), 0, 0, 0, 0, now.Location())
		return Interval{Start: start, End: start.AddDate(0, 0, 7).Add(-time.Nanosecond)}
	case PeriodCustom:
		s, serr := ParseDate(startDate)
		e, eerr := ParseDate(endDate)
		if serr == nil && eerr == nil {
			return Interval{Start: s, End: e}
		}
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Interval{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}
