package analytics

import "time"

// Symbolic range and comparison tokens.
const (
	RangeDay   = "day"
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
)

// RangeStart maps a symbolic range token to the inclusive start of the
// current calendar period anchored at now. Unknown or empty tokens resolve
// like "month"; endpoints validate the token separately, the resolver itself
// stays total.
func RangeStart(token string, now time.Time) time.Time {
	switch token {
	case RangeWeek:
		return startOfWeek(now)
	case RangeYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default: // month
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

// TruncatePeriod maps a timestamp to the start of its containing calendar
// bucket for the given granularity. Unknown granularities truncate to month.
func TruncatePeriod(t time.Time, granularity string) time.Time {
	switch granularity {
	case RangeDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case RangeWeek:
		return startOfWeek(t)
	case RangeYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	default: // month
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
}

// CompareWindowStart returns the lower bound of the fixed comparison window
// for the given granularity: 30 days of days, 12 weeks, 12 months, 5 years.
// The windows are day-based constants, not user-configurable.
func CompareWindowStart(granularity string, now time.Time) time.Time {
	var days int
	switch granularity {
	case RangeDay:
		days = 30
	case RangeWeek:
		days = 7 * 12
	case RangeYear:
		days = 365 * 5
	default: // month
		days = 30 * 12
	}
	return now.AddDate(0, 0, -days)
}

// startOfWeek returns the most recent Monday at 00:00:00 (ISO week start,
// weekday index 0 = Monday).
func startOfWeek(t time.Time) time.Time {
	sinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -sinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}
