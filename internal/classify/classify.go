package classify

import (
	"time"
)

// AgingBucket represents a named day-range bucket for overdue receivables
type AgingBucket string

const (
	AgingCurrent AgingBucket = "Current"
	Aging1To30   AgingBucket = "1-30 Days"
	Aging31To60  AgingBucket = "31-60 Days"
	Aging61To90  AgingBucket = "61-90 Days"
	AgingOver90  AgingBucket = "90+ Days"
)

// AgingBuckets lists all aging buckets in ascending display order
var AgingBuckets = []AgingBucket{
	AgingCurrent,
	Aging1To30,
	Aging31To60,
	Aging61To90,
	AgingOver90,
}

// ExpiryUrgency represents how soon a document expires
type ExpiryUrgency string

const (
	ExpiryExpired           ExpiryUrgency = "expired"
	ExpiryExpiringThisWeek  ExpiryUrgency = "expiring_this_week"
	ExpiryExpiringThisMonth ExpiryUrgency = "expiring_this_month"
)

const (
	// DefaultExpiryLookaheadDays is how far ahead expiry reports look
	DefaultExpiryLookaheadDays = 30

	// ExpiringThisWeekDays is the upper boundary of the this-week urgency band
	ExpiringThisWeekDays = 7

	// SlowOperationThresholdMs marks an operation as slow at or above this duration
	SlowOperationThresholdMs = 1000
)

const millisPerDay = 24 * 60 * 60 * 1000

// DaysBetween returns the signed number of calendar days from one instant to
// another. Both sides are normalized to local midnight, then the millisecond
// difference is divided by a day and rounded up, so a due date later today
// counts as 0 days away and one any time tomorrow counts as 1.
func DaysBetween(from, to time.Time) int {
	fromMidnight := startOfDay(from)
	toMidnight := startOfDay(to)
	diffMs := toMidnight.Sub(fromMidnight).Milliseconds()
	if diffMs >= 0 {
		return int((diffMs + millisPerDay - 1) / millisPerDay)
	}
	return -int((-diffMs + millisPerDay - 1) / millisPerDay)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysOverdue returns how many days past due an item is as of the given
// instant. Items not yet due return 0.
func DaysOverdue(dueDate, asOf time.Time) int {
	days := DaysBetween(dueDate, asOf)
	if days < 0 {
		return 0
	}
	return days
}

// AgingBucketFor classifies a days-overdue value into its aging bucket.
// Buckets are scanned in ascending order with inclusive upper bounds, so
// every non-negative value lands in exactly one bucket.
func AgingBucketFor(daysOverdue int) AgingBucket {
	switch {
	case daysOverdue <= 0:
		return AgingCurrent
	case daysOverdue <= 30:
		return Aging1To30
	case daysOverdue <= 60:
		return Aging31To60
	case daysOverdue <= 90:
		return Aging61To90
	default:
		return AgingOver90
	}
}

// DaysUntilExpiry returns the signed number of days from today until the
// expiry date. Negative means already expired.
func DaysUntilExpiry(today, expiryDate time.Time) int {
	return DaysBetween(today, expiryDate)
}

// ExpiryUrgencyFor classifies a days-until-expiry value. The caller is
// responsible for excluding items beyond its lookahead window before
// classification; everything inside the window maps to one of the three
// urgency bands.
func ExpiryUrgencyFor(daysUntilExpiry int) ExpiryUrgency {
	switch {
	case daysUntilExpiry < 0:
		return ExpiryExpired
	case daysUntilExpiry <= ExpiringThisWeekDays:
		return ExpiryExpiringThisWeek
	default:
		return ExpiryExpiringThisMonth
	}
}

// WithinLookahead reports whether an expiry distance falls inside the
// reporting window. Expired items are always inside.
func WithinLookahead(daysUntilExpiry, lookaheadDays int) bool {
	return daysUntilExpiry <= lookaheadDays
}

// QuietHours represents a user-configured do-not-disturb window
type QuietHours struct {
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// InQuietHours reports whether the time-of-day of the given instant falls
// inside the quiet window. Windows that wrap past midnight (start > end,
// e.g. 22:00-07:00) match when the time is after the start OR before the
// end; same-day windows use the usual bounded comparison.
func InQuietHours(q QuietHours, at time.Time) bool {
	start, okStart := minutesOfDay(q.Start)
	end, okEnd := minutesOfDay(q.End)
	if !okStart || !okEnd {
		return false
	}

	now := at.Hour()*60 + at.Minute()
	if start > end {
		return now >= start || now < end
	}
	return now >= start && now < end
}

// minutesOfDay parses "HH:MM" into minutes since midnight
func minutesOfDay(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' ||
		s[3] < '0' || s[3] > '9' || s[4] < '0' || s[4] > '9' {
		return 0, false
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// IsSlowOperation reports whether a duration in milliseconds counts as slow.
// Exactly at the threshold counts.
func IsSlowOperation(durationMs int64) bool {
	return durationMs >= SlowOperationThresholdMs
}
