package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/meridianlogistics/insight-service/internal/classify"
)

const (
	// UnknownKey is the grouping key used when a record has no value for the dimension
	UnknownKey = "Unknown"

	// GeneralCategory is the fallback category for uncategorized records
	GeneralCategory = "General"
)

// GroupSum folds records into per-key sums. Records whose key function
// returns an empty string are accumulated under UnknownKey.
func GroupSum[T any](records []T, keyFn func(T) string, valueFn func(T) float64) map[string]float64 {
	sums := make(map[string]float64)
	for _, r := range records {
		key := keyFn(r)
		if key == "" {
			key = UnknownKey
		}
		sums[key] += valueFn(r)
	}
	return sums
}

// GroupCount folds records into per-key counts with the same empty-key
// handling as GroupSum.
func GroupCount[T any](records []T, keyFn func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		key := keyFn(r)
		if key == "" {
			key = UnknownKey
		}
		counts[key]++
	}
	return counts
}

// Rate returns hits/(hits+misses), or exactly 0 when there have been no
// observations at all.
func Rate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// BucketTotal accumulates the per-bucket rollup of an aging report
type BucketTotal struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// AgingTotals is the result of bucketing dated amounts: one rollup per aging
// bucket plus a grand total that always equals the sum over the buckets.
type AgingTotals struct {
	Buckets     map[classify.AgingBucket]BucketTotal `json:"buckets"`
	TotalCount  int                                  `json:"total_count"`
	TotalAmount float64                              `json:"total_amount"`
}

// AgingItem is a single dated amount to be bucketed
type AgingItem struct {
	DueDate time.Time
	Amount  float64
}

// AgeItems buckets every item by days overdue as of the reference instant.
// Every item contributes to exactly one bucket and to the grand total; the
// caller applies any upstream filters (unpaid-only etc.) before calling.
func AgeItems(items []AgingItem, asOf time.Time) AgingTotals {
	totals := AgingTotals{
		Buckets: make(map[classify.AgingBucket]BucketTotal, len(classify.AgingBuckets)),
	}
	for _, b := range classify.AgingBuckets {
		totals.Buckets[b] = BucketTotal{}
	}

	for _, item := range items {
		bucket := classify.AgingBucketFor(classify.DaysOverdue(item.DueDate, asOf))
		bt := totals.Buckets[bucket]
		bt.Count++
		bt.Amount += item.Amount
		totals.Buckets[bucket] = bt

		totals.TotalCount++
		totals.TotalAmount += item.Amount
	}
	return totals
}

// JobTimes carries the timestamps needed for duration and on-time rollups.
// Nil pointers mean the timestamp is absent on the row.
type JobTimes struct {
	CreatedAt   *time.Time
	CompletedAt *time.Time
	TargetDate  *time.Time
}

// AverageDurationDays returns the mean completion time in days over jobs
// that have both a creation and a completion timestamp. Jobs missing either
// are excluded from numerator and denominator alike; no jobs at all yields 0.
func AverageDurationDays(jobs []JobTimes) float64 {
	var sum float64
	var n int
	for _, j := range jobs {
		if j.CreatedAt == nil || j.CompletedAt == nil {
			continue
		}
		sum += j.CompletedAt.Sub(*j.CreatedAt).Hours() / 24
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// OnTimeRate returns the fraction of jobs completed at or before their
// target date, over jobs that have a target date at all. Jobs without a
// target are excluded from the rate; zero eligible jobs yields 0.
func OnTimeRate(jobs []JobTimes) float64 {
	var onTime, withTarget int
	for _, j := range jobs {
		if j.TargetDate == nil {
			continue
		}
		withTarget++
		if j.CompletedAt != nil && !j.CompletedAt.After(*j.TargetDate) {
			onTime++
		}
	}
	if withTarget == 0 {
		return 0
	}
	return float64(onTime) / float64(withTarget)
}

// CompletedCount counts jobs with a completion timestamp, regardless of
// whether they carry a target date.
func CompletedCount(jobs []JobTimes) int {
	var n int
	for _, j := range jobs {
		if j.CompletedAt != nil {
			n++
		}
	}
	return n
}

// SortedCopy returns a new slice ordered by the given less function using a
// stable sort. The input slice is never reordered.
func SortedCopy[T any](records []T, less func(a, b T) bool) []T {
	out := make([]T, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// RoundTo rounds a value to the given number of decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
