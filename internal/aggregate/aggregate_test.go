package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlogistics/insight-service/internal/classify"
)

type record struct {
	customer string
	amount   float64
}

func TestGroupSum(t *testing.T) {
	records := []record{
		{"PT Samudra", 100},
		{"PT Samudra", 50},
		{"CV Nusantara", 25},
		{"", 10},
	}

	sums := GroupSum(records,
		func(r record) string { return r.customer },
		func(r record) float64 { return r.amount })

	assert.Equal(t, 150.0, sums["PT Samudra"])
	assert.Equal(t, 25.0, sums["CV Nusantara"])
	assert.Equal(t, 10.0, sums[UnknownKey], "Empty keys accumulate under Unknown")
	assert.Len(t, sums, 3)
}

func TestGroupCount(t *testing.T) {
	records := []record{{"a", 0}, {"a", 0}, {"b", 0}}
	counts := GroupCount(records, func(r record) string { return r.customer })
	assert.Equal(t, 2, counts["a"])
	assert.Equal(t, 1, counts["b"])
}

func TestRate(t *testing.T) {
	t.Run("Seven Of Ten", func(t *testing.T) {
		assert.Equal(t, 0.7, Rate(7, 3))
	})

	t.Run("Zero Denominator Is Zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Rate(0, 0))
	})

	t.Run("Bounded", func(t *testing.T) {
		for hits := int64(0); hits <= 20; hits++ {
			for misses := int64(0); misses <= 20; misses++ {
				r := Rate(hits, misses)
				assert.GreaterOrEqual(t, r, 0.0)
				assert.LessOrEqual(t, r, 1.0)
			}
		}
	})
}

func TestAgeItems(t *testing.T) {
	asOf := time.Date(2026, 2, 15, 10, 0, 0, 0, time.Local)
	day := func(daysAgo int) time.Time { return asOf.AddDate(0, 0, -daysAgo) }

	items := []AgingItem{
		{DueDate: day(45), Amount: 1_000_000},
		{DueDate: day(0), Amount: 200},
		{DueDate: day(10), Amount: 300},
		{DueDate: day(95), Amount: 400},
		{DueDate: asOf.AddDate(0, 0, 5), Amount: 500}, // not yet due
	}

	totals := AgeItems(items, asOf)

	t.Run("Bucket Placement", func(t *testing.T) {
		assert.Equal(t, 1, totals.Buckets[classify.Aging31To60].Count)
		assert.Equal(t, 1_000_000.0, totals.Buckets[classify.Aging31To60].Amount)
		assert.Equal(t, 1, totals.Buckets[classify.Aging1To30].Count)
		assert.Equal(t, 1, totals.Buckets[classify.AgingOver90].Count)
		assert.Equal(t, 2, totals.Buckets[classify.AgingCurrent].Count, "Due today and not-yet-due are both Current")
	})

	t.Run("Closure Invariant", func(t *testing.T) {
		var count int
		var amount float64
		for _, bt := range totals.Buckets {
			count += bt.Count
			amount += bt.Amount
		}
		assert.Equal(t, len(items), count)
		assert.Equal(t, totals.TotalCount, count)
		assert.InDelta(t, totals.TotalAmount, amount, 0.001)
		assert.InDelta(t, 1_001_400.0, totals.TotalAmount, 0.001)
	})

	t.Run("Empty Input", func(t *testing.T) {
		empty := AgeItems(nil, asOf)
		assert.Equal(t, 0, empty.TotalCount)
		assert.Equal(t, 0.0, empty.TotalAmount)
		assert.Len(t, empty.Buckets, len(classify.AgingBuckets), "Every bucket present even when empty")
	})
}

func ptr(t time.Time) *time.Time { return &t }

func TestAverageDurationDays(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Mean Over Complete Jobs Only", func(t *testing.T) {
		jobs := []JobTimes{
			{CreatedAt: ptr(base), CompletedAt: ptr(base.AddDate(0, 0, 4))},
			{CreatedAt: ptr(base), CompletedAt: ptr(base.AddDate(0, 0, 2))},
			{CreatedAt: ptr(base)},                     // incomplete, excluded
			{CompletedAt: ptr(base.AddDate(0, 0, 9))},  // no creation time, excluded
		}
		assert.InDelta(t, 3.0, AverageDurationDays(jobs), 0.001)
	})

	t.Run("No Eligible Jobs Is Zero", func(t *testing.T) {
		assert.Equal(t, 0.0, AverageDurationDays(nil))
		assert.Equal(t, 0.0, AverageDurationDays([]JobTimes{{CreatedAt: ptr(base)}}))
	})
}

func TestOnTimeRate(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Only Jobs With Targets Count", func(t *testing.T) {
		jobs := []JobTimes{
			{TargetDate: ptr(base.AddDate(0, 0, 5)), CompletedAt: ptr(base.AddDate(0, 0, 5))}, // on target date counts
			{TargetDate: ptr(base.AddDate(0, 0, 5)), CompletedAt: ptr(base.AddDate(0, 0, 8))}, // late
			{CompletedAt: ptr(base.AddDate(0, 0, 2))},                                         // no target, excluded
			{TargetDate: ptr(base.AddDate(0, 0, 5))},                                          // never completed, counts against
		}
		require.InDelta(t, 1.0/3.0, OnTimeRate(jobs), 0.001)
		assert.Equal(t, 3, CompletedCount(jobs), "jobs_completed still counts targetless jobs")
	})

	t.Run("No Targets Is Zero", func(t *testing.T) {
		assert.Equal(t, 0.0, OnTimeRate([]JobTimes{{CompletedAt: ptr(base)}}))
	})
}

func TestSortedCopy(t *testing.T) {
	original := []record{{"c", 3}, {"a", 1}, {"b", 2}}
	sorted := SortedCopy(original, func(x, y record) bool { return x.amount < y.amount })

	assert.Equal(t, []record{{"a", 1}, {"b", 2}, {"c", 3}}, sorted)
	assert.Equal(t, []record{{"c", 3}, {"a", 1}, {"b", 2}}, original, "Caller's slice is left untouched")
	assert.Len(t, sorted, len(original))
}

func TestSortedCopyStability(t *testing.T) {
	type row struct {
		key int
		tag string
	}
	rows := []row{{1, "first"}, {2, "x"}, {1, "second"}, {1, "third"}}
	sorted := SortedCopy(rows, func(a, b row) bool { return a.key < b.key })

	assert.Equal(t, "first", sorted[0].tag)
	assert.Equal(t, "second", sorted[1].tag)
	assert.Equal(t, "third", sorted[2].tag)
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 33.33, RoundTo(33.333333, 2))
	assert.Equal(t, -33.33, RoundTo(-33.333333, 2))
	assert.Equal(t, 0.0, RoundTo(0.001, 2))
}
