package trend

import (
	"github.com/meridianlogistics/insight-service/internal/aggregate"
)

// Direction represents the up/down/stable classification of a metric change
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// Metric represents a single metric compared across two periods
type Metric struct {
	Name          string    `json:"name"`
	Current       float64   `json:"current"`
	Previous      float64   `json:"previous"`
	ChangePercent float64   `json:"change_percent"`
	Direction     Direction `json:"direction"`
}

// Metric names form a closed list; the weekly report always emits them in
// this order.
const (
	MetricRevenue         = "revenue"
	MetricJobsCompleted   = "jobs_completed"
	MetricOnTimeRate      = "on_time_rate"
	MetricAvgDurationDays = "avg_duration_days"
	MetricAgingCurrent    = "aging_current"
	MetricAging1To30      = "aging_1_30"
	MetricAging31To60     = "aging_31_60"
	MetricAging61To90     = "aging_61_90"
	MetricAgingOver90     = "aging_over_90"
	MetricCollectionRate  = "collection_rate"
)

// WeeklyMetricNames is the ordered, versioned list of metrics in a weekly
// trend report.
var WeeklyMetricNames = []string{
	MetricRevenue,
	MetricJobsCompleted,
	MetricOnTimeRate,
	MetricAvgDurationDays,
	MetricAgingCurrent,
	MetricAging1To30,
	MetricAging31To60,
	MetricAging61To90,
	MetricAgingOver90,
	MetricCollectionRate,
}

// Compute compares a current value against the previous period. The change
// percent is rounded to two decimals and the direction is derived from the
// rounded value, so the displayed percent and the arrow never disagree. A
// zero previous value yields 100% when the current value is positive and 0%
// otherwise.
func Compute(name string, current, previous float64) Metric {
	var pct float64
	if previous == 0 {
		if current > 0 {
			pct = 100
		}
	} else {
		pct = aggregate.RoundTo((current-previous)/previous*100, 2)
	}

	dir := DirectionStable
	if pct > 0 {
		dir = DirectionUp
	} else if pct < 0 {
		dir = DirectionDown
	}

	return Metric{
		Name:          name,
		Current:       current,
		Previous:      previous,
		ChangePercent: pct,
		Direction:     dir,
	}
}

// WeeklyReport applies Compute across the closed weekly metric list. Metrics
// missing from either snapshot default to 0 for that period.
func WeeklyReport(current, previous map[string]float64) []Metric {
	metrics := make([]Metric, 0, len(WeeklyMetricNames))
	for _, name := range WeeklyMetricNames {
		metrics = append(metrics, Compute(name, current[name], previous[name]))
	}
	return metrics
}
