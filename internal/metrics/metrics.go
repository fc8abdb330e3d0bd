package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/meridianlogistics/insight-service/internal/stats"
)

// Collector manages Prometheus metrics for the insight service
type Collector struct {
	stats *stats.Collector

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	reportsGenerated *prometheus.CounterVec

	slowOperations prometheus.CounterFunc
	cacheHits      prometheus.CounterFunc
	cacheMisses    prometheus.CounterFunc
}

// NewCollector creates and registers the service metrics. Cache and slow-op
// counters read through to the injected stats collector so the two never
// drift.
func NewCollector(statsCollector *stats.Collector) *Collector {
	c := &Collector{stats: statsCollector}

	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insight_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.reportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insight_reports_generated_total",
			Help: "Total number of reports generated by type",
		},
		[]string{"report"},
	)

	c.slowOperations = promauto.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "insight_slow_operations_total",
			Help: "Operations at or over the slow threshold",
		},
		func() float64 { return float64(statsCollector.SlowCount()) },
	)

	c.cacheHits = promauto.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "insight_cache_hits_total",
			Help: "Report cache hits",
		},
		func() float64 { return float64(statsCollector.Hits()) },
	)

	c.cacheMisses = promauto.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "insight_cache_misses_total",
			Help: "Report cache misses",
		},
		func() float64 { return float64(statsCollector.Misses()) },
	)

	return c
}

// RecordHTTPRequest records one handled request
func (c *Collector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordReport records one generated report
func (c *Collector) RecordReport(report string) {
	c.reportsGenerated.WithLabelValues(report).Inc()
}
