package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/meridianlogistics/insight-service/internal/aggregate"
	"github.com/meridianlogistics/insight-service/internal/classify"
)

// SlowOperation records one operation that breached the slow threshold
type SlowOperation struct {
	Name       string        `json:"name"`
	Duration   time.Duration `json:"duration"`
	ObservedAt time.Time     `json:"observed_at"`
}

// Collector tracks cache hit/miss counts and recent slow operations. It is
// injected wherever counting happens; there is deliberately no package-level
// instance, so concurrent requests never share counters by accident.
type Collector struct {
	hits   atomic.Int64
	misses atomic.Int64
	slow   atomic.Int64

	mu      sync.Mutex
	slowOps []SlowOperation
	maxSlow int
}

// NewCollector creates a collector keeping at most maxSlowOps recent slow
// operations.
func NewCollector(maxSlowOps int) *Collector {
	if maxSlowOps <= 0 {
		maxSlowOps = 50
	}
	return &Collector{maxSlow: maxSlowOps}
}

// RecordHit counts one cache hit
func (c *Collector) RecordHit() {
	c.hits.Add(1)
}

// RecordMiss counts one cache miss
func (c *Collector) RecordMiss() {
	c.misses.Add(1)
}

// Hits returns the hit count so far
func (c *Collector) Hits() int64 {
	return c.hits.Load()
}

// Misses returns the miss count so far
func (c *Collector) Misses() int64 {
	return c.misses.Load()
}

// HitRate returns hits/(hits+misses), 0 when nothing has been recorded
func (c *Collector) HitRate() float64 {
	return aggregate.Rate(c.hits.Load(), c.misses.Load())
}

// Observe records a named operation's duration, keeping it in the slow log
// when it is at or over the slow threshold. Returns whether the operation
// was slow.
func (c *Collector) Observe(name string, duration time.Duration) bool {
	if !classify.IsSlowOperation(duration.Milliseconds()) {
		return false
	}
	c.slow.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.slowOps = append(c.slowOps, SlowOperation{
		Name:       name,
		Duration:   duration,
		ObservedAt: time.Now(),
	})
	if len(c.slowOps) > c.maxSlow {
		c.slowOps = c.slowOps[len(c.slowOps)-c.maxSlow:]
	}
	return true
}

// SlowCount returns the total number of slow operations observed, including
// ones already evicted from the bounded log.
func (c *Collector) SlowCount() int64 {
	return c.slow.Load()
}

// SlowOperations returns a copy of the recent slow operation log
func (c *Collector) SlowOperations() []SlowOperation {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SlowOperation, len(c.slowOps))
	copy(out, c.slowOps)
	return out
}

// Reset clears all counters and the slow log
func (c *Collector) Reset() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.slow.Store(0)
	c.mu.Lock()
	c.slowOps = nil
	c.mu.Unlock()
}
