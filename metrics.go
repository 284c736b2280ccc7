package strand

import (
	"sync"
	"time"
)

// Metrics tracks dispatch-latency percentiles for a [Loop], enabled via
// [WithLoopMetrics]. It exists so a host embedding the runtime can export
// P50/P90/P95/P99 tick latency without instrumenting every call site itself.
type Metrics struct {
	Latency LatencyMetrics
}

// NewMetrics builds an empty Metrics.
func NewMetrics() *Metrics { return &Metrics{} }

// LatencyMetrics streams tick-duration samples into a P-Square estimator
// tracking P50/P90/P95/P99, avoiding the O(n log n) cost (and unbounded
// memory) a naive "store everything, sort on read" implementation would pay.
type LatencyMetrics struct {
	mu   sync.Mutex
	mq   *pSquareMultiQuantile
	last time.Duration
}

var latencyPercentiles = []float64{0.50, 0.90, 0.95, 0.99}

// Record adds one dispatch-latency observation.
func (m *LatencyMetrics) Record(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mq == nil {
		m.mq = newPSquareMultiQuantile(latencyPercentiles...)
	}
	m.mq.Update(float64(d))
	m.last = d
}

// LatencySnapshot holds the current percentile estimates, sample count, mean,
// max and last sample, all as time.Duration except Count.
type LatencySnapshot struct {
	Count      int
	P50        time.Duration
	P90        time.Duration
	P95        time.Duration
	P99        time.Duration
	Mean       time.Duration
	Max        time.Duration
	LastSample time.Duration
}

// Snapshot reads the current estimator state.
func (m *LatencyMetrics) Snapshot() LatencySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mq == nil {
		return LatencySnapshot{}
	}
	return LatencySnapshot{
		Count:      m.mq.Count(),
		P50:        time.Duration(m.mq.Quantile(0)),
		P90:        time.Duration(m.mq.Quantile(1)),
		P95:        time.Duration(m.mq.Quantile(2)),
		P99:        time.Duration(m.mq.Quantile(3)),
		Mean:       time.Duration(m.mq.Mean()),
		Max:        time.Duration(m.mq.Max()),
		LastSample: m.last,
	}
}
