// internal/metrics/aggregator.go
package metrics

import (
	"sort"
	"sync"
	"time"
)

// Aggregator collects per-operation call statistics.
type Aggregator struct {
	mutex   sync.Mutex
	metrics map[string]*OperationStats
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{metrics: make(map[string]*OperationStats)}
}

// Record adds one call of op that took elapsed and failed when err is non-nil.
func (a *Aggregator) Record(op string, elapsed time.Duration, err error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	stats, exists := a.metrics[op]
	if !exists {
		stats = &OperationStats{Operation: op}
		a.metrics[op] = stats
	}

	stats.Calls++
	if err != nil {
		stats.Errors++
	}
	updateRunningStat(&stats.LatencyMicros, float64(elapsed)/float64(time.Microsecond))
}

// Snapshot returns a copy of every operation's stats sorted by operation name.
func (a *Aggregator) Snapshot() []OperationStats {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]OperationStats, 0, len(a.metrics))
	for _, stats := range a.metrics {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}
