package obs

import (
	"sync"
	"time"
)

// LatencyStats aggregates execution duration samples. A single lock keeps
// count, sum, min and max consistent with each other: a snapshot never sees
// a count without its sum. The zero value is ready to use.
type LatencyStats struct {
	mu    sync.RWMutex
	count uint64
	sum   uint64 // nanoseconds
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Avg   time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Observe records a duration sample. min treats the first sample as the
// initial minimum.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)

	l.mu.Lock()
	l.count++
	l.sum += nanos
	if l.min == 0 || nanos < l.min {
		l.min = nanos
	}
	if nanos > l.max {
		l.max = nanos
	}
	l.mu.Unlock()
}

// Snapshot returns the aggregated latency stats. Repeated calls without
// intervening Observe calls return identical values.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.count == 0 {
		return LatencySnapshot{}
	}
	return LatencySnapshot{
		Count: l.count,
		Avg:   time.Duration(l.sum / l.count),
		Min:   time.Duration(l.min),
		Max:   time.Duration(l.max),
	}
}
