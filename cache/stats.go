package cache

import (
	"fmt"
	"sync/atomic"
)

// Stats is a point-in-time snapshot of a cache instance's read-path
// counters. HitRate is formatted as a rounded percentage ("66.67%") and is
// recomputed on every snapshot.
type Stats struct {
	Enabled       bool   `json:"enabled"`
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	TotalRequests uint64 `json:"total_requests"`
	HitRate       string `json:"hit_rate"`
}

// counters tracks hits and misses for one cache instance. Concurrent Get
// calls share it, so both fields are atomics to avoid lost updates.
type counters struct {
	hits   atomic.Uint64
	misses atomic.Uint64
}

func (c *counters) recordHit()  { c.hits.Add(1) }
func (c *counters) recordMiss() { c.misses.Add(1) }

func (c *counters) reset() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// snapshot reads both counters and derives the hit rate. The two loads are
// not a consistent pair under concurrent Gets, which is acceptable for
// advisory statistics.
func (c *counters) snapshot(enabled bool) Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	rate := 0.0
	if total > 0 {
		rate = float64(hits) / float64(total) * 100
	}

	return Stats{
		Enabled:       enabled,
		Hits:          hits,
		Misses:        misses,
		TotalRequests: total,
		HitRate:       fmt.Sprintf("%.2f%%", rate),
	}
}
