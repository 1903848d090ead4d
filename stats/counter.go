// Package stats provides hit/miss counters and per-instruction profiles.
package stats

// Counter indexes a HitMiss counter vector.
type Counter int

// The counters kept for every access.
const (
	CounterMiss Counter = iota
	CounterHit
	NumCounters
)

// CounterOf returns the counter that an access result falls into.
func CounterOf(hit bool) Counter {
	if hit {
		return CounterHit
	}

	return CounterMiss
}

// HitMiss is a counter vector indexed by Counter.
type HitMiss [NumCounters]uint64

// Record counts one access.
func (c *HitMiss) Record(hit bool) {
	c[CounterOf(hit)]++
}

// Hits returns the number of hits.
func (c HitMiss) Hits() uint64 {
	return c[CounterHit]
}

// Misses returns the number of misses.
func (c HitMiss) Misses() uint64 {
	return c[CounterMiss]
}

// Total returns the number of accesses.
func (c HitMiss) Total() uint64 {
	return c[CounterHit] + c[CounterMiss]
}

// Add returns the element-wise sum of two counter vectors.
func (c HitMiss) Add(other HitMiss) HitMiss {
	for i := range c {
		c[i] += other[i]
	}

	return c
}

// Below tells if every counter is lower than the matching threshold.
func (c HitMiss) Below(threshold HitMiss) bool {
	for i := range c {
		if c[i] >= threshold[i] {
			return false
		}
	}

	return true
}
