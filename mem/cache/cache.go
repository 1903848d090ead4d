// Package cache provides a set-associative cache model that only tracks
// which lines are resident. No data is stored.
package cache

import (
	"math"

	"github.com/sarchlab/hbsim/mem/cache/internal/tagging"
	"github.com/sarchlab/hbsim/stats"
)

// AccessKind tells if an access reads or writes memory.
type AccessKind int

// The kinds of access that a cache counts separately.
const (
	AccessLoad AccessKind = iota
	AccessStore
	NumAccessKinds
)

func (k AccessKind) String() string {
	switch k {
	case AccessLoad:
		return "load"
	case AccessStore:
		return "store"
	default:
		return "unknown"
	}
}

// StoreAllocation decides if a store miss brings the line into the cache.
type StoreAllocation int

// The supported store allocation policies.
const (
	StoreAllocate StoreAllocation = iota
	StoreNoAllocate
)

// Stats is a snapshot of the counters of a cache.
type Stats struct {
	Name        string        `json:"name"`
	Loads       stats.HitMiss `json:"loads"`
	Stores      stats.HitMiss `json:"stores"`
	Evictions   uint64        `json:"evictions"`
	NumResident int           `json:"num_resident"`
}

// Accesses returns the number of loads and stores.
func (s Stats) Accesses() uint64 {
	return s.Loads.Total() + s.Stores.Total()
}

// Misses returns the number of load and store misses.
func (s Stats) Misses() uint64 {
	return s.Loads.Misses() + s.Stores.Misses()
}

// A Cache decides whether accesses hit or miss.
//
// A Cache is not safe for concurrent use.
type Cache struct {
	name             string
	byteSize         uint64
	lineSize         uint64
	log2LineSize     uint
	wayAssociativity int
	storeAllocation  StoreAllocation
	coldMissOnly     bool

	tags    tagging.TagArray
	touched map[uint64]struct{}

	counters  [NumAccessKinds]stats.HitMiss
	evictions uint64
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// CacheSize returns the capacity of the cache in bytes.
func (c *Cache) CacheSize() uint64 {
	return c.byteSize
}

// LineSize returns the number of bytes in a line.
func (c *Cache) LineSize() uint64 {
	return c.lineSize
}

// Associativity returns the configured number of ways. Unbounded caches use
// it only to derive the number of sets.
func (c *Cache) Associativity() int {
	return c.wayAssociativity
}

// NumSets returns the number of sets.
func (c *Cache) NumSets() int {
	return c.tags.NumSets()
}

// IsUnbounded tells if the sets of the cache never fill up.
func (c *Cache) IsUnbounded() bool {
	return c.tags.NumWays() == unboundedWays
}

// IsColdMissOnly tells if only first-touch misses are counted.
func (c *Cache) IsColdMissOnly() bool {
	return c.coldMissOnly
}

// Misses returns the number of accesses of a kind that missed.
func (c *Cache) Misses(kind AccessKind) uint64 {
	return c.counters[kind].Misses()
}

// Hits returns the number of accesses of a kind that hit.
func (c *Cache) Hits(kind AccessKind) uint64 {
	return c.counters[kind].Hits()
}

// Accesses returns the number of accesses of a kind.
func (c *Cache) Accesses(kind AccessKind) uint64 {
	return c.counters[kind].Total()
}

// Counters returns the counter vector of an access kind.
func (c *Cache) Counters(kind AccessKind) stats.HitMiss {
	return c.counters[kind]
}

// Evictions returns the number of lines evicted so far.
func (c *Cache) Evictions() uint64 {
	return c.evictions
}

// NumResident returns the number of lines in the cache.
func (c *Cache) NumResident() int {
	return c.tags.NumValid()
}

// Resident tells if the line that holds the address is in the cache. It does
// not count as an access.
func (c *Cache) Resident(addr uint64) bool {
	_, found := c.tags.Lookup(addr >> c.log2LineSize)
	return found
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Name:        c.name,
		Loads:       c.counters[AccessLoad],
		Stores:      c.counters[AccessStore],
		Evictions:   c.evictions,
		NumResident: c.NumResident(),
	}
}

// Access probes every line in [addr, addr+size). It returns true only if all
// the lines were resident. Every line is probed even after a miss so that
// the replacement state stays correct.
func (c *Cache) Access(addr, size uint64, kind AccessKind) bool {
	first := addr >> c.log2LineSize
	last := first

	if size > 0 {
		end := addr + size - 1
		if end < addr {
			end = math.MaxUint64
		}

		last = end >> c.log2LineSize
	}

	allHit := true
	for line := first; ; line++ {
		allHit = c.accessLine(line, kind) && allHit

		if line == last {
			break
		}
	}

	c.counters[kind].Record(allHit)

	return allHit
}

// AccessSingleLine probes the line that holds addr. The caller guarantees
// that the access does not cross a line boundary.
func (c *Cache) AccessSingleLine(addr uint64, kind AccessKind) bool {
	hit := c.accessLine(addr>>c.log2LineSize, kind)
	c.counters[kind].Record(hit)

	return hit
}

func (c *Cache) accessLine(line uint64, kind AccessKind) bool {
	block, found := c.tags.Lookup(line)
	if found {
		c.tags.Visit(block)
		return true
	}

	hit := c.seenBefore(line)

	if kind == AccessLoad || c.storeAllocation == StoreAllocate {
		_, evicted := c.tags.Insert(line)
		if evicted {
			c.evictions++
		}
	}

	return hit
}

// seenBefore marks the line as touched. In cold-miss-only mode, it reports
// whether the line had been touched before.
func (c *Cache) seenBefore(line uint64) bool {
	if !c.coldMissOnly {
		return false
	}

	_, seen := c.touched[line]
	if !seen {
		c.touched[line] = struct{}{}
	}

	return seen
}
