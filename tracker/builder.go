package tracker

import (
	"github.com/sarchlab/hbsim/mem/cache"
	"github.com/sarchlab/hbsim/stats"
)

// Builder can build trackers.
type Builder struct {
	reference           *cache.Cache
	target              LiveCache
	trackLoads          bool
	trackStores         bool
	singleLineThreshold uint64
	threshold           stats.HitMiss
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		singleLineThreshold: 4,
		threshold:           stats.HitMiss{100, 100},
	}
}

// WithReference sets the reference cache.
func (b Builder) WithReference(c *cache.Cache) Builder {
	b.reference = c
	return b
}

// WithTarget sets the source of the live target cache.
func (b Builder) WithTarget(target LiveCache) Builder {
	b.target = target
	return b
}

// WithTrackLoads enables per-instruction tracking of loads.
func (b Builder) WithTrackLoads(track bool) Builder {
	b.trackLoads = track
	return b
}

// WithTrackStores enables per-instruction tracking of stores.
func (b Builder) WithTrackStores(track bool) Builder {
	b.trackStores = track
	return b
}

// WithSingleLineThreshold sets the largest access size that takes the
// single-line path when tracking per instruction.
func (b Builder) WithSingleLineThreshold(size uint64) Builder {
	b.singleLineThreshold = size
	return b
}

// WithReportThreshold sets the minimum counts for an instruction to be
// reported.
func (b Builder) WithReportThreshold(threshold stats.HitMiss) Builder {
	b.threshold = threshold
	return b
}

// Build builds a tracker. Per-instruction mode is on if loads or stores are
// tracked.
func (b Builder) Build() *Tracker {
	if b.reference == nil || b.target == nil {
		panic("tracker needs both a reference and a target cache")
	}

	t := &Tracker{
		reference:           b.reference,
		target:              b.target,
		trackLoads:          b.trackLoads,
		trackStores:         b.trackStores,
		perInstruction:      b.trackLoads || b.trackStores,
		singleLineThreshold: b.singleLineThreshold,
	}

	if t.perInstruction {
		for arch := range t.profiles {
			p := stats.NewProfile()
			p.SetKeyName("iaddr")
			p.SetCounterName("dcache:miss        dcache:hit")
			p.SetThreshold(b.threshold)
			t.profiles[arch] = p
		}
	}

	return t
}
