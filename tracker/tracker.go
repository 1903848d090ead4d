// Package tracker replays every memory access against the reference cache and
// the live target cache in lockstep.
package tracker

import (
	"github.com/sarchlab/hbsim/hooking"
	"github.com/sarchlab/hbsim/mem/cache"
	"github.com/sarchlab/hbsim/stats"
)

// HookPosAccess marks that an access has been replayed. The hook item is the
// Access and the detail is the AccessResult.
var HookPosAccess = &hooking.HookPos{Name: "Access"}

// Kind classifies an instruction by the memory operations it performs.
type Kind int

// The instruction kinds.
const (
	KindLoad Kind = iota
	KindStore
	KindLoadStore
	KindNone
)

func (k Kind) String() string {
	switch k {
	case KindLoad:
		return "load"
	case KindStore:
		return "store"
	case KindLoadStore:
		return "load+store"
	case KindNone:
		return "none"
	default:
		return "unknown"
	}
}

// Arch identifies one of the two memory hierarchies.
type Arch int

// The two architectures.
const (
	Reference Arch = iota
	Target
	NumArchs
)

func (a Arch) String() string {
	switch a {
	case Reference:
		return "reference"
	case Target:
		return "target"
	default:
		return "unknown"
	}
}

// An Access is one executed instruction. Loads and stores use Addr and Size.
// Load+store instructions read [Addr, Addr+Size) and write
// [WriteAddr, WriteAddr+WriteSize).
type Access struct {
	IP        uint64
	Kind      Kind
	Addr      uint64
	Size      uint64
	WriteAddr uint64
	WriteSize uint64
}

// AccessResult tells whether an access hit in each architecture.
type AccessResult struct {
	Hit [NumArchs]bool
}

// A LiveCache provides the cache instance that currently receives accesses.
type LiveCache interface {
	Live() *cache.Cache
}

// A Tracker drives the reference and target caches and counts, for each
// architecture, how many instructions hit and missed.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	hooking.HookableBase

	reference *cache.Cache
	target    LiveCache

	perInstruction      bool
	trackLoads          bool
	trackStores         bool
	singleLineThreshold uint64

	counters [NumArchs]stats.HitMiss
	profiles [NumArchs]*stats.Profile
}

// Counters returns the instruction counters of an architecture.
func (t *Tracker) Counters(arch Arch) stats.HitMiss {
	return t.counters[arch]
}

// Profile returns the per-instruction profile of an architecture. It is nil
// if per-instruction tracking is disabled.
func (t *Tracker) Profile(arch Arch) *stats.Profile {
	return t.profiles[arch]
}

// PerInstruction tells if accesses are attributed to instructions.
func (t *Tracker) PerInstruction() bool {
	return t.perInstruction
}

// Reference returns the reference cache.
func (t *Tracker) Reference() *cache.Cache {
	return t.reference
}

// LiveTarget returns the target cache instance that receives accesses.
func (t *Tracker) LiveTarget() *cache.Cache {
	return t.target.Live()
}

// OnAccess replays one instruction against both architectures.
func (t *Tracker) OnAccess(a Access) AccessResult {
	result := AccessResult{}
	caches := [NumArchs]*cache.Cache{t.reference, t.target.Live()}
	profiled := t.profiled(a.Kind)

	for arch, c := range caches {
		result.Hit[arch] = t.replay(c, a, profiled)
		t.counters[arch].Record(result.Hit[arch])

		if profiled {
			p := t.profiles[arch]
			p.Record(p.Map(a.IP), result.Hit[arch])
		}
	}

	if t.NumHooks() > 0 {
		t.InvokeHook(hooking.HookCtx{
			Domain: t,
			Pos:    HookPosAccess,
			Item:   a,
			Detail: result,
		})
	}

	return result
}

func (t *Tracker) replay(c *cache.Cache, a Access, profiled bool) bool {
	switch a.Kind {
	case KindLoad:
		return t.probe(c, a.Addr, a.Size, cache.AccessLoad, profiled)
	case KindStore:
		return t.probe(c, a.Addr, a.Size, cache.AccessStore, profiled)
	case KindLoadStore:
		hit := t.probe(c, a.Addr, a.Size, cache.AccessLoad, profiled)
		hit = t.probe(c, a.WriteAddr, a.WriteSize, cache.AccessStore,
			profiled) && hit

		return hit
	default:
		return true
	}
}

func (t *Tracker) probe(
	c *cache.Cache,
	addr, size uint64,
	kind cache.AccessKind,
	profiled bool,
) bool {
	if profiled && size <= t.singleLineThreshold && fitsInLine(c, addr, size) {
		return c.AccessSingleLine(addr, kind)
	}

	return c.Access(addr, size, kind)
}

// fitsInLine tells if [addr, addr+size) stays within one line of the cache.
func fitsInLine(c *cache.Cache, addr, size uint64) bool {
	offset := addr & (c.LineSize() - 1)
	return offset+size <= c.LineSize()
}

func (t *Tracker) profiled(kind Kind) bool {
	if !t.perInstruction {
		return false
	}

	switch kind {
	case KindLoad:
		return t.trackLoads
	case KindStore:
		return t.trackStores
	case KindLoadStore:
		return t.trackLoads || t.trackStores
	default:
		return false
	}
}
