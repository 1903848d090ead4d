package cache

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/sarchlab/hbsim/mem/cache/internal/tagging"
)

// Units of cache capacity.
const (
	KB uint64 = 1 << 10
	MB uint64 = 1 << 20
)

// DefaultMaxWayAssociativity is the widest set a bounded cache may have.
const DefaultMaxWayAssociativity = 256

// unboundedWays is the set capacity of an unbounded cache.
const unboundedWays = math.MaxInt32

// ErrInvalidGeometry is returned when a cache cannot be built with the
// requested size, line size and associativity.
var ErrInvalidGeometry = errors.New("invalid cache geometry")

// Builder can build caches.
type Builder struct {
	byteSize            uint64
	lineSize            uint64
	wayAssociativity    int
	maxWayAssociativity int
	unbounded           bool
	replaceStrategy     string
	storeAllocation     StoreAllocation
	coldMissOnly        bool
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		byteSize:            32 * KB,
		lineSize:            32,
		wayAssociativity:    4,
		maxWayAssociativity: DefaultMaxWayAssociativity,
		replaceStrategy:     "roundRobin",
		storeAllocation:     StoreAllocate,
	}
}

// WithByteSize sets the capacity of the cache in bytes.
func (b Builder) WithByteSize(byteSize uint64) Builder {
	b.byteSize = byteSize
	return b
}

// WithLineSize sets the number of bytes in a cache line.
func (b Builder) WithLineSize(lineSize uint64) Builder {
	b.lineSize = lineSize
	return b
}

// WithWayAssociativity sets the way associativity of the cache.
func (b Builder) WithWayAssociativity(wayAssociativity int) Builder {
	b.wayAssociativity = wayAssociativity
	return b
}

// WithMaxWayAssociativity sets the widest associativity that is accepted.
func (b Builder) WithMaxWayAssociativity(n int) Builder {
	b.maxWayAssociativity = n
	return b
}

// WithUnbounded makes the sets of the cache grow without limit, so that no
// line is ever evicted. The way associativity is still used to derive the
// number of sets.
func (b Builder) WithUnbounded(unbounded bool) Builder {
	b.unbounded = unbounded
	return b
}

// WithReplaceStrategy sets the replacement policy. It can be "roundRobin" or
// "lru".
func (b Builder) WithReplaceStrategy(strategy string) Builder {
	b.replaceStrategy = strategy
	return b
}

// WithStoreAllocation sets whether store misses allocate lines.
func (b Builder) WithStoreAllocation(policy StoreAllocation) Builder {
	b.storeAllocation = policy
	return b
}

// WithColdMissOnly makes the cache count only misses to lines that it has
// never touched.
func (b Builder) WithColdMissOnly(coldMissOnly bool) Builder {
	b.coldMissOnly = coldMissOnly
	return b
}

// Validate checks if the configured geometry can form a cache.
func (b Builder) Validate() error {
	if !isPowerOfTwo(b.lineSize) {
		return fmt.Errorf("%w: line size %d is not a power of two",
			ErrInvalidGeometry, b.lineSize)
	}

	if !isPowerOfTwo(b.byteSize) {
		return fmt.Errorf("%w: cache size %d is not a power of two",
			ErrInvalidGeometry, b.byteSize)
	}

	if b.wayAssociativity <= 0 {
		return fmt.Errorf("%w: associativity %d must be positive",
			ErrInvalidGeometry, b.wayAssociativity)
	}

	if b.wayAssociativity > b.maxWayAssociativity {
		return fmt.Errorf("%w: associativity %d exceeds the maximum of %d",
			ErrInvalidGeometry, b.wayAssociativity, b.maxWayAssociativity)
	}

	setSize := b.lineSize * uint64(b.wayAssociativity)
	if b.byteSize < setSize || b.byteSize%setSize != 0 {
		return fmt.Errorf(
			"%w: %d bytes do not form whole sets of %d ways of %d bytes",
			ErrInvalidGeometry, b.byteSize, b.wayAssociativity, b.lineSize)
	}

	if _, err := b.createVictimFinder(); err != nil {
		return err
	}

	return nil
}

// Build builds a cache.
func (b Builder) Build(name string) (*Cache, error) {
	err := b.Validate()
	if err != nil {
		return nil, err
	}

	victimFinder, _ := b.createVictimFinder()
	numSets := int(b.byteSize / (b.lineSize * uint64(b.wayAssociativity)))

	numWays := b.wayAssociativity
	if b.unbounded {
		numWays = unboundedWays
	}

	c := &Cache{
		name:             name,
		byteSize:         b.byteSize,
		lineSize:         b.lineSize,
		log2LineSize:     uint(bits.TrailingZeros64(b.lineSize)),
		wayAssociativity: b.wayAssociativity,
		storeAllocation:  b.storeAllocation,
		coldMissOnly:     b.coldMissOnly,
		tags:             tagging.NewTagArray(numSets, numWays, victimFinder),
	}

	if b.coldMissOnly {
		c.touched = make(map[uint64]struct{})
	}

	return c, nil
}

// MustBuild builds a cache and panics if the geometry is invalid. It is meant
// for builders that have already been validated.
func (b Builder) MustBuild(name string) *Cache {
	c, err := b.Build(name)
	if err != nil {
		panic(err)
	}

	return c
}

func (b Builder) createVictimFinder() (tagging.VictimFinder, error) {
	switch b.replaceStrategy {
	case "roundRobin":
		return tagging.NewRoundRobinVictimFinder(), nil
	case "lru":
		return tagging.NewLRUVictimFinder(), nil
	default:
		return nil, fmt.Errorf("unknown replace strategy: %s", b.replaceStrategy)
	}
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}
