package tagging

// A VictimFinder decides which block should be evicted from a full set.
type VictimFinder interface {
	// FindVictim returns the block to be replaced.
	FindVictim(set *Set) Block

	// Visit is called when a block in the set is hit.
	Visit(set *Set, wayID int)
}

// RoundRobinVictimFinder evicts the block that has been resident the
// longest. Hits do not change the order.
type RoundRobinVictimFinder struct {
}

// NewRoundRobinVictimFinder returns a newly constructed round-robin evictor.
func NewRoundRobinVictimFinder() *RoundRobinVictimFinder {
	return new(RoundRobinVictimFinder)
}

// FindVictim returns the block inserted first among the resident blocks.
func (e *RoundRobinVictimFinder) FindVictim(set *Set) Block {
	return firstInQueue(set)
}

// Visit does nothing, as round-robin replacement does not track recency.
func (e *RoundRobinVictimFinder) Visit(_ *Set, _ int) {
}

// LRUVictimFinder evicts the least recently used block.
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed lru evictor.
func NewLRUVictimFinder() *LRUVictimFinder {
	return new(LRUVictimFinder)
}

// FindVictim returns the least recently used block in a set.
func (e *LRUVictimFinder) FindVictim(set *Set) Block {
	return firstInQueue(set)
}

// Visit moves the block to the end of the queue.
func (e *LRUVictimFinder) Visit(set *Set, wayID int) {
	set.moveToBack(wayID)
}

func firstInQueue(set *Set) Block {
	// Empty blocks go first.
	for _, wayID := range set.Queue {
		block := set.Blocks[wayID]
		if !block.IsValid {
			return block
		}
	}

	return set.Blocks[set.Queue[0]]
}
