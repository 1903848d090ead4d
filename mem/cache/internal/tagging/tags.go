// Package tagging keeps track of which memory lines are resident in a cache.
package tagging

import "log"

// linearScanLimit is the widest set that is searched by scanning its blocks.
// Wider sets keep a tag index.
const linearScanLimit = 16

// TagArray records the tags held by each set of a cache.
//
// All the methods take a line index (a byte address divided by the line
// size) rather than a byte address.
type TagArray interface {
	// Lookup finds the block that holds the line.
	Lookup(line uint64) (Block, bool)

	// Visit notifies the replacement policy that a block is hit.
	Visit(block Block)

	// Insert places the line into its set, evicting a block if the set is
	// full. The evicted block is returned if there is one.
	Insert(line uint64) (evicted Block, hasEvicted bool)

	// GetSet returns the set that a line maps to.
	GetSet(line uint64) (set *Set, setID int)

	// LineOf recovers the line index held by a block.
	LineOf(block Block) uint64

	NumSets() int
	NumWays() int

	// NumValid returns the number of resident lines.
	NumValid() int

	// Reset invalidates all the blocks.
	Reset()
}

// A Block of a cache is the information that is associated with a cache line.
type Block struct {
	Tag     uint64
	SetID   int
	WayID   int
	IsValid bool
}

// A Set is a list of blocks where a certain piece memory can be stored at.
//
// Blocks are allocated on first use, so a set never holds more blocks than
// lines have been inserted into it. Queue lists the way IDs in replacement
// order; the front is the next victim.
type Set struct {
	Blocks []Block
	Queue  []int

	index map[uint64]int
}

// NewTagArray creates a tag array with the given geometry.
func NewTagArray(
	numSets int,
	numWays int,
	victimFinder VictimFinder,
) TagArray {
	if numSets <= 0 || numWays <= 0 {
		log.Panicf("invalid tag array geometry: %d sets, %d ways",
			numSets, numWays)
	}

	t := &tagArrayImpl{
		numSets:      numSets,
		numWays:      numWays,
		victimFinder: victimFinder,
	}

	t.Reset()

	return t
}

type tagArrayImpl struct {
	numSets      int
	numWays      int
	numValid     int
	sets         []Set
	victimFinder VictimFinder
}

func (t *tagArrayImpl) NumSets() int {
	return t.numSets
}

func (t *tagArrayImpl) NumWays() int {
	return t.numWays
}

func (t *tagArrayImpl) NumValid() int {
	return t.numValid
}

// GetSet returns the set that a certain line should be stored at.
func (t *tagArrayImpl) GetSet(line uint64) (set *Set, setID int) {
	setID = int(line % uint64(t.numSets))
	set = &t.sets[setID]

	return
}

func (t *tagArrayImpl) tagOf(line uint64) uint64 {
	return line / uint64(t.numSets)
}

func (t *tagArrayImpl) LineOf(block Block) uint64 {
	return block.Tag*uint64(t.numSets) + uint64(block.SetID)
}

// Lookup finds the block that holds the line. If the line is not resident,
// it returns false.
func (t *tagArrayImpl) Lookup(line uint64) (Block, bool) {
	set, _ := t.GetSet(line)
	tag := t.tagOf(line)

	if set.index != nil {
		wayID, ok := set.index[tag]
		if !ok {
			return Block{}, false
		}

		return set.Blocks[wayID], true
	}

	for _, block := range set.Blocks {
		if block.IsValid && block.Tag == tag {
			return block, true
		}
	}

	return Block{}, false
}

// Visit lets the victim finder update the replacement order after a hit.
func (t *tagArrayImpl) Visit(block Block) {
	set := &t.sets[block.SetID]
	t.victimFinder.Visit(set, block.WayID)
}

func (t *tagArrayImpl) Insert(line uint64) (Block, bool) {
	set, setID := t.GetSet(line)
	newBlock := Block{
		Tag:     t.tagOf(line),
		SetID:   setID,
		IsValid: true,
	}

	if len(set.Blocks) < t.numWays {
		newBlock.WayID = len(set.Blocks)
		set.Blocks = append(set.Blocks, newBlock)
		set.Queue = append(set.Queue, newBlock.WayID)
		t.indexBlock(set, newBlock)
		t.numValid++

		return Block{}, false
	}

	victim := t.victimFinder.FindVictim(set)
	if victim.IsValid {
		t.unindexBlock(set, victim)
	} else {
		t.numValid++
	}

	newBlock.WayID = victim.WayID
	set.Blocks[victim.WayID] = newBlock
	set.moveToBack(victim.WayID)
	t.indexBlock(set, newBlock)

	return victim, victim.IsValid
}

func (t *tagArrayImpl) indexBlock(set *Set, block Block) {
	if set.index == nil {
		if len(set.Blocks) <= linearScanLimit {
			return
		}

		set.index = make(map[uint64]int, len(set.Blocks))
		for _, b := range set.Blocks {
			if b.IsValid {
				set.index[b.Tag] = b.WayID
			}
		}

		return
	}

	set.index[block.Tag] = block.WayID
}

func (t *tagArrayImpl) unindexBlock(set *Set, block Block) {
	if set.index != nil {
		delete(set.index, block.Tag)
	}
}

// Reset will mark all the blocks in the tag array invalid.
func (t *tagArrayImpl) Reset() {
	t.sets = make([]Set, t.numSets)
	t.numValid = 0
}

// moveToBack moves a way to the end of the replacement queue.
func (s *Set) moveToBack(wayID int) {
	n := len(s.Queue)
	if n > 0 && s.Queue[n-1] == wayID {
		return
	}

	if n > 0 && s.Queue[0] == wayID {
		s.Queue = append(s.Queue[1:], wayID)
		return
	}

	for i, w := range s.Queue {
		if w == wayID {
			copy(s.Queue[i:], s.Queue[i+1:])
			s.Queue[n-1] = wayID

			return
		}
	}

	s.Queue = append(s.Queue, wayID)
}
