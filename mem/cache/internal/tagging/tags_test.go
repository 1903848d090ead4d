package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tags", func() {
	var (
		tags *tagArrayImpl
	)

	BeforeEach(func() {
		tags = NewTagArray(1024, 4, NewRoundRobinVictimFinder()).(*tagArrayImpl)
	})

	It("should map lines to sets and tags", func() {
		set, setID := tags.GetSet(1024*3 + 5)

		Expect(setID).To(Equal(5))
		Expect(set).To(BeIdenticalTo(&tags.sets[5]))
		Expect(tags.tagOf(1024*3 + 5)).To(Equal(uint64(3)))
	})

	It("should report its geometry", func() {
		Expect(tags.NumSets()).To(Equal(1024))
		Expect(tags.NumWays()).To(Equal(4))
	})

	It("should not find a line in an empty set", func() {
		block, ok := tags.Lookup(0x100)

		Expect(ok).To(BeFalse())
		Expect(block).To(BeZero())
	})

	It("should find an inserted line", func() {
		_, evicted := tags.Insert(0x100)
		block, ok := tags.Lookup(0x100)

		Expect(evicted).To(BeFalse())
		Expect(ok).To(BeTrue())
		Expect(block.IsValid).To(BeTrue())
		Expect(tags.LineOf(block)).To(Equal(uint64(0x100)))
		Expect(tags.NumValid()).To(Equal(1))
	})

	It("should allocate blocks lazily", func() {
		tags.Insert(7)
		tags.Insert(7 + 1024)

		set, _ := tags.GetSet(7)
		Expect(set.Blocks).To(HaveLen(2))
		Expect(set.Queue).To(Equal([]int{0, 1}))
	})

	It("should evict the block inserted first", func() {
		for i := uint64(0); i < 4; i++ {
			tags.Insert(i * 1024)
		}

		victim, evicted := tags.Insert(4 * 1024)

		Expect(evicted).To(BeTrue())
		Expect(tags.LineOf(victim)).To(Equal(uint64(0)))
		_, ok := tags.Lookup(0)
		Expect(ok).To(BeFalse())
		_, ok = tags.Lookup(4 * 1024)
		Expect(ok).To(BeTrue())
		Expect(tags.NumValid()).To(Equal(4))

		set, _ := tags.GetSet(0)
		Expect(set.Queue).To(Equal([]int{1, 2, 3, 0}))
	})

	It("should not reorder on hit with round-robin", func() {
		for i := uint64(0); i < 4; i++ {
			tags.Insert(i * 1024)
		}

		block, _ := tags.Lookup(0)
		tags.Visit(block)
		victim, _ := tags.Insert(4 * 1024)

		Expect(tags.LineOf(victim)).To(Equal(uint64(0)))
	})

	It("should update LRU queue when visiting a block", func() {
		tags = NewTagArray(1024, 4, NewLRUVictimFinder()).(*tagArrayImpl)
		for i := uint64(0); i < 4; i++ {
			tags.Insert(0x100 + i*1024)
		}

		set, _ := tags.GetSet(0x100)
		tags.Visit(set.Blocks[1])

		Expect(set.Queue).To(Equal([]int{0, 2, 3, 1}))

		tags.Visit(set.Blocks[0])
		victim, _ := tags.Insert(0x100 + 4*1024)

		Expect(tags.LineOf(victim)).To(Equal(uint64(0x100 + 2*1024)))
	})

	It("should index wide sets", func() {
		tags = NewTagArray(1, 1<<20, NewRoundRobinVictimFinder()).(*tagArrayImpl)
		for i := uint64(0); i < 100; i++ {
			tags.Insert(i)
		}

		set, _ := tags.GetSet(0)
		Expect(set.index).To(HaveLen(100))

		for i := uint64(0); i < 100; i++ {
			_, ok := tags.Lookup(i)
			Expect(ok).To(BeTrue())
		}

		_, ok := tags.Lookup(100)
		Expect(ok).To(BeFalse())
	})

	It("should keep the index consistent on eviction", func() {
		tags = NewTagArray(1, 20, NewRoundRobinVictimFinder()).(*tagArrayImpl)
		for i := uint64(0); i < 21; i++ {
			tags.Insert(i)
		}

		_, ok := tags.Lookup(0)
		Expect(ok).To(BeFalse())
		_, ok = tags.Lookup(20)
		Expect(ok).To(BeTrue())
		Expect(tags.NumValid()).To(Equal(20))
	})

	It("should reset", func() {
		tags.Insert(1)
		tags.Reset()

		_, ok := tags.Lookup(1)
		Expect(ok).To(BeFalse())
		Expect(tags.NumValid()).To(Equal(0))
	})

	It("should panic on an empty geometry", func() {
		Expect(func() {
			NewTagArray(0, 4, NewRoundRobinVictimFinder())
		}).To(Panic())
	})
})
