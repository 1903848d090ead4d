package cache

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Builder", func() {
	It("should build with defaults", func() {
		c, err := MakeBuilder().Build("L1")

		Expect(err).NotTo(HaveOccurred())
		Expect(c.CacheSize()).To(Equal(32 * KB))
		Expect(c.LineSize()).To(Equal(uint64(32)))
		Expect(c.Associativity()).To(Equal(4))
		Expect(c.NumSets()).To(Equal(256))
	})

	DescribeTable("should reject invalid geometry",
		func(b Builder) {
			_, err := b.Build("bad")

			Expect(err).To(MatchError(ErrInvalidGeometry))
		},
		Entry("line size not a power of two",
			MakeBuilder().WithLineSize(48)),
		Entry("zero line size",
			MakeBuilder().WithLineSize(0)),
		Entry("cache size not a power of two",
			MakeBuilder().WithByteSize(48*KB)),
		Entry("zero associativity",
			MakeBuilder().WithWayAssociativity(0)),
		Entry("associativity above the maximum",
			MakeBuilder().WithByteSize(1*MB).WithWayAssociativity(512)),
		Entry("not a whole set",
			MakeBuilder().WithByteSize(64).WithLineSize(64).
				WithWayAssociativity(2)),
		Entry("associativity that does not divide the sets",
			MakeBuilder().WithWayAssociativity(3)),
	)

	It("should accept a raised associativity limit", func() {
		_, err := MakeBuilder().
			WithByteSize(1 * MB).
			WithWayAssociativity(512).
			WithMaxWayAssociativity(1024).
			Build("wide")

		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject unknown replace strategies", func() {
		_, err := MakeBuilder().WithReplaceStrategy("random").Build("bad")

		Expect(err).To(MatchError(ContainSubstring("random")))
	})

	It("should panic in MustBuild", func() {
		Expect(func() {
			MakeBuilder().WithLineSize(3).MustBuild("bad")
		}).To(Panic())
	})
})
