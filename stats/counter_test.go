package stats_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hbsim/stats"
)

var _ = Describe("HitMiss", func() {
	It("should record hits and misses", func() {
		c := stats.HitMiss{}

		c.Record(true)
		c.Record(false)
		c.Record(false)

		Expect(c.Hits()).To(Equal(uint64(1)))
		Expect(c.Misses()).To(Equal(uint64(2)))
		Expect(c.Total()).To(Equal(uint64(3)))
		Expect(c[stats.CounterMiss]).To(Equal(uint64(2)))
	})

	It("should add counter vectors", func() {
		a := stats.HitMiss{1, 2}
		b := stats.HitMiss{10, 20}

		Expect(a.Add(b)).To(Equal(stats.HitMiss{11, 22}))
		Expect(a).To(Equal(stats.HitMiss{1, 2}))
	})

	It("should compare against thresholds", func() {
		threshold := stats.HitMiss{100, 100}

		Expect(stats.HitMiss{99, 99}.Below(threshold)).To(BeTrue())
		Expect(stats.HitMiss{100, 0}.Below(threshold)).To(BeFalse())
		Expect(stats.HitMiss{0, 100}.Below(threshold)).To(BeFalse())
	})
})
