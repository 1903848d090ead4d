package stats_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hbsim/stats"
)

var _ = Describe("Profile", func() {
	var (
		p *stats.Profile
	)

	BeforeEach(func() {
		p = stats.NewProfile()
	})

	It("should assign dense indices in first-seen order", func() {
		Expect(p.Map(0x400100)).To(Equal(0))
		Expect(p.Map(0x400010)).To(Equal(1))
		Expect(p.Map(0x400100)).To(Equal(0))
		Expect(p.Len()).To(Equal(2))
		Expect(p.Key(1)).To(Equal(uint64(0x400010)))
	})

	It("should not change counters when mapping", func() {
		i := p.Map(0x10)
		p.Record(i, true)

		p.Map(0x10)
		p.Map(0x20)

		Expect(p.Counters(i)).To(Equal(stats.HitMiss{0, 1}))
		Expect(p.Total()).To(Equal(stats.HitMiss{0, 1}))
	})

	It("should suppress entries below both thresholds", func() {
		p.SetThreshold(stats.HitMiss{2, 2})

		hot := p.Map(0x30)
		cold := p.Map(0x10)
		missy := p.Map(0x20)

		p.Record(hot, true)
		p.Record(hot, true)
		p.Record(cold, true)
		p.Record(missy, false)
		p.Record(missy, false)

		entries := p.Entries()

		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Key).To(Equal(uint64(0x30)))
		Expect(entries[1].Key).To(Equal(uint64(0x20)))
		Expect(p.Reported(cold)).To(BeFalse())
	})

	It("should write misses before hits", func() {
		i := p.Map(0xabc)
		p.Record(i, false)
		p.Record(i, true)
		p.Record(i, true)

		buf := new(bytes.Buffer)
		_, err := p.WriteTo(buf)

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring(
			"0x0000000000000abc            1            2\n"))
	})
})
