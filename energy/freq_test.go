package energy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should compute the period", func() {
		Expect(GHz.Period()).To(BeNumerically("~", 1e-9, 1e-21))
		Expect((2 * Hz).CyclesToSeconds(3)).To(Equal(1.5))
	})

	It("should panic on zero frequency", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
	})

	It("should print with a unit", func() {
		Expect((2.4 * GHz).String()).To(Equal("2.4GHz"))
		Expect((500 * MHz).String()).To(Equal("500MHz"))
		Expect(Freq(10).String()).To(Equal("10Hz"))
	})
})
