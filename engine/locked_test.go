package engine

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hbsim/config"
	"github.com/sarchlab/hbsim/energy"
	"github.com/sarchlab/hbsim/tracker"
)

var _ = Describe("Locked", func() {
	var l *Locked

	BeforeEach(func() {
		cfg := config.Default()
		cfg.EpochMarker = "step"

		e, err := New(cfg, energy.DefaultTables())
		Expect(err).NotTo(HaveOccurred())

		l = NewLocked(e)
	})

	It("should allow reading while accesses are delivered", func() {
		var wg sync.WaitGroup

		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := uint64(0); i < 1000; i++ {
				l.OnAccess(tracker.Access{
					Kind: tracker.KindLoad, Addr: i * 64, Size: 4,
				})
			}
		}()

		for i := 0; i < 100; i++ {
			s := l.Snapshot()
			Expect(s.Reference.Instructions.Total()).To(BeNumerically("<=", 1000))
		}

		wg.Wait()

		Expect(l.Snapshot().Reference.Instructions.Total()).To(Equal(uint64(1000)))
	})

	It("should look up caches by name", func() {
		l.OnEnter("step")

		Expect(l.CacheNames()).To(Equal(
			[]string{"reference", "target[0]", "target[1]"}))

		s, found := l.CacheStats("target[0]")
		Expect(found).To(BeTrue())
		Expect(s.Name).To(Equal("target[0]"))

		_, found = l.CacheStats("l2")
		Expect(found).To(BeFalse())
	})
})
