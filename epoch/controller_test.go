package epoch

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/hbsim/hooking"
	"github.com/sarchlab/hbsim/mem/cache"
)

var _ = Describe("Controller", func() {
	var (
		mockCtrl *gomock.Controller
		builder  cache.Builder
		c        *Controller
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		builder = cache.MakeBuilder().
			WithByteSize(4 * cache.KB).
			WithLineSize(64).
			WithWayAssociativity(4).
			WithUnbounded(true)

		var err error
		c, err = NewController("HammerBlade", builder, "train_step")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start with one cold live instance", func() {
		Expect(c.NumEpochs()).To(Equal(1))
		Expect(c.Retained()).To(BeEmpty())
		Expect(c.Live().Name()).To(Equal("HammerBlade[0]"))
		Expect(c.Live().Accesses(cache.AccessLoad)).To(BeZero())
	})

	It("should ignore routines other than the marker", func() {
		Expect(c.OnEnter("main")).To(BeFalse())
		Expect(c.NumEpochs()).To(Equal(1))
	})

	It("should never reset without a marker", func() {
		c, _ = NewController("HammerBlade", builder, "")

		Expect(c.OnEnter("")).To(BeFalse())
		Expect(c.NumEpochs()).To(Equal(1))
	})

	It("should retire the live instance with its counters frozen", func() {
		first := c.Live()
		first.Access(0x100, 4, cache.AccessLoad)

		Expect(c.OnEnter("train_step")).To(BeTrue())

		Expect(c.Live()).NotTo(BeIdenticalTo(first))
		Expect(c.Live().Accesses(cache.AccessLoad)).To(BeZero())
		Expect(c.Live().Resident(0x100)).To(BeFalse())
		Expect(c.Retained()).To(Equal([]*cache.Cache{first}))

		c.Live().Access(0x100, 4, cache.AccessLoad)
		Expect(first.Accesses(cache.AccessLoad)).To(Equal(uint64(1)))
	})

	It("should aggregate three epochs of 100 accesses", func() {
		for phase := 0; phase < 3; phase++ {
			if phase > 0 {
				c.OnEnter("train_step")
			}

			for i := uint64(0); i < 100; i++ {
				addr := (i % 40) * 64
				kind := cache.AccessLoad
				if i%3 == 0 {
					kind = cache.AccessStore
				}

				c.Live().Access(addr, 8, kind)
			}
		}

		Expect(c.Instances()).To(HaveLen(3))

		var sumMisses, sumAccesses uint64
		for _, instance := range c.Instances() {
			s := instance.Stats()
			Expect(s.Accesses()).To(Equal(uint64(100)))
			sumMisses += s.Misses()
			sumAccesses += s.Accesses()
		}

		Expect(c.Total().Misses()).To(Equal(sumMisses))
		Expect(c.Total().Total()).To(Equal(sumAccesses))
		Expect(c.Total().Misses()).To(Equal(uint64(120)))
		Expect(c.Evictions()).To(BeZero())
	})

	It("should invoke hooks on reset", func() {
		hook := NewMockHook(mockCtrl)
		c.AcceptHook(hook)
		retired := c.Live()

		hook.EXPECT().Func(gomock.Any()).Do(func(ctx hooking.HookCtx) {
			Expect(ctx.Pos).To(Equal(HookPosReset))
			Expect(ctx.Item).To(BeIdenticalTo(retired))
			Expect(ctx.Detail).To(BeIdenticalTo(c.Live()))
		})

		c.Reset()
	})

	It("should fail on invalid geometry", func() {
		_, err := NewController("bad", builder.WithLineSize(3), "")

		Expect(err).To(MatchError(cache.ErrInvalidGeometry))
	})
})
