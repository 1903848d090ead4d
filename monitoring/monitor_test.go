package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/hbsim/engine"
	"github.com/sarchlab/hbsim/mem/cache"
	"github.com/sarchlab/hbsim/stats"
)

type fakeSource struct {
	snapshot engine.Snapshot
	caches   map[string]cache.Stats
}

func (s *fakeSource) Snapshot() engine.Snapshot {
	return s.snapshot
}

func (s *fakeSource) CacheNames() []string {
	return []string{"reference", "target[0]"}
}

func (s *fakeSource) CacheStats(name string) (cache.Stats, bool) {
	c, ok := s.caches[name]
	return c, ok
}

var _ = Describe("Monitor", func() {
	var (
		source *fakeSource
		m      *Monitor
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.Router().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		target := cache.Stats{
			Name:   "target[0]",
			Loads:  stats.HitMiss{3, 4},
			Stores: stats.HitMiss{1, 0},
		}

		source = &fakeSource{
			snapshot: engine.Snapshot{
				Reference: engine.ArchSnapshot{
					Instructions: stats.HitMiss{5, 6},
				},
				NumEpochs: 1,
				Epochs:    []cache.Stats{target},
			},
			caches: map[string]cache.Stats{"target[0]": target},
		}

		m = NewMonitor(source)
	})

	It("should report the counters", func() {
		rec := get("/api/stats")

		Expect(rec.Code).To(Equal(http.StatusOK))

		rsp := map[string]any{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp["num_epochs"]).To(BeNumerically("==", 1))
		Expect(rsp["reference"]).To(HaveKeyWithValue(
			"instructions", []any{5.0, 6.0}))
		Expect(rsp).NotTo(HaveKey("epochs"))
	})

	It("should report the epochs", func() {
		rec := get("/api/epochs")

		epochs := []cache.Stats{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &epochs)).To(Succeed())
		Expect(epochs).To(HaveLen(1))
		Expect(epochs[0].Loads).To(Equal(stats.HitMiss{3, 4}))
	})

	It("should list the caches", func() {
		rec := get("/api/list_caches")

		Expect(rec.Body.String()).To(Equal(`["reference","target[0]"]`))
	})

	It("should serialize a cache", func() {
		rec := get("/api/cache/target[0]")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("target[0]"))
	})

	It("should return 404 for unknown caches", func() {
		rec := get("/api/cache/l2")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should list the progress bars", func() {
		bar := m.CreateProgressBar("trace", 100)
		bar.IncrementFinished(40)
		bar.IncrementInProgress(5)
		m.CreateProgressBar("other", 1)

		rec := get("/api/progress")
		bars := []ProgressBarState{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())

		Expect(bars).To(HaveLen(2))
		Expect(bars[0].Name).To(Equal("trace"))
		Expect(bars[0].Finished).To(Equal(uint64(40)))
		Expect(bars[0].InProgress).To(Equal(uint64(5)))
		Expect(bars[0].ID).NotTo(BeEmpty())
	})

	It("should remove completed progress bars", func() {
		bar := m.CreateProgressBar("trace", 100)
		m.CompleteProgressBar(bar)

		rec := get("/api/progress")

		Expect(rec.Body.String()).To(Equal("[]"))
	})

	It("should report resource usage", func() {
		rec := get("/api/resource")

		rsp := map[string]any{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp).To(HaveKey("cpu_percent"))
		Expect(rsp["memory_size"]).To(BeNumerically(">", 0))
	})

	It("should serve the page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should refuse privileged ports", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
		Expect(m.URL()).To(BeEmpty())
	})

	It("should serve on a random port", func() {
		Expect(m.WithPortNumber(0).StartServer()).To(Succeed())
		defer m.StopServer(context.Background())

		Expect(m.URL()).To(HavePrefix("http://localhost:"))

		rsp, err := http.Get(m.URL() + "/api/list_caches")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
	})
})

var _ = Describe("ProgressBar", func() {
	It("should move in-progress items to finished", func() {
		bar := &ProgressBar{Total: 10}

		bar.IncrementInProgress(4)
		bar.MoveInProgressToFinished(3)
		bar.SetFinished(bar.State().Finished + 1)

		s := bar.State()
		Expect(s.InProgress).To(Equal(uint64(1)))
		Expect(s.Finished).To(Equal(uint64(4)))
	})
})
