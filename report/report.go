// Package report writes the results of a run.
package report

import (
	"fmt"
	"io"

	"github.com/sarchlab/hbsim/engine"
	"github.com/sarchlab/hbsim/mem/cache"
	"github.com/sarchlab/hbsim/tracker"
)

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// Write writes the plain-text report of a run: the cache parameters, the
// instruction counters of both architectures, the per-epoch target counters,
// the per-instruction profiles if enabled, and the energy estimates.
//
// Counters are always printed miss first.
func Write(w io.Writer, e *engine.Engine) error {
	ew := &errWriter{w: w}

	writeParameters(ew, e)
	writeInstructions(ew, e)
	writeEpochs(ew, e)
	writeProfiles(ew, e)

	if ew.err != nil {
		return ew.err
	}

	ew.printf("\n# energy model: %s\n", e.Model().Name())

	if ew.err != nil {
		return ew.err
	}

	return e.Model().Report(w, e.EnergyInput())
}

func writeParameters(ew *errWriter, e *engine.Engine) {
	cfg := e.Config()

	ew.printf("# hbsim report\n")
	writeCacheParameters(ew, "reference", e.Reference(), cfg.ReplaceStrategy)
	writeCacheParameters(ew, "target", e.Epochs().Live(), cfg.ReplaceStrategy)

	marker := e.Epochs().Marker()
	if marker == "" {
		marker = "<none>"
	}

	ew.printf("%-16s %s, %d epoch(s)\n", "epoch marker:", marker,
		e.Epochs().NumEpochs())

	if cfg.ColdMissOnly {
		ew.printf("%-16s only first-touch misses are counted\n", "cold misses:")
	}
}

func writeCacheParameters(
	ew *errWriter,
	name string,
	c *cache.Cache,
	strategy string,
) {
	ways := fmt.Sprintf("%d-way", c.Associativity())
	if c.IsUnbounded() {
		ways = "unbounded"
	}

	ew.printf("%-16s %d KB, %d B lines, %s, %d sets, %s\n",
		name+" cache:", c.CacheSize()/cache.KB, c.LineSize(), ways,
		c.NumSets(), strategy)
}

func writeInstructions(ew *errWriter, e *engine.Engine) {
	ew.printf("\n# %-18s %12s %12s\n", "instructions", "miss", "hit")

	for arch := tracker.Arch(0); arch < tracker.NumArchs; arch++ {
		c := e.Tracker().Counters(arch)
		ew.printf("%-20s %12d %12d\n", arch, c.Misses(), c.Hits())
	}
}

func writeEpochs(ew *errWriter, e *engine.Engine) {
	ew.printf("\n# %-18s %12s %12s %12s %12s %12s\n", "target epoch",
		"load:miss", "load:hit", "store:miss", "store:hit", "evictions")

	for _, c := range e.Epochs().Instances() {
		s := c.Stats()
		ew.printf("%-20s %12d %12d %12d %12d %12d\n", s.Name,
			s.Loads.Misses(), s.Loads.Hits(),
			s.Stores.Misses(), s.Stores.Hits(), s.Evictions)
	}
}

func writeProfiles(ew *errWriter, e *engine.Engine) {
	if !e.Tracker().PerInstruction() {
		return
	}

	for arch := tracker.Arch(0); arch < tracker.NumArchs; arch++ {
		ew.printf("\n# %s profile\n", arch)

		if ew.err != nil {
			return
		}

		_, ew.err = e.Tracker().Profile(arch).WriteTo(ew.w)
	}
}
