package report

import (
	"context"
	"fmt"

	"github.com/sarchlab/hbsim/datarecording"
	"github.com/sarchlab/hbsim/engine"
	"github.com/sarchlab/hbsim/tracker"
)

// Tables written by Record.
const (
	EpochSummaryTable       = "epoch_summary"
	InstructionProfileTable = "instruction_profile"
)

// EpochSummary is the counters of one target cache instance.
type EpochSummary struct {
	Epoch       int
	Name        string
	Accesses    uint64
	LoadMisses  uint64
	LoadHits    uint64
	StoreMisses uint64
	StoreHits   uint64
	Evictions   uint64
	Resident    int
}

// InstructionProfileEntry is the counters of one instruction on one
// architecture.
type InstructionProfileEntry struct {
	Arch   string
	IP     string
	Misses uint64
	Hits   uint64
}

// Record writes the epoch summaries and the reported profile entries into a
// recorder. The recorder is flushed.
func Record(rec datarecording.DataRecorder, e *engine.Engine) {
	rec.CreateTable(EpochSummaryTable, EpochSummary{})

	for i, c := range e.Epochs().Instances() {
		s := c.Stats()
		rec.InsertData(EpochSummaryTable, EpochSummary{
			Epoch:       i,
			Name:        s.Name,
			Accesses:    s.Accesses(),
			LoadMisses:  s.Loads.Misses(),
			LoadHits:    s.Loads.Hits(),
			StoreMisses: s.Stores.Misses(),
			StoreHits:   s.Stores.Hits(),
			Evictions:   s.Evictions,
			Resident:    s.NumResident,
		})
	}

	if e.Tracker().PerInstruction() {
		rec.CreateTable(InstructionProfileTable, InstructionProfileEntry{})

		for arch := tracker.Arch(0); arch < tracker.NumArchs; arch++ {
			for _, entry := range e.Tracker().Profile(arch).Entries() {
				rec.InsertData(InstructionProfileTable, InstructionProfileEntry{
					Arch:   arch.String(),
					IP:     fmt.Sprintf("0x%016x", entry.Key),
					Misses: entry.Counters.Misses(),
					Hits:   entry.Counters.Hits(),
				})
			}
		}
	}

	rec.Flush()
}

// ReadEpochSummaries reads the epoch summaries of a recording in epoch order.
func ReadEpochSummaries(
	ctx context.Context,
	reader datarecording.DataReader,
) ([]EpochSummary, error) {
	reader.MapTable(EpochSummaryTable, EpochSummary{})

	results, _, err := reader.Query(ctx, EpochSummaryTable,
		datarecording.QueryParams{OrderBy: "Epoch"})
	if err != nil {
		return nil, err
	}

	summaries := make([]EpochSummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, *r.(*EpochSummary))
	}

	return summaries, nil
}
