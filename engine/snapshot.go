package engine

import (
	"github.com/sarchlab/hbsim/mem/cache"
	"github.com/sarchlab/hbsim/stats"
	"github.com/sarchlab/hbsim/tracker"
)

// ArchSnapshot holds the counters of one architecture.
type ArchSnapshot struct {
	Instructions stats.HitMiss `json:"instructions"`
	Loads        stats.HitMiss `json:"loads"`
	Stores       stats.HitMiss `json:"stores"`
	Evictions    uint64        `json:"evictions"`
}

// Snapshot is a copy of the counters of an engine at one moment.
type Snapshot struct {
	Reference ArchSnapshot  `json:"reference"`
	Target    ArchSnapshot  `json:"target"`
	NumEpochs int           `json:"num_epochs"`
	Epochs    []cache.Stats `json:"epochs"`
}

// Snapshot copies the current counters. Target counters are summed over
// every epoch.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Reference: ArchSnapshot{
			Instructions: e.tracker.Counters(tracker.Reference),
			Loads:        e.reference.Counters(cache.AccessLoad),
			Stores:       e.reference.Counters(cache.AccessStore),
			Evictions:    e.reference.Evictions(),
		},
		Target: ArchSnapshot{
			Instructions: e.tracker.Counters(tracker.Target),
			Loads:        e.epochs.Counters(cache.AccessLoad),
			Stores:       e.epochs.Counters(cache.AccessStore),
			Evictions:    e.epochs.Evictions(),
		},
		NumEpochs: e.epochs.NumEpochs(),
	}

	for _, c := range e.epochs.Instances() {
		s.Epochs = append(s.Epochs, c.Stats())
	}

	return s
}
