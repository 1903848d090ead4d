// Package energy turns the final counters of a run into energy and
// throughput estimates.
package energy

import (
	"fmt"
	"io"
	"sort"

	"github.com/sarchlab/hbsim/stats"
)

// DefaultTargetFloor is the smallest access size used when resolving target
// table entries.
const DefaultTargetFloor = 4

// ArchInput is what a model needs to know about one architecture.
type ArchInput struct {
	Params   ArchParams
	LineSize uint64
	Tables   ArchTables

	// Instructions counts every instruction, split by whether its memory
	// accesses hit.
	Instructions stats.HitMiss

	LoadMisses  uint64
	StoreMisses uint64
}

// Misses returns the number of load and store misses.
func (a ArchInput) Misses() uint64 {
	return a.LoadMisses + a.StoreMisses
}

// Input is the input of an energy model.
type Input struct {
	Reference ArchInput
	Target    ArchInput

	// TargetFloor is the smallest access size used in target table lookups.
	TargetFloor uint64
}

// A Model writes an energy section of the report.
//
// Lookup failures are not returned. The model writes a diagnostic line for
// the architecture it could not resolve and carries on. Only write errors are
// returned.
type Model interface {
	Name() string
	Report(w io.Writer, in Input) error
}

var models = map[string]func() Model{
	"instruction":  func() Model { return InstructionModel{} },
	"table":        func() Model { return TableModel{} },
	"time":         func() Model { return TimeModel{} },
	"table-legacy": func() Model { return LegacyTableModel{} },
}

// NewModel creates a model by name.
func NewModel(name string) (Model, error) {
	create, ok := models[name]
	if !ok {
		return nil, fmt.Errorf("unknown energy model %q, expecting one of %v",
			name, ModelNames())
	}

	return create(), nil
}

// ModelNames lists the names accepted by NewModel.
func ModelNames() []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func writeLookupFailure(w io.Writer, arch string, err error) error {
	_, werr := fmt.Fprintf(w, "%16s: %s\n", arch, err)
	return werr
}
