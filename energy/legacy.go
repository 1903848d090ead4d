package energy

import (
	"fmt"
	"io"
)

// LegacyTableModel reproduces an older table formula for comparison. It
// multiplies load misses by store misses, and resolves the reference power
// with the target line size. Its results are not trusted.
type LegacyTableModel struct{}

// Name returns "table-legacy".
func (LegacyTableModel) Name() string {
	return "table-legacy"
}

// EstimateLegacyTableEnergy computes the old formula for one architecture.
// powerSize selects the power entry.
func EstimateLegacyTableEnergy(
	a ArchInput,
	powerSize uint64,
) (TableEstimate, error) {
	e := TableEstimate{
		PowerSize:   powerSize,
		LatencySize: a.LineSize,
		Misses:      a.LoadMisses * a.StoreMisses,
	}

	var err error

	e.Watts, err = a.Tables.Power.Lookup(powerSize)
	if err != nil {
		return e, err
	}

	e.Latency, err = a.Tables.Latency.Lookup(a.LineSize)
	if err != nil {
		return e, err
	}

	e.Joules = e.Watts * e.Latency * float64(e.Misses) * 1e-9

	return e, nil
}

// Report writes a warning line followed by the legacy estimates.
func (LegacyTableModel) Report(w io.Writer, in Input) error {
	_, err := fmt.Fprintln(w,
		"NOTE: table-legacy is under review: it multiplies load misses by "+
			"store misses and looks up the reference power with the target "+
			"line size")
	if err != nil {
		return err
	}

	target, targetErr := EstimateLegacyTableEnergy(
		in.Target, in.Target.LineSize)
	ref, refErr := EstimateLegacyTableEnergy(
		in.Reference, in.Target.LineSize)

	err = writeTableEstimate(w, in.Target.Params.Name, target, targetErr)
	if err != nil {
		return err
	}

	return writeTableEstimate(w, in.Reference.Params.Name, ref, refErr)
}
