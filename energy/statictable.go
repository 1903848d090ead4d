package energy

import (
	"fmt"
	"io"
)

// TableEstimate is the energy derived from the power and latency tables.
// PowerSize and LatencySize are the access sizes of the table entries that
// were used.
type TableEstimate struct {
	PowerSize   uint64
	Watts       float64
	LatencySize uint64
	Latency     float64
	Misses      uint64
	Joules      float64
}

// EstimateTableEnergy looks up the power and the latency of the line size and
// charges them for every miss. If exact is false, the nearest entry no smaller
// than max(line size, floor) is used.
func EstimateTableEnergy(
	a ArchInput,
	exact bool,
	floor uint64,
) (TableEstimate, error) {
	e := TableEstimate{
		Misses:      a.Misses(),
		PowerSize:   a.LineSize,
		LatencySize: a.LineSize,
	}

	var err error
	if exact {
		e.Watts, err = a.Tables.Power.Lookup(a.LineSize)
		if err != nil {
			return e, err
		}

		e.Latency, err = a.Tables.Latency.Lookup(a.LineSize)
		if err != nil {
			return e, err
		}
	} else {
		e.Watts, e.PowerSize, err = a.Tables.Power.LookupAtLeast(a.LineSize, floor)
		if err != nil {
			return e, err
		}

		e.Latency, e.LatencySize, err = a.Tables.Latency.LookupAtLeast(
			a.LineSize, floor)
		if err != nil {
			return e, err
		}
	}

	e.Joules = e.Watts * e.Latency * float64(e.Misses) * 1e-9

	return e, nil
}

// TableModel reports the memory energy of the misses of each architecture
// from the power and latency tables.
type TableModel struct{}

// Name returns "table".
func (TableModel) Name() string {
	return "table"
}

// Report writes the memory energy of both architectures. The reference
// architecture needs an exact entry. The target architecture may use a
// larger one.
func (TableModel) Report(w io.Writer, in Input) error {
	ref, refErr := EstimateTableEnergy(in.Reference, true, 0)
	target, targetErr := EstimateTableEnergy(in.Target, false, in.TargetFloor)

	err := writeTableEstimate(w, in.Target.Params.Name, target, targetErr)
	if err != nil {
		return err
	}

	err = writeTableEstimate(w, in.Reference.Params.Name, ref, refErr)
	if err != nil {
		return err
	}

	if refErr != nil || targetErr != nil || target.Joules == 0 {
		return nil
	}

	_, err = fmt.Fprintf(w, "Energy Cost Ratio (%s/%s): %f\n",
		in.Reference.Params.Name, in.Target.Params.Name,
		ref.Joules/target.Joules)

	return err
}

func writeTableEstimate(
	w io.Writer,
	arch string,
	e TableEstimate,
	lookupErr error,
) error {
	if lookupErr != nil {
		return writeLookupFailure(w, arch, lookupErr)
	}

	_, err := fmt.Fprintf(w,
		"%16s: %e J (%d misses, %g W at %d B, %g ns at %d B)\n",
		arch, e.Joules, e.Misses, e.Watts, e.PowerSize,
		e.Latency, e.LatencySize)

	return err
}
