package energy

import (
	"fmt"
	"io"
)

// TimeEstimate is the energy derived from the estimated execution time.
type TimeEstimate struct {
	Seconds      float64
	CoreJoules   float64
	MemoryJoules float64
}

// Joules returns the total energy.
func (e TimeEstimate) Joules() float64 {
	return e.CoreJoules + e.MemoryJoules
}

// EstimateTimeEnergy derives the execution time from the hits and the misses
// and charges the cores for that time.
func EstimateTimeEnergy(a ArchInput) TimeEstimate {
	p := a.Params
	hits := float64(a.Instructions.Hits())
	misses := float64(a.Instructions.Misses())

	e := TimeEstimate{}

	issueRate := p.IPC * float64(p.Cores)
	if issueRate > 0 && p.Freq > 0 {
		e.Seconds = p.Freq.CyclesToSeconds(hits / issueRate)
	}

	e.Seconds += misses * p.MissTime
	e.CoreJoules = float64(p.Cores) * p.WattsPerCore * e.Seconds
	e.MemoryJoules = p.JoulesPerBit * float64(a.LineSize*8) * misses

	return e
}

// TimeModel reports energy derived from the execution time.
type TimeModel struct{}

// Name returns "time".
func (TimeModel) Name() string {
	return "time"
}

// Report writes the time and the energy of both architectures, followed by
// their ratio.
func (TimeModel) Report(w io.Writer, in Input) error {
	target := EstimateTimeEnergy(in.Target)
	ref := EstimateTimeEnergy(in.Reference)

	for _, pair := range []struct {
		name string
		e    TimeEstimate
	}{
		{in.Target.Params.Name, target},
		{in.Reference.Params.Name, ref},
	} {
		_, err := fmt.Fprintf(w, "%16s: %e s, %e J (cores %e J, memory %e J)\n",
			pair.name, pair.e.Seconds, pair.e.Joules(),
			pair.e.CoreJoules, pair.e.MemoryJoules)
		if err != nil {
			return err
		}
	}

	if target.Joules() == 0 {
		return nil
	}

	_, err := fmt.Fprintf(w, "Energy Cost Ratio (%s/%s): %f\n",
		in.Reference.Params.Name, in.Target.Params.Name,
		ref.Joules()/target.Joules())

	return err
}
