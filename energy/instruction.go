package energy

import (
	"fmt"
	"io"
)

// InstructionEstimate is the energy spent on instructions and memory traffic.
type InstructionEstimate struct {
	Instructions      uint64
	InstructionJoules float64
	MemoryJoules      float64
}

// Joules returns the total energy.
func (e InstructionEstimate) Joules() float64 {
	return e.InstructionJoules + e.MemoryJoules
}

// GOPSPerWatt returns billions of instructions per joule.
func (e InstructionEstimate) GOPSPerWatt() float64 {
	j := e.Joules()
	if j == 0 {
		return 0
	}

	return float64(e.Instructions) / 1e9 / j
}

// EstimateInstructionEnergy charges every instruction and every bit brought
// in by a miss.
func EstimateInstructionEnergy(a ArchInput) InstructionEstimate {
	n := a.Instructions.Total()
	misses := a.Instructions.Misses()
	bits := float64(a.LineSize * 8)

	return InstructionEstimate{
		Instructions:      n,
		InstructionJoules: a.Params.JoulesPerInstruction * float64(n),
		MemoryJoules:      a.Params.JoulesPerBit * bits * float64(misses),
	}
}

// InstructionModel reports throughput per watt from per-instruction and
// per-bit energy.
type InstructionModel struct{}

// Name returns "instruction".
func (InstructionModel) Name() string {
	return "instruction"
}

// Report writes the energy and the GOPS/Watt of both architectures.
func (InstructionModel) Report(w io.Writer, in Input) error {
	for _, a := range []ArchInput{in.Target, in.Reference} {
		e := EstimateInstructionEnergy(a)

		_, err := fmt.Fprintf(w, "%16s: %e J (instructions %e J, memory %e J)\n",
			a.Params.Name, e.Joules(), e.InstructionJoules, e.MemoryJoules)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, "%16s: %e GOPS/Watt\n",
			a.Params.Name, e.GOPSPerWatt())
		if err != nil {
			return err
		}
	}

	return nil
}
