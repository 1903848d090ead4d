package energy

import (
	"fmt"
	"io"
)

// ArchParams holds the constants that describe the cost of running on one
// architecture.
type ArchParams struct {
	Name string `yaml:"name"`

	// JoulesPerInstruction is the energy spent by the cores on one
	// instruction.
	JoulesPerInstruction float64 `yaml:"joules_per_instruction"`

	// JoulesPerBit is the energy spent by the memory system to move one bit.
	JoulesPerBit float64 `yaml:"joules_per_bit"`

	IPC   float64 `yaml:"ipc"`
	Cores int     `yaml:"cores"`

	// Freq is the clock of the cores in Hz.
	Freq         Freq    `yaml:"freq"`
	WattsPerCore float64 `yaml:"watts_per_core"`

	// MissTime is the time, in seconds, that one miss takes, including the
	// memory latency.
	MissTime float64 `yaml:"miss_time"`
}

func (p ArchParams) write(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"%s parameters\n"+
			"  joules per instruction  %g\n"+
			"  joules per bit          %g\n"+
			"  ipc                     %g\n"+
			"  cores                   %d\n"+
			"  clock                   %s\n"+
			"  watts per core          %g\n"+
			"  miss time               %g s\n",
		p.Name, p.JoulesPerInstruction, p.JoulesPerBit, p.IPC, p.Cores,
		p.Freq, p.WattsPerCore, p.MissTime)

	return err
}

// DefaultReferenceParams returns the parameters of a Xeon E7-8894 v4 with DDR4
// memory.
func DefaultReferenceParams() ArchParams {
	return ArchParams{
		Name:                 "Xeon",
		JoulesPerInstruction: 5.7e-9,
		JoulesPerBit:         124.07e-12,
		IPC:                  0.5,
		Cores:                24,
		Freq:                 2.4 * GHz,
		WattsPerCore:         165.0 / 24,
		MissTime:             65e-9,
	}
}

// DefaultTargetParams returns the parameters of a HammerBlade manycore with
// HBM2 memory.
func DefaultTargetParams() ArchParams {
	return ArchParams{
		Name:                 "HammerBlade",
		JoulesPerInstruction: 5e-12,
		JoulesPerBit:         3.6e-12,
		IPC:                  1,
		Cores:                512,
		Freq:                 1 * GHz,
		WattsPerCore:         0.01,
		MissTime:             1.856e-9,
	}
}
