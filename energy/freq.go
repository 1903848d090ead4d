package energy

import (
	"fmt"
	"log"
)

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

// Period returns the time between two consecutive ticks in seconds.
func (f Freq) Period() float64 {
	if f == 0 {
		log.Panic("frequency cannot be 0")
	}

	return 1.0 / float64(f)
}

// CyclesToSeconds converts a number of cycles to seconds.
func (f Freq) CyclesToSeconds(cycles float64) float64 {
	return cycles * f.Period()
}

func (f Freq) String() string {
	switch {
	case f >= GHz:
		return fmt.Sprintf("%gGHz", float64(f/GHz))
	case f >= MHz:
		return fmt.Sprintf("%gMHz", float64(f/MHz))
	case f >= KHz:
		return fmt.Sprintf("%gKHz", float64(f/KHz))
	default:
		return fmt.Sprintf("%gHz", float64(f))
	}
}
