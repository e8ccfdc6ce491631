// Package engine is the nesting façade: it expands part templates, picks a
// nesting mode, and drives the greedy packer and/or genetic algorithm across
// as many sheets as the input needs, accumulating diagnostics instead of
// raising errors to the caller.
package engine

import (
	"github.com/piwi3910/nestcore/internal/ga"
)

// Mode selects which placement strategy Nest uses.
type Mode int

const (
	// ModeFast runs the greedy largest-area-first packer only.
	ModeFast Mode = iota
	// ModeOptimal runs the genetic algorithm one sheet at a time, carrying
	// whatever a sheet leaves unplaced to the next sheet's run; it falls back
	// to greedy only when the GA returns an empty chromosome.
	ModeOptimal
	// ModeAuto picks Fast or Optimal from the batch's size and complexity.
	ModeAuto
)

func (m Mode) String() string {
	switch m {
	case ModeFast:
		return "Fast"
	case ModeOptimal:
		return "Optimal"
	default:
		return "Auto"
	}
}

// autoFastMaxParts and autoFastMaxVertices gate ModeAuto's dispatch: small
// or simple batches run Fast, anything larger or more intricate runs
// Optimal.
const (
	autoFastMaxParts    = 5
	autoFastMaxVertices = 8
)

// Config carries every geometric, GA, and reporting knob the engine reads,
// and round-trips through internal/project as JSON.
type Config struct {
	SheetWidth  float64
	SheetHeight float64
	Margin      float64
	Gap         float64
	Angles      []float64

	GA   ga.Config
	Mode Mode

	CuttingSpeedMmPerSec float64
	VerboseLogging       bool
}

// DefaultConfig returns sensible defaults: a square-meter sheet, no margin
// or gap, all four right-angle rotations allowed, and Auto mode.
func DefaultConfig() Config {
	return Config{
		SheetWidth:  1000,
		SheetHeight: 1000,
		Margin:      0,
		Gap:         0,
		Angles:      []float64{0, 90, 180, 270},
		GA:          ga.DefaultConfig(),
		Mode:        ModeAuto,
	}
}

// ProgressFunc reports nesting progress; percent of -1 means "unchanged",
// matching the GA's generation-scoped progress callback.
type ProgressFunc func(percent int, message string)
