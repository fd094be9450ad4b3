// Package interp interprets G-code commands against a machine state and
// projects extrusion moves inside a z window onto a drawing surface.
package interp

import "math"

// Mode is the coordinate mode governing how motion operands combine with
// the current position.
type Mode int

const (
	// Relative operands are deltas from the current position
	Relative Mode = iota
	// Absolute operands are target coordinates
	Absolute
)

func (m Mode) String() string {
	if m == Absolute {
		return "abs"
	}
	return "rel"
}

// Units is the declared unit system.
type Units int

const (
	// Millimeters is the default unit system
	Millimeters Units = iota
	// Inches is selected by G20
	Inches
)

func (u Units) String() string {
	if u == Inches {
		return "inches"
	}
	return "mm"
}

// Position is a tool position in millimetres.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Window is an inclusive z range, in millimetres.
type Window struct {
	MinZ float64
	MaxZ float64
}

// Unbounded returns a window admitting every z.
func Unbounded() Window {
	return Window{MinZ: math.Inf(-1), MaxZ: math.Inf(1)}
}

// Contains reports whether z lies within the window, bounds included.
func (w Window) Contains(z float64) bool {
	return w.MinZ <= z && z <= w.MaxZ
}

// MachineState is the mutable state of the interpreted machine.
type MachineState struct {
	Position Position
	Mode     Mode
	Units    Units

	// LayerSegments counts segments rendered since z last changed
	LayerSegments int
}
