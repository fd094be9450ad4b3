package interp

import (
	"fmt"
	"math"
	"sort"

	"github.com/ryanlewis/layerplot/internal/common"
	"github.com/ryanlewis/layerplot/internal/parser"
)

// handler applies one command to the interpreter. args are the raw operand
// tokens; handlers that need numeric operands decode them themselves.
type handler func(in *Interpreter, args []string) error

// handlers is the closed set of supported commands, keyed by canonical name.
// Anything else with a G or M prefix is an unrecognized command.
var handlers = map[string]handler{
	"G0":  (*Interpreter).move, // rapid move, drawn like G1
	"G1":  (*Interpreter).move,
	"G20": (*Interpreter).setInches,
	"G21": (*Interpreter).setMillimeters,
	"G28": noop, // home
	"G90": (*Interpreter).setAbsolute,
	"G91": (*Interpreter).setRelative,
	"G92": (*Interpreter).resetPosition,

	// Machine housekeeping with no effect on geometry
	"M82":  noop, // extruder absolute
	"M83":  noop, // extruder relative
	"M84":  noop, // motors off
	"M104": noop, // set extruder temperature
	"M106": noop, // fan on
	"M107": noop, // fan off
	"M109": noop, // set extruder temperature and wait
	"M117": noop, // display message, free text
	"M140": noop, // set bed temperature
	"M190": noop, // set bed temperature and wait
}

// Commands returns the supported command names, sorted.
func Commands() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i][0] != names[j][0] {
			return names[i][0] < names[j][0]
		}
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}

func noop(*Interpreter, []string) error {
	return nil
}

func (in *Interpreter) setInches([]string) error {
	in.state.Units = Inches
	return nil
}

func (in *Interpreter) setMillimeters([]string) error {
	in.state.Units = Millimeters
	return nil
}

func (in *Interpreter) setAbsolute([]string) error {
	in.state.Mode = Absolute
	return nil
}

func (in *Interpreter) setRelative([]string) error {
	in.state.Mode = Relative
	return nil
}

// resetPosition moves the origin to the current tool position, whatever
// operands were given. The coordinate mode is unchanged.
func (in *Interpreter) resetPosition([]string) error {
	in.state.Position = Position{}
	return nil
}

// move implements G0 and G1.
//
// The render gate uses the z before the move: a segment is drawn when E is
// strictly positive and the current z lies inside the window. An axis
// without an operand keeps its value; a present operand of 0 is a real
// target. A target that overflows to infinity fails and leaves the state
// untouched.
func (in *Interpreter) move(args []string) error {
	ops, err := parser.ParseOperands(args)
	if err != nil {
		return err
	}

	cur := in.state.Position
	next := Position{
		X: in.resolve(ops.X, cur.X),
		Y: in.resolve(ops.Y, cur.Y),
		Z: in.resolve(ops.Z, cur.Z),
	}
	if math.IsInf(next.X, 0) || math.IsInf(next.Y, 0) || math.IsInf(next.Z, 0) {
		return fmt.Errorf("%w: (%g, %g, %g)", common.ErrCoordinateRange, next.X, next.Y, next.Z)
	}

	if ops.E.Present && ops.E.Value > 0 && in.window.Contains(cur.Z) {
		in.drawer.DrawSegment(cur.X, cur.Y, next.X, next.Y)
		in.state.LayerSegments++
		in.segments++
		in.traceSegment(cur, next)
	}

	if next.Z != cur.Z {
		in.traceLayer(cur.Z, next.Z)
		in.state.LayerSegments = 0
		in.layers++
	}

	in.state.Position = next
	return nil
}

func (in *Interpreter) resolve(v parser.Value, current float64) float64 {
	if !v.Present {
		return current
	}
	val := v.Value
	if in.convertInches && in.state.Units == Inches {
		val *= inchToMM
	}
	if in.state.Mode == Relative {
		return current + val
	}
	return val
}
