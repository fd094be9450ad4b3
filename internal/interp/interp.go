package interp

import (
	"errors"
	"io"
	"math"

	"github.com/ryanlewis/layerplot/internal/common"
	"github.com/ryanlewis/layerplot/internal/debug"
	"github.com/ryanlewis/layerplot/internal/parser"
)

const inchToMM = common.InchToMM

// Drawer receives the segments the interpreter decides to render.
// It is the interpreter's only way of affecting the output.
type Drawer interface {
	DrawSegment(x0, y0, x1, y1 float64)
}

type discard struct{}

func (discard) DrawSegment(_, _, _, _ float64) {}

// Options configures an Interpreter.
type Options struct {
	// Window is the z range segments are drawn in (nil means unbounded)
	Window *Window
	// ConvertInches scales motion operands by 25.4 while G20 is active
	ConvertInches bool
	// Debug receives diagnostics (nil disables them)
	Debug *debug.Session
}

// Interpreter applies commands to a MachineState in input order.
// It is not safe for concurrent use.
type Interpreter struct {
	state         MachineState
	window        Window
	drawer        Drawer
	convertInches bool
	debug         *debug.Session

	counts   map[string]int
	segments int
	layers   int
	lines    int
	line     int // line of the command being executed
}

// New returns an interpreter drawing on d, starting at the origin in
// relative millimetre mode. A nil d discards segments.
func New(d Drawer, opts Options) *Interpreter {
	if d == nil {
		d = discard{}
	}
	w := Unbounded()
	if opts.Window != nil {
		w = *opts.Window
	}

	in := &Interpreter{
		state:         MachineState{Mode: Relative, Units: Millimeters},
		window:        w,
		drawer:        d,
		convertInches: opts.ConvertInches,
		debug:         opts.Debug,
		counts:        make(map[string]int),
	}

	if in.debug.Enabled(debug.LevelSummary) {
		in.debug.Emit(debug.LevelSummary, "interp", "Options", debug.OptionsData{
			MinZ:          finite(w.MinZ),
			MaxZ:          finite(w.MaxZ),
			ConvertInches: opts.ConvertInches,
		})
	}
	return in
}

// Execute applies one decoded command. An unknown command or a malformed
// operand leaves the state untouched and returns a *common.LineError.
func (in *Interpreter) Execute(cmd parser.Command) error {
	in.line = cmd.Line

	h, ok := handlers[cmd.Name]
	if !ok {
		return in.fail(cmd, common.ErrUnrecognizedCommand)
	}

	if in.debug.Enabled(debug.LevelTrace) {
		in.debug.Emit(debug.LevelTrace, "interp", "Command", debug.CommandData{
			Line: cmd.Line,
			Name: cmd.Name,
			Raw:  cmd.Raw,
			Args: cmd.Args,
		})
	}

	if err := h(in, cmd.Args); err != nil {
		return in.fail(cmd, err)
	}
	in.counts[cmd.Name]++
	return nil
}

// Run reads and executes commands from r until end of input or the first
// error. A summary event is emitted either way.
func (in *Interpreter) Run(r io.Reader) error {
	s := parser.NewScanner(r)
	defer func() {
		in.lines = s.Lines()
		in.emitSummary()
	}()

	for s.Scan() {
		if err := in.Execute(s.Command()); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		in.debug.Emit(debug.LevelSummary, "interp", "Error", debug.ErrorData{
			Type:    "io",
			Message: err.Error(),
			Line:    s.Lines() + 1,
		})
		return err
	}
	return nil
}

func (in *Interpreter) fail(cmd parser.Command, err error) error {
	lerr := &common.LineError{Line: cmd.Line, Command: cmd.Raw, Err: err}
	if in.debug.Enabled(debug.LevelSummary) {
		typ := "malformed_operand"
		switch {
		case errors.Is(err, common.ErrUnrecognizedCommand):
			typ = "unrecognized_command"
		case errors.Is(err, common.ErrCoordinateRange):
			typ = "coordinate_range"
		}
		in.debug.Emit(debug.LevelSummary, "interp", "Error", debug.ErrorData{
			Type:    typ,
			Message: lerr.Error(),
			Line:    cmd.Line,
			Command: cmd.Raw,
		})
	}
	return lerr
}

// State returns a copy of the current machine state.
func (in *Interpreter) State() MachineState {
	return in.state
}

// Window returns the render window.
func (in *Interpreter) Window() Window {
	return in.window
}

// Counts returns how many times each command ran, keyed by canonical name.
func (in *Interpreter) Counts() map[string]int {
	out := make(map[string]int, len(in.counts))
	for k, v := range in.counts {
		out[k] = v
	}
	return out
}

// Segments returns the total number of segments rendered.
func (in *Interpreter) Segments() int {
	return in.segments
}

// Layers returns the number of z changes seen.
func (in *Interpreter) Layers() int {
	return in.layers
}

// Lines returns the number of input lines consumed by Run.
func (in *Interpreter) Lines() int {
	return in.lines
}

func (in *Interpreter) traceSegment(from, to Position) {
	if !in.debug.Enabled(debug.LevelTrace) {
		return
	}
	in.debug.Emit(debug.LevelTrace, "interp", "Segment", debug.SegmentData{
		Line: in.line,
		X0:   from.X,
		Y0:   from.Y,
		X1:   to.X,
		Y1:   to.Y,
		Z:    from.Z,
	})
}

func (in *Interpreter) traceLayer(fromZ, toZ float64) {
	if !in.debug.Enabled(debug.LevelLayers) {
		return
	}
	in.debug.Emit(debug.LevelLayers, "interp", "Layer", debug.LayerData{
		Line:     in.line,
		FromZ:    fromZ,
		ToZ:      toZ,
		Segments: in.state.LayerSegments,
		Mode:     in.state.Mode.String(),
	})
}

func (in *Interpreter) emitSummary() {
	if !in.debug.Enabled(debug.LevelSummary) {
		return
	}
	p := in.state.Position
	in.debug.Emit(debug.LevelSummary, "interp", "Summary", debug.SummaryData{
		Counts:   in.Counts(),
		FinalX:   p.X,
		FinalY:   p.Y,
		FinalZ:   p.Z,
		Segments: in.segments,
		Layers:   in.layers,
		Lines:    in.lines,
	})
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) {
		return nil
	}
	return &v
}
