// Package layerplot renders the toolpath of a G-code program as a 1:1 scale
// drawing, restricted to a band of layer heights.
//
// Each extrusion move whose starting z lies inside the configured window
// becomes one stroked segment on the output surface. Travel moves, moves
// with zero or negative extrusion, and moves outside the window are not
// drawn but still update the tool position.
package layerplot

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ryanlewis/layerplot/internal/common"
	"github.com/ryanlewis/layerplot/internal/interp"
	"github.com/ryanlewis/layerplot/internal/renderer"
)

// Plot interprets the G-code read from r and draws rendered segments on d.
// A nil d interprets without drawing.
//
// Processing stops at the first unrecognized command, malformed operand or
// read error. The returned Result is non-nil whenever the options are valid
// and reflects the commands executed before any error.
//
// Example:
//
//	f, err := os.Open("part.gcode")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	type counter struct{ n int }
//	func (c *counter) DrawSegment(x0, y0, x1, y1 float64) { c.n++ }
//
//	res, err := layerplot.Plot(f, &counter{}, layerplot.WithWindow(0.2, 0.4))
func Plot(r io.Reader, d Drawer, opts ...Option) (*Result, error) {
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	var drawer interp.Drawer
	if d != nil {
		drawer = d
	}
	in := interp.New(drawer, options.toInternal())
	runErr := in.Run(r)
	return newResult(in), runErr
}

// PlotFile renders the G-code file at inPath into a new file at outPath.
// The output format follows WithFormat, or the output file extension.
//
// The output is flushed and closed even when interpretation fails, so a
// partial drawing up to the failing line is left behind for inspection.
func PlotFile(inPath, outPath string, opts ...Option) (*Result, error) {
	options, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	format := options.format
	if format == "" {
		format = renderer.FormatFromPath(outPath)
	}
	if err := options.surface.Validate(format); err != nil {
		return nil, err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening input: %w", common.ErrIO, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: creating output: %w", common.ErrIO, err)
	}

	surface, err := renderer.New(out, format, options.surface)
	if err != nil {
		out.Close()
		return nil, err
	}

	res, runErr := Plot(in, surface, opts...)

	closeErr := surface.Close()
	if err := out.Close(); err != nil && closeErr == nil {
		closeErr = fmt.Errorf("%w: closing output: %w", common.ErrIO, err)
	}
	return res, errors.Join(runErr, closeErr)
}

// Commands returns the names of the supported G and M commands.
func Commands() []string {
	return interp.Commands()
}

func buildOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func newResult(in *interp.Interpreter) *Result {
	p := in.State().Position
	return &Result{
		Final:    Position{X: p.X, Y: p.Y, Z: p.Z},
		Counts:   in.Counts(),
		Segments: in.Segments(),
		Layers:   in.Layers(),
		Lines:    in.Lines(),
	}
}
