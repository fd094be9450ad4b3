package layerplot

import (
	"fmt"
	"math"

	"github.com/ryanlewis/layerplot/internal/common"
	"github.com/ryanlewis/layerplot/internal/debug"
	"github.com/ryanlewis/layerplot/internal/interp"
	"github.com/ryanlewis/layerplot/internal/renderer"
)

// Drawer receives segments to draw, in millimetres.
type Drawer interface {
	DrawSegment(x0, y0, x1, y1 float64)
}

// Position is a tool position in millimetres.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Result summarises a run.
type Result struct {
	// Final is the tool position after the last executed command
	Final Position
	// Counts maps canonical command names (e.g. "G1") to how often they ran
	Counts map[string]int
	// Segments is the number of segments drawn
	Segments int
	// Layers is the number of z changes
	Layers int
	// Lines is the number of input lines read
	Lines int
}

// LineError reports the input line and command token of a fatal error.
// Use errors.Is with ErrUnrecognizedCommand or ErrMalformedOperand to
// classify it.
type LineError = common.LineError

// Errors returned by the layerplot package
var (
	// ErrUnrecognizedCommand is returned for a G or M command with no handler
	ErrUnrecognizedCommand = common.ErrUnrecognizedCommand

	// ErrMalformedOperand is returned when an operand is not a letter followed by a number
	ErrMalformedOperand = common.ErrMalformedOperand

	// ErrIO wraps failures reading the input or writing the output
	ErrIO = common.ErrIO

	// ErrCoordinateRange is returned when a move resolves to an infinite coordinate
	ErrCoordinateRange = common.ErrCoordinateRange

	// ErrInvalidOption is returned when an option value is out of range
	ErrInvalidOption = common.ErrInvalidOption
)

// Option configures a run.
type Option func(*options)

type options struct {
	minZ          float64
	maxZ          float64
	convertInches bool
	format        renderer.Format
	surface       renderer.Config
	debug         *debug.Session
}

func defaultOptions() *options {
	return &options{
		minZ:    math.Inf(-1),
		maxZ:    math.Inf(1),
		surface: renderer.DefaultConfig(),
	}
}

func (o *options) validate() error {
	if math.IsNaN(o.minZ) || math.IsNaN(o.maxZ) || o.minZ > o.maxZ {
		return fmt.Errorf("%w: window [%g, %g]", ErrInvalidOption, o.minZ, o.maxZ)
	}
	if o.format != "" {
		f, err := renderer.ParseFormat(string(o.format))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}
		o.format = f
	}
	return o.surface.Validate(o.format)
}

func (o *options) toInternal() interp.Options {
	return interp.Options{
		Window:        &interp.Window{MinZ: o.minZ, MaxZ: o.maxZ},
		ConvertInches: o.convertInches,
		Debug:         o.debug,
	}
}

// WithWindow restricts drawing to moves starting at a z within
// [minZ, maxZ], bounds included. Use math.Inf for an open edge.
// The default window is unbounded.
func WithWindow(minZ, maxZ float64) Option {
	return func(opts *options) {
		opts.minZ = minZ
		opts.maxZ = maxZ
	}
}

// WithInchConversion scales motion operands by 25.4 while G20 (inches) is
// active. By default the unit system is recorded but coordinates are used
// as written.
func WithInchConversion(convert bool) Option {
	return func(opts *options) {
		opts.convertInches = convert
	}
}

// WithFormat selects the PlotFile output format, "pdf" or "png".
// By default the format follows the output file extension.
func WithFormat(format string) Option {
	return func(opts *options) {
		opts.format = renderer.Format(format)
	}
}

// WithPageSize sets the side of the square PlotFile page, in points
// (pixels for PNG, at most 16384). The default is 1440.
func WithPageSize(size float64) Option {
	return func(opts *options) {
		opts.surface.PageSize = size
	}
}

// WithStrokeWidth sets the PlotFile stroke width, in points. The default is 0.1.
func WithStrokeWidth(width float64) Option {
	return func(opts *options) {
		opts.surface.StrokeWidth = width
	}
}

// WithDebug attaches a diagnostic session. A nil session disables diagnostics.
func WithDebug(session *debug.Session) Option {
	return func(opts *options) {
		opts.debug = session
	}
}
