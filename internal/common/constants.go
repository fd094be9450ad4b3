// Package common provides shared constants and errors for internal packages.
// The errors are re-exported by the layerplot package.
package common

import (
	"errors"
	"fmt"
)

// CommentDelimiter starts an inline comment that runs to the end of the line.
const CommentDelimiter = ';'

// Command class prefixes. A first token starting with any other letter is ignored.
const (
	MotionPrefix = 'G'
	MiscPrefix   = 'M'
)

// Output surface defaults
const (
	// PointsPerMM is the size of one PostScript point in millimetres.
	PointsPerMM = 0.352778
	// MMToPoints scales millimetres to output units so the drawing is 1:1.
	MMToPoints = 1.0 / PointsPerMM
	// DefaultPageSize is the side of the square page, in points.
	DefaultPageSize = 1440.0
	// DefaultStrokeWidth is the stroke width, in points.
	DefaultStrokeWidth = 0.1
	// InchToMM converts inch operands when inch conversion is enabled.
	InchToMM = 25.4
	// MaxRasterSize is the largest raster page side, in pixels.
	MaxRasterSize = 16384.0
)

var (
	// ErrUnrecognizedCommand is returned for a G or M command with no handler
	ErrUnrecognizedCommand = errors.New("unrecognized command")
	// ErrMalformedOperand is returned when an operand is not a letter followed by a number
	ErrMalformedOperand = errors.New("malformed operand")
	// ErrIO is returned when the input or the output surface cannot be read or written
	ErrIO = errors.New("i/o error")
	// ErrCoordinateRange is returned when a move resolves beyond the float64 range
	ErrCoordinateRange = errors.New("coordinate out of range")
	// ErrInvalidOption is returned when an option value is out of range
	ErrInvalidOption = errors.New("invalid option")
)

// LineError attaches the input line number and the raw command token to a
// decode or interpretation failure.
type LineError struct {
	Line    int
	Command string
	Err     error
}

func (e *LineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
