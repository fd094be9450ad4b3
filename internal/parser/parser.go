// Package parser decodes G-code lines into commands and operands.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ryanlewis/layerplot/internal/common"
)

// Command is one decoded G or M command.
type Command struct {
	// Name is the canonical command name used for dispatch (e.g. "G1" for "G01")
	Name string

	// Raw is the command token exactly as it appeared in the input
	Raw string

	// Args holds the remaining whitespace-delimited tokens, undecoded.
	// Most commands decode them with ParseOperands; free-text commands such
	// as M117 use them verbatim.
	Args []string

	// Line is the 1-based input line number (0 when not read through a Scanner)
	Line int
}

// Value is an optional operand value. Present is false when the operand was
// absent from the command, which is distinct from a present value of 0.
type Value struct {
	Value   float64
	Present bool
}

// Operands holds the axis and extrusion operands of a motion command.
type Operands struct {
	X Value
	Y Value
	Z Value
	E Value
}

// StripComment removes everything from the first comment delimiter to the
// end of the line.
func StripComment(line string) string {
	if i := strings.IndexByte(line, common.CommentDelimiter); i >= 0 {
		return line[:i]
	}
	return line
}

// ParseLine decodes a single input line. It returns false when the line
// carries no command: blank lines, comment lines, and lines whose first token
// does not start with a G or M prefix.
func ParseLine(line string) (Command, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] == common.CommentDelimiter {
		return Command{}, false
	}

	fields := strings.Fields(StripComment(trimmed))
	if len(fields) == 0 {
		return Command{}, false
	}

	tok := fields[0]
	if tok[0] != common.MotionPrefix && tok[0] != common.MiscPrefix {
		return Command{}, false
	}

	return Command{
		Name: canonicalName(tok),
		Raw:  tok,
		Args: fields[1:],
	}, true
}

// canonicalName strips leading zeros from the numeric part of a command
// token so that G01 and G1 dispatch to the same handler. Tokens whose suffix
// is not a plain integer are returned unchanged.
func canonicalName(tok string) string {
	n, err := strconv.Atoi(tok[1:])
	if err != nil || n < 0 || strings.HasPrefix(tok[1:], "+") {
		return tok
	}
	return tok[:1] + strconv.Itoa(n)
}

// ParseOperands decodes operand tokens of the form <letter><number>.
// Operand order is insignificant; when a letter repeats, the last value wins.
// Letters other than X, Y, Z and E are validated and then ignored. Letters
// are case-sensitive, so a lowercase x is not the X axis.
func ParseOperands(args []string) (Operands, error) {
	var ops Operands
	for _, arg := range args {
		letter, v, err := parseOperand(arg)
		if err != nil {
			return Operands{}, err
		}
		switch letter {
		case 'X':
			ops.X = Value{Value: v, Present: true}
		case 'Y':
			ops.Y = Value{Value: v, Present: true}
		case 'Z':
			ops.Z = Value{Value: v, Present: true}
		case 'E':
			ops.E = Value{Value: v, Present: true}
		}
	}
	return ops, nil
}

func parseOperand(arg string) (byte, float64, error) {
	if len(arg) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", common.ErrMalformedOperand, arg)
	}
	letter := arg[0]
	if (letter < 'A' || letter > 'Z') && (letter < 'a' || letter > 'z') {
		return 0, 0, fmt.Errorf("%w: %q", common.ErrMalformedOperand, arg)
	}

	v, err := strconv.ParseFloat(arg[1:], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, 0, fmt.Errorf("%w: %q", common.ErrMalformedOperand, arg)
	}
	return letter, v, nil
}
