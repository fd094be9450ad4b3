package parser

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ryanlewis/layerplot/internal/common"
)

const (
	// Slicer output rarely exceeds a few hundred bytes per line, but M117
	// messages and embedded thumbnails can be long.
	defaultBufferSize = 64 * 1024
	maxBufferSize     = 4 * 1024 * 1024
)

// Scanner reads commands from an input stream one line at a time, skipping
// lines that carry no command.
type Scanner struct {
	sc   *bufio.Scanner
	cmd  Command
	line int
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, defaultBufferSize), maxBufferSize)
	return &Scanner{sc: sc}
}

// Scan advances to the next command. It returns false at end of input or on
// a read error; call Err to distinguish the two.
func (s *Scanner) Scan() bool {
	for s.sc.Scan() {
		s.line++
		cmd, ok := ParseLine(s.sc.Text())
		if !ok {
			continue
		}
		cmd.Line = s.line
		s.cmd = cmd
		return true
	}
	return false
}

// Command returns the most recent command decoded by Scan.
func (s *Scanner) Command() Command {
	return s.cmd
}

// Lines returns the number of input lines consumed so far.
func (s *Scanner) Lines() int {
	return s.line
}

// Err returns the first read error, wrapped with common.ErrIO.
func (s *Scanner) Err() error {
	if err := s.sc.Err(); err != nil {
		return fmt.Errorf("%w: reading line %d: %w", common.ErrIO, s.line+1, err)
	}
	return nil
}
