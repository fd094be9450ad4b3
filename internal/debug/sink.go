package debug

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Sink is the interface for debug output destinations.
type Sink interface {
	Write(event Event) error
	Flush() error
	Close() error
}

// JSONSink writes events in JSON Lines format.
type JSONSink struct {
	w       *bufio.Writer
	encoder *json.Encoder
}

// NewJSONSink creates a new JSON Lines sink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	bw := bufio.NewWriter(w)
	return &JSONSink{
		w:       bw,
		encoder: json.NewEncoder(bw),
	}
}

// Write encodes and writes an event as a JSON line.
func (s *JSONSink) Write(event Event) error {
	return s.encoder.Encode(event)
}

// Flush writes any buffered data to the underlying writer.
func (s *JSONSink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *JSONSink) Close() error {
	return s.Flush()
}

// PrettySink writes events in human-readable format.
type PrettySink struct {
	w *bufio.Writer
}

// NewPrettySink creates a new pretty-format sink writing to w.
func NewPrettySink(w io.Writer) *PrettySink {
	return &PrettySink{
		w: bufio.NewWriter(w),
	}
}

// Write formats and writes an event in human-readable format.
func (s *PrettySink) Write(event Event) error {
	// Format: [timestamp] [phase/event]
	fmt.Fprintf(s.w, "[%s] [%s/%s] session=%s\n", event.Timestamp, event.Phase, event.Event, event.SessionID)

	switch d := event.Data.(type) {
	case CommandData:
		fmt.Fprintf(s.w, "  line %d: %s %v\n", d.Line, d.Raw, d.Args)
	case SegmentData:
		fmt.Fprintf(s.w, "  line %d: (%g,%g) -> (%g,%g) at z=%g\n", d.Line, d.X0, d.Y0, d.X1, d.Y1, d.Z)
	case LayerData:
		fmt.Fprintf(s.w, "  line %d: z %g -> %g, %d segments in last layer [%s]\n",
			d.Line, d.FromZ, d.ToZ, d.Segments, d.Mode)
	case SummaryData:
		s.writeSummary(d)
	case OptionsData:
		fmt.Fprintf(s.w, "  window: [%s, %s], convert_inches: %t\n", boundStr(d.MinZ, "-inf"), boundStr(d.MaxZ, "+inf"), d.ConvertInches)
	case ErrorData:
		fmt.Fprintf(s.w, "  %s: %s\n", d.Type, d.Message)
	case map[string]interface{}:
		s.writeMap(d)
	case map[string]int64:
		s.writeMapInt64(d)
	default:
		fmt.Fprintf(s.w, "  data: %+v\n", d)
	}

	return nil
}

func (s *PrettySink) writeSummary(d SummaryData) {
	names := make([]string, 0, len(d.Counts))
	for name := range d.Counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(s.w, "  %-6s %d\n", name, d.Counts[name])
	}
	fmt.Fprintf(s.w, "  lines: %d, segments: %d, layers: %d\n", d.Lines, d.Segments, d.Layers)
	fmt.Fprintf(s.w, "  final: %g,%g,%g\n", d.FinalX, d.FinalY, d.FinalZ)
}

func (s *PrettySink) writeMap(d map[string]interface{}) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(s.w, "  %s: %v\n", k, d[k])
	}
}

func (s *PrettySink) writeMapInt64(d map[string]int64) {
	for k, v := range d {
		fmt.Fprintf(s.w, "  %s: %d\n", k, v)
	}
}

// Flush writes any buffered data to the underlying writer.
func (s *PrettySink) Flush() error {
	return s.w.Flush()
}

// Close flushes the buffer.
func (s *PrettySink) Close() error {
	return s.Flush()
}

func boundStr(v *float64, unbounded string) string {
	if v == nil {
		return unbounded
	}
	return fmt.Sprintf("%g", *v)
}
