package renderer

var _ Surface = (*Recorder)(nil)

// Recorder is a Surface that keeps segments in memory.
type Recorder struct {
	Segments []Segment
	Closed   bool
}

// DrawSegment appends the segment.
func (r *Recorder) DrawSegment(x0, y0, x1, y1 float64) {
	r.Segments = append(r.Segments, Segment{X0: x0, Y0: y0, X1: x1, Y1: y1})
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.Closed = true
	return nil
}
