package debug

// CommandData describes one decoded command.
type CommandData struct {
	Line int      `json:"line"`
	Name string   `json:"name"`
	Raw  string   `json:"raw"`
	Args []string `json:"args,omitempty"`
}

// SegmentData describes one rendered segment, in millimetres.
type SegmentData struct {
	Line int     `json:"line"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	Z    float64 `json:"z"`
}

// LayerData describes a z change and the layer it closes.
type LayerData struct {
	Line     int     `json:"line"`
	FromZ    float64 `json:"from_z"`
	ToZ      float64 `json:"to_z"`
	Segments int     `json:"segments"` // segments rendered in the closed layer
	Mode     string  `json:"mode"`
}

// SummaryData is emitted once at the end of a run.
type SummaryData struct {
	Counts   map[string]int `json:"counts"`
	FinalX   float64        `json:"final_x"`
	FinalY   float64        `json:"final_y"`
	FinalZ   float64        `json:"final_z"`
	Segments int            `json:"segments"`
	Layers   int            `json:"layers"`
	Lines    int            `json:"lines"`
}

// OptionsData records the configuration a run started with.
// Unbounded window edges are nil; JSON cannot carry infinities.
type OptionsData struct {
	MinZ          *float64 `json:"min_z,omitempty"`
	MaxZ          *float64 `json:"max_z,omitempty"`
	ConvertInches bool     `json:"convert_inches"`
}

// ErrorData contains error information.
type ErrorData struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Command string `json:"command,omitempty"`
}
