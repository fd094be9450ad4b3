package renderer

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/ryanlewis/layerplot/internal/common"
)

var _ Surface = (*PDF)(nil) // assert interface conformance

// PDF draws segments on a single square PDF page, by wrapping
// github.com/jung-kurt/gofpdf.
type PDF struct {
	w        io.Writer
	pdf      *gofpdf.Fpdf
	scale    float64
	segments int
	closed   bool
}

// NewPDF returns a PDF surface which will write to w on Close.
// The page is painted white once; strokes are black.
func NewPDF(w io.Writer, cfg Config) *PDF {
	cfg = cfg.withDefaults()

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: cfg.PageSize, Ht: cfg.PageSize},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(0, 0, cfg.PageSize, cfg.PageSize, "F")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(cfg.StrokeWidth)
	pdf.SetLineCapStyle("butt")

	return &PDF{w: w, pdf: pdf, scale: cfg.Scale}
}

// DrawSegment strokes one path from (x0,y0) to (x1,y1).
func (p *PDF) DrawSegment(x0, y0, x1, y1 float64) {
	p.pdf.MoveTo(x0*p.scale, y0*p.scale)
	p.pdf.LineTo(x1*p.scale, y1*p.scale)
	p.pdf.DrawPath("D")
	p.segments++
}

// Segments returns the number of segments drawn.
func (p *PDF) Segments() int {
	return p.segments
}

// Close writes the document. Further calls are no-ops.
func (p *PDF) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.pdf.Output(p.w); err != nil {
		return fmt.Errorf("%w: writing pdf: %w", common.ErrIO, err)
	}
	return nil
}
