package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/ryanlewis/layerplot/internal/common"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// minRasterStroke keeps hairlines visible once rasterized, in pixels.
const minRasterStroke = 1.0

var _ Surface = (*Raster)(nil) // assert interface conformance

// Raster draws segments into an RGBA image and encodes it as PNG on Close,
// by wrapping rasterx. One output unit is one pixel.
type Raster struct {
	w        io.Writer
	img      *image.RGBA
	dasher   *rasterx.Dasher
	scale    float64
	segments int
	closed   bool
}

// NewRaster returns a raster surface with a white background and black strokes.
func NewRaster(w io.Writer, cfg Config) *Raster {
	cfg = cfg.withDefaults()
	size := int(math.Ceil(cfg.PageSize))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	scanner.SetColor(color.Black)
	dasher := rasterx.NewDasher(size, size, scanner)

	width := math.Max(cfg.StrokeWidth, minRasterStroke)
	dasher.SetStroke(fixed.Int26_6(width*64), 4*64, rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter, nil, 0)

	return &Raster{w: w, img: img, dasher: dasher, scale: cfg.Scale}
}

func toFixed(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
}

// DrawSegment strokes one path from (x0,y0) to (x1,y1).
// Zero-length segments leave no mark with butt caps and are skipped.
func (r *Raster) DrawSegment(x0, y0, x1, y1 float64) {
	r.segments++
	a := toFixed(x0*r.scale, y0*r.scale)
	b := toFixed(x1*r.scale, y1*r.scale)
	if a == b {
		return
	}
	r.dasher.Clear()
	r.dasher.Start(a)
	r.dasher.Line(b)
	r.dasher.Stop(false)
	r.dasher.Draw()
}

// Segments returns the number of segments drawn.
func (r *Raster) Segments() int {
	return r.segments
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// Close encodes the image as PNG. Further calls are no-ops.
func (r *Raster) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if err := png.Encode(r.w, r.img); err != nil {
		return fmt.Errorf("%w: writing png: %w", common.ErrIO, err)
	}
	return nil
}
