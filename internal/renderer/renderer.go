// Package renderer implements the output surfaces segments are drawn on.
//
// A surface only records strokes. It has no knowledge of machine state:
// coordinates arrive in millimetres and are scaled to output units once,
// with stroke colour and width fixed when the surface is created.
package renderer

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/ryanlewis/layerplot/internal/common"
)

// Surface is an output drawing surface.
type Surface interface {
	// DrawSegment strokes a line from (x0,y0) to (x1,y1), in millimetres.
	DrawSegment(x0, y0, x1, y1 float64)
	// Close flushes the drawing to its writer. It must be called exactly once.
	Close() error
}

// Segment is a line segment in millimetres.
type Segment struct {
	X0 float64 `yaml:"x0"`
	Y0 float64 `yaml:"y0"`
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
}

// Config holds the fixed drawing configuration of a surface.
type Config struct {
	// PageSize is the side of the square page, in output units (points or pixels)
	PageSize float64
	// StrokeWidth is the stroke width, in output units
	StrokeWidth float64
	// Scale converts millimetres to output units
	Scale float64
}

// DefaultConfig returns a 1440x1440 point page at 1:1 scale with 0.1 pt strokes.
func DefaultConfig() Config {
	return Config{
		PageSize:    common.DefaultPageSize,
		StrokeWidth: common.DefaultStrokeWidth,
		Scale:       common.MMToPoints,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.StrokeWidth <= 0 {
		c.StrokeWidth = d.StrokeWidth
	}
	if c.Scale <= 0 {
		c.Scale = d.Scale
	}
	return c
}

// Validate checks the page and stroke sizes for a surface of format f.
// Raster pages are limited to common.MaxRasterSize pixels a side.
func (c Config) Validate(f Format) error {
	if !(c.PageSize > 0) || math.IsInf(c.PageSize, 0) || !(c.StrokeWidth > 0) || math.IsInf(c.StrokeWidth, 0) {
		return fmt.Errorf("%w: page size %g, stroke width %g", common.ErrInvalidOption, c.PageSize, c.StrokeWidth)
	}
	if f == FormatPNG && c.PageSize > common.MaxRasterSize {
		return fmt.Errorf("%w: png page size %g exceeds %g pixels", common.ErrInvalidOption, c.PageSize, common.MaxRasterSize)
	}
	return nil
}

// Format selects an output backend.
type Format string

const (
	// FormatPDF writes a vector PDF page
	FormatPDF Format = "pdf"
	// FormatPNG writes a raster preview
	FormatPNG Format = "png"
)

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unknown output format %q (want pdf or png)", s)
}

// FormatFromPath picks a format from the file extension, defaulting to PDF.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return FormatPNG
	}
	return FormatPDF
}

// New creates a surface of the given format writing to w.
// Unset config fields take their defaults; out of range values are rejected.
func New(w io.Writer, f Format, cfg Config) (Surface, error) {
	if err := cfg.withDefaults().Validate(f); err != nil {
		return nil, err
	}
	switch f {
	case FormatPDF, "":
		return NewPDF(w, cfg), nil
	case FormatPNG:
		return NewRaster(w, cfg), nil
	}
	return nil, fmt.Errorf("unknown output format %q", f)
}
