package renderer

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"testing"

	"github.com/ryanlewis/layerplot/internal/common"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{"PNG", FormatPNG, false},
		{" pdf ", FormatPDF, false},
		{"svg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.pdf", FormatPDF},
		{"out.png", FormatPNG},
		{"OUT.PNG", FormatPNG},
		{"out", FormatPDF},
		{"dir.png/out.pdf", FormatPDF},
	}

	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	got := Config{StrokeWidth: 2}.withDefaults()
	want := Config{PageSize: common.DefaultPageSize, StrokeWidth: 2, Scale: common.MMToPoints}
	if got != want {
		t.Errorf("withDefaults() = %+v, want %+v", got, want)
	}
}

func TestPDFSurface(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(&buf, FormatPDF, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	s.DrawSegment(0, 0, 10, 0)
	s.DrawSegment(10, 0, 10, 10)

	if buf.Len() != 0 {
		t.Error("PDF written before Close")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", buf.Bytes()[:min(16, buf.Len())])
	}
	if got := s.(*PDF).Segments(); got != 2 {
		t.Errorf("Segments() = %d, want 2", got)
	}

	n := buf.Len()
	if err := s.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
	if buf.Len() != n {
		t.Error("second Close wrote more output")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPDFSurfaceWriteError(t *testing.T) {
	s := NewPDF(failingWriter{}, DefaultConfig())
	s.DrawSegment(0, 0, 1, 1)
	if err := s.Close(); !errors.Is(err, common.ErrIO) {
		t.Fatalf("Close() = %v, want ErrIO", err)
	}
}

func TestRasterSurface(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{PageSize: 200, StrokeWidth: 2, Scale: common.MMToPoints}
	s, err := New(&buf, FormatPNG, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// 10mm..50mm along y=10mm is roughly x 28..142 px at y 28 px
	s.DrawSegment(10, 10, 50, 10)
	s.DrawSegment(5, 5, 5, 5)

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if got := s.(*Raster).Segments(); got != 2 {
		t.Errorf("Segments() = %d, want 2", got)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("image size = %v, want 200x200", b)
	}

	r, _, _, _ := img.At(80, 28).RGBA()
	if r > 0x4000 {
		t.Errorf("pixel on the segment is not dark: r=%#x", r)
	}
	r, g, b, _ := img.At(80, 100).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("background pixel is not white: %#x %#x %#x", r, g, b)
	}
	r, _, _, _ = img.At(14, 14).RGBA()
	if r != 0xffff {
		t.Errorf("zero-length segment left a mark: r=%#x", r)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.DrawSegment(0, 0, 10, 0)
	r.DrawSegment(10, 0, 10, 10)
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	want := []Segment{{0, 0, 10, 0}, {10, 0, 10, 10}}
	if len(r.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(r.Segments), len(want))
	}
	for i := range want {
		if r.Segments[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, r.Segments[i], want[i])
		}
	}
	if !r.Closed {
		t.Error("Closed not set")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		format  Format
		wantErr bool
	}{
		{name: "defaults_pdf", cfg: DefaultConfig(), format: FormatPDF},
		{name: "defaults_png", cfg: DefaultConfig(), format: FormatPNG},
		{name: "png_at_limit", cfg: Config{PageSize: common.MaxRasterSize, StrokeWidth: 1}, format: FormatPNG},
		{name: "png_over_limit", cfg: Config{PageSize: 1e6, StrokeWidth: 1}, format: FormatPNG, wantErr: true},
		{name: "pdf_large", cfg: Config{PageSize: 1e6, StrokeWidth: 1}, format: FormatPDF},
		{name: "zero_page", cfg: Config{PageSize: 0, StrokeWidth: 1}, format: FormatPDF, wantErr: true},
		{name: "nan_page", cfg: Config{PageSize: math.NaN(), StrokeWidth: 1}, format: FormatPDF, wantErr: true},
		{name: "infinite_stroke", cfg: Config{PageSize: 100, StrokeWidth: math.Inf(1)}, format: FormatPDF, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%s) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, common.ErrInvalidOption) {
				t.Errorf("Validate(%s) error = %v, want ErrInvalidOption", tt.format, err)
			}
		})
	}
}

func TestNewRejectsOversizedRaster(t *testing.T) {
	_, err := New(&bytes.Buffer{}, FormatPNG, Config{PageSize: 1e6})
	if !errors.Is(err, common.ErrInvalidOption) {
		t.Errorf("New() error = %v, want ErrInvalidOption", err)
	}
}

func TestNewUnknownFormat(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, Format("svg"), DefaultConfig()); err == nil {
		t.Error("New with unknown format should fail")
	}
}
