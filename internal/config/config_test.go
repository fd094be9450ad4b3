package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ryanlewis/layerplot/internal/common"
	"github.com/ryanlewis/layerplot/internal/renderer"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	minZ, maxZ := cfg.Window()
	if !math.IsInf(minZ, -1) || !math.IsInf(maxZ, 1) {
		t.Errorf("Window() = %v, %v, want unbounded", minZ, maxZ)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		validate func(t *testing.T, c *Config)
		wantErr  bool
	}{
		{
			name:  "empty",
			input: "",
			validate: func(t *testing.T, c *Config) {
				if c.PageSize != common.DefaultPageSize {
					t.Errorf("PageSize = %v, want default", c.PageSize)
				}
			},
		},
		{
			name: "full",
			input: `
input: part.gcode
output: part.png
min_z: 3
max_z: 6
page_size: 720
stroke_width: 0.5
convert_inches: true
debug:
  level: layers
  pretty: true
`,
			validate: func(t *testing.T, c *Config) {
				if c.Input != "part.gcode" || c.Output != "part.png" {
					t.Errorf("paths = %q, %q", c.Input, c.Output)
				}
				minZ, maxZ := c.Window()
				if minZ != 3 || maxZ != 6 {
					t.Errorf("Window() = %v, %v, want 3, 6", minZ, maxZ)
				}
				if c.PageSize != 720 || c.StrokeWidth != 0.5 {
					t.Errorf("page = %v, stroke = %v", c.PageSize, c.StrokeWidth)
				}
				if !c.ConvertInches {
					t.Error("ConvertInches not set")
				}
				if c.Debug.Level != "layers" || !c.Debug.Pretty {
					t.Errorf("Debug = %+v", c.Debug)
				}
				if f, _ := c.OutputFormat(); f != renderer.FormatPNG {
					t.Errorf("OutputFormat() = %q, want png", f)
				}
			},
		},
		{
			name:  "only_max",
			input: "max_z: 0.6\n",
			validate: func(t *testing.T, c *Config) {
				minZ, maxZ := c.Window()
				if !math.IsInf(minZ, -1) || maxZ != 0.6 {
					t.Errorf("Window() = %v, %v", minZ, maxZ)
				}
			},
		},
		{name: "inverted_window", input: "min_z: 5\nmax_z: 4\n", wantErr: true},
		{name: "unknown_key", input: "colour: red\n", wantErr: true},
		{name: "bad_format", input: "format: svg\n", wantErr: true},
		{name: "bad_level", input: "debug:\n  level: loud\n", wantErr: true},
		{name: "zero_page", input: "page_size: 0\n", wantErr: true},
		{name: "png_page_too_large", input: "format: png\npage_size: 1000000\n", wantErr: true},
		{name: "png_ext_page_too_large", input: "output: big.png\npage_size: 20000\n", wantErr: true},
		{name: "pdf_page_large", input: "page_size: 20000\n"},
		{name: "bad_yaml", input: "min_z: [\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.validate != nil && err == nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layerplot.yaml")
	if err := os.WriteFile(path, []byte("min_z: 1.5\nformat: pdf\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if minZ, _ := cfg.Window(); minZ != 1.5 {
		t.Errorf("min z = %v, want 1.5", minZ)
	}

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, common.ErrIO) {
		t.Errorf("Load(missing) = %v, want ErrIO", err)
	}
}
