// Package config loads layerplot run configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ryanlewis/layerplot/internal/common"
	"github.com/ryanlewis/layerplot/internal/debug"
	"github.com/ryanlewis/layerplot/internal/renderer"
	"gopkg.in/yaml.v3"
)

// DefaultOutput is the output path used when none is configured.
const DefaultOutput = "output.pdf"

// Config is the complete configuration of a run. Command line flags
// override values loaded from a file.
type Config struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	// Format is "pdf" or "png"; empty selects by output extension
	Format string `yaml:"format"`

	// MinZ and MaxZ bound the render window in millimetres; nil is unbounded
	MinZ *float64 `yaml:"min_z"`
	MaxZ *float64 `yaml:"max_z"`

	PageSize      float64 `yaml:"page_size"`
	StrokeWidth   float64 `yaml:"stroke_width"`
	ConvertInches bool    `yaml:"convert_inches"`

	Debug Debug `yaml:"debug"`
}

// Debug configures diagnostic output.
type Debug struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output:      DefaultOutput,
		PageSize:    common.DefaultPageSize,
		StrokeWidth: common.DefaultStrokeWidth,
		Debug:       Debug{Level: debug.LevelOff.String()},
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening config: %w", common.ErrIO, err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration from r on top of the defaults.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	minZ, maxZ := c.Window()
	if minZ > maxZ {
		return fmt.Errorf("min_z %g is greater than max_z %g", minZ, maxZ)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %g", c.PageSize)
	}
	if c.StrokeWidth <= 0 {
		return fmt.Errorf("stroke_width must be positive, got %g", c.StrokeWidth)
	}
	format, err := c.OutputFormat()
	if err != nil {
		return err
	}
	if format == renderer.FormatPNG && c.PageSize > common.MaxRasterSize {
		return fmt.Errorf("page_size %g exceeds the png limit of %g pixels", c.PageSize, common.MaxRasterSize)
	}
	if _, err := debug.ParseLevel(c.Debug.Level); err != nil {
		return err
	}
	return nil
}

// Window returns the render window bounds, with infinities for unset edges.
func (c *Config) Window() (minZ, maxZ float64) {
	minZ, maxZ = math.Inf(-1), math.Inf(1)
	if c.MinZ != nil {
		minZ = *c.MinZ
	}
	if c.MaxZ != nil {
		maxZ = *c.MaxZ
	}
	return minZ, maxZ
}

// OutputFormat resolves the configured format, falling back to the output
// file extension.
func (c *Config) OutputFormat() (renderer.Format, error) {
	if c.Format == "" {
		return renderer.FormatFromPath(c.Output), nil
	}
	return renderer.ParseFormat(c.Format)
}
