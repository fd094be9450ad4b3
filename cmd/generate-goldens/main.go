// Command generate-goldens records the expected output of every .gcode
// fixture in a directory as a YAML golden file next to it.
//
// Input settings (min_z, max_z, convert_inches) already present in a golden
// file are kept, so a new fixture is added by writing its .gcode file and,
// if needed, a stub .yaml with just those keys.
package main

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ryanlewis/layerplot"
	"github.com/ryanlewis/layerplot/internal/renderer"
	"gopkg.in/yaml.v3"
)

// GoldenFile is the expectation written next to each fixture.
// This should match the struct in golden_test.go
type GoldenFile struct {
	Source         string             `yaml:"source"`
	MinZ           *float64           `yaml:"min_z,omitempty"`
	MaxZ           *float64           `yaml:"max_z,omitempty"`
	ConvertInches  bool               `yaml:"convert_inches,omitempty"`
	Segments       []renderer.Segment `yaml:"segments"`
	Final          layerplot.Position `yaml:"final"`
	Counts         map[string]int     `yaml:"counts"`
	Layers         int                `yaml:"layers"`
	Generator      string             `yaml:"generator"`
	ChecksumSHA256 string             `yaml:"checksum_sha256"`
}

var (
	dir    = flag.String("dir", "testdata/goldens", "Directory holding .gcode fixtures")
	strict = flag.Bool("strict", false, "Exit on any fixture error")
)

func main() {
	flag.Parse()

	fixtures, err := filepath.Glob(filepath.Join(*dir, "*.gcode"))
	if err != nil {
		log.Fatalf("Failed to list fixtures: %v", err)
	}
	if len(fixtures) == 0 {
		log.Fatalf("No .gcode fixtures in %s", *dir)
	}

	for _, fixture := range fixtures {
		if err := generateGoldenFile(fixture); err != nil {
			if *strict {
				log.Fatalf("Failed to generate golden file: %v", err)
			}
			log.Printf("Warning: %v", err)
		}
	}

	log.Println("Golden file generation complete")
}

func generateGoldenFile(fixture string) error {
	outFile := strings.TrimSuffix(fixture, filepath.Ext(fixture)) + ".yaml"
	log.Printf("Generating %s", outFile)

	golden, err := readSettings(outFile)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(fixture)
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", fixture, err)
	}

	minZ, maxZ := math.Inf(-1), math.Inf(1)
	if golden.MinZ != nil {
		minZ = *golden.MinZ
	}
	if golden.MaxZ != nil {
		maxZ = *golden.MaxZ
	}

	rec := &renderer.Recorder{}
	res, err := layerplot.Plot(bytes.NewReader(src), rec,
		layerplot.WithWindow(minZ, maxZ),
		layerplot.WithInchConversion(golden.ConvertInches),
	)
	if err != nil {
		return fmt.Errorf("failed to plot %s: %w", fixture, err)
	}

	golden.Source = filepath.Base(fixture)
	golden.Segments = rec.Segments
	golden.Final = res.Final
	golden.Counts = res.Counts
	golden.Layers = res.Layers
	golden.Generator = "generate-goldens"
	golden.ChecksumSHA256 = calculateChecksum(src)

	yamlData, err := yaml.Marshal(golden)
	if err != nil {
		return fmt.Errorf("failed to marshal golden file: %w", err)
	}

	if err := os.WriteFile(outFile, yamlData, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", outFile, err)
	}
	return nil
}

// readSettings loads the input settings of an existing golden file.
// A missing file yields an empty GoldenFile.
func readSettings(path string) (*GoldenFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &GoldenFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var existing GoldenFile
	if err := yaml.Unmarshal(data, &existing); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &GoldenFile{
		MinZ:          existing.MinZ,
		MaxZ:          existing.MaxZ,
		ConvertInches: existing.ConvertInches,
	}, nil
}

func calculateChecksum(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}
