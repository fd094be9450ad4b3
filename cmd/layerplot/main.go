// Command layerplot draws the extrusion moves of a G-code file that fall
// inside a layer-height window as a 1:1 scale PDF or PNG.
package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/ryanlewis/layerplot"
	"github.com/ryanlewis/layerplot/internal/config"
	"github.com/ryanlewis/layerplot/internal/debug"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// flagValues holds the raw command line values before they are merged
// into a config.Config.
type flagValues struct {
	configPath    string
	output        string
	format        string
	minZ          float64
	maxZ          float64
	pageSize      float64
	strokeWidth   float64
	convertInches bool
	showVersion   bool
	showHelp      bool
	debugMode     bool
	debugLevel    string
	debugFile     string
	debugPretty   bool
}

func newFlagSet(v *flagValues) *pflag.FlagSet {
	fs := pflag.NewFlagSet("layerplot", pflag.ContinueOnError)
	fs.StringVarP(&v.configPath, "config", "c", "", "Path to a YAML config file")
	fs.StringVarP(&v.output, "output", "o", config.DefaultOutput, "Output file path")
	fs.StringVar(&v.format, "format", "", "Output format: pdf or png (default: from output extension)")
	fs.Float64Var(&v.minZ, "min-z", math.Inf(-1), "Lowest layer height to draw, in mm (inclusive)")
	fs.Float64Var(&v.maxZ, "max-z", math.Inf(1), "Highest layer height to draw, in mm (inclusive)")
	fs.Float64Var(&v.pageSize, "page-size", 0, "Side of the square page in points (default 1440)")
	fs.Float64Var(&v.strokeWidth, "stroke-width", 0, "Stroke width in points (default 0.1)")
	fs.BoolVar(&v.convertInches, "convert-inches", false, "Scale coordinates by 25.4 while G20 is active")
	fs.BoolVarP(&v.showVersion, "version", "v", false, "Show version information")
	fs.BoolVarP(&v.showHelp, "help", "h", false, "Show help message")
	fs.BoolVar(&v.debugMode, "debug", false, "Enable diagnostics (outputs to stderr)")
	fs.StringVar(&v.debugLevel, "debug-level", "", "Diagnostic level: summary, layers or trace")
	fs.StringVar(&v.debugFile, "debug-file", "", "Write diagnostics to file instead of stderr")
	fs.BoolVar(&v.debugPretty, "debug-pretty", false, "Use pretty format for diagnostics (default: JSON)")
	fs.SetOutput(io.Discard)
	return fs
}

func run(args []string, stdout, stderr io.Writer) int {
	var v flagValues
	fs := newFlagSet(&v)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printHelp(stderr, fs)
		return 1
	}

	if v.showHelp {
		printHelp(stdout, fs)
		return 0
	}

	if v.showVersion {
		fmt.Fprintf(stdout, "layerplot version %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	cfg := config.Default()
	if v.configPath != "" {
		loaded, err := config.Load(v.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	applyFlags(cfg, fs, &v)

	if rest := fs.Args(); len(rest) > 0 {
		cfg.Input = rest[0]
	}
	if cfg.Input == "" {
		fmt.Fprintln(stderr, "Error: no input file provided")
		printHelp(stderr, fs)
		return 1
	}

	if debugRequested(&v) && cfg.Debug.Level == debug.LevelOff.String() {
		cfg.Debug.Level = debug.LevelSummary.String()
	}
	if os.Getenv("LAYERPLOT_DEBUG_PRETTY") == "1" {
		cfg.Debug.Pretty = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	session, closeDebug, err := openDebug(cfg.Debug, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating debug file: %v\n", err)
		return 1
	}
	defer closeDebug()

	format, err := cfg.OutputFormat()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	minZ, maxZ := cfg.Window()
	opts := []layerplot.Option{
		layerplot.WithWindow(minZ, maxZ),
		layerplot.WithInchConversion(cfg.ConvertInches),
		layerplot.WithFormat(string(format)),
		layerplot.WithPageSize(cfg.PageSize),
		layerplot.WithStrokeWidth(cfg.StrokeWidth),
	}
	if session != nil {
		opts = append(opts, layerplot.WithDebug(session))
	}

	res, err := layerplot.PlotFile(cfg.Input, cfg.Output, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if res != nil && !errors.Is(err, layerplot.ErrIO) {
			fmt.Fprintf(stderr, "Partial output with %d segments written to %s\n", res.Segments, cfg.Output)
		}
		return 1
	}

	fmt.Fprintf(stdout, "wrote %d segments to %s\n", res.Segments, cfg.Output)
	return 0
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cfg *config.Config, fs *pflag.FlagSet, v *flagValues) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "output":
			cfg.Output = v.output
		case "format":
			cfg.Format = v.format
		case "min-z":
			minZ := v.minZ
			cfg.MinZ = &minZ
		case "max-z":
			maxZ := v.maxZ
			cfg.MaxZ = &maxZ
		case "page-size":
			cfg.PageSize = v.pageSize
		case "stroke-width":
			cfg.StrokeWidth = v.strokeWidth
		case "convert-inches":
			cfg.ConvertInches = v.convertInches
		case "debug-level":
			cfg.Debug.Level = v.debugLevel
		case "debug-file":
			cfg.Debug.File = v.debugFile
		case "debug-pretty":
			cfg.Debug.Pretty = v.debugPretty
		}
	})
}

func debugRequested(v *flagValues) bool {
	return v.debugMode || v.debugFile != "" || os.Getenv("LAYERPLOT_DEBUG") == "1"
}

// openDebug creates the diagnostic session described by d. The returned
// close function is always safe to call.
func openDebug(d config.Debug, stderr io.Writer) (*debug.Session, func(), error) {
	level, err := debug.ParseLevel(d.Level)
	if err != nil {
		return nil, func() {}, err
	}
	if level == debug.LevelOff {
		return nil, func() {}, nil
	}

	var output = stderr
	var file *os.File
	if d.File != "" {
		file, err = os.Create(d.File)
		if err != nil {
			return nil, func() {}, err
		}
		output = file
	}

	var sink debug.Sink
	if d.Pretty {
		sink = debug.NewPrettySink(output)
	} else {
		sink = debug.NewJSONSink(output)
	}

	session := debug.NewSession(sink, level)
	return session, func() {
		session.Close()
		if file != nil {
			file.Close()
		}
	}, nil
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "layerplot - draw a layer band of a G-code toolpath")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  layerplot [flags] <input.gcode>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported commands:")
	fmt.Fprintf(w, "  %s\n", strings.Join(layerplot.Commands(), " "))
}
