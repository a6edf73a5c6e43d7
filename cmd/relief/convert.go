package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/banshee-data/relief/internal/config"
	"github.com/banshee-data/relief/internal/db"
	"github.com/banshee-data/relief/internal/depth"
	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/imageio"
	"github.com/banshee-data/relief/internal/monitoring"
	"github.com/banshee-data/relief/internal/pipeline"
	"github.com/banshee-data/relief/internal/relief"
	"github.com/banshee-data/relief/internal/renderer"
	"github.com/banshee-data/relief/internal/version"
)

type convertFlags struct {
	output        string
	stl           bool
	stlEngine     string
	baseThickness float64
	maxHeight     float64
	width         float64
	detail        float64
	noSmoothing   bool
	invert        bool
	verbose       bool
	quiet         bool
	showVersion   bool
	configPath    string
	runtimeDir    string
	previewDir    string
	historyPath   string
	depthCmd      string
	openscadPath  string
	renderTimeout time.Duration

	set map[string]bool
}

func newConvertFlagSet(f *convertFlags, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.output, "o", "", "Output .scad path (default: next to the image)")
	fs.StringVar(&f.output, "output", "", "Output .scad path (default: next to the image)")
	fs.BoolVar(&f.stl, "stl", false, "Also render an STL file")
	fs.StringVar(&f.stlEngine, "stl-engine", renderer.EngineOpenSCAD, "STL engine: openscad, native or auto")
	fs.Float64Var(&f.baseThickness, "base-thickness", relief.DefaultBaseThickness, "Base thickness in mm")
	fs.Float64Var(&f.maxHeight, "max-height", relief.DefaultMaxHeight, "Maximum relief height in mm")
	fs.Float64Var(&f.width, "width", relief.DefaultModelWidth, "Model width in mm")
	fs.Float64Var(&f.detail, "detail", relief.DefaultDetailLevel, "Detail level (0.5 to 2.0)")
	fs.BoolVar(&f.noSmoothing, "no-smoothing", false, "Disable depth smoothing")
	fs.BoolVar(&f.invert, "invert", false, "Invert depth (near becomes far)")
	fs.BoolVar(&f.verbose, "v", false, "Verbose output")
	fs.BoolVar(&f.verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&f.quiet, "q", false, "Only print errors")
	fs.BoolVar(&f.quiet, "quiet", false, "Only print errors")
	fs.BoolVar(&f.showVersion, "version", false, "Show version and exit")
	fs.StringVar(&f.configPath, "config", "", "Tuning config JSON (default: "+config.DefaultConfigPath+" if present)")
	fs.StringVar(&f.runtimeDir, "runtime-dir", ".", "Directory searched for "+config.RuntimeConfigName)
	fs.StringVar(&f.previewDir, "preview", "", "Directory for height field previews")
	fs.StringVar(&f.historyPath, "history", "", "SQLite database recording conversion runs")
	fs.StringVar(&f.depthCmd, "depth-cmd", "", "External depth model command with {input} and {output} placeholders")
	fs.StringVar(&f.openscadPath, "openscad", "", "Path to the OpenSCAD executable")
	fs.DurationVar(&f.renderTimeout, "render-timeout", renderer.DefaultTimeout, "STL render timeout")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: relief convert <image> [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseConvertArgs parses args, allowing flags before and after the
// image path.
func parseConvertArgs(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{set: map[string]bool{}}
	fs := newConvertFlagSet(f, stderr)
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, positional, nil
}

// parseInterleaved parses flags that may appear on either side of
// positional arguments and returns the positionals in order.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// reliefConfig applies explicitly set flags on top of the tuning file.
func (f *convertFlags) reliefConfig(tuning *config.TuningConfig) *relief.Config {
	rc := tuning.ReliefConfig()
	if f.set["base-thickness"] {
		rc.WithBaseThickness(f.baseThickness)
	}
	if f.set["max-height"] {
		rc.WithMaxHeight(f.maxHeight)
	}
	if f.set["width"] {
		rc.WithModelWidth(f.width)
	}
	if f.set["detail"] {
		rc.WithDetailLevel(f.detail)
	}
	if f.noSmoothing {
		rc.WithSmoothing(false)
	}
	if f.invert {
		rc.WithInvertDepth(true)
	}
	return rc
}

func loadTuning(path string) (*config.TuningConfig, error) {
	if path != "" {
		return config.LoadTuningConfig(path)
	}
	if _, err := os.Stat(config.DefaultConfigPath); err == nil {
		return config.LoadTuningConfig(config.DefaultConfigPath)
	}
	return config.EmptyTuningConfig(), nil
}

func runConvert(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, positional, err := parseConvertArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitError
	}
	if f.showVersion {
		fmt.Fprintln(stdout, version.String())
		return exitOK
	}
	if len(positional) != 1 {
		fmt.Fprintln(stderr, "Error: exactly one input image is required")
		return exitError
	}

	if err := convert(ctx, f, positional[0], stdout, stderr); err != nil {
		code := exitCode(ctx, err)
		if code == exitInterrupted {
			fmt.Fprintln(stderr, "\nInterrupted")
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return code
	}
	return exitOK
}

func convert(ctx context.Context, f *convertFlags, input string, stdout, stderr io.Writer) error {
	rt, err := config.LoadRuntime(f.runtimeDir)
	if err != nil {
		return err
	}
	level, err := monitoring.ParseLevel(rt.LogLevel)
	if err != nil {
		return err
	}
	logger, err := monitoring.Setup(stderr, monitoring.VerbosityLevel(level, f.verbose, f.quiet), rt.LogFormat)
	if err != nil {
		return err
	}
	configureLoggers(logger)

	tuning, err := loadTuning(f.configPath)
	if err != nil {
		return err
	}
	params, err := f.reliefConfig(tuning).Build()
	if err != nil {
		return err
	}

	maxDim := rt.Image.MaxDimension
	if tuning.MaxImageDimension != nil {
		maxDim = tuning.GetMaxImageDimension()
	}
	timeout := rt.OpenSCAD.Timeout
	if tuning.RenderTimeout != nil {
		timeout = tuning.GetRenderTimeout()
	}
	if f.set["render-timeout"] {
		timeout = f.renderTimeout
	}
	openscadPath := rt.OpenSCAD.Path
	if f.openscadPath != "" {
		openscadPath = f.openscadPath
	}
	stlRenderer, err := renderer.New(f.stlEngine, renderer.NewOpenSCAD(renderer.WithPath(openscadPath), renderer.WithTimeout(timeout)))
	if err != nil {
		return err
	}

	depthSource := depth.Static(depth.Luminance{})
	depthCmd := rt.Depth.Command
	if f.depthCmd != "" {
		depthCmd = f.depthCmd
	}
	if depthCmd != "" {
		cmd, err := depth.ParseCommand(depthCmd)
		if err != nil {
			return err
		}
		depthSource = depth.Static(cmd)
	}

	opts := []pipeline.Option{
		pipeline.WithLoader(imageio.NewLoader(imageio.WithMaxDimension(maxDim))),
		pipeline.WithDepth(depthSource),
		pipeline.WithRenderer(stlRenderer),
	}
	if dir := firstNonEmpty(f.previewDir, rt.Preview.Dir); dir != "" {
		opts = append(opts, pipeline.WithPreviewDir(dir))
	}
	if path := firstNonEmpty(f.historyPath, rt.History.Path); path != "" {
		history, err := db.NewDB(path)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer history.Close()
		opts = append(opts, pipeline.WithHistory(history))
	}
	if !f.quiet {
		opts = append(opts, pipeline.WithProgress(func(stage string, fraction float64) {
			if fraction >= 1 {
				fmt.Fprintf(stderr, "  [done] %s\n", stage)
			}
		}))
	}

	output := f.output
	if output == "" {
		output = fsutil.OutputPath(input, "", fsutil.ScadExt)
	}

	converter := pipeline.NewConverter(opts...)
	defer converter.ReleaseModel()

	res, err := converter.Convert(ctx, pipeline.Request{
		InputPath:  input,
		OutputPath: output,
		Params:     params,
		ExportSTL:  f.stl,
	})
	if err != nil {
		return err
	}

	if !f.quiet {
		fmt.Fprintf(stdout, "OpenSCAD file: %s\n", res.ScriptPath)
		if res.STLPath != "" {
			fmt.Fprintf(stdout, "STL file: %s\n", res.STLPath)
		}
		for _, p := range res.PreviewPaths {
			fmt.Fprintf(stdout, "Preview: %s\n", p)
		}
		fmt.Fprintf(stdout, "Grid: %d x %d, %d vertices, %d faces\n", res.HeightField.Cols(), res.HeightField.Rows(), res.Vertices, res.Faces)
		fmt.Fprintf(stdout, "Processing time: %.2fs\n", res.Duration.Seconds())
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
