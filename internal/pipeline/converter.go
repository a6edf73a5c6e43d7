// Package pipeline runs a complete photo-to-relief conversion: it loads
// the image, estimates depth, builds the height field and mesh, writes the
// OpenSCAD script and optionally renders an STL, records the run and
// saves previews.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/relief/internal/db"
	"github.com/banshee-data/relief/internal/depth"
	"github.com/banshee-data/relief/internal/fsutil"
	"github.com/banshee-data/relief/internal/heightfield"
	"github.com/banshee-data/relief/internal/imageio"
	"github.com/banshee-data/relief/internal/mesh"
	"github.com/banshee-data/relief/internal/preview"
	"github.com/banshee-data/relief/internal/relief"
	"github.com/banshee-data/relief/internal/renderer"
	"github.com/banshee-data/relief/internal/scad"
	"github.com/banshee-data/relief/internal/timeutil"
)

// Stage names reported to a ProgressFunc.
const (
	StageLoad     = "Loading image"
	StageEstimate = "Estimating depth"
	StageProcess  = "Processing depth"
	StageMesh     = "Building mesh"
	StageGenerate = "Generating OpenSCAD"
	StageRender   = "Rendering STL"
)

// ProgressFunc is called synchronously with 0.0 when a stage starts and
// 1.0 when it finishes.
type ProgressFunc func(stage string, fraction float64)

// HistoryStore records conversion runs. *db.DB implements it.
type HistoryStore interface {
	InsertRun(r *db.Run) (string, error)
}

// Request describes one conversion.
type Request struct {
	InputPath string
	// OutputPath is where the script is saved; the .scad extension is
	// forced. Empty means the script is only returned.
	OutputPath string
	Params     relief.Params
	// ExportSTL renders an STL after the script is saved. STLPath
	// overrides the default of the script path with a .stl extension.
	ExportSTL bool
	STLPath   string
}

// Result is the outcome of a successful conversion.
type Result struct {
	RunID        string
	Script       string
	ScriptPath   string
	STLPath      string
	Depth        *relief.Grid
	HeightField  *relief.HeightField
	Mesh         *mesh.Mesh
	Stats        heightfield.Stats
	Vertices     int
	Faces        int
	PreviewPaths []string
	Duration     time.Duration
}

// Converter wires the conversion stages together. The zero value is not
// usable; create one with NewConverter.
type Converter struct {
	loader     *imageio.Loader
	depth      *depth.Handle
	emitter    *scad.Emitter
	fs         fsutil.FileSystem
	renderer   renderer.Renderer
	history    HistoryStore
	clock      timeutil.Clock
	previewDir string
	progress   ProgressFunc
}

// Option configures a Converter.
type Option func(*Converter)

// WithLoader sets the image loader.
func WithLoader(l *imageio.Loader) Option { return func(c *Converter) { c.loader = l } }

// WithDepth sets the depth model handle.
func WithDepth(h *depth.Handle) Option { return func(c *Converter) { c.depth = h } }

// WithEmitter sets the script emitter.
func WithEmitter(e *scad.Emitter) Option { return func(c *Converter) { c.emitter = e } }

// WithFileSystem sets where scripts and previews are written.
func WithFileSystem(fs fsutil.FileSystem) Option { return func(c *Converter) { c.fs = fs } }

// WithRenderer sets the STL renderer.
func WithRenderer(r renderer.Renderer) Option { return func(c *Converter) { c.renderer = r } }

// WithHistory records every Convert call in h.
func WithHistory(h HistoryStore) Option { return func(c *Converter) { c.history = h } }

// WithClock sets the clock used for run timestamps and durations.
func WithClock(clk timeutil.Clock) Option { return func(c *Converter) { c.clock = clk } }

// WithPreviewDir saves height field previews into dir.
func WithPreviewDir(dir string) Option { return func(c *Converter) { c.previewDir = dir } }

// WithProgress sets the progress callback.
func WithProgress(f ProgressFunc) Option { return func(c *Converter) { c.progress = f } }

// NewConverter returns a Converter using the luminance depth source, the
// OS filesystem and OpenSCAD for STL export unless overridden.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		loader:  imageio.NewLoader(),
		depth:   depth.Static(depth.Luminance{}),
		emitter: scad.NewEmitter(),
		fs:      fsutil.OSFileSystem{},
		clock:   timeutil.RealClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.renderer == nil {
		c.renderer = renderer.NewOpenSCAD()
	}
	return c
}

func (c *Converter) report(stage string, fraction float64) {
	if c.progress != nil {
		c.progress(stage, fraction)
	}
	diagf("%s: %.0f%%", stage, fraction*100)
}

// Convert runs every stage for req. Cancellation is checked between
// stages. When a history store is configured the attempt is recorded
// whether or not it succeeds.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	start := c.clock.Now()
	res := &Result{RunID: uuid.NewString()}
	err := c.convert(ctx, req, res)
	res.Duration = c.clock.Since(start)
	c.record(req, res, start, err)
	if err != nil {
		return nil, err
	}
	infof("converted %s in %s (%d vertices, %d faces)", req.InputPath, res.Duration.Round(time.Millisecond), res.Vertices, res.Faces)
	return res, nil
}

func (c *Converter) convert(ctx context.Context, req Request, res *Result) error {
	if req.Params.IsZero() {
		return relief.ConfigurationError("pipeline.Convert", "conversion parameters were not built")
	}

	c.report(StageLoad, 0)
	raster, err := c.loader.Load(req.InputPath)
	if err != nil {
		return err
	}
	c.report(StageLoad, 1)
	if err := ctx.Err(); err != nil {
		return err
	}

	c.report(StageEstimate, 0)
	raw, err := c.depth.Estimate(ctx, raster)
	if err != nil {
		return err
	}
	res.Depth = raw
	c.report(StageEstimate, 1)

	if err := c.buildScript(ctx, raw, req.Params, res); err != nil {
		return err
	}

	if req.OutputPath != "" {
		if err := c.saveScript(req.OutputPath, res); err != nil {
			return err
		}
	}
	if c.previewDir != "" {
		c.savePreviews(req.InputPath, res)
	}

	if req.ExportSTL && res.ScriptPath != "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.report(StageRender, 0)
		stl := req.STLPath
		if stl == "" {
			stl = fsutil.WithExtension(res.ScriptPath, fsutil.StlExt)
		}
		out, err := c.renderer.Render(ctx, renderer.Job{ScadPath: res.ScriptPath, STLPath: stl, Mesh: res.Mesh})
		if err != nil {
			return err
		}
		res.STLPath = out
		c.report(StageRender, 1)
		infof("saved STL file: %s", out)
	} else if req.ExportSTL {
		opsf("STL export skipped: no output path for the script")
	}
	return nil
}

// ConvertGrid runs the core stages on an already estimated depth grid and
// returns the script without writing anything.
func (c *Converter) ConvertGrid(ctx context.Context, raw *relief.Grid, p relief.Params) (*Result, error) {
	if p.IsZero() {
		return nil, relief.ConfigurationError("pipeline.ConvertGrid", "conversion parameters were not built")
	}
	start := c.clock.Now()
	res := &Result{RunID: uuid.NewString(), Depth: raw}
	if err := c.buildScript(ctx, raw, p, res); err != nil {
		return nil, err
	}
	res.Duration = c.clock.Since(start)
	return res, nil
}

func (c *Converter) buildScript(ctx context.Context, raw *relief.Grid, p relief.Params, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.report(StageProcess, 0)
	hf, err := heightfield.Normalize(raw, p)
	if err != nil {
		return err
	}
	res.HeightField = hf
	res.Stats = heightfield.Statistics(hf.Grid())
	c.report(StageProcess, 1)

	if err := ctx.Err(); err != nil {
		return err
	}
	c.report(StageMesh, 0)
	m, err := mesh.Build(hf)
	if err != nil {
		return err
	}
	res.Mesh = m
	res.Vertices = m.VertexCount()
	res.Faces = m.FaceCount()
	c.report(StageMesh, 1)

	if err := ctx.Err(); err != nil {
		return err
	}
	c.report(StageGenerate, 0)
	script, err := c.emitter.Emit(m, hf, p)
	if err != nil {
		return err
	}
	res.Script = script
	c.report(StageGenerate, 1)
	return nil
}

func (c *Converter) saveScript(path string, res *Result) error {
	const op = "pipeline.SaveScript"
	if err := fsutil.EnsureParentDir(c.fs, path); err != nil {
		return relief.Wrap(relief.KindExport, op, err)
	}
	written, err := fsutil.SaveScript(c.fs, path, res.Script)
	if err != nil {
		return relief.Wrap(relief.KindExport, op, err)
	}
	res.ScriptPath = written
	infof("saved OpenSCAD file: %s", written)
	return nil
}

// savePreviews is best effort; a failed preview never fails the run.
func (c *Converter) savePreviews(input string, res *Result) {
	paths, err := preview.SaveAll(c.fs, c.previewDir, input, res.HeightField)
	res.PreviewPaths = paths
	if err != nil {
		opsf("failed to save previews for %s: %v", input, err)
		return
	}
	diagf("saved previews %v", paths)
}

func (c *Converter) record(req Request, res *Result, start time.Time, convErr error) {
	if c.history == nil {
		return
	}
	run := &db.Run{
		ID:         res.RunID,
		StartedAt:  start,
		Input:      req.InputPath,
		ScriptPath: res.ScriptPath,
		STLPath:    res.STLPath,
		Duration:   res.Duration,
		Vertices:   res.Vertices,
		Faces:      res.Faces,
		Status:     db.StatusSucceeded,
	}
	if abs, err := filepath.Abs(req.InputPath); err == nil {
		run.Input = abs
	}
	if !req.Params.IsZero() {
		if params, err := json.Marshal(req.Params.Config()); err == nil {
			run.Params = params
		}
	}
	if res.HeightField != nil {
		run.Rows, run.Cols = res.HeightField.Rows(), res.HeightField.Cols()
	}
	if convErr != nil {
		run.Status = db.StatusFailed
		if errors.Is(convErr, context.Canceled) || errors.Is(convErr, context.DeadlineExceeded) {
			run.Status = db.StatusCancelled
		}
		if k := relief.KindOf(convErr); k != 0 {
			run.ErrorKind = k.String()
		}
		run.Error = convErr.Error()
	}
	if _, err := c.history.InsertRun(run); err != nil {
		opsf("failed to record run %s: %v", res.RunID, err)
	}
}

// EstimateDepthOnly loads the image and returns the raw depth grid.
func (c *Converter) EstimateDepthOnly(ctx context.Context, inputPath string) (*relief.Grid, error) {
	raster, err := c.loader.Load(inputPath)
	if err != nil {
		return nil, err
	}
	return c.depth.Estimate(ctx, raster)
}

// ReleaseModel frees the depth model; the next conversion reloads it.
func (c *Converter) ReleaseModel() error {
	if !c.depth.IsLoaded() {
		return nil
	}
	if err := c.depth.Release(); err != nil {
		return relief.EstimationError("pipeline.ReleaseModel", err, "failed to release depth model")
	}
	infof("released depth estimation model")
	return nil
}
