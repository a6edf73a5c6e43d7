package renderer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/banshee-data/relief/internal/relief"
)

// DefaultTimeout bounds a single OpenSCAD render.
const DefaultTimeout = 5 * time.Minute

// versionTimeout bounds "openscad --version".
const versionTimeout = 10 * time.Second

// Sentinel causes carried by export errors from OpenSCAD.
var (
	ErrToolNotFound = errors.New("openscad executable not found; install it from https://openscad.org/downloads.html")
	ErrTimeout      = errors.New("openscad render timed out")
	ErrNoOutput     = errors.New("openscad completed but produced no STL file")
)

// DefaultSearchPaths lists install locations checked after PATH.
var DefaultSearchPaths = []string{
	"/Applications/OpenSCAD.app/Contents/MacOS/OpenSCAD",
	"/usr/bin/openscad",
	"/usr/local/bin/openscad",
	"/snap/bin/openscad",
	`C:\Program Files\OpenSCAD\openscad.exe`,
}

var executableNames = []string{"openscad", "OpenSCAD"}

// OpenSCAD renders .scad files through the OpenSCAD CLI.
type OpenSCAD struct {
	path        string
	timeout     time.Duration
	searchPaths []string
	lookPath    func(string) (string, error)
}

// Option configures an OpenSCAD renderer.
type Option func(*OpenSCAD)

// WithPath uses an explicit executable instead of searching.
func WithPath(path string) Option {
	return func(o *OpenSCAD) { o.path = path }
}

// WithTimeout sets the render timeout. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(o *OpenSCAD) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithSearchPaths replaces the fallback install locations.
func WithSearchPaths(paths ...string) Option {
	return func(o *OpenSCAD) { o.searchPaths = paths }
}

// withLookPath replaces exec.LookPath; tests use it to hide the host PATH.
func withLookPath(f func(string) (string, error)) Option {
	return func(o *OpenSCAD) { o.lookPath = f }
}

// NewOpenSCAD returns a renderer that searches PATH and DefaultSearchPaths.
func NewOpenSCAD(opts ...Option) *OpenSCAD {
	o := &OpenSCAD{
		timeout:     DefaultTimeout,
		searchPaths: DefaultSearchPaths,
		lookPath:    exec.LookPath,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name identifies the renderer in logs.
func (o *OpenSCAD) Name() string { return EngineOpenSCAD }

// Timeout returns the configured render timeout.
func (o *OpenSCAD) Timeout() time.Duration { return o.timeout }

// Find locates the executable: the explicit path if set, else PATH, else
// the search paths.
func (o *OpenSCAD) Find() (string, error) {
	if o.path != "" {
		if fileExists(o.path) {
			return o.path, nil
		}
		return "", relief.ExportError("renderer.Find", ErrToolNotFound, "no executable at %s", o.path)
	}
	for _, name := range executableNames {
		if p, err := o.lookPath(name); err == nil {
			diagf("found openscad in PATH: %s", p)
			return p, nil
		}
	}
	for _, p := range o.searchPaths {
		if fileExists(p) {
			diagf("found openscad at %s", p)
			return p, nil
		}
	}
	return "", relief.ExportError("renderer.Find", ErrToolNotFound, "")
}

// IsAvailable reports whether an executable can be found.
func (o *OpenSCAD) IsAvailable() bool {
	_, err := o.Find()
	return err == nil
}

// Version returns the tool's version string.
func (o *OpenSCAD) Version(ctx context.Context) (string, error) {
	bin, err := o.Find()
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--version")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", relief.ExportError("renderer.Version", err, "openscad --version failed")
	}
	// OpenSCAD prints its version on stderr.
	if v := strings.TrimSpace(stdout.String()); v != "" {
		return v, nil
	}
	return strings.TrimSpace(stderr.String()), nil
}

// Render runs "openscad -o <stl> <scad>". When job.STLPath is empty the
// STL is written next to the script.
func (o *OpenSCAD) Render(ctx context.Context, job Job) (string, error) {
	const op = "renderer.OpenSCAD"
	if !fileExists(job.ScadPath) {
		return "", relief.InputError(op, "OpenSCAD file not found: %s", job.ScadPath)
	}
	stl := job.STLPath
	if stl == "" {
		stl = strings.TrimSuffix(job.ScadPath, filepath.Ext(job.ScadPath)) + ".stl"
	}
	bin, err := o.Find()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	infof("rendering STL: %s -> %s", filepath.Base(job.ScadPath), filepath.Base(stl))
	cmd := exec.CommandContext(ctx, bin, "-o", stl, job.ScadPath)
	cmd.WaitDelay = time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	start := time.Now()
	runErr := cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", relief.ExportError(op, ErrTimeout, "no result after %s", o.timeout)
	}
	if runErr != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "unknown error"
		}
		return "", relief.ExportError(op, runErr, "OpenSCAD rendering failed: %s", msg)
	}
	if !fileExists(stl) {
		return "", relief.ExportError(op, ErrNoOutput, "")
	}
	diagf("openscad finished in %s", time.Since(start).Round(time.Millisecond))
	return stl, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
