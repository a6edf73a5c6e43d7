// Package renderer turns a generated relief into an STL file, either by
// invoking the OpenSCAD command-line tool on the saved script or by
// writing the mesh directly.
package renderer

import (
	"context"
	"strings"

	"github.com/banshee-data/relief/internal/mesh"
	"github.com/banshee-data/relief/internal/relief"
)

// Job describes one STL render. ScadPath is the saved script; Mesh is the
// in-memory solid the script was generated from.
type Job struct {
	ScadPath string
	STLPath  string
	Mesh     *mesh.Mesh
}

// Renderer produces an STL file for a job and returns its path.
type Renderer interface {
	Render(ctx context.Context, job Job) (string, error)
	Name() string
}

// Engine names accepted by New.
const (
	EngineOpenSCAD = "openscad"
	EngineNative   = "native"
	EngineAuto     = "auto"
)

// New returns the renderer for engine. "auto" prefers OpenSCAD and falls
// back to the native writer when the tool is not installed.
func New(engine string, openscad *OpenSCAD) (Renderer, error) {
	if openscad == nil {
		openscad = NewOpenSCAD()
	}
	switch strings.ToLower(engine) {
	case EngineOpenSCAD, "":
		return openscad, nil
	case EngineNative:
		return Native{}, nil
	case EngineAuto:
		if openscad.IsAvailable() {
			return openscad, nil
		}
		opsf("openscad not found, writing STL natively")
		return Native{}, nil
	default:
		return nil, relief.ConfigurationError("renderer.New", "unknown STL engine %q", engine)
	}
}

// Native writes the mesh as binary STL without external tools.
type Native struct{}

// Name identifies the renderer in logs.
func (Native) Name() string { return EngineNative }

// Render writes job.Mesh to job.STLPath after checking it is closed.
func (Native) Render(ctx context.Context, job Job) (string, error) {
	const op = "renderer.Native"
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if job.Mesh == nil {
		return "", relief.ExportError(op, nil, "no mesh to write")
	}
	if job.Mesh.Model3D().NeedsRepair() {
		return "", relief.ExportError(op, nil, "mesh is not closed")
	}
	if err := job.Mesh.SaveSTL(job.STLPath); err != nil {
		return "", relief.ExportError(op, err, "failed to write %s", job.STLPath)
	}
	diagf("wrote %d triangles to %s", job.Mesh.FaceCount(), job.STLPath)
	return job.STLPath, nil
}
