// Package scad writes a relief mesh as an OpenSCAD program.
//
// The program has four parts in a fixed order: a comment header, a block of
// documented parameters, the point and face lists wrapped in a module, and
// a call to that module. OpenSCAD's polyhedron expects faces to wind
// clockwise when viewed from outside, the opposite of the mesh convention,
// so each face is written with its index order reversed.
package scad

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/relief/internal/mesh"
	"github.com/banshee-data/relief/internal/relief"
	"github.com/banshee-data/relief/internal/timeutil"
	"github.com/banshee-data/relief/internal/version"
)

// ModuleName is the OpenSCAD module wrapping the polyhedron.
const ModuleName = "relief"

// Convexity passed to polyhedron; bounds the preview ray tests.
const Convexity = 10

// Emitter renders meshes as OpenSCAD source.
type Emitter struct {
	clock     timeutil.Clock
	version   string
	precision int // decimal places for point coordinates
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithClock sets the clock used for the generation timestamp.
func WithClock(c timeutil.Clock) Option {
	return func(e *Emitter) { e.clock = c }
}

// WithVersion overrides the generator version in the header.
func WithVersion(v string) Option {
	return func(e *Emitter) { e.version = v }
}

// WithPrecision sets the number of decimals written per coordinate.
func WithPrecision(digits int) Option {
	return func(e *Emitter) {
		if digits >= 0 {
			e.precision = digits
		}
	}
}

// NewEmitter returns an Emitter using the real clock and build version.
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{
		clock:     timeutil.RealClock{},
		version:   version.Version,
		precision: 4,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit returns the OpenSCAD program for m. hf supplies the footprint and p
// the literal parameter values recorded in the script.
func (e *Emitter) Emit(m *mesh.Mesh, hf *relief.HeightField, p relief.Params) (string, error) {
	const op = "scad.Emit"
	if m == nil || hf == nil {
		return "", relief.InputError(op, "mesh and height field are required")
	}
	if p.IsZero() {
		return "", relief.ConfigurationError(op, "parameters were not built")
	}
	if len(m.Vertices) == 0 || len(m.Faces) == 0 {
		return "", relief.InputError(op, "mesh is empty")
	}

	var b strings.Builder
	// Roughly 32 bytes per point line and 24 per face line.
	b.Grow(512 + 32*len(m.Vertices) + 24*len(m.Faces))

	e.writeHeader(&b, m, hf)
	writeParameters(&b, hf, p)
	e.writeGeometry(&b, m)

	diagf("emitted %d bytes for %d vertices, %d faces", b.Len(), len(m.Vertices), len(m.Faces))
	return FormatCode(b.String()), nil
}

func (e *Emitter) writeHeader(b *strings.Builder, m *mesh.Mesh, hf *relief.HeightField) {
	lo, hi := hf.Grid().MinMax()
	fmt.Fprintf(b, "// %s: image-to-scad relief model\n", version.ToolName)
	fmt.Fprintf(b, "// Generated by %s %s on %s\n", version.ToolName, e.version, e.clock.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(b, "// Grid: %d x %d samples\n", hf.Cols(), hf.Rows())
	fmt.Fprintf(b, "// Dimensions: %.2f x %.2f mm, height %.2f to %.2f mm\n", hf.WidthMm(), hf.HeightMm(), lo, hi)
	fmt.Fprintf(b, "// Mesh: %d vertices, %d faces\n", len(m.Vertices), len(m.Faces))
	b.WriteString("\n")
}

func writeParameters(b *strings.Builder, hf *relief.HeightField, p relief.Params) {
	b.WriteString("// Parameters (mm)\n")
	fmt.Fprintf(b, "base_thickness = %.2f; // solid floor below the relief\n", p.BaseThickness())
	fmt.Fprintf(b, "max_relief_height = %.2f; // relief above the floor\n", p.MaxHeight())
	fmt.Fprintf(b, "model_width = %.2f; // X extent\n", p.ModelWidth())
	fmt.Fprintf(b, "model_depth = %.2f; // Y extent, derived from the image aspect ratio\n", hf.HeightMm())
	b.WriteString("\n")
}

func (e *Emitter) writeGeometry(b *strings.Builder, m *mesh.Mesh) {
	b.WriteString("// Geometry\n")
	b.WriteString("relief_points = [\n")
	buf := make([]byte, 0, 64)
	for i, v := range m.Vertices {
		buf = buf[:0]
		buf = append(buf, "  ["...)
		buf = e.appendCoord(buf, v.X)
		buf = append(buf, ", "...)
		buf = e.appendCoord(buf, v.Y)
		buf = append(buf, ", "...)
		buf = e.appendCoord(buf, v.Z)
		buf = append(buf, ']')
		if i < len(m.Vertices)-1 {
			buf = append(buf, ',')
		}
		buf = append(buf, '\n')
		b.Write(buf)
	}
	b.WriteString("];\n\n")

	b.WriteString("relief_faces = [\n")
	for i, f := range m.Faces {
		buf = buf[:0]
		buf = append(buf, "  ["...)
		buf = strconv.AppendInt(buf, int64(f[2]), 10)
		buf = append(buf, ", "...)
		buf = strconv.AppendInt(buf, int64(f[1]), 10)
		buf = append(buf, ", "...)
		buf = strconv.AppendInt(buf, int64(f[0]), 10)
		buf = append(buf, ']')
		if i < len(m.Faces)-1 {
			buf = append(buf, ',')
		}
		buf = append(buf, '\n')
		b.Write(buf)
	}
	b.WriteString("];\n\n")

	fmt.Fprintf(b, "module %s() {\n", ModuleName)
	fmt.Fprintf(b, "  polyhedron(points = relief_points, faces = relief_faces, convexity = %d);\n", Convexity)
	b.WriteString("}\n\n")
	fmt.Fprintf(b, "%s();\n", ModuleName)
}

func (e *Emitter) appendCoord(buf []byte, v float64) []byte {
	if v == 0 {
		// Avoid "-0.0000".
		v = 0
	}
	return strconv.AppendFloat(buf, v, 'f', e.precision, 64)
}
