package mesh

import (
	"github.com/banshee-data/relief/internal/relief"
	"gonum.org/v1/gonum/spatial/r3"
)

// Build triangulates hf into a closed solid.
//
// Vertex layout: the first R×C vertices are the top surface in row-major
// order, the next R×C are the same (x, y) positions at z = 0. Row 0 of the
// grid lies at the far edge (y = HeightMm) so the model reads like the
// image when viewed from above.
func Build(hf *relief.HeightField) (*Mesh, error) {
	const op = "mesh.Build"
	if hf == nil {
		return nil, relief.GeometryError(op, "height field is nil")
	}
	rows, cols := hf.Rows(), hf.Cols()
	if rows < 2 || cols < 2 {
		return nil, relief.GeometryError(op, "height field must be at least 2x2, got %dx%d", rows, cols)
	}

	n := rows * cols
	m := &Mesh{
		Vertices: make([]r3.Vec, 2*n),
		Faces:    make([]Face, 0, FaceCountFor(rows, cols)),
		Rows:     rows,
		Cols:     cols,
	}

	dx := hf.WidthMm() / float64(cols-1)
	dy := hf.HeightMm() / float64(rows-1)
	for r := 0; r < rows; r++ {
		y := float64(rows-1-r) * dy
		for c := 0; c < cols; c++ {
			x := float64(c) * dx
			i := r*cols + c
			m.Vertices[i] = r3.Vec{X: x, Y: y, Z: hf.At(r, c)}
			m.Vertices[n+i] = r3.Vec{X: x, Y: y, Z: 0}
		}
	}

	top := func(r, c int) int { return r*cols + c }
	base := func(r, c int) int { return n + r*cols + c }

	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			a, b := top(r, c), top(r, c+1)
			d, e := top(r+1, c), top(r+1, c+1)
			m.Faces = append(m.Faces, Face{a, d, e}, Face{a, e, b})

			a, b = base(r, c), base(r, c+1)
			d, e = base(r+1, c), base(r+1, c+1)
			m.Faces = append(m.Faces, Face{a, e, d}, Face{a, b, e})
		}
	}

	// Walls follow the top boundary in the direction the top faces use it,
	// so each wall quad shares that edge reversed.
	wall := func(u, v int) {
		m.Faces = append(m.Faces, Face{v, u, u + n}, Face{v, u + n, v + n})
	}
	for c := 0; c < cols-1; c++ {
		wall(top(0, c+1), top(0, c))
		wall(top(rows-1, c), top(rows-1, c+1))
	}
	for r := 0; r < rows-1; r++ {
		wall(top(r, 0), top(r+1, 0))
		wall(top(r+1, cols-1), top(r, cols-1))
	}

	diagf("mesh %dx%d: %d vertices, %d faces", rows, cols, len(m.Vertices), len(m.Faces))
	return m, nil
}

// VertexCountFor returns the vertex count Build produces for a rows×cols grid.
func VertexCountFor(rows, cols int) int { return 2 * rows * cols }

// FaceCountFor returns the face count Build produces for a rows×cols grid.
func FaceCountFor(rows, cols int) int {
	return 4*(rows-1)*(cols-1) + 4*((rows-1)+(cols-1))
}
