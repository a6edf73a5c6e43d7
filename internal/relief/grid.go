package relief

import (
	"math"
)

// Grid is a row-major 2D array of float64 samples. It carries either raw
// depth (unbounded, higher means nearer) or heights in millimetres.
type Grid struct {
	Rows int
	Cols int
	Data []float64
}

// NewGrid allocates a zeroed rows×cols grid.
func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// FromShape builds a grid from a dynamically shaped tensor. Only
// two-dimensional shapes are accepted; data is used without copying.
func FromShape(shape []int, data []float64) (*Grid, error) {
	if len(shape) != 2 {
		return nil, InputError("relief.FromShape", "depth map must be 2D, got %dD", len(shape))
	}
	g := &Grid{Rows: shape[0], Cols: shape[1], Data: data}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate rejects empty grids, mismatched backing storage and non-finite samples.
func (g *Grid) Validate() error {
	if g == nil {
		return InputError("relief.Grid", "grid is nil")
	}
	if g.Rows <= 0 || g.Cols <= 0 {
		return InputError("relief.Grid", "grid dimensions must be positive, got %dx%d", g.Rows, g.Cols)
	}
	if len(g.Data) != g.Rows*g.Cols {
		return InputError("relief.Grid", "grid data length %d does not match %dx%d", len(g.Data), g.Rows, g.Cols)
	}
	for i, v := range g.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return InputError("relief.Grid", "non-finite sample at row %d col %d", i/g.Cols, i%g.Cols)
		}
	}
	return nil
}

// At returns the sample at (r, c).
func (g *Grid) At(r, c int) float64 { return g.Data[r*g.Cols+c] }

// Set stores v at (r, c).
func (g *Grid) Set(r, c int, v float64) { g.Data[r*g.Cols+c] = v }

// Row returns a view of row r.
func (g *Grid) Row(r int) []float64 { return g.Data[r*g.Cols : (r+1)*g.Cols] }

// Len returns the number of samples.
func (g *Grid) Len() int { return g.Rows * g.Cols }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	out := &Grid{Rows: g.Rows, Cols: g.Cols, Data: make([]float64, len(g.Data))}
	copy(out.Data, g.Data)
	return out
}

// Shape returns (rows, cols).
func (g *Grid) Shape() (int, int) { return g.Rows, g.Cols }

// MinMax returns the smallest and largest sample.
func (g *Grid) MinMax() (lo, hi float64) {
	if len(g.Data) == 0 {
		return 0, 0
	}
	lo, hi = g.Data[0], g.Data[0]
	for _, v := range g.Data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
