package heightfield

import (
	"github.com/banshee-data/relief/internal/relief"
	"gonum.org/v1/gonum/interp"
)

// Resolution bounds applied per axis after scaling by the detail factor.
const (
	MinResolution = 32
	MaxResolution = 2048
)

// TargetShape returns the grid size produced by resampling rows×cols by
// detail. A detail of exactly 1 leaves the size unchanged.
func TargetShape(rows, cols int, detail float64) (int, int) {
	if detail == 1.0 {
		return rows, cols
	}
	return clampResolution(int(float64(rows) * detail)), clampResolution(int(float64(cols) * detail))
}

func clampResolution(n int) int {
	if n < MinResolution {
		return MinResolution
	}
	if n > MaxResolution {
		return MaxResolution
	}
	return n
}

// resample scales g to rows×cols with separable natural cubic splines,
// first along each row and then along each column.
func resample(g *relief.Grid, rows, cols int) (*relief.Grid, error) {
	if rows == g.Rows && cols == g.Cols {
		return g, nil
	}

	wide := relief.NewGrid(g.Rows, cols)
	rowLine := newLineResampler(g.Cols, cols)
	for r := 0; r < g.Rows; r++ {
		if err := rowLine.apply(g.Row(r), wide.Row(r)); err != nil {
			return nil, err
		}
	}

	out := relief.NewGrid(rows, cols)
	colLine := newLineResampler(g.Rows, rows)
	src := make([]float64, g.Rows)
	dst := make([]float64, rows)
	for c := 0; c < cols; c++ {
		for r := 0; r < g.Rows; r++ {
			src[r] = wide.At(r, c)
		}
		if err := colLine.apply(src, dst); err != nil {
			return nil, err
		}
		for r := 0; r < rows; r++ {
			out.Set(r, c, dst[r])
		}
	}
	return out, nil
}

// lineResampler maps n source samples onto m destination samples using
// pixel-centre alignment.
type lineResampler struct {
	xs  []float64
	pos []float64
}

func newLineResampler(n, m int) *lineResampler {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	pos := make([]float64, m)
	scale := float64(n) / float64(m)
	last := float64(n - 1)
	for i := range pos {
		p := (float64(i)+0.5)*scale - 0.5
		if p < 0 {
			p = 0
		} else if p > last {
			p = last
		}
		pos[i] = p
	}
	return &lineResampler{xs: xs, pos: pos}
}

func (l *lineResampler) apply(src, dst []float64) error {
	if len(src) == 1 {
		for i := range dst {
			dst[i] = src[0]
		}
		return nil
	}
	var spline interp.NaturalCubic
	if err := spline.Fit(l.xs, src); err != nil {
		return relief.Wrap(relief.KindInput, "heightfield.resample", err)
	}
	for i, p := range l.pos {
		dst[i] = spline.Predict(p)
	}
	return nil
}
