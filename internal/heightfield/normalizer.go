package heightfield

import (
	"math"

	"github.com/banshee-data/relief/internal/relief"
)

// flatSpan is the depth range below which a grid is treated as flat.
const flatSpan = 1e-6

// Normalize converts a raw depth grid into a height field bounded by
// [p.BaseThickness(), p.TopHeight()]. raw is never modified.
func Normalize(raw *relief.Grid, p relief.Params) (*relief.HeightField, error) {
	const op = "heightfield.Normalize"
	if raw == nil {
		return nil, relief.InputError(op, "depth map is nil")
	}
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	if p.IsZero() {
		return nil, relief.ConfigurationError(op, "parameters were not built")
	}
	if lo, hi := raw.MinMax(); math.IsInf(hi-lo, 0) {
		return nil, relief.InputError(op, "depth range [%g, %g] overflows float64", lo, hi)
	}

	g := raw.Clone()
	var err error

	if p.DetailLevel() != 1.0 {
		rows, cols := TargetShape(g.Rows, g.Cols, p.DetailLevel())
		if rows != g.Rows || cols != g.Cols {
			diagf("resampling %dx%d -> %dx%d (detail %.2f)", g.Rows, g.Cols, rows, cols, p.DetailLevel())
		}
		if g, err = resample(g, rows, cols); err != nil {
			return nil, err
		}
	}

	if p.InvertDepth() {
		invert(g)
	}

	if p.Smoothing() {
		g = smooth(g, p.SmoothingKernel())
	}

	normalizeRange(g, p.BaseThickness(), p.MaxHeight())

	hf, err := relief.NewHeightField(g, p.ModelWidth())
	if err != nil {
		return nil, err
	}
	diagf("height field %dx%d, %.2fx%.2f mm", hf.Rows(), hf.Cols(), hf.WidthMm(), hf.HeightMm())
	return hf, nil
}

// invert reflects every sample about the midpoint of the grid's range,
// keeping min and max unchanged.
func invert(g *relief.Grid) {
	lo, hi := g.MinMax()
	for i, v := range g.Data {
		g.Data[i] = hi - v + lo
	}
}

// normalizeRange maps [min, max] linearly onto [base, base+height]. A flat
// grid becomes base everywhere.
func normalizeRange(g *relief.Grid, base, height float64) {
	lo, hi := g.MinMax()
	span := hi - lo
	if span < flatSpan {
		opsf("depth map is flat (span %g); using base thickness only", span)
		for i := range g.Data {
			g.Data[i] = base
		}
		return
	}
	for i, v := range g.Data {
		g.Data[i] = base + (v-lo)/span*height
	}
}
