// Package testutil provides shared test fixtures: synthetic depth grids and
// small assertion helpers used across the conversion packages.
package testutil

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/banshee-data/relief/internal/relief"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// DomeGrid returns a radially symmetric bump: 1 at the centre falling to 0
// at the corners. Useful as a smooth raw depth map with a known extremum.
func DomeGrid(rows, cols int) *relief.Grid {
	g := relief.NewGrid(rows, cols)
	cy := float64(rows-1) / 2
	cx := float64(cols-1) / 2
	maxR := math.Hypot(cy, cx)
	if maxR == 0 {
		maxR = 1
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := math.Hypot(float64(r)-cy, float64(c)-cx) / maxR
			g.Set(r, c, 1-d*d)
		}
	}
	return g
}

// NoiseGrid returns uniform noise in [0, 1) from a fixed seed.
func NoiseGrid(rows, cols int, seed uint64) *relief.Grid {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	g := relief.NewGrid(rows, cols)
	for i := range g.Data {
		g.Data[i] = rng.Float64()
	}
	return g
}

// RampGrid returns a left-to-right ramp from 0 to cols-1.
func RampGrid(rows, cols int) *relief.Grid {
	g := relief.NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Set(r, c, float64(c))
		}
	}
	return g
}

// ConstantGrid returns a grid filled with v.
func ConstantGrid(rows, cols int, v float64) *relief.Grid {
	g := relief.NewGrid(rows, cols)
	for i := range g.Data {
		g.Data[i] = v
	}
	return g
}

// FirstDifferenceVariance is the variance of horizontal neighbour
// differences, a simple roughness measure.
func FirstDifferenceVariance(g *relief.Grid) float64 {
	var diffs []float64
	for r := 0; r < g.Rows; r++ {
		row := g.Row(r)
		for c := 1; c < len(row); c++ {
			diffs = append(diffs, row[c]-row[c-1])
		}
	}
	if len(diffs) == 0 {
		return 0
	}
	var mean float64
	for _, d := range diffs {
		mean += d
	}
	mean /= float64(len(diffs))
	var v float64
	for _, d := range diffs {
		v += (d - mean) * (d - mean)
	}
	return v / float64(len(diffs))
}
