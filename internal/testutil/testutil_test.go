package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomeGrid_PeakAtCentre(t *testing.T) {
	g := DomeGrid(5, 5)
	assert.InDelta(t, 1.0, g.At(2, 2), 1e-12)
	assert.InDelta(t, 0.0, g.At(0, 0), 1e-12)
	lo, hi := g.MinMax()
	assert.Less(t, lo, hi)
}

func TestNoiseGrid_Deterministic(t *testing.T) {
	a := NoiseGrid(4, 4, 7)
	b := NoiseGrid(4, 4, 7)
	assert.Equal(t, a.Data, b.Data)
	assert.NotEqual(t, a.Data, NoiseGrid(4, 4, 8).Data)
}

func TestFirstDifferenceVariance(t *testing.T) {
	assert.Equal(t, 0.0, FirstDifferenceVariance(RampGrid(3, 6)))
	assert.Equal(t, 0.0, FirstDifferenceVariance(ConstantGrid(3, 1, 2)))
	assert.Greater(t, FirstDifferenceVariance(NoiseGrid(8, 8, 1)), 0.0)
}
