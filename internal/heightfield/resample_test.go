package heightfield

import (
	"testing"

	"github.com/banshee-data/relief/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetShape(t *testing.T) {
	tests := []struct {
		name             string
		rows, cols       int
		detail           float64
		wantRows, wantCw int
	}{
		{"identity", 10, 20, 1.0, 10, 20},
		{"half", 100, 200, 0.5, 50, 100},
		{"double", 100, 200, 2.0, 200, 400},
		{"clamp low", 40, 40, 0.5, 32, 32},
		{"clamp high", 1500, 1500, 2.0, 2048, 2048},
		{"truncates", 33, 33, 1.5, 49, 49},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := TargetShape(tt.rows, tt.cols, tt.detail)
			assert.Equal(t, tt.wantRows, r)
			assert.Equal(t, tt.wantCw, c)
		})
	}
}

func TestResample_SameSizeIsNoop(t *testing.T) {
	g := testutil.NoiseGrid(8, 8, 1)
	out, err := resample(g, 8, 8)
	require.NoError(t, err)
	assert.Same(t, g, out)
}

func TestResample_LinearRampPreserved(t *testing.T) {
	// A natural cubic spline reproduces linear data exactly.
	g := testutil.RampGrid(4, 8)
	out, err := resample(g, 4, 16)
	require.NoError(t, err)
	require.Equal(t, 16, out.Cols)
	for c := 0; c < 16; c++ {
		p := (float64(c)+0.5)*0.5 - 0.5
		if p < 0 {
			p = 0
		}
		assert.InDelta(t, p, out.At(2, c), 1e-9)
	}
}

func TestResample_ConstantStaysConstant(t *testing.T) {
	out, err := resample(testutil.ConstantGrid(5, 7, 3.5), 11, 3)
	require.NoError(t, err)
	for _, v := range out.Data {
		assert.InDelta(t, 3.5, v, 1e-12)
	}
}
