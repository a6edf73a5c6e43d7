package relief

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromShape_Rejects1D(t *testing.T) {
	g, err := FromShape([]int{10}, make([]float64, 10))
	require.Error(t, err)
	assert.Nil(t, g)
	assert.True(t, errors.Is(err, ErrInput))
	assert.True(t, errors.Is(err, ErrConversion))
	assert.Equal(t, KindInput, KindOf(err))
}

func TestFromShape_Rejects3D(t *testing.T) {
	_, err := FromShape([]int{2, 2, 3}, make([]float64, 12))
	assert.ErrorIs(t, err, ErrInput)
}

func TestFromShape_Valid(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	g, err := FromShape([]int{2, 3}, data)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 3, g.Cols)
	assert.Equal(t, 6.0, g.At(1, 2))
	assert.Equal(t, []float64{4, 5, 6}, g.Row(1))
}

func TestGrid_Validate(t *testing.T) {
	tests := []struct {
		name string
		g    *Grid
	}{
		{"nil", nil},
		{"zero rows", &Grid{Rows: 0, Cols: 3}},
		{"zero cols", &Grid{Rows: 3, Cols: 0}},
		{"short data", &Grid{Rows: 2, Cols: 2, Data: []float64{1, 2, 3}}},
		{"nan", &Grid{Rows: 1, Cols: 2, Data: []float64{1, math.NaN()}}},
		{"inf", &Grid{Rows: 1, Cols: 2, Data: []float64{math.Inf(1), 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.g.Validate(), ErrInput)
		})
	}
}

func TestGrid_CloneIsIndependent(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, 7)
	c := g.Clone()
	c.Set(0, 0, 9)
	assert.Equal(t, 7.0, g.At(0, 0))
	lo, hi := c.MinMax()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 9.0, hi)
}

func TestConfig_DefaultsBuild(t *testing.T) {
	p, err := DefaultConfig().Build()
	require.NoError(t, err)
	assert.Equal(t, 2.0, p.BaseThickness())
	assert.Equal(t, 15.0, p.MaxHeight())
	assert.Equal(t, 100.0, p.ModelWidth())
	assert.Equal(t, 1.0, p.DetailLevel())
	assert.True(t, p.Smoothing())
	assert.False(t, p.InvertDepth())
	assert.Equal(t, 5, p.SmoothingKernel())
	assert.Equal(t, 17.0, p.TopHeight())
}

func TestConfig_DetailOutOfRange(t *testing.T) {
	for _, d := range []float64{0.49, 2.5, -1} {
		t.Run(fmt.Sprint(d), func(t *testing.T) {
			p, err := DefaultConfig().WithDetailLevel(d).Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.True(t, p.IsZero())
		})
	}
}

func TestConfig_RangeBoundariesAccepted(t *testing.T) {
	for _, d := range []float64{0.5, 2.0} {
		_, err := DefaultConfig().WithDetailLevel(d).Build()
		assert.NoError(t, err)
	}
}

func TestConfig_NonPositiveDimensions(t *testing.T) {
	cases := map[string]*Config{
		"base":   DefaultConfig().WithBaseThickness(0),
		"height": DefaultConfig().WithMaxHeight(-1),
		"width":  DefaultConfig().WithModelWidth(0),
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Build()
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestConfig_OutputStyle(t *testing.T) {
	c := DefaultConfig()
	c.OutputStyle = "lithophane"
	_, err := c.Build()
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestConfig_EvenKernelWidened(t *testing.T) {
	p, err := DefaultConfig().WithSmoothingKernel(4).Build()
	require.NoError(t, err)
	assert.Equal(t, 5, p.SmoothingKernel())
}

func TestConfig_JSONRoundTripsThroughParams(t *testing.T) {
	src := `{"base_thickness":3,"max_height":10,"model_width":80,"detail_level":1.5,
		"smoothing":false,"smoothing_kernel":7,"invert_depth":true,"output_style":"relief"}`
	var c Config
	require.NoError(t, json.Unmarshal([]byte(src), &c))
	p, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, &c, p.Config())
}

func TestError_Messages(t *testing.T) {
	cause := errors.New("boom")
	err := EstimationError("depth.Command", cause, "model exited")
	assert.Equal(t, "depth.Command: estimation error: model exited: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrEstimation)
	assert.NotErrorIs(t, err, ErrExport)

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, KindEstimation, KindOf(wrapped))
	assert.Equal(t, Kind(0), KindOf(cause))
}

func TestWrap_KeepsExistingKind(t *testing.T) {
	inner := GeometryError("mesh.Build", "too small")
	assert.Same(t, inner, Wrap(KindExport, "x", inner))
	assert.Nil(t, Wrap(KindExport, "x", nil))
	assert.ErrorIs(t, Wrap(KindExport, "x", errors.New("y")), ErrExport)
}

func TestNewHeightField_Aspect(t *testing.T) {
	hf, err := NewHeightField(NewGrid(50, 100), 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, hf.WidthMm())
	assert.Equal(t, 50.0, hf.HeightMm())
	assert.Equal(t, 50, hf.Rows())
	assert.Equal(t, 100, hf.Cols())

	_, err = NewHeightField(NewGrid(2, 2), 0)
	assert.ErrorIs(t, err, ErrInput)
}

func TestConfig_NonFiniteRejected(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	cases := map[string]*Config{
		"nan detail":     DefaultConfig().WithDetailLevel(nan),
		"inf detail":     DefaultConfig().WithDetailLevel(inf),
		"nan base":       DefaultConfig().WithBaseThickness(nan),
		"inf base":       DefaultConfig().WithBaseThickness(inf),
		"nan height":     DefaultConfig().WithMaxHeight(nan),
		"inf height":     DefaultConfig().WithMaxHeight(inf),
		"nan width":      DefaultConfig().WithModelWidth(nan),
		"inf width":      DefaultConfig().WithModelWidth(inf),
		"neg inf height": DefaultConfig().WithMaxHeight(-inf),
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := c.Build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
			assert.True(t, p.IsZero())
		})
	}
}
