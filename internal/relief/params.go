package relief

import (
	"fmt"
	"math"
)

// Default conversion parameters.
const (
	DefaultBaseThickness   = 2.0
	DefaultMaxHeight       = 15.0
	DefaultModelWidth      = 100.0
	DefaultDetailLevel     = 1.0
	DefaultSmoothingKernel = 5
	DefaultOutputStyle     = "relief"

	MinDetailLevel = 0.5
	MaxDetailLevel = 2.0
)

// Config provides a builder for Params. Values are checked by Validate and
// frozen by Build.
type Config struct {
	BaseThickness   float64 `json:"base_thickness"`   // mm, solid floor under the relief (default: 2.0)
	MaxHeight       float64 `json:"max_height"`       // mm, relief above the floor (default: 15.0)
	ModelWidth      float64 `json:"model_width"`      // mm, X extent (default: 100.0)
	DetailLevel     float64 `json:"detail_level"`     // resampling factor in [0.5, 2.0] (default: 1.0)
	Smoothing       bool    `json:"smoothing"`        // Gaussian blur before normalisation (default: true)
	SmoothingKernel int     `json:"smoothing_kernel"` // odd kernel width (default: 5)
	InvertDepth     bool    `json:"invert_depth"`     // swap near and far (default: false)
	OutputStyle     string  `json:"output_style"`     // only "relief" is supported
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() *Config {
	return &Config{
		BaseThickness:   DefaultBaseThickness,
		MaxHeight:       DefaultMaxHeight,
		ModelWidth:      DefaultModelWidth,
		DetailLevel:     DefaultDetailLevel,
		Smoothing:       true,
		SmoothingKernel: DefaultSmoothingKernel,
		OutputStyle:     DefaultOutputStyle,
	}
}

// Validate checks every field against its allowed range.
func (c *Config) Validate() error {
	if !positiveFinite(c.BaseThickness) {
		return configErr("base_thickness must be positive and finite, got %f", c.BaseThickness)
	}
	if !positiveFinite(c.MaxHeight) {
		return configErr("max_height must be positive and finite, got %f", c.MaxHeight)
	}
	if !positiveFinite(c.ModelWidth) {
		return configErr("model_width must be positive and finite, got %f", c.ModelWidth)
	}
	if !(c.DetailLevel >= MinDetailLevel && c.DetailLevel <= MaxDetailLevel) {
		return configErr("detail_level must be in [%.1f, %.1f], got %f", MinDetailLevel, MaxDetailLevel, c.DetailLevel)
	}
	if c.Smoothing && c.SmoothingKernel < 3 {
		return configErr("smoothing_kernel must be at least 3, got %d", c.SmoothingKernel)
	}
	if c.OutputStyle != DefaultOutputStyle {
		return configErr("output_style must be %q, got %q", DefaultOutputStyle, c.OutputStyle)
	}
	return nil
}

// positiveFinite is false for NaN, ±Inf and anything <= 0.
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func configErr(format string, args ...interface{}) error {
	return &Error{Kind: KindConfiguration, Op: "relief.Config", Msg: fmt.Sprintf(format, args...)}
}

// Build validates the config and returns immutable Params. On failure the
// returned Params is the zero value.
func (c *Config) Build() (Params, error) {
	if err := c.Validate(); err != nil {
		return Params{}, err
	}
	kernel := c.SmoothingKernel
	if kernel%2 == 0 {
		kernel++
	}
	return Params{
		baseThickness:   c.BaseThickness,
		maxHeight:       c.MaxHeight,
		modelWidth:      c.ModelWidth,
		detailLevel:     c.DetailLevel,
		smoothing:       c.Smoothing,
		smoothingKernel: kernel,
		invertDepth:     c.InvertDepth,
	}, nil
}

// WithBaseThickness sets the floor thickness in millimetres.
func (c *Config) WithBaseThickness(mm float64) *Config {
	c.BaseThickness = mm
	return c
}

// WithMaxHeight sets the relief height above the floor in millimetres.
func (c *Config) WithMaxHeight(mm float64) *Config {
	c.MaxHeight = mm
	return c
}

// WithModelWidth sets the X extent in millimetres.
func (c *Config) WithModelWidth(mm float64) *Config {
	c.ModelWidth = mm
	return c
}

// WithDetailLevel sets the resampling factor.
func (c *Config) WithDetailLevel(f float64) *Config {
	c.DetailLevel = f
	return c
}

// WithSmoothing enables or disables the Gaussian blur.
func (c *Config) WithSmoothing(enabled bool) *Config {
	c.Smoothing = enabled
	return c
}

// WithSmoothingKernel sets the blur kernel width. Even widths are widened by one.
func (c *Config) WithSmoothingKernel(k int) *Config {
	c.SmoothingKernel = k
	return c
}

// WithInvertDepth enables or disables depth inversion.
func (c *Config) WithInvertDepth(enabled bool) *Config {
	c.InvertDepth = enabled
	return c
}

// Params is a validated, immutable set of conversion parameters. Obtain one
// from Config.Build.
type Params struct {
	baseThickness   float64
	maxHeight       float64
	modelWidth      float64
	detailLevel     float64
	smoothing       bool
	smoothingKernel int
	invertDepth     bool
}

func (p Params) BaseThickness() float64 { return p.baseThickness }
func (p Params) MaxHeight() float64     { return p.maxHeight }
func (p Params) ModelWidth() float64    { return p.modelWidth }
func (p Params) DetailLevel() float64   { return p.detailLevel }
func (p Params) Smoothing() bool        { return p.smoothing }
func (p Params) SmoothingKernel() int   { return p.smoothingKernel }
func (p Params) InvertDepth() bool      { return p.invertDepth }

// TopHeight is the highest Z any height field built with p can reach.
func (p Params) TopHeight() float64 { return p.baseThickness + p.maxHeight }

// IsZero reports whether p was never built.
func (p Params) IsZero() bool { return p.modelWidth == 0 }

// Config returns a mutable copy of p.
func (p Params) Config() *Config {
	return &Config{
		BaseThickness:   p.baseThickness,
		MaxHeight:       p.maxHeight,
		ModelWidth:      p.modelWidth,
		DetailLevel:     p.detailLevel,
		Smoothing:       p.smoothing,
		SmoothingKernel: p.smoothingKernel,
		InvertDepth:     p.invertDepth,
		OutputStyle:     DefaultOutputStyle,
	}
}

// MustParams builds c, panicking on failure. Intended for tests and fixtures.
func MustParams(c *Config) Params {
	p, err := c.Build()
	if err != nil {
		panic(err)
	}
	return p
}
