// Package config loads conversion tuning from JSON files and runtime
// settings for the relief command.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"math"
	"path/filepath"
	"time"

	"github.com/banshee-data/relief/internal/relief"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/relief.defaults.json"

// TuningConfig is the on-disk form of the conversion parameters. Every
// field is optional; the Get* methods fall back to the built-in defaults
// for anything the file leaves out.
type TuningConfig struct {
	// Geometry
	BaseThickness *float64 `json:"base_thickness,omitempty"`
	MaxHeight     *float64 `json:"max_height,omitempty"`
	ModelWidth    *float64 `json:"model_width,omitempty"`

	// Height field processing
	DetailLevel     *float64 `json:"detail_level,omitempty"`
	Smoothing       *bool    `json:"smoothing,omitempty"`
	SmoothingKernel *int     `json:"smoothing_kernel,omitempty"`
	InvertDepth     *bool    `json:"invert_depth,omitempty"`
	OutputStyle     *string  `json:"output_style,omitempty"`

	// Input and export
	MaxImageDimension *int    `json:"max_image_dimension,omitempty"`
	RenderTimeout     *string `json:"render_timeout,omitempty"` // duration string like "5m"
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must end
// in .json and the file must be under 1MB. Omitted fields stay nil.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. Panics if the file
// cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the fields that can be checked without building Params.
// Cross-field rules are left to relief.Config.Validate.
func (c *TuningConfig) Validate() error {
	const op = "config.TuningConfig"
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"base_thickness", c.BaseThickness},
		{"max_height", c.MaxHeight},
		{"model_width", c.ModelWidth},
	} {
		if f.v != nil && !(*f.v > 0 && !math.IsInf(*f.v, 1)) {
			return relief.ConfigurationError(op, "%s must be positive and finite, got %f", f.name, *f.v)
		}
	}
	if c.DetailLevel != nil {
		if d := *c.DetailLevel; !(d >= relief.MinDetailLevel && d <= relief.MaxDetailLevel) {
			return relief.ConfigurationError(op, "detail_level must be between %.1f and %.1f, got %f", relief.MinDetailLevel, relief.MaxDetailLevel, d)
		}
	}
	if c.SmoothingKernel != nil && *c.SmoothingKernel < 3 {
		return fmt.Errorf("smoothing_kernel must be at least 3, got %d", *c.SmoothingKernel)
	}
	if c.MaxImageDimension != nil && *c.MaxImageDimension < 64 {
		return fmt.Errorf("max_image_dimension must be at least 64, got %d", *c.MaxImageDimension)
	}
	if c.RenderTimeout != nil && *c.RenderTimeout != "" {
		d, err := time.ParseDuration(*c.RenderTimeout)
		if err != nil {
			return fmt.Errorf("invalid render_timeout '%s': %w", *c.RenderTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("render_timeout must be positive, got %s", d)
		}
	}
	return nil
}

// ReliefConfig converts the tuning values into a relief.Config, filling
// omitted fields with defaults.
func (c *TuningConfig) ReliefConfig() *relief.Config {
	return &relief.Config{
		BaseThickness:   c.GetBaseThickness(),
		MaxHeight:       c.GetMaxHeight(),
		ModelWidth:      c.GetModelWidth(),
		DetailLevel:     c.GetDetailLevel(),
		Smoothing:       c.GetSmoothing(),
		SmoothingKernel: c.GetSmoothingKernel(),
		InvertDepth:     c.GetInvertDepth(),
		OutputStyle:     c.GetOutputStyle(),
	}
}

// FromReliefConfig returns a fully populated TuningConfig for rc.
func FromReliefConfig(rc *relief.Config) *TuningConfig {
	return &TuningConfig{
		BaseThickness:   ptrFloat64(rc.BaseThickness),
		MaxHeight:       ptrFloat64(rc.MaxHeight),
		ModelWidth:      ptrFloat64(rc.ModelWidth),
		DetailLevel:     ptrFloat64(rc.DetailLevel),
		Smoothing:       ptrBool(rc.Smoothing),
		SmoothingKernel: ptrInt(rc.SmoothingKernel),
		InvertDepth:     ptrBool(rc.InvertDepth),
		OutputStyle:     ptrString(rc.OutputStyle),
	}
}

// GetBaseThickness returns the base_thickness value or the default.
func (c *TuningConfig) GetBaseThickness() float64 {
	if c.BaseThickness == nil {
		return relief.DefaultBaseThickness
	}
	return *c.BaseThickness
}

// GetMaxHeight returns the max_height value or the default.
func (c *TuningConfig) GetMaxHeight() float64 {
	if c.MaxHeight == nil {
		return relief.DefaultMaxHeight
	}
	return *c.MaxHeight
}

// GetModelWidth returns the model_width value or the default.
func (c *TuningConfig) GetModelWidth() float64 {
	if c.ModelWidth == nil {
		return relief.DefaultModelWidth
	}
	return *c.ModelWidth
}

// GetDetailLevel returns the detail_level value or the default.
func (c *TuningConfig) GetDetailLevel() float64 {
	if c.DetailLevel == nil {
		return relief.DefaultDetailLevel
	}
	return *c.DetailLevel
}

// GetSmoothing returns the smoothing value or the default.
func (c *TuningConfig) GetSmoothing() bool {
	if c.Smoothing == nil {
		return true
	}
	return *c.Smoothing
}

// GetSmoothingKernel returns the smoothing_kernel value or the default.
func (c *TuningConfig) GetSmoothingKernel() int {
	if c.SmoothingKernel == nil {
		return relief.DefaultSmoothingKernel
	}
	return *c.SmoothingKernel
}

// GetInvertDepth returns the invert_depth value or the default.
func (c *TuningConfig) GetInvertDepth() bool {
	if c.InvertDepth == nil {
		return false
	}
	return *c.InvertDepth
}

// GetOutputStyle returns the output_style value or the default.
func (c *TuningConfig) GetOutputStyle() string {
	if c.OutputStyle == nil || *c.OutputStyle == "" {
		return relief.DefaultOutputStyle
	}
	return *c.OutputStyle
}

// GetMaxImageDimension returns the max_image_dimension value or the default.
func (c *TuningConfig) GetMaxImageDimension() int {
	if c.MaxImageDimension == nil {
		return 1024
	}
	return *c.MaxImageDimension
}

// GetRenderTimeout parses and returns the RenderTimeout as a time.Duration.
func (c *TuningConfig) GetRenderTimeout() time.Duration {
	if c.RenderTimeout == nil || *c.RenderTimeout == "" {
		return 5 * time.Minute
	}
	d, err := time.ParseDuration(*c.RenderTimeout)
	if err != nil {
		return 5 * time.Minute // default on parse error
	}
	return d
}
