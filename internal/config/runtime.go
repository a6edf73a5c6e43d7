package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RuntimeConfigName is the optional runtime settings file looked up in the
// config directory.
const RuntimeConfigName = "relief.runtime.json"

// EnvPrefix prefixes environment overrides, e.g. RELIEF_LOGLEVEL or
// RELIEF_OPENSCAD_TIMEOUT.
const EnvPrefix = "RELIEF"

// OpenSCADConfig holds external renderer settings.
type OpenSCADConfig struct {
	Path    string        `json:"path" mapstructure:"path"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// HistoryConfig holds run-history database settings. An empty path
// disables history.
type HistoryConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// ImageConfig holds input image settings.
type ImageConfig struct {
	MaxDimension int `json:"maxDimension" mapstructure:"maxDimension"`
}

// DepthConfig selects the depth source. An empty command uses the
// built-in luminance estimator.
type DepthConfig struct {
	Command string `json:"command" mapstructure:"command"`
}

// PreviewConfig holds preview output settings. An empty dir disables
// previews.
type PreviewConfig struct {
	Dir string `json:"dir" mapstructure:"dir"`
}

// Runtime is the process-level configuration of the relief command.
type Runtime struct {
	LogLevel  string         `json:"logLevel" mapstructure:"logLevel"`
	LogFormat string         `json:"logFormat" mapstructure:"logFormat"`
	OpenSCAD  OpenSCADConfig `json:"openscad" mapstructure:"openscad"`
	History   HistoryConfig  `json:"history" mapstructure:"history"`
	Image     ImageConfig    `json:"image" mapstructure:"image"`
	Depth     DepthConfig    `json:"depth" mapstructure:"depth"`
	Preview   PreviewConfig  `json:"preview" mapstructure:"preview"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "console")

	v.SetDefault("openscad.path", "")
	v.SetDefault("openscad.timeout", 5*time.Minute)

	v.SetDefault("history.path", "")
	v.SetDefault("image.maxDimension", 1024)
	v.SetDefault("depth.command", "")
	v.SetDefault("preview.dir", "")
}

// LoadRuntime reads RuntimeConfigName from configDir if present, applies
// RELIEF_* environment overrides on top of the defaults and returns the
// result. A missing file is not an error; an empty configDir skips the
// file lookup entirely.
func LoadRuntime(configDir string) (*Runtime, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configDir != "" {
		v.SetConfigName(RuntimeConfigName)
		v.SetConfigType("json")
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var rt Runtime
	if err := v.Unmarshal(&rt); err != nil {
		return nil, fmt.Errorf("error decoding runtime config: %w", err)
	}
	if rt.OpenSCAD.Timeout <= 0 {
		return nil, fmt.Errorf("openscad.timeout must be positive, got %s", rt.OpenSCAD.Timeout)
	}
	if rt.Image.MaxDimension < 64 {
		return nil, fmt.Errorf("image.maxDimension must be at least 64, got %d", rt.Image.MaxDimension)
	}
	return &rt, nil
}
