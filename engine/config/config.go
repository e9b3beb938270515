// Package config loads engine settings from a TOML or YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for configuration files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format names a configuration file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// PresentMode selects how frames are handed to the display.
type PresentMode string

const (
	// PresentVSync waits for vertical blank.
	PresentVSync PresentMode = "vsync"

	// PresentUncapped presents immediately and may tear.
	PresentUncapped PresentMode = "uncapped"
)

// Window holds the startup window settings.
type Window struct {
	Width       int         `toml:"width" yaml:"width"`
	Height      int         `toml:"height" yaml:"height"`
	Title       string      `toml:"title" yaml:"title"`
	PresentMode PresentMode `toml:"present_mode" yaml:"present_mode"`
}

// Render holds renderer quality settings.
type Render struct {
	// MSAA is the sample count of the main pass: 1 or 4.
	MSAA int `toml:"msaa" yaml:"msaa"`

	// ShadowMapCap bounds the shadow target size alongside the device texture limit.
	ShadowMapCap int `toml:"shadow_map_cap" yaml:"shadow_map_cap"`

	// ShadowHalfExtent is the half width of the light's orthographic shadow volume.
	ShadowHalfExtent float32 `toml:"shadow_half_extent" yaml:"shadow_half_extent"`

	// Anisotropy is the max anisotropic filtering level for material textures; 1 disables it.
	Anisotropy int `toml:"anisotropy" yaml:"anisotropy"`
}

// Simulation holds the fixed-update clock.
type Simulation struct {
	FixedStep     float32 `toml:"fixed_step" yaml:"fixed_step"`
	MaxFixedSteps int     `toml:"max_fixed_steps" yaml:"max_fixed_steps"`
}

// Config is the full engine configuration. Zero fields in a loaded file keep their defaults.
type Config struct {
	Window     Window     `toml:"window" yaml:"window"`
	Render     Render     `toml:"render" yaml:"render"`
	Simulation Simulation `toml:"simulation" yaml:"simulation"`
}

// Default returns the configuration the engine runs with when no file is given.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: Window{
			Width:       1280,
			Height:      720,
			Title:       "rampart",
			PresentMode: PresentVSync,
		},
		Render: Render{
			MSAA:             4,
			ShadowMapCap:     2048,
			ShadowHalfExtent: 40,
			Anisotropy:       8,
		},
		Simulation: Simulation{
			FixedStep:     1.0 / 60.0,
			MaxFixedSteps: 10,
		},
	}
}

// FormatOf picks the encoding from a file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the encoding
//   - error: ErrUnsupportedFormat for unknown extensions
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// Load reads a configuration file, choosing the decoder by extension.
//
// Parameters:
//   - path: path to a .toml, .yaml or .yml file
//
// Returns:
//   - Config: defaults overlaid with the file's values
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration data in the given format over the defaults.
//
// Parameters:
//   - data: the encoded configuration
//   - format: the encoding
//
// Returns:
//   - Config: defaults overlaid with the data's values
//   - error: error if decoding or validation fails
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode toml: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg in the given format.
//
// Parameters:
//   - cfg: the configuration
//   - format: the encoding
//
// Returns:
//   - []byte: the encoded configuration
//   - error: ErrUnsupportedFormat or an encoder error
func Encode(cfg Config, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(cfg)
	case FormatYAML:
		return yaml.Marshal(cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Validate rejects values the engine cannot run with.
//
// Returns:
//   - error: a description of the first invalid field
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Render.MSAA != 1 && c.Render.MSAA != 4:
		return fmt.Errorf("msaa %d must be 1 or 4", c.Render.MSAA)
	case c.Render.ShadowMapCap <= 0:
		return fmt.Errorf("shadow map cap %d must be positive", c.Render.ShadowMapCap)
	case c.Render.ShadowHalfExtent <= 0:
		return fmt.Errorf("shadow half extent %v must be positive", c.Render.ShadowHalfExtent)
	case c.Render.Anisotropy < 1:
		return fmt.Errorf("anisotropy %d must be at least 1", c.Render.Anisotropy)
	case c.Simulation.FixedStep <= 0:
		return fmt.Errorf("fixed step %v must be positive", c.Simulation.FixedStep)
	case c.Simulation.MaxFixedSteps < 1:
		return fmt.Errorf("max fixed steps %d must be at least 1", c.Simulation.MaxFixedSteps)
	}
	switch c.Window.PresentMode {
	case PresentVSync, PresentUncapped:
	default:
		return fmt.Errorf("unknown present mode %q", c.Window.PresentMode)
	}
	return nil
}
