package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, PresentVSync, cfg.Window.PresentMode)
	assert.Equal(t, 4, cfg.Render.MSAA)
	assert.Equal(t, 2048, cfg.Render.ShadowMapCap)
	assert.InDelta(t, 1.0/60.0, cfg.Simulation.FixedStep, 1e-9)
	assert.Equal(t, 10, cfg.Simulation.MaxFixedSteps)
}

func TestParseTOMLOverlaysDefaults(t *testing.T) {
	data := []byte(`
[window]
title = "siege"
present_mode = "uncapped"

[simulation]
max_fixed_steps = 5
`)
	cfg, err := Parse(data, FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, "siege", cfg.Window.Title)
	assert.Equal(t, PresentUncapped, cfg.Window.PresentMode)
	assert.Equal(t, 5, cfg.Simulation.MaxFixedSteps)
	assert.Equal(t, 1280, cfg.Window.Width, "unset fields keep defaults")
	assert.Equal(t, 4, cfg.Render.MSAA)
}

func TestParseYAMLOverlaysDefaults(t *testing.T) {
	data := []byte(`
render:
  msaa: 1
  shadow_half_extent: 30
  anisotropy: 1
simulation:
  fixed_step: 0.02
`)
	cfg, err := Parse(data, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Render.MSAA)
	assert.Equal(t, float32(30), cfg.Render.ShadowHalfExtent)
	assert.Equal(t, 1, cfg.Render.Anisotropy)
	assert.InDelta(t, 0.02, cfg.Simulation.FixedStep, 1e-7)
	assert.Equal(t, "rampart", cfg.Window.Title)
}

func TestParseEmptyYAMLIsDefault(t *testing.T) {
	cfg, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("[window]\nfullscreen = true\n"), FormatTOML)
	assert.Error(t, err)
	_, err = Parse([]byte("window:\n  fullscreen: true\n"), FormatYAML)
	assert.Error(t, err)
}

func TestParseValidates(t *testing.T) {
	cases := map[string]string{
		"msaa":          "[render]\nmsaa = 2\n",
		"width":         "[window]\nwidth = -1\n",
		"present mode":  "[window]\npresent_mode = \"mailbox\"\n",
		"fixed step":    "[simulation]\nfixed_step = 0.0\n",
		"max steps":     "[simulation]\nmax_fixed_steps = 0\n",
		"anisotropy":    "[render]\nanisotropy = 0\n",
		"shadow extent": "[render]\nshadow_half_extent = -5.0\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data), FormatTOML)
			assert.Error(t, err)
		})
	}
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"engine.toml": FormatTOML,
		"ENGINE.TOML": FormatTOML,
		"engine.yaml": FormatYAML,
		"a/b/c.yml":   FormatYAML,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatOf("engine.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "engine.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("[window]\nwidth = 800\n"), 0o644))
	yamlPath := filepath.Join(dir, "engine.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("window:\n  height: 600\n"), 0o644))

	cfg, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width)

	cfg, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Window.Height)

	_, err = Load(filepath.Join(dir, "engine.ini"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = "keep"
	cfg.Render.MSAA = 1
	for _, format := range []Format{FormatTOML, FormatYAML} {
		data, err := Encode(cfg, format)
		require.NoError(t, err)
		back, err := Parse(data, format)
		require.NoError(t, err, string(data))
		assert.Equal(t, cfg, back, format)
	}
	_, err := Encode(cfg, "ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
