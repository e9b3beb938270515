package material

import "github.com/Carmen-Shannon/rampart/common/linalg"

// MaterialBuilderOption configures a Material during construction.
type MaterialBuilderOption func(*Material)

// WithColor sets the base RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color
func WithColor(color [4]float32) MaterialBuilderOption {
	return func(m *Material) {
		m.Color = color
	}
}

// WithMetallic sets the metallic factor of the material.
//
// Parameters:
//   - metallic: the metallic factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic factor
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *Material) {
		m.Metallic = metallic
	}
}

// WithRoughness sets the perceptual roughness of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = mirror, 1.0 = fully rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *Material) {
		m.Roughness = roughness
	}
}

// WithTextureTransform sets the triplanar texture scale and offset.
//
// Parameters:
//   - scale: texture repeats per world unit along each axis
//   - offset: texture coordinate offset along each axis
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture transform
func WithTextureTransform(scale, offset linalg.Vector3) MaterialBuilderOption {
	return func(m *Material) {
		m.TextureScale = scale
		m.TextureOffset = offset
	}
}

// WithBlendSharpness sets the triplanar blend exponent.
func WithBlendSharpness(sharpness float32) MaterialBuilderOption {
	return func(m *Material) {
		m.BlendSharpness = sharpness
	}
}

// WithUnlit disables lighting for the material.
func WithUnlit() MaterialBuilderOption {
	return func(m *Material) {
		m.Unlit = true
	}
}
