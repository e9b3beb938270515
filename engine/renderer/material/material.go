// Package material holds the surface description drawn by a mesh. Materials are plain values: a mesh
// copies its material on assignment, so editing one mesh never changes another.
package material

import (
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/chewxy/math32"
)

const (
	// roughnessCurve is the c in the perceptual roughness remap 1 + c - c/r.
	roughnessCurve float32 = 0.05

	// roughnessEpsilon keeps the remap away from its pole at zero and its end point at one.
	roughnessEpsilon float32 = 1e-3
)

// Material describes the surface of a mesh.
type Material struct {
	// Color is the base RGBA color. Alpha below one only shows on transparent meshes.
	Color [4]float32

	// Metallic blends the specular color from 0.04 (dielectric) to the base color (metal).
	Metallic float32

	// Roughness is the perceptual roughness in 0..1 before remapping.
	Roughness float32

	// TextureScale and TextureOffset map world position to texture coordinates, one component per
	// projection axis.
	TextureScale  linalg.Vector3
	TextureOffset linalg.Vector3

	// BlendSharpness is the exponent applied to the normal when blending the three projections.
	// Higher values give crisper transitions at edges.
	BlendSharpness float32

	// Unlit draws the base color and texture without lighting or shadows.
	Unlit bool
}

// New returns a white, fully rough, dielectric material with unit texture scale.
//
// Parameters:
//   - options: functional options applied to the defaults
//
// Returns:
//   - Material: the configured material value
func New(options ...MaterialBuilderOption) Material {
	m := Material{
		Color:          [4]float32{1, 1, 1, 1},
		Roughness:      1,
		TextureScale:   linalg.Vector3One,
		BlendSharpness: 4,
	}
	for _, opt := range options {
		opt(&m)
	}
	return m
}

// RemapRoughness converts perceptual roughness into the value the shader consumes:
// 1 + c - c/clamp(r, eps, 1-eps) with c = 0.05. The result rises monotonically with r and is close
// to r itself near 1 while falling off quickly for very smooth surfaces.
//
// Parameters:
//   - r: perceptual roughness
//
// Returns:
//   - float32: the remapped roughness
func RemapRoughness(r float32) float32 {
	r = math32.Max(roughnessEpsilon, math32.Min(r, 1-roughnessEpsilon))
	return 1 + roughnessCurve - roughnessCurve/r
}

// Uniform returns the GPU representation of the material with roughness already remapped.
//
// Parameters:
//   - textured: which texture slots (albedo, normal, roughness) hold a texture
//
// Returns:
//   - GPUMaterial: the uniform block fields
func (m Material) Uniform(textured [3]bool) GPUMaterial {
	g := GPUMaterial{
		Color:          m.Color,
		Metallic:       m.Metallic,
		Roughness:      RemapRoughness(m.Roughness),
		TextureScale:   m.TextureScale,
		TextureOffset:  m.TextureOffset,
		BlendSharpness: m.BlendSharpness,
	}
	for i, ok := range textured {
		if ok {
			g.TextureFlags[i] = 1
		}
	}
	if m.Unlit {
		g.Unlit = 1
	}
	return g
}
