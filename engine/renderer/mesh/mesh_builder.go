package mesh

import (
	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/Carmen-Shannon/rampart/engine/renderer/material"
)

// MeshBuilderOption configures a mesh during construction.
type MeshBuilderOption func(*meshImpl)

// WithMaterial sets the initial material.
//
// Parameters:
//   - m: the material to copy into the mesh
//
// Returns:
//   - MeshBuilderOption: a function that applies the material
func WithMaterial(m material.Material) MeshBuilderOption {
	return func(mi *meshImpl) {
		mi.material = m
	}
}

// WithTextures binds the albedo, normal and roughness slots.
//
// Parameters:
//   - slots: the textures to bind, zero for an empty slot
//
// Returns:
//   - MeshBuilderOption: a function that binds the textures
func WithTextures(slots [renderer.TextureSlotCount]renderer.TextureHandle) MeshBuilderOption {
	return func(mi *meshImpl) {
		mi.textures = slots
	}
}

// WithCastShadows sets whether the mesh is drawn into the shadow map. Defaults to true.
func WithCastShadows(cast bool) MeshBuilderOption {
	return func(mi *meshImpl) {
		mi.castShadows = cast
	}
}

// WithCull sets the face culling mode. Defaults to back-face culling.
func WithCull(mode renderer.CullMode) MeshBuilderOption {
	return func(mi *meshImpl) {
		mi.cull = mode
	}
}

// WithFrustumCull sets whether the main pass skips the mesh outside the view frustum. Defaults to true.
func WithFrustumCull(cull bool) MeshBuilderOption {
	return func(mi *meshImpl) {
		mi.frustumCull = cull
	}
}
