package rig

import (
	"github.com/Carmen-Shannon/rampart/engine/renderer/geometry_cache"
	"github.com/Carmen-Shannon/rampart/engine/renderer/material"
	"github.com/chewxy/math32"
)

// HumanBuilderOption is a functional option for configuring a Human.
type HumanBuilderOption func(*humanImpl)

// WithMeshes gives the body, head and limbs capsule meshes drawn from cache. Without it the rig is a bare
// joint hierarchy for game code to dress.
//
// Parameters:
//   - cache: the geometry cache of the device the rig is drawn on
//   - mat: the material of every body part
//
// Returns:
//   - HumanBuilderOption: option function to apply
func WithMeshes(cache geometry_cache.Cache, mat material.Material) HumanBuilderOption {
	return func(h *humanImpl) {
		h.cache = cache
		h.material = mat
	}
}

// WithStrideRate sets how fast the walk cycle advances.
//
// Parameters:
//   - strides: full leg cycles per second
//
// Returns:
//   - HumanBuilderOption: option function to apply
func WithStrideRate(strides float32) HumanBuilderOption {
	return func(h *humanImpl) {
		h.strideRate = 2 * math32.Pi * strides
	}
}

// WithBlendRate sets how fast the walk intensity moves toward its target, in units per second.
func WithBlendRate(rate float32) HumanBuilderOption {
	return func(h *humanImpl) {
		h.blendRate = rate
	}
}
