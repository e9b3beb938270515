package light

import "github.com/Carmen-Shannon/rampart/common/linalg"

// LightBuilderOption is a function that configures a light during construction.
type LightBuilderOption func(*lightImpl)

// WithTarget sets the point the light shines at.
//
// Parameters:
//   - target: the world-space target
//
// Returns:
//   - LightBuilderOption: a function that applies the target
func WithTarget(target linalg.Vector3) LightBuilderOption {
	return func(l *lightImpl) {
		l.target = target
	}
}

// WithColor sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = linalg.Vector3{r, g, b}
	}
}

// WithIntensity sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithAmbient sets the ambient term.
func WithAmbient(ambient float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient = ambient
	}
}

// WithCastsShadows sets whether the light renders a shadow pass. Defaults to true.
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

// WithShadowBias sets the base depth bias of the shadow comparison.
func WithShadowBias(bias float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadowBias = bias
	}
}

// WithShadowFrustum sets the orthographic half-extent and depth range of the shadow camera.
//
// Parameters:
//   - halfExtent: half the width and height of the captured area in world units
//   - near, far: depth range from the light position
//
// Returns:
//   - LightBuilderOption: a function that applies the frustum
func WithShadowFrustum(halfExtent, near, far float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.halfExtent, l.shadowNear, l.shadowFar = halfExtent, near, far
	}
}

// WithShadowMapCap lowers the shadow target resolution below renderer.MaxShadowMapSize.
//
// Parameters:
//   - size: the largest side length to allocate (values below 1 are ignored)
//
// Returns:
//   - LightBuilderOption: a function that applies the cap
func WithShadowMapCap(size int) LightBuilderOption {
	return func(l *lightImpl) {
		if size > 0 {
			l.shadowCap = size
		}
	}
}
