package light

// DefaultShadowHalfExtent is the orthographic half-extent in world units of the shadow frustum. It
// bounds how much of the scene around the light target is captured in the shadow map.
const DefaultShadowHalfExtent float32 = 40.0

// DefaultShadowNear is the near plane of the orthographic shadow projection.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the far plane of the orthographic shadow projection.
const DefaultShadowFar float32 = 200.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons to reduce acne. The shader
// scales it up with the angle between the surface normal and the light direction.
const DefaultShadowBias float32 = 0.001
