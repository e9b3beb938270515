// Package light provides the directional light component. A light lives on a scene node: its world
// position is the node's, and it shines toward a target point. When it casts shadows it owns an
// orthographic shadow camera and a square depth target on the device.
package light

import (
	"fmt"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/camera"
	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/chewxy/math32"
)

type lightImpl struct {
	placement camera.Placement

	target    linalg.Vector3
	color     linalg.Vector3
	intensity float32
	ambient   float32

	castsShadows bool
	shadowBias   float32
	halfExtent   float32
	shadowNear   float32
	shadowFar    float32

	shadowCamera camera.Camera
	shadowDevice renderer.Device
	shadowTarget renderer.TextureHandle
	shadowSize   int
	shadowCap    int
}

// DirectionalLight is the single shadow-casting light of a scene.
type DirectionalLight interface {
	// Attach places the light. The scene node owning the light attaches itself.
	//
	// Parameters:
	//   - p: the placement providing the light's world position
	Attach(p camera.Placement)

	// WorldPosition returns the light position in world space.
	//
	// Returns:
	//   - linalg.Vector3: the world-space position
	WorldPosition() linalg.Vector3

	// Direction returns the unit direction the light travels, from its position toward the target.
	//
	// Returns:
	//   - linalg.Vector3: the normalized light direction
	Direction() linalg.Vector3

	// Target returns the point the light shines at and the shadow frustum is centered on.
	//
	// Returns:
	//   - linalg.Vector3: the world-space target
	Target() linalg.Vector3

	// SetTarget moves the light target.
	//
	// Parameters:
	//   - target: the new world-space target
	SetTarget(target linalg.Vector3)

	// Color returns the light color premultiplied by intensity.
	//
	// Returns:
	//   - linalg.Vector3: the radiance color
	Color() linalg.Vector3

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// Intensity returns the scalar intensity multiplier.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// Ambient returns the ambient term added to every lit fragment.
	//
	// Returns:
	//   - float32: the ambient factor
	Ambient() float32

	// SetAmbient sets the ambient term.
	//
	// Parameters:
	//   - ambient: the ambient factor
	SetAmbient(ambient float32)

	// CastsShadows returns whether the light renders a shadow pass.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// SetCastsShadows enables or disables the shadow pass.
	//
	// Parameters:
	//   - castsShadows: true to enable shadow casting
	SetCastsShadows(castsShadows bool)

	// ShadowBias returns the base depth bias used by the shadow comparison.
	//
	// Returns:
	//   - float32: the bias
	ShadowBias() float32

	// ShadowCamera returns the orthographic camera the shadow pass renders from.
	//
	// Returns:
	//   - camera.Camera: the shadow camera
	ShadowCamera() camera.Camera

	// LightSpaceMatrix returns the shadow camera's view-projection, mapping world positions into the
	// shadow map's clip space.
	//
	// Returns:
	//   - linalg.Matrix4: the light-space matrix
	LightSpaceMatrix() linalg.Matrix4

	// ShadowTarget creates the depth target on first use and returns it. Its size is the device's
	// maximum texture size capped at renderer.MaxShadowMapSize.
	//
	// Parameters:
	//   - dev: the device to create the target on
	//
	// Returns:
	//   - renderer.TextureHandle: the depth target
	//   - error: an error if the target could not be created
	ShadowTarget(dev renderer.Device) (renderer.TextureHandle, error)

	// ShadowMapSize returns the side length of the depth target, zero before ShadowTarget.
	//
	// Returns:
	//   - int: the size in texels
	ShadowMapSize() int

	// Dispose releases the shadow target on the device that created it.
	Dispose()
}

var _ DirectionalLight = &lightImpl{}

// NewDirectionalLight creates a white light aimed at the origin with shadows enabled.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - DirectionalLight: the new light
func NewDirectionalLight(options ...LightBuilderOption) DirectionalLight {
	l := &lightImpl{
		color:        linalg.Vector3One,
		intensity:    1,
		ambient:      0.25,
		castsShadows: true,
		shadowBias:   DefaultShadowBias,
		halfExtent:   DefaultShadowHalfExtent,
		shadowNear:   DefaultShadowNear,
		shadowFar:    DefaultShadowFar,
		shadowCap:    renderer.MaxShadowMapSize,
	}
	for _, option := range options {
		option(l)
	}

	e := l.halfExtent
	l.shadowCamera = camera.NewCamera(camera.WithOrthographic(-e, e, -e, e, l.shadowNear, l.shadowFar))
	l.shadowCamera.Attach(shadowPlacement{l})
	return l
}

// shadowPlacement places the shadow camera at the light looking at its target.
type shadowPlacement struct {
	l *lightImpl
}

func (p shadowPlacement) WorldToLocalMatrix() linalg.Matrix4 {
	eye := p.l.WorldPosition()
	up := linalg.Vector3Up
	dir := p.l.target
	dir.Sub(eye)
	if dir.LengthSqr() > 0 && math32.Abs(dir.Dot(up))/dir.Length() > 0.99 {
		up = linalg.Vector3{0, 0, -1}
	}
	var view linalg.Matrix4
	view.LookAt(eye, p.l.target, up)
	return view
}

func (p shadowPlacement) LocalToWorldMatrix() linalg.Matrix4 {
	m := p.WorldToLocalMatrix()
	m.Invert()
	return m
}

func (l *lightImpl) Attach(p camera.Placement) {
	l.placement = p
}

func (l *lightImpl) WorldPosition() linalg.Vector3 {
	if l.placement == nil {
		return linalg.Vector3Zero
	}
	world := l.placement.LocalToWorldMatrix()
	return world.Translation()
}

func (l *lightImpl) Direction() linalg.Vector3 {
	dir := l.target
	dir.Sub(l.WorldPosition()).SafeNormalize()
	return dir
}

func (l *lightImpl) Target() linalg.Vector3 {
	return l.target
}

func (l *lightImpl) SetTarget(target linalg.Vector3) {
	l.target = target
}

func (l *lightImpl) Color() linalg.Vector3 {
	c := l.color
	c.MulScalar(l.intensity)
	return c
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = linalg.Vector3{r, g, b}
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) Ambient() float32 {
	return l.ambient
}

func (l *lightImpl) SetAmbient(ambient float32) {
	l.ambient = ambient
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}

func (l *lightImpl) ShadowBias() float32 {
	return l.shadowBias
}

func (l *lightImpl) ShadowCamera() camera.Camera {
	return l.shadowCamera
}

func (l *lightImpl) LightSpaceMatrix() linalg.Matrix4 {
	return l.shadowCamera.ViewProjectionMatrix()
}

func (l *lightImpl) ShadowTarget(dev renderer.Device) (renderer.TextureHandle, error) {
	if l.shadowTarget != 0 {
		return l.shadowTarget, nil
	}
	size := min(renderer.ShadowMapSize(dev), l.shadowCap)
	h, err := dev.CreateDepthTarget(size)
	if err != nil {
		return 0, fmt.Errorf("failed to create %dx%d shadow target: %w", size, size, err)
	}
	l.shadowDevice, l.shadowTarget, l.shadowSize = dev, h, size
	return h, nil
}

func (l *lightImpl) ShadowMapSize() int {
	return l.shadowSize
}

func (l *lightImpl) Dispose() {
	if l.shadowTarget == 0 {
		return
	}
	l.shadowDevice.ReleaseTexture(l.shadowTarget)
	l.shadowDevice, l.shadowTarget, l.shadowSize = nil, 0, 0
}
