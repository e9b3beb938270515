package camera

import (
	"sync"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/transform"
	"github.com/chewxy/math32"
)

// Control drives a camera transform with strategy-game mouse controls. The camera orbits a target point
// on the ground using spherical coordinates (radius, azimuth, elevation); panning slides the target
// across the ground plane, rotating changes the angles and zooming changes the radius.
//
// Input deltas are in normalized screen units, so a drag across the full window width is 1.
type Control interface {
	// Target returns the point the camera orbits and looks at.
	//
	// Returns:
	//   - linalg.Vector3: the world-space target
	Target() linalg.Vector3

	// SetTarget moves the orbit target.
	//
	// Parameters:
	//   - target: the new world-space target
	SetTarget(target linalg.Vector3)

	// Position returns the camera position derived from the target and spherical coordinates.
	//
	// Returns:
	//   - linalg.Vector3: the world-space camera position
	Position() linalg.Vector3

	// Radius returns the current distance from the target.
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32

	// SetRadius sets the orbit radius, clamped to the configured bounds.
	//
	// Parameters:
	//   - radius: the new distance from the target
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle around the Y axis. Zero places the camera on the +Z side.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle.
	//
	// Parameters:
	//   - azimuth: the new angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical angle above the ground plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle, clamped to the configured bounds.
	//
	// Parameters:
	//   - elevation: the new angle in radians
	SetElevation(elevation float32)

	// Pan slides the target across the ground plane so the ground follows the cursor. Speed scales with
	// the radius, so a zoomed-out camera covers more ground per drag.
	//
	// Parameters:
	//   - dx: horizontal screen delta (positive to the right)
	//   - dy: vertical screen delta (positive downward)
	Pan(dx, dy float32)

	// Rotate orbits the camera around the target.
	//
	// Parameters:
	//   - dx: horizontal screen delta, turns the azimuth
	//   - dy: vertical screen delta, tilts the elevation
	Rotate(dx, dy float32)

	// Zoom moves the camera toward (positive delta) or away from (negative delta) the target.
	//
	// Parameters:
	//   - delta: wheel delta scaled by the zoom speed
	Zoom(delta float32)

	// Apply writes the current position and look-at rotation into a transform, usually the camera node's.
	//
	// Parameters:
	//   - t: the transform to update
	Apply(t *transform.Transform)
}

type controlImpl struct {
	mu *sync.Mutex

	target    linalg.Vector3
	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	panSpeed    float32
	rotateSpeed float32
	zoomSpeed   float32
}

var _ Control = &controlImpl{}

// NewControl creates a camera control looking down at the origin from 45 degrees.
//
// Parameters:
//   - options: functional options to configure the control
//
// Returns:
//   - Control: the new control
func NewControl(options ...ControlBuilderOption) Control {
	c := &controlImpl{
		mu:        &sync.Mutex{},
		radius:    40,
		elevation: math32.Pi / 4,

		minRadius:    5,
		maxRadius:    150,
		minElevation: 0.1,
		maxElevation: math32.Pi/2 - 0.05,

		panSpeed:    1,
		rotateSpeed: math32.Pi,
		zoomSpeed:   2,
	}

	for _, option := range options {
		option(c)
	}

	c.radius = linalg.Clamp(c.radius, c.minRadius, c.maxRadius)
	c.elevation = linalg.Clamp(c.elevation, c.minElevation, c.maxElevation)
	return c
}

// position must be called with the mutex held.
func (c *controlImpl) position() linalg.Vector3 {
	cosElev, sinElev := math32.Cos(c.elevation), math32.Sin(c.elevation)
	cosAzim, sinAzim := math32.Cos(c.azimuth), math32.Sin(c.azimuth)
	return linalg.Vector3{
		c.target[0] + c.radius*cosElev*sinAzim,
		c.target[1] + c.radius*sinElev,
		c.target[2] + c.radius*cosElev*cosAzim,
	}
}

// groundAxes returns the camera's right vector and its view direction flattened onto the ground plane.
func (c *controlImpl) groundAxes() (right, forward linalg.Vector3) {
	cosAzim, sinAzim := math32.Cos(c.azimuth), math32.Sin(c.azimuth)
	right = linalg.Vector3{cosAzim, 0, -sinAzim}
	forward = linalg.Vector3{-sinAzim, 0, -cosAzim}
	return
}

func (c *controlImpl) Target() linalg.Vector3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *controlImpl) SetTarget(target linalg.Vector3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
}

func (c *controlImpl) Position() linalg.Vector3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

func (c *controlImpl) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *controlImpl) SetRadius(radius float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = linalg.Clamp(radius, c.minRadius, c.maxRadius)
}

func (c *controlImpl) Azimuth() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.azimuth
}

func (c *controlImpl) SetAzimuth(azimuth float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth = azimuth
}

func (c *controlImpl) Elevation() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elevation
}

func (c *controlImpl) SetElevation(elevation float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elevation = linalg.Clamp(elevation, c.minElevation, c.maxElevation)
}

func (c *controlImpl) Pan(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	right, forward := c.groundAxes()
	scale := c.radius * c.panSpeed
	c.target.AddScaled(right, -dx*scale)
	c.target.AddScaled(forward, dy*scale)
}

func (c *controlImpl) Rotate(dx, dy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.azimuth -= dx * c.rotateSpeed
	c.elevation = linalg.Clamp(c.elevation+dy*c.rotateSpeed, c.minElevation, c.maxElevation)
}

func (c *controlImpl) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.radius = linalg.Clamp(c.radius-delta*c.zoomSpeed, c.minRadius, c.maxRadius)
}

func (c *controlImpl) Apply(t *transform.Transform) {
	c.mu.Lock()
	pos, target := c.position(), c.target
	c.mu.Unlock()

	t.Position = pos
	t.LookAt(target, linalg.Vector3Up)
}
