package camera

import "github.com/Carmen-Shannon/rampart/common/linalg"

// ControlBuilderOption is a functional option for configuring a Control.
type ControlBuilderOption func(*controlImpl)

// WithTarget sets the initial orbit target.
//
// Parameters:
//   - target: the world-space point to look at
//
// Returns:
//   - ControlBuilderOption: functional option to set the target
func WithTarget(target linalg.Vector3) ControlBuilderOption {
	return func(c *controlImpl) {
		c.target = target
	}
}

// WithRadius sets the initial distance from the target.
//
// Parameters:
//   - radius: the orbit radius
//
// Returns:
//   - ControlBuilderOption: functional option to set the radius
func WithRadius(radius float32) ControlBuilderOption {
	return func(c *controlImpl) {
		c.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle.
//
// Parameters:
//   - azimuth: angle in radians (0 = camera on the +Z side)
//
// Returns:
//   - ControlBuilderOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) ControlBuilderOption {
	return func(c *controlImpl) {
		c.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle.
//
// Parameters:
//   - elevation: angle in radians above the ground plane
//
// Returns:
//   - ControlBuilderOption: functional option to set the elevation
func WithElevation(elevation float32) ControlBuilderOption {
	return func(c *controlImpl) {
		c.elevation = elevation
	}
}

// WithRadiusBounds sets the zoom limits.
//
// Parameters:
//   - min: closest allowed distance
//   - max: farthest allowed distance
//
// Returns:
//   - ControlBuilderOption: functional option to set the radius bounds
func WithRadiusBounds(min, max float32) ControlBuilderOption {
	return func(c *controlImpl) {
		c.minRadius, c.maxRadius = min, max
	}
}

// WithElevationBounds sets the tilt limits.
//
// Parameters:
//   - min: lowest allowed angle in radians
//   - max: highest allowed angle in radians
//
// Returns:
//   - ControlBuilderOption: functional option to set the elevation bounds
func WithElevationBounds(min, max float32) ControlBuilderOption {
	return func(c *controlImpl) {
		c.minElevation, c.maxElevation = min, max
	}
}

// WithPanSpeed sets the pan multiplier applied on top of the radius scaling.
func WithPanSpeed(speed float32) ControlBuilderOption {
	return func(c *controlImpl) {
		c.panSpeed = speed
	}
}

// WithRotateSpeed sets the radians turned per full-screen drag.
func WithRotateSpeed(speed float32) ControlBuilderOption {
	return func(c *controlImpl) {
		c.rotateSpeed = speed
	}
}

// WithZoomSpeed sets the distance moved per wheel unit.
func WithZoomSpeed(speed float32) ControlBuilderOption {
	return func(c *controlImpl) {
		c.zoomSpeed = speed
	}
}
