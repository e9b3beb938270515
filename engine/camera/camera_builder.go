package camera

type CameraBuilderOption func(*cameraImpl)

// WithPerspective configures a perspective projection.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width / height
//   - near, far: clipping distances
//
// Returns:
//   - CameraBuilderOption: a function that applies the perspective settings
func WithPerspective(fovY, aspect, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = ProjectionPerspective
		c.fov, c.aspect, c.near, c.far = fovY, aspect, near, far
	}
}

// WithOrthographic configures an orthographic projection of the given view volume.
//
// Parameters:
//   - left, right, bottom, top: view-space extents
//   - near, far: clipping distances
//
// Returns:
//   - CameraBuilderOption: a function that applies the orthographic settings
func WithOrthographic(left, right, bottom, top, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = ProjectionOrthographic
		c.left, c.right, c.bottom, c.top = left, right, bottom, top
		c.near, c.far = near, far
		if top != bottom {
			c.aspect = (right - left) / (top - bottom)
		}
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipPlanes sets the near and far clipping distances.
//
// Parameters:
//   - near: near plane distance (must be > 0 for perspective cameras)
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clipping planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near, c.far = near, far
	}
}
