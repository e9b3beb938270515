package camera

import (
	"github.com/Carmen-Shannon/rampart/common"
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/chewxy/math32"
)

// ProjectionType selects between perspective and orthographic projection.
type ProjectionType int

const (
	// ProjectionPerspective uses a vertical field of view and aspect ratio.
	ProjectionPerspective ProjectionType = iota

	// ProjectionOrthographic uses an axis-aligned view volume; directional light shadow cameras use it.
	ProjectionOrthographic
)

// Placement is the part of a scene node a camera needs: where it sits in the world. Scene nodes satisfy
// it; the camera never reaches further into the graph than this.
type Placement interface {
	LocalToWorldMatrix() linalg.Matrix4
	WorldToLocalMatrix() linalg.Matrix4
}

// Ray is a half-line in world space. Direction is unit length.
type Ray struct {
	Origin    linalg.Vector3
	Direction linalg.Vector3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) linalg.Vector3 {
	p := r.Origin
	p.AddScaled(r.Direction, t)
	return p
}

// IntersectPlaneY returns where the ray crosses the horizontal plane at height y. It reports false when
// the ray is parallel to the plane or the plane lies behind the origin.
func (r Ray) IntersectPlaneY(y float32) (linalg.Vector3, bool) {
	if math32.Abs(r.Direction[1]) < 1e-9 {
		return linalg.Vector3{}, false
	}
	t := (y - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return linalg.Vector3{}, false
	}
	return r.At(t), true
}

type cameraImpl struct {
	projection ProjectionType

	fov    float32
	aspect float32
	near   float32
	far    float32

	// orthographic view volume in view space
	left, right, bottom, top float32

	placement Placement

	projectionMatrix   linalg.Matrix4
	lastViewProjection linalg.Matrix4
	hasViewProjection  bool
}

// Camera is the projection component of a scene node. It holds perspective or orthographic settings and
// derives view matrices from the node it is attached to.
//
// A camera created with NewCamera is detached; node.WithCamera (or node.SetCamera) attaches it, after
// which the view matrix follows the node's world transform.
type Camera interface {
	// Projection returns whether the camera is perspective or orthographic.
	//
	// Returns:
	//   - ProjectionType: the projection type
	Projection() ProjectionType

	// IsOrthographic is shorthand for Projection() == ProjectionOrthographic.
	//
	// Returns:
	//   - bool: true for orthographic cameras
	IsOrthographic() bool

	// Fov returns the vertical field of view in radians. Zero for orthographic cameras.
	//
	// Returns:
	//   - float32: the field of view
	Fov() float32

	// Aspect returns the viewport aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetPerspective switches to a perspective projection.
	//
	// Parameters:
	//   - fovY: vertical field of view in radians
	//   - aspect: viewport width / height
	//   - near, far: clipping distances
	SetPerspective(fovY, aspect, near, far float32)

	// SetOrthographic switches to an orthographic projection of the given view volume.
	//
	// Parameters:
	//   - left, right, bottom, top: view-space extents of the volume
	//   - near, far: clipping distances
	SetOrthographic(left, right, bottom, top, near, far float32)

	// SetAspect updates the aspect ratio after a viewport resize. Orthographic cameras keep their vertical
	// extent and widen or narrow horizontally.
	//
	// Parameters:
	//   - aspect: the new width / height ratio
	SetAspect(aspect float32)

	// Attach binds the camera to the node that carries it. Nodes call this when the camera is assigned.
	//
	// Parameters:
	//   - p: the owning node
	Attach(p Placement)

	// ProjectionMatrix returns the current projection matrix.
	//
	// Returns:
	//   - linalg.Matrix4: the projection matrix (clip depth 0..1)
	ProjectionMatrix() linalg.Matrix4

	// ViewMatrix returns the world-to-view matrix of the owning node, or identity when detached.
	//
	// Returns:
	//   - linalg.Matrix4: the view matrix
	ViewMatrix() linalg.Matrix4

	// ViewProjectionMatrix computes projection * view from the node's current transform.
	//
	// Returns:
	//   - linalg.Matrix4: the combined matrix
	ViewProjectionMatrix() linalg.Matrix4

	// UpdateViewProjection computes the view-projection matrix, caches it for ScreenPosition and returns
	// it. The renderer calls this once per rendered frame.
	//
	// Returns:
	//   - linalg.Matrix4: the combined matrix
	UpdateViewProjection() linalg.Matrix4

	// LastViewProjection returns the matrix cached by the most recent UpdateViewProjection.
	//
	// Returns:
	//   - linalg.Matrix4: the cached matrix
	//   - bool: false if the camera has not been rendered yet
	LastViewProjection() (linalg.Matrix4, bool)

	// WorldPosition returns the camera's position in world space.
	//
	// Returns:
	//   - linalg.Vector3: the world position
	WorldPosition() linalg.Vector3

	// Forward returns the unit world-space direction the camera looks along (its local -Z axis).
	//
	// Returns:
	//   - linalg.Vector3: the view direction
	Forward() linalg.Vector3

	// Frustum extracts the world-space frustum planes from the current view-projection.
	//
	// Returns:
	//   - common.Frustum: the six normalized planes
	Frustum() common.Frustum

	// WorldRay builds the world-space ray through a screen point.
	//
	// Perspective rays start at the camera and fan out through the point; orthographic rays start on the
	// near plane under the point and all travel along Forward.
	//
	// Parameters:
	//   - x, y: normalized screen coordinates, (0, 0) top-left and (1, 1) bottom-right
	//
	// Returns:
	//   - Ray: the picking ray
	WorldRay(x, y float32) Ray

	// ScreenPosition projects a world point to normalized screen coordinates using the view-projection
	// cached by the last rendered frame. Only meaningful during or after that frame's after-render
	// callbacks; earlier in the frame it reflects the previous frame's camera.
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - linalg.Vector2: (0, 0) top-left to (1, 1) bottom-right, unclamped
	//   - bool: false when the point is behind the camera or nothing has been rendered yet
	ScreenPosition(p linalg.Vector3) (linalg.Vector2, bool)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a detached camera. Without options it is a 60 degree perspective camera with a
// 16:9 aspect ratio and clipping planes at 0.1 and 1000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		projection: ProjectionPerspective,
		fov:        math32.Pi / 3,
		aspect:     16.0 / 9.0,
		near:       0.1,
		far:        1000,
	}

	for _, option := range options {
		option(c)
	}

	c.updateProjection()
	return c
}

func (c *cameraImpl) updateProjection() {
	if c.projection == ProjectionOrthographic {
		c.projectionMatrix.Orthographic(c.left, c.right, c.bottom, c.top, c.near, c.far)
		return
	}
	c.projectionMatrix.Perspective(c.fov, c.aspect, c.near, c.far)
}

func (c *cameraImpl) Projection() ProjectionType {
	return c.projection
}

func (c *cameraImpl) IsOrthographic() bool {
	return c.projection == ProjectionOrthographic
}

func (c *cameraImpl) Fov() float32 {
	if c.IsOrthographic() {
		return 0
	}
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) SetPerspective(fovY, aspect, near, far float32) {
	c.projection = ProjectionPerspective
	c.fov, c.aspect, c.near, c.far = fovY, aspect, near, far
	c.updateProjection()
}

func (c *cameraImpl) SetOrthographic(left, right, bottom, top, near, far float32) {
	c.projection = ProjectionOrthographic
	c.left, c.right, c.bottom, c.top = left, right, bottom, top
	c.near, c.far = near, far
	if top != bottom {
		c.aspect = (right - left) / (top - bottom)
	}
	c.updateProjection()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	if c.IsOrthographic() {
		halfWidth := (c.top - c.bottom) * aspect / 2
		centerX := (c.left + c.right) / 2
		c.left, c.right = centerX-halfWidth, centerX+halfWidth
	}
	c.updateProjection()
}

func (c *cameraImpl) Attach(p Placement) {
	c.placement = p
}

func (c *cameraImpl) ProjectionMatrix() linalg.Matrix4 {
	return c.projectionMatrix
}

func (c *cameraImpl) ViewMatrix() linalg.Matrix4 {
	if c.placement == nil {
		return linalg.Matrix4Identity
	}
	return c.placement.WorldToLocalMatrix()
}

func (c *cameraImpl) ViewProjectionMatrix() linalg.Matrix4 {
	view := c.ViewMatrix()
	vp := c.projectionMatrix
	vp.Multiply(&view)
	return vp
}

func (c *cameraImpl) UpdateViewProjection() linalg.Matrix4 {
	c.lastViewProjection = c.ViewProjectionMatrix()
	c.hasViewProjection = true
	return c.lastViewProjection
}

func (c *cameraImpl) LastViewProjection() (linalg.Matrix4, bool) {
	return c.lastViewProjection, c.hasViewProjection
}

func (c *cameraImpl) WorldPosition() linalg.Vector3 {
	if c.placement == nil {
		return linalg.Vector3{}
	}
	world := c.placement.LocalToWorldMatrix()
	return world.Translation()
}

func (c *cameraImpl) Forward() linalg.Vector3 {
	f := linalg.Vector3Forward
	if c.placement == nil {
		return f
	}
	world := c.placement.LocalToWorldMatrix()
	f.TransformDirection(&world).SafeNormalize()
	return f
}

func (c *cameraImpl) Frustum() common.Frustum {
	vp := c.ViewProjectionMatrix()
	return common.ExtractFrustum(&vp)
}

func (c *cameraImpl) WorldRay(x, y float32) Ray {
	ndcX := x*2 - 1
	ndcY := 1 - y*2

	inv := c.ViewProjectionMatrix()
	inv.Invert()

	if c.IsOrthographic() {
		origin := linalg.Vector3{ndcX, ndcY, 0}
		origin.ApplyMatrix4(&inv)
		return Ray{Origin: origin, Direction: c.Forward()}
	}

	origin := c.WorldPosition()
	target := linalg.Vector3{ndcX, ndcY, 1}
	target.ApplyMatrix4(&inv)
	dir := target
	dir.Sub(origin).SafeNormalize()
	return Ray{Origin: origin, Direction: dir}
}

func (c *cameraImpl) ScreenPosition(p linalg.Vector3) (linalg.Vector2, bool) {
	if !c.hasViewProjection {
		return linalg.Vector2{}, false
	}
	clip := linalg.Vector4{p[0], p[1], p[2], 1}
	clip.ApplyMatrix4(&c.lastViewProjection)
	if clip[3] <= 0 {
		return linalg.Vector2{}, false
	}
	ndcX, ndcY := clip[0]/clip[3], clip[1]/clip[3]
	return linalg.Vector2{(ndcX + 1) / 2, (1 - ndcY) / 2}, true
}
