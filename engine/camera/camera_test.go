package camera

import (
	"testing"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/transform"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transformPlacement struct {
	t *transform.Transform
}

func (p transformPlacement) LocalToWorldMatrix() linalg.Matrix4 { return p.t.LocalMatrix() }
func (p transformPlacement) WorldToLocalMatrix() linalg.Matrix4 { return p.t.InverseLocalMatrix() }

func placedAt(c Camera, pos linalg.Vector3) *transform.Transform {
	t := transform.New()
	t.Position = pos
	c.Attach(transformPlacement{t})
	return t
}

func TestCenterRayLooksForward(t *testing.T) {
	c := NewCamera(WithPerspective(math32.Pi/3, 1, 0.1, 100))
	placedAt(c, linalg.Vector3{0, 0, 10})

	ray := c.WorldRay(0.5, 0.5)
	assert.True(t, ray.Origin.ApproxEquals(linalg.Vector3{0, 0, 10}, 1e-4))
	assert.True(t, ray.Direction.ApproxEquals(linalg.Vector3{0, 0, -1}, 1e-4), "got %v", ray.Direction)
}

func TestWorldRayAndScreenPositionAgree(t *testing.T) {
	c := NewCamera(WithPerspective(math32.Pi/3, 16.0/9.0, 0.1, 100))
	tr := placedAt(c, linalg.Vector3{5, 12, 20})
	tr.LookAt(linalg.Vector3{0, 0, 0}, linalg.Vector3Up)

	_, ok := c.ScreenPosition(linalg.Vector3{})
	assert.False(t, ok, "nothing rendered yet")
	c.UpdateViewProjection()

	for _, screen := range []linalg.Vector2{{0.25, 0.75}, {0.5, 0.5}, {0.9, 0.1}} {
		ray := c.WorldRay(screen[0], screen[1])
		p := ray.At(15)
		back, ok := c.ScreenPosition(p)
		require.True(t, ok)
		assert.True(t, back.ApproxEquals(screen, 1e-3), "screen %v projected back to %v", screen, back)
	}
}

func TestScreenPositionBehindCamera(t *testing.T) {
	c := NewCamera()
	placedAt(c, linalg.Vector3{0, 0, 10})
	c.UpdateViewProjection()

	_, ok := c.ScreenPosition(linalg.Vector3{0, 0, 20})
	assert.False(t, ok)

	up, ok := c.ScreenPosition(linalg.Vector3{0, 1, 0})
	require.True(t, ok)
	assert.InDelta(t, 0.5, up[0], 1e-4)
	assert.Less(t, up[1], float32(0.5), "points above the axis are in the top half")
}

func TestScreenPositionUsesCachedMatrix(t *testing.T) {
	c := NewCamera()
	tr := placedAt(c, linalg.Vector3{0, 0, 10})
	c.UpdateViewProjection()

	tr.Position.Set(100, 0, 10)
	p, ok := c.ScreenPosition(linalg.Vector3{0, 0, 0})
	require.True(t, ok)
	assert.True(t, p.ApproxEquals(linalg.Vector2{0.5, 0.5}, 1e-4))
}

func TestOrthographicRaysAreParallel(t *testing.T) {
	c := NewCamera(WithOrthographic(-10, 10, -10, 10, 0.1, 100))
	tr := placedAt(c, linalg.Vector3{0, 50, 0})
	tr.LookAt(linalg.Vector3{0, 0, 0}, linalg.Vector3{0, 0, -1})

	a := c.WorldRay(0, 0)
	b := c.WorldRay(1, 1)
	assert.True(t, a.Direction.ApproxEquals(linalg.Vector3{0, -1, 0}, 1e-4), "got %v", a.Direction)
	assert.True(t, a.Direction.ApproxEquals(b.Direction, 1e-6))
	assert.InDelta(t, 20, a.Origin.Distance(b.Origin)/math32.Sqrt2, 1e-3)

	hit, ok := a.IntersectPlaneY(0)
	require.True(t, ok)
	assert.InDelta(t, 0, hit[1], 1e-4)
}

func TestRayIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: linalg.Vector3{0, 10, 0}, Direction: linalg.Vector3{0, -1, 0}}
	p, ok := r.IntersectPlaneY(2)
	require.True(t, ok)
	assert.Equal(t, linalg.Vector3{0, 2, 0}, p)

	_, ok = Ray{Origin: linalg.Vector3{0, 10, 0}, Direction: linalg.Vector3{1, 0, 0}}.IntersectPlaneY(0)
	assert.False(t, ok)
	_, ok = Ray{Origin: linalg.Vector3{0, 10, 0}, Direction: linalg.Vector3{0, 1, 0}}.IntersectPlaneY(0)
	assert.False(t, ok)
}

func TestFrustum(t *testing.T) {
	c := NewCamera(WithPerspective(math32.Pi/2, 1, 0.1, 50))
	placedAt(c, linalg.Vector3{0, 0, 10})
	f := c.Frustum()
	assert.True(t, f.IntersectsSphere(linalg.Vector3{0, 0, 0}, 1))
	assert.False(t, f.IntersectsSphere(linalg.Vector3{0, 0, 20}, 1))
	assert.False(t, f.IntersectsSphere(linalg.Vector3{0, 0, -100}, 1))
	assert.True(t, f.IntersectsSphere(linalg.Vector3{0, 0, 11}, 1.5), "sphere straddling the near plane")
}

func TestSetAspectKeepsOrthographicHeight(t *testing.T) {
	c := NewCamera(WithOrthographic(-10, 10, -5, 5, 0.1, 100))
	assert.Equal(t, float32(2), c.Aspect())
	c.SetAspect(1)
	placedAt(c, linalg.Vector3{0, 0, 10})
	c.UpdateViewProjection()
	p, ok := c.ScreenPosition(linalg.Vector3{5, 5, 0})
	require.True(t, ok)
	assert.True(t, p.ApproxEquals(linalg.Vector2{1, 0}, 1e-4), "got %v", p)
}

func TestControlApply(t *testing.T) {
	ctl := NewControl(WithTarget(linalg.Vector3{1, 0, 2}), WithRadius(10), WithElevation(math32.Pi/4))
	tr := transform.New()
	ctl.Apply(tr)

	assert.InDelta(t, 10, tr.Position.Distance(linalg.Vector3{1, 0, 2}), 1e-4)
	fwd := linalg.Vector3Forward
	fwd.ApplyQuaternion(tr.Rotation)
	toTarget := linalg.Vector3{1, 0, 2}
	toTarget.Sub(tr.Position).Normalize()
	assert.True(t, fwd.ApproxEquals(toTarget, 1e-4), "forward %v target dir %v", fwd, toTarget)
}

func TestControlPanStaysOnGround(t *testing.T) {
	ctl := NewControl(WithRadius(20))
	ctl.Pan(0.1, 0)
	target := ctl.Target()
	assert.InDelta(t, 0, target[1], 1e-6)
	assert.Less(t, target[0], float32(0), "dragging right moves the view left")

	ctl.SetTarget(linalg.Vector3{})
	ctl.Pan(0, 0.1)
	target = ctl.Target()
	assert.Less(t, target[2], float32(0), "dragging down moves toward the view direction")
}

func TestControlClamps(t *testing.T) {
	ctl := NewControl(WithRadiusBounds(5, 50), WithElevationBounds(0.2, 1.2))
	ctl.Zoom(1000)
	assert.Equal(t, float32(5), ctl.Radius())
	ctl.Zoom(-1000)
	assert.Equal(t, float32(50), ctl.Radius())

	ctl.Rotate(0.25, 10)
	assert.Equal(t, float32(1.2), ctl.Elevation())
	assert.InDelta(t, -math32.Pi/4, ctl.Azimuth(), 1e-5)
	ctl.SetElevation(-3)
	assert.Equal(t, float32(0.2), ctl.Elevation())
}
