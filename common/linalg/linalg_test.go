package linalg

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-5

func TestSafeNormalize(t *testing.T) {
	cases := []Vector3{
		{3, 4, 0},
		{0, 0, 1e-3},
		{-2, 7, 1},
		{1e-8, 1e-8, 1e-8},
	}
	for _, c := range cases {
		v := c.Clone().SafeNormalize()
		assert.InDelta(t, 1, v.Length(), tolerance, "vector %v", c)
	}

	tiny := Vector3{1e-10, 0, 0}
	assert.Equal(t, Vector3{}, *tiny.Clone().SafeNormalize())
	assert.Equal(t, Vector3{}, *(&Vector3{}).SafeNormalize())

	tiny2 := Vector2{0, 5e-10}
	assert.Equal(t, Vector2{}, *tiny2.Clone().SafeNormalize())
}

func TestNormalizeZeroIsNaN(t *testing.T) {
	v := (&Vector3{}).Normalize()
	assert.True(t, math32.IsNaN(v[0]))
}

func TestChainingMutatesReceiver(t *testing.T) {
	v := NewVector3(1, 2, 3)
	out := v.Add(Vector3{1, 1, 1}).MulScalar(2).Sub(Vector3{4, 6, 8})
	assert.Same(t, v, out)
	assert.Equal(t, Vector3{0, 0, 0}, *v)
}

func TestDistanceSqrDoesNotTouchReceiver(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{4, 6, 3}
	assert.InDelta(t, 25, a.DistanceSqr(b), tolerance)
	assert.Equal(t, Vector3{1, 2, 3}, a)
	assert.InDelta(t, 5, a.Distance(b), tolerance)
}

func TestQuaternionAxisAngleAboutY(t *testing.T) {
	for _, theta := range []float32{0, math32.Pi / 4, math32.Pi / 2, math32.Pi} {
		q := NewQuaternionFromAxisAngle(Vector3Up, theta)
		v := NewVector3(1, 0, 0).ApplyQuaternion(*q)

		// Counter-clockwise about +Y takes +X toward -Z.
		expected := Vector3{math32.Cos(theta), 0, -math32.Sin(theta)}
		assert.True(t, v.ApproxEquals(expected, tolerance), "theta %v: got %v want %v", theta, *v, expected)
		assert.InDelta(t, 1, v.Length(), tolerance)
	}
}

func TestQuaternionMultiplyOrder(t *testing.T) {
	yaw := NewQuaternionFromAxisAngle(Vector3Up, math32.Pi/2)
	pitch := NewQuaternionFromAxisAngle(Vector3Right, math32.Pi/2)

	// yaw * pitch applies pitch first.
	q := yaw.Clone().Multiply(*pitch)
	v := NewVector3(0, 0, -1).ApplyQuaternion(*q)
	step := NewVector3(0, 0, -1).ApplyQuaternion(*pitch).ApplyQuaternion(*yaw)
	assert.True(t, v.ApproxEquals(*step, tolerance))

	p := pitch.Clone().Premultiply(*yaw)
	assert.True(t, p.ApproxEquals(*q, tolerance))
}

func TestQuaternionInvert(t *testing.T) {
	q := new(Quaternion).SetFromEuler(0.3, -1.1, 0.7)
	r := q.Clone().Invert().Multiply(*q)
	assert.True(t, r.ApproxEquals(QuaternionIdentity, tolerance))
}

func TestQuaternionSlerpEndpoints(t *testing.T) {
	a := NewQuaternionFromAxisAngle(Vector3Up, 0)
	b := NewQuaternionFromAxisAngle(Vector3Up, math32.Pi/2)
	mid := a.Clone().Slerp(*b, 0.5)
	expected := NewQuaternionFromAxisAngle(Vector3Up, math32.Pi/4)
	assert.True(t, mid.ApproxEquals(*expected, tolerance))
	assert.True(t, a.Clone().Slerp(*b, 1).ApproxEquals(*b, tolerance))
}

func TestQuaternionFromRotationMatrixRoundTrip(t *testing.T) {
	q := new(Quaternion).SetFromEuler(0.4, 2.0, -0.2)
	m := new(Matrix4).MakeRotation(*q)
	r := new(Quaternion).SetFromRotationMatrix(m)
	if r.Dot(*q) < 0 {
		r.Set(-r[0], -r[1], -r[2], -r[3])
	}
	assert.True(t, r.ApproxEquals(*q, 1e-4))
}

func TestLookRotationPointsForward(t *testing.T) {
	dir := Vector3{1, 0, 0}
	q := new(Quaternion).LookRotation(dir, Vector3Up)
	f := Vector3Forward
	f.ApplyQuaternion(*q)
	assert.True(t, f.ApproxEquals(dir, 1e-4), "got %v", f)
}

func TestMatrix4InvertRoundTrip(t *testing.T) {
	m := new(Matrix4).Compose(
		Vector3{3, -2, 5},
		*new(Quaternion).SetFromEuler(0.5, 1.2, -0.3),
		Vector3{2, 0.5, 3},
	)
	inv := m.Clone().Invert()
	id := inv.Multiply(m)
	assert.True(t, id.ApproxEquals(Matrix4Identity, 1e-4), "got %v", *id)
}

func TestMatrix4SingularInvertPropagatesNaN(t *testing.T) {
	m := new(Matrix4).MakeScale(1, 0, 1)
	m.Invert()
	bad := false
	for _, x := range m {
		if math32.IsNaN(x) || math32.IsInf(x, 0) {
			bad = true
		}
	}
	assert.True(t, bad)
}

func TestMatrix4ComposeAppliesScaleRotationTranslation(t *testing.T) {
	q := NewQuaternionFromAxisAngle(Vector3Up, math32.Pi/2)
	m := new(Matrix4).Compose(Vector3{10, 0, 0}, *q, Vector3{2, 2, 2})
	p := NewVector3(1, 0, 0).ApplyMatrix4(m)
	assert.True(t, p.ApproxEquals(Vector3{10, 0, -2}, tolerance), "got %v", *p)
}

func TestMatrix4Perspective(t *testing.T) {
	m := new(Matrix4).Perspective(math32.Pi/2, 1, 1, 100)
	near := NewVector3(0, 0, -1).ApplyMatrix4(m)
	far := NewVector3(0, 0, -100).ApplyMatrix4(m)
	assert.InDelta(t, 0, near[2], tolerance)
	assert.InDelta(t, 1, far[2], 1e-4)
}

func TestMatrix4Orthographic(t *testing.T) {
	m := new(Matrix4).Orthographic(-10, 10, -5, 5, 0.1, 50)
	p := NewVector3(10, -5, -50).ApplyMatrix4(m)
	assert.True(t, p.ApproxEquals(Vector3{1, -1, 1}, 1e-4), "got %v", *p)
	n := NewVector3(-10, 5, -0.1).ApplyMatrix4(m)
	assert.True(t, n.ApproxEquals(Vector3{-1, 1, 0}, 1e-4), "got %v", *n)
}

func TestMatrix4LookAt(t *testing.T) {
	m := new(Matrix4).LookAt(Vector3{0, 0, 5}, Vector3{}, Vector3Up)
	p := NewVector3(0, 0, 0).ApplyMatrix4(m)
	assert.True(t, p.ApproxEquals(Vector3{0, 0, -5}, tolerance))
}

func TestMatrix3NormalMatrix(t *testing.T) {
	m := new(Matrix4).MakeScale(2, 1, 1)
	n := new(Matrix3).NormalMatrix(m)
	v := NewVector3(1, 1, 0).ApplyMatrix3(n).Normalize()
	// A 45 degree surface stretched along x tilts its normal toward y.
	assert.Greater(t, v[1], v[0])

	inv := new(Matrix3).SetFromMatrix4(m)
	inv.Invert()
	require.InDelta(t, 0.5, inv[0], tolerance)
}

func TestMatrix3MultiplyMatchesMatrix4(t *testing.T) {
	a4 := new(Matrix4).MakeRotation(*new(Quaternion).SetFromEuler(0.2, 0.3, 0.4))
	b4 := new(Matrix4).MakeScale(1, 2, 3)
	ab4 := new(Matrix4).MultiplyMatrices(a4, b4)

	a3 := new(Matrix3).SetFromMatrix4(a4)
	b3 := new(Matrix3).SetFromMatrix4(b4)
	ab3 := a3.Multiply(b3)
	assert.True(t, ab3.ApproxEquals(*new(Matrix3).SetFromMatrix4(ab4), tolerance))
}

func TestScratchAccessorsShareStorage(t *testing.T) {
	TmpVector3().Set(1, 2, 3)
	assert.Equal(t, Vector3{1, 2, 3}, *TmpVector3())

	a := Vector3{0, 0, 0}
	a.DistanceSqr(Vector3{9, 9, 9})
	assert.NotEqual(t, Vector3{1, 2, 3}, *TmpVector3(), "scratch is overwritten by package operations")
}
