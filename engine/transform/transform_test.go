package transform

import (
	"testing"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestNewIsIdentity(t *testing.T) {
	tr := New()
	assert.Equal(t, linalg.Matrix4Identity, tr.LocalMatrix())
	assert.Equal(t, linalg.Matrix4Identity, tr.InverseLocalMatrix())
}

func TestInverseLocalMatrixMatchesGenericInverse(t *testing.T) {
	tr := New()
	tr.Position.Set(3, -4, 7)
	tr.Rotation.SetFromEuler(0.3, 1.2, -0.8)
	tr.Scale.Set(2, 0.5, 3)

	local := tr.LocalMatrix()
	exact := tr.InverseLocalMatrix()
	generic := local
	generic.Invert()
	assert.True(t, exact.ApproxEquals(generic, 1e-4))

	product := exact
	product.Multiply(&local)
	assert.True(t, product.ApproxEquals(linalg.Matrix4Identity, 1e-4))
}

func TestLookAt(t *testing.T) {
	tr := New()
	tr.Position.Set(0, 0, 0)
	tr.LookAt(linalg.Vector3{0, 0, 10}, linalg.Vector3Up)

	fwd := linalg.Vector3Forward
	fwd.ApplyQuaternion(tr.Rotation)
	assert.True(t, fwd.ApproxEquals(linalg.Vector3{0, 0, 1}, 1e-4), "got %v", fwd)

	before := tr.Rotation
	tr.LookAt(tr.Position, linalg.Vector3Up)
	assert.Equal(t, before, tr.Rotation)
}

func TestReset(t *testing.T) {
	tr := New()
	tr.Position.Set(1, 1, 1)
	tr.Rotation.SetFromAxisAngle(linalg.Vector3Up, math32.Pi)
	tr.Scale.Set(0, 0, 0)
	tr.Reset()
	assert.Equal(t, *New(), *tr)
}
