// Package transform holds the position, rotation and scale triple owned by every scene node.
package transform

import "github.com/Carmen-Shannon/rampart/common/linalg"

// Transform is a translate-rotate-scale triple. Matrices are rebuilt from the fields on every call, so
// callers mutate the fields directly:
//
//	t.Position.Add(velocity)
//	t.Rotation.Multiply(spin)
type Transform struct {
	Position linalg.Vector3
	Rotation linalg.Quaternion
	Scale    linalg.Vector3
}

// New returns an identity Transform: zero position, identity rotation, unit scale.
func New() *Transform {
	return &Transform{
		Rotation: linalg.QuaternionIdentity,
		Scale:    linalg.Vector3One,
	}
}

// Reset restores the identity transform.
func (t *Transform) Reset() *Transform {
	t.Position = linalg.Vector3Zero
	t.Rotation = linalg.QuaternionIdentity
	t.Scale = linalg.Vector3One
	return t
}

// LocalMatrix returns translate(Position) * rotate(Rotation) * scale(Scale).
func (t *Transform) LocalMatrix() linalg.Matrix4 {
	var m linalg.Matrix4
	m.Compose(t.Position, t.Rotation, t.Scale)
	return m
}

// InverseLocalMatrix returns the exact inverse of LocalMatrix built as
// scale(1/Scale) * rotate(conjugate(Rotation)) * translate(-Position).
//
// The composition is only valid for this translate-rotate-scale form and requires a unit quaternion.
// A zero scale component yields Inf, the same degenerate case a generic inverse would hit.
func (t *Transform) InverseLocalMatrix() linalg.Matrix4 {
	var s, r, tr linalg.Matrix4
	s.MakeScale(1/t.Scale[0], 1/t.Scale[1], 1/t.Scale[2])
	inv := t.Rotation
	inv.Conjugate()
	r.MakeRotation(inv)
	tr.MakeTranslation(-t.Position[0], -t.Position[1], -t.Position[2])
	return *s.Multiply(&r).Multiply(&tr)
}

// LookAt rotates the transform so its local -Z axis points from Position toward target.
//
// Parameters:
//   - target: the point to face
//   - up: the reference up direction, usually linalg.Vector3Up
func (t *Transform) LookAt(target, up linalg.Vector3) *Transform {
	dir := target
	dir.Sub(t.Position)
	if dir.LengthSqr() == 0 {
		return t
	}
	t.Rotation.LookRotation(*dir.Normalize(), up)
	return t
}
