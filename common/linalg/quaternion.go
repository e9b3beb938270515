package linalg

import "github.com/chewxy/math32"

// Quaternion is a rotation stored as (x, y, z, w) with w the scalar part.
type Quaternion [4]float32

// QuaternionIdentity is the rotation that leaves vectors unchanged.
var QuaternionIdentity = Quaternion{0, 0, 0, 1}

// NewQuaternion allocates an identity Quaternion.
func NewQuaternion() *Quaternion {
	q := QuaternionIdentity
	return &q
}

// NewQuaternionFromAxisAngle allocates a Quaternion rotating by angle radians about axis.
//
// Parameters:
//   - axis: the rotation axis, must be unit length
//   - angle: the rotation angle in radians, counter-clockwise looking down the axis
//
// Returns:
//   - *Quaternion: the new rotation
func NewQuaternionFromAxisAngle(axis Vector3, angle float32) *Quaternion {
	return new(Quaternion).SetFromAxisAngle(axis, angle)
}

func (q *Quaternion) X() float32 { return q[0] }
func (q *Quaternion) Y() float32 { return q[1] }
func (q *Quaternion) Z() float32 { return q[2] }
func (q *Quaternion) W() float32 { return q[3] }

func (q *Quaternion) Set(x, y, z, w float32) *Quaternion {
	q[0], q[1], q[2], q[3] = x, y, z, w
	return q
}

func (q *Quaternion) Identity() *Quaternion {
	*q = QuaternionIdentity
	return q
}

func (q *Quaternion) Copy(o Quaternion) *Quaternion {
	*q = o
	return q
}

func (q *Quaternion) Clone() *Quaternion {
	c := *q
	return &c
}

func (q *Quaternion) SetFromAxisAngle(axis Vector3, angle float32) *Quaternion {
	s := math32.Sin(angle / 2)
	q[0], q[1], q[2], q[3] = axis[0]*s, axis[1]*s, axis[2]*s, math32.Cos(angle/2)
	return q
}

// SetFromEuler sets q from Euler angles in radians applied in Y, X, Z order (yaw, pitch, roll).
func (q *Quaternion) SetFromEuler(x, y, z float32) *Quaternion {
	c1, s1 := math32.Cos(x/2), math32.Sin(x/2)
	c2, s2 := math32.Cos(y/2), math32.Sin(y/2)
	c3, s3 := math32.Cos(z/2), math32.Sin(z/2)

	q[0] = s1*c2*c3 + c1*s2*s3
	q[1] = c1*s2*c3 - s1*c2*s3
	q[2] = c1*c2*s3 - s1*s2*c3
	q[3] = c1*c2*c3 + s1*s2*s3
	return q
}

// Multiply sets q to q * o, the rotation o followed by q.
func (q *Quaternion) Multiply(o Quaternion) *Quaternion {
	return q.MultiplyQuaternions(*q, o)
}

// Premultiply sets q to o * q, the rotation q followed by o.
func (q *Quaternion) Premultiply(o Quaternion) *Quaternion {
	return q.MultiplyQuaternions(o, *q)
}

// MultiplyQuaternions sets q to the Hamilton product a * b.
func (q *Quaternion) MultiplyQuaternions(a, b Quaternion) *Quaternion {
	ax, ay, az, aw := a[0], a[1], a[2], a[3]
	bx, by, bz, bw := b[0], b[1], b[2], b[3]

	q[0] = ax*bw + aw*bx + ay*bz - az*by
	q[1] = ay*bw + aw*by + az*bx - ax*bz
	q[2] = az*bw + aw*bz + ax*by - ay*bx
	q[3] = aw*bw - ax*bx - ay*by - az*bz
	return q
}

func (q *Quaternion) Conjugate() *Quaternion {
	q[0], q[1], q[2] = -q[0], -q[1], -q[2]
	return q
}

// Invert sets q to its inverse. For unit quaternions this equals Conjugate.
func (q *Quaternion) Invert() *Quaternion {
	l := dotN(q[:], q[:])
	q.Conjugate()
	mulScalarN(q[:], 1/l)
	return q
}

func (q *Quaternion) Dot(o Quaternion) float32 {
	return dotN(q[:], o[:])
}

func (q *Quaternion) Length() float32 {
	return math32.Sqrt(dotN(q[:], q[:]))
}

func (q *Quaternion) Normalize() *Quaternion {
	l := q.Length()
	if l == 0 {
		return q.Identity()
	}
	mulScalarN(q[:], 1/l)
	return q
}

// Slerp spherically interpolates from q toward to by t, taking the shorter arc.
func (q *Quaternion) Slerp(to Quaternion, t float32) *Quaternion {
	if t <= 0 {
		return q
	}
	if t >= 1 {
		return q.Copy(to)
	}

	cosHalf := q.Dot(to)
	if cosHalf < 0 {
		mulScalarN(to[:], -1)
		cosHalf = -cosHalf
	}
	if cosHalf >= 1 {
		return q
	}

	sqrSinHalf := 1 - cosHalf*cosHalf
	if sqrSinHalf <= 1e-6 {
		lerpN(q[:], to[:], t)
		return q.Normalize()
	}

	sinHalf := math32.Sqrt(sqrSinHalf)
	halfTheta := math32.Atan2(sinHalf, cosHalf)
	ra := math32.Sin((1-t)*halfTheta) / sinHalf
	rb := math32.Sin(t*halfTheta) / sinHalf
	for i := range q {
		q[i] = q[i]*ra + to[i]*rb
	}
	return q
}

// SetFromRotationMatrix sets q from the upper 3x3 of m, which must be a pure rotation.
func (q *Quaternion) SetFromRotationMatrix(m *Matrix4) *Quaternion {
	m11, m12, m13 := m[0], m[4], m[8]
	m21, m22, m23 := m[1], m[5], m[9]
	m31, m32, m33 := m[2], m[6], m[10]

	trace := m11 + m22 + m33
	switch {
	case trace > 0:
		s := 0.5 / math32.Sqrt(trace+1)
		q[3] = 0.25 / s
		q[0] = (m32 - m23) * s
		q[1] = (m13 - m31) * s
		q[2] = (m21 - m12) * s
	case m11 > m22 && m11 > m33:
		s := 2 * math32.Sqrt(1+m11-m22-m33)
		q[3] = (m32 - m23) / s
		q[0] = 0.25 * s
		q[1] = (m12 + m21) / s
		q[2] = (m13 + m31) / s
	case m22 > m33:
		s := 2 * math32.Sqrt(1+m22-m11-m33)
		q[3] = (m13 - m31) / s
		q[0] = (m12 + m21) / s
		q[1] = 0.25 * s
		q[2] = (m23 + m32) / s
	default:
		s := 2 * math32.Sqrt(1+m33-m11-m22)
		q[3] = (m21 - m12) / s
		q[0] = (m13 + m31) / s
		q[1] = (m23 + m32) / s
		q[2] = 0.25 * s
	}
	return q
}

// SetFromUnitVectors sets q to the shortest rotation taking the unit vector from onto the unit vector to.
func (q *Quaternion) SetFromUnitVectors(from, to Vector3) *Quaternion {
	r := from.Dot(to) + 1
	if r < 1e-6 {
		// Opposite vectors: rotate half a turn about any axis orthogonal to from.
		if math32.Abs(from[0]) > math32.Abs(from[2]) {
			q.Set(-from[1], from[0], 0, 0)
		} else {
			q.Set(0, -from[2], from[1], 0)
		}
		return q.Normalize()
	}
	q[0] = from[1]*to[2] - from[2]*to[1]
	q[1] = from[2]*to[0] - from[0]*to[2]
	q[2] = from[0]*to[1] - from[1]*to[0]
	q[3] = r
	return q.Normalize()
}

// LookRotation sets q so that the local -Z axis points along forward with the local +Y axis as close
// to up as possible.
func (q *Quaternion) LookRotation(forward, up Vector3) *Quaternion {
	m := &tmpMatrix4
	m.LookAt(Vector3Zero, forward, up)
	// LookAt builds a view matrix, the inverse of the orientation, so transpose the rotation part.
	m.Transpose()
	return q.SetFromRotationMatrix(m)
}

func (q *Quaternion) ApproxEquals(o Quaternion, eps float32) bool {
	return approxEqualN(q[:], o[:], eps)
}
