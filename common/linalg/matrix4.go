package linalg

import "github.com/chewxy/math32"

// Matrix4 is a 4x4 float32 matrix in column-major order: element (row r, column c) lives at index c*4+r.
type Matrix4 [16]float32

// Matrix4Identity is the identity matrix.
var Matrix4Identity = Matrix4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// NewMatrix4 allocates an identity Matrix4.
func NewMatrix4() *Matrix4 {
	m := Matrix4Identity
	return &m
}

func (m *Matrix4) Identity() *Matrix4 {
	*m = Matrix4Identity
	return m
}

func (m *Matrix4) Copy(o Matrix4) *Matrix4 {
	*m = o
	return m
}

func (m *Matrix4) Clone() *Matrix4 {
	c := *m
	return &c
}

// Multiply sets m to m * o.
func (m *Matrix4) Multiply(o *Matrix4) *Matrix4 {
	return m.MultiplyMatrices(m, o)
}

// Premultiply sets m to o * m.
func (m *Matrix4) Premultiply(o *Matrix4) *Matrix4 {
	return m.MultiplyMatrices(o, m)
}

// MultiplyMatrices sets m to a * b. Either operand may alias m.
func (m *Matrix4) MultiplyMatrices(a, b *Matrix4) *Matrix4 {
	var buf Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+r] * b[c*4+k]
			}
			buf[c*4+r] = sum
		}
	}
	*m = buf
	return m
}

func (m *Matrix4) Determinant() float32 {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	return s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
}

// Invert sets m to its inverse using cofactor expansion. A singular matrix is not detected: the
// reciprocal of a zero determinant is infinite and the result fills with Inf and NaN.
func (m *Matrix4) Invert() *Matrix4 {
	a := *m

	s0 := a[0]*a[5] - a[4]*a[1]
	s1 := a[0]*a[6] - a[4]*a[2]
	s2 := a[0]*a[7] - a[4]*a[3]
	s3 := a[1]*a[6] - a[5]*a[2]
	s4 := a[1]*a[7] - a[5]*a[3]
	s5 := a[2]*a[7] - a[6]*a[3]

	c5 := a[10]*a[15] - a[14]*a[11]
	c4 := a[9]*a[15] - a[13]*a[11]
	c3 := a[9]*a[14] - a[13]*a[10]
	c2 := a[8]*a[15] - a[12]*a[11]
	c1 := a[8]*a[14] - a[12]*a[10]
	c0 := a[8]*a[13] - a[12]*a[9]

	invDet := 1 / (s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0)

	m[0] = (a[5]*c5 - a[6]*c4 + a[7]*c3) * invDet
	m[1] = (-a[1]*c5 + a[2]*c4 - a[3]*c3) * invDet
	m[2] = (a[13]*s5 - a[14]*s4 + a[15]*s3) * invDet
	m[3] = (-a[9]*s5 + a[10]*s4 - a[11]*s3) * invDet

	m[4] = (-a[4]*c5 + a[6]*c2 - a[7]*c1) * invDet
	m[5] = (a[0]*c5 - a[2]*c2 + a[3]*c1) * invDet
	m[6] = (-a[12]*s5 + a[14]*s2 - a[15]*s1) * invDet
	m[7] = (a[8]*s5 - a[10]*s2 + a[11]*s1) * invDet

	m[8] = (a[4]*c4 - a[5]*c2 + a[7]*c0) * invDet
	m[9] = (-a[0]*c4 + a[1]*c2 - a[3]*c0) * invDet
	m[10] = (a[12]*s4 - a[13]*s2 + a[15]*s0) * invDet
	m[11] = (-a[8]*s4 + a[9]*s2 - a[11]*s0) * invDet

	m[12] = (-a[4]*c3 + a[5]*c1 - a[6]*c0) * invDet
	m[13] = (a[0]*c3 - a[1]*c1 + a[2]*c0) * invDet
	m[14] = (-a[12]*s3 + a[13]*s1 - a[14]*s0) * invDet
	m[15] = (a[8]*s3 - a[9]*s1 + a[10]*s0) * invDet

	return m
}

func (m *Matrix4) Transpose() *Matrix4 {
	m[1], m[4] = m[4], m[1]
	m[2], m[8] = m[8], m[2]
	m[3], m[12] = m[12], m[3]
	m[6], m[9] = m[9], m[6]
	m[7], m[13] = m[13], m[7]
	m[11], m[14] = m[14], m[11]
	return m
}

// Compose sets m to the transform translate(position) * rotate(rotation) * scale(scale).
func (m *Matrix4) Compose(position Vector3, rotation Quaternion, scale Vector3) *Matrix4 {
	x, y, z, w := rotation[0], rotation[1], rotation[2], rotation[3]
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2
	sx, sy, sz := scale[0], scale[1], scale[2]

	m[0] = (1 - (yy + zz)) * sx
	m[1] = (xy + wz) * sx
	m[2] = (xz - wy) * sx
	m[3] = 0

	m[4] = (xy - wz) * sy
	m[5] = (1 - (xx + zz)) * sy
	m[6] = (yz + wx) * sy
	m[7] = 0

	m[8] = (xz + wy) * sz
	m[9] = (yz - wx) * sz
	m[10] = (1 - (xx + yy)) * sz
	m[11] = 0

	m[12] = position[0]
	m[13] = position[1]
	m[14] = position[2]
	m[15] = 1
	return m
}

func (m *Matrix4) MakeTranslation(x, y, z float32) *Matrix4 {
	m.Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

func (m *Matrix4) MakeScale(x, y, z float32) *Matrix4 {
	m.Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

func (m *Matrix4) MakeRotation(q Quaternion) *Matrix4 {
	return m.Compose(Vector3Zero, q, Vector3One)
}

// Perspective sets m to a perspective projection mapping view depth [near, far] to clip depth [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width divided by height
//   - near: near plane distance, must be > 0
//   - far: far plane distance, must be > near
func (m *Matrix4) Perspective(fovY, aspect, near, far float32) *Matrix4 {
	f := 1 / math32.Tan(fovY/2)
	*m = Matrix4{}
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1
	m[14] = near * far / (near - far)
	return m
}

// Orthographic sets m to an orthographic projection of the given view volume, mapping depth [near, far]
// to clip depth [0, 1].
func (m *Matrix4) Orthographic(left, right, bottom, top, near, far float32) *Matrix4 {
	*m = Matrix4{}
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = 1 / (near - far)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = near / (near - far)
	m[15] = 1
	return m
}

// LookAt sets m to a view matrix for an eye at eye looking at center. A degenerate direction or up
// vector falls back to unit length instead of dividing by zero.
func (m *Matrix4) LookAt(eye, center, up Vector3) *Matrix4 {
	z0, z1, z2 := eye[0]-center[0], eye[1]-center[1], eye[2]-center[2]
	l := z0*z0 + z1*z1 + z2*z2
	if l == 0 {
		l = 1
	}
	inv := 1 / math32.Sqrt(l)
	z0, z1, z2 = z0*inv, z1*inv, z2*inv

	x0 := up[1]*z2 - up[2]*z1
	x1 := up[2]*z0 - up[0]*z2
	x2 := up[0]*z1 - up[1]*z0
	l = x0*x0 + x1*x1 + x2*x2
	if l == 0 {
		l = 1
	}
	inv = 1 / math32.Sqrt(l)
	x0, x1, x2 = x0*inv, x1*inv, x2*inv

	y0 := z1*x2 - z2*x1
	y1 := z2*x0 - z0*x2
	y2 := z0*x1 - z1*x0

	m[0], m[4], m[8], m[12] = x0, x1, x2, -(x0*eye[0] + x1*eye[1] + x2*eye[2])
	m[1], m[5], m[9], m[13] = y0, y1, y2, -(y0*eye[0] + y1*eye[1] + y2*eye[2])
	m[2], m[6], m[10], m[14] = z0, z1, z2, -(z0*eye[0] + z1*eye[1] + z2*eye[2])
	m[3], m[7], m[11], m[15] = 0, 0, 0, 1
	return m
}

// Translation returns the translation column of m.
func (m *Matrix4) Translation() Vector3 {
	return Vector3{m[12], m[13], m[14]}
}

// Column returns column c of m as a Vector3, dropping the w row.
func (m *Matrix4) Column(c int) Vector3 {
	return Vector3{m[c*4], m[c*4+1], m[c*4+2]}
}

// MaxScale returns the largest axis scale encoded in the upper 3x3 of m.
func (m *Matrix4) MaxScale() float32 {
	sx := m[0]*m[0] + m[1]*m[1] + m[2]*m[2]
	sy := m[4]*m[4] + m[5]*m[5] + m[6]*m[6]
	sz := m[8]*m[8] + m[9]*m[9] + m[10]*m[10]
	return math32.Sqrt(math32.Max(sx, math32.Max(sy, sz)))
}

func (m *Matrix4) ApproxEquals(o Matrix4, eps float32) bool {
	return approxEqualN(m[:], o[:], eps)
}
