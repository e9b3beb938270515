package linalg

// Matrix3 is a 3x3 float32 matrix in column-major order, used for normal transforms.
type Matrix3 [9]float32

// Matrix3Identity is the identity matrix.
var Matrix3Identity = Matrix3{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// NewMatrix3 allocates an identity Matrix3.
func NewMatrix3() *Matrix3 {
	m := Matrix3Identity
	return &m
}

func (m *Matrix3) Identity() *Matrix3 {
	*m = Matrix3Identity
	return m
}

func (m *Matrix3) Copy(o Matrix3) *Matrix3 {
	*m = o
	return m
}

// SetFromMatrix4 copies the upper-left 3x3 of o into m.
func (m *Matrix3) SetFromMatrix4(o *Matrix4) *Matrix3 {
	m[0], m[1], m[2] = o[0], o[1], o[2]
	m[3], m[4], m[5] = o[4], o[5], o[6]
	m[6], m[7], m[8] = o[8], o[9], o[10]
	return m
}

// NormalMatrix sets m to the inverse transpose of the upper-left 3x3 of o, the matrix that keeps normals
// perpendicular to surfaces under non-uniform scale.
func (m *Matrix3) NormalMatrix(o *Matrix4) *Matrix3 {
	return m.SetFromMatrix4(o).Invert().Transpose()
}

// Multiply sets m to m * o.
func (m *Matrix3) Multiply(o *Matrix3) *Matrix3 {
	return m.MultiplyMatrices(m, o)
}

// Premultiply sets m to o * m.
func (m *Matrix3) Premultiply(o *Matrix3) *Matrix3 {
	return m.MultiplyMatrices(o, m)
}

// MultiplyMatrices sets m to a * b. Either operand may alias m.
func (m *Matrix3) MultiplyMatrices(a, b *Matrix3) *Matrix3 {
	var buf Matrix3
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			buf[c*3+r] = a[r]*b[c*3] + a[3+r]*b[c*3+1] + a[6+r]*b[c*3+2]
		}
	}
	*m = buf
	return m
}

func (m *Matrix3) Determinant() float32 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// Invert sets m to its inverse. Singular input produces Inf and NaN.
func (m *Matrix3) Invert() *Matrix3 {
	a := *m
	invDet := 1 / a.Determinant()

	m[0] = (a[4]*a[8] - a[7]*a[5]) * invDet
	m[1] = (a[7]*a[2] - a[1]*a[8]) * invDet
	m[2] = (a[1]*a[5] - a[4]*a[2]) * invDet
	m[3] = (a[6]*a[5] - a[3]*a[8]) * invDet
	m[4] = (a[0]*a[8] - a[6]*a[2]) * invDet
	m[5] = (a[3]*a[2] - a[0]*a[5]) * invDet
	m[6] = (a[3]*a[7] - a[6]*a[4]) * invDet
	m[7] = (a[6]*a[1] - a[0]*a[7]) * invDet
	m[8] = (a[0]*a[4] - a[3]*a[1]) * invDet
	return m
}

func (m *Matrix3) Transpose() *Matrix3 {
	m[1], m[3] = m[3], m[1]
	m[2], m[6] = m[6], m[2]
	m[5], m[7] = m[7], m[5]
	return m
}

// Padded returns m laid out as three vec4 columns, the std140 layout of a WGSL mat3x3<f32>.
func (m *Matrix3) Padded() [12]float32 {
	return [12]float32{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
	}
}

func (m *Matrix3) ApproxEquals(o Matrix3, eps float32) bool {
	return approxEqualN(m[:], o[:], eps)
}
