package linalg

import "github.com/chewxy/math32"

// Vector3 is a three component float32 vector.
type Vector3 [3]float32

// NewVector3 allocates a Vector3 with the given components.
//
// Parameters:
//   - x, y, z: the vector components
//
// Returns:
//   - *Vector3: the new vector
func NewVector3(x, y, z float32) *Vector3 {
	return &Vector3{x, y, z}
}

// Axis unit vectors. These are values, copy them before mutating.
var (
	Vector3Zero  = Vector3{0, 0, 0}
	Vector3One   = Vector3{1, 1, 1}
	Vector3Right = Vector3{1, 0, 0}
	Vector3Up    = Vector3{0, 1, 0}
	// Vector3Forward points down -Z, the direction cameras look by default.
	Vector3Forward = Vector3{0, 0, -1}
)

func (v *Vector3) X() float32 { return v[0] }
func (v *Vector3) Y() float32 { return v[1] }
func (v *Vector3) Z() float32 { return v[2] }

func (v *Vector3) Set(x, y, z float32) *Vector3 {
	v[0], v[1], v[2] = x, y, z
	return v
}

func (v *Vector3) Copy(o Vector3) *Vector3 {
	*v = o
	return v
}

// Clone returns a newly allocated copy of v.
func (v *Vector3) Clone() *Vector3 {
	c := *v
	return &c
}

func (v *Vector3) Add(o Vector3) *Vector3 {
	addN(v[:], o[:])
	return v
}

func (v *Vector3) Sub(o Vector3) *Vector3 {
	subN(v[:], o[:])
	return v
}

func (v *Vector3) Mul(o Vector3) *Vector3 {
	mulN(v[:], o[:])
	return v
}

func (v *Vector3) Div(o Vector3) *Vector3 {
	divN(v[:], o[:])
	return v
}

func (v *Vector3) AddScalar(s float32) *Vector3 {
	addScalarN(v[:], s)
	return v
}

func (v *Vector3) SubScalar(s float32) *Vector3 {
	addScalarN(v[:], -s)
	return v
}

func (v *Vector3) MulScalar(s float32) *Vector3 {
	mulScalarN(v[:], s)
	return v
}

func (v *Vector3) DivScalar(s float32) *Vector3 {
	mulScalarN(v[:], 1/s)
	return v
}

// AddScaled adds o*s to v.
func (v *Vector3) AddScaled(o Vector3, s float32) *Vector3 {
	v[0] += o[0] * s
	v[1] += o[1] * s
	v[2] += o[2] * s
	return v
}

func (v *Vector3) Negate() *Vector3 {
	mulScalarN(v[:], -1)
	return v
}

func (v *Vector3) Dot(o Vector3) float32 {
	return dotN(v[:], o[:])
}

// Cross sets v to v × o.
func (v *Vector3) Cross(o Vector3) *Vector3 {
	x, y, z := v[0], v[1], v[2]
	v[0] = y*o[2] - z*o[1]
	v[1] = z*o[0] - x*o[2]
	v[2] = x*o[1] - y*o[0]
	return v
}

func (v *Vector3) LengthSqr() float32 {
	return dotN(v[:], v[:])
}

func (v *Vector3) Length() float32 {
	return math32.Sqrt(dotN(v[:], v[:]))
}

// Normalize scales v to unit length. A zero vector becomes NaN; use SafeNormalize when that can happen.
func (v *Vector3) Normalize() *Vector3 {
	normalizeN(v[:])
	return v
}

// SafeNormalize scales v to unit length, or sets it to exactly zero when its length is at most
// SafeNormalizeEpsilon.
func (v *Vector3) SafeNormalize() *Vector3 {
	safeNormalizeN(v[:])
	return v
}

func (v *Vector3) Lerp(to Vector3, t float32) *Vector3 {
	lerpN(v[:], to[:], t)
	return v
}

// Clamp limits each component of v to the matching components of lo and hi.
func (v *Vector3) Clamp(lo, hi Vector3) *Vector3 {
	clampN(v[:], lo[:], hi[:])
	return v
}

// DistanceSqr returns the squared distance between v and o. It uses the Vector3 scratch value.
func (v *Vector3) DistanceSqr(o Vector3) float32 {
	return tmpVector3.Copy(*v).Sub(o).LengthSqr()
}

func (v *Vector3) Distance(o Vector3) float32 {
	return math32.Sqrt(v.DistanceSqr(o))
}

// ApplyQuaternion rotates v by q.
func (v *Vector3) ApplyQuaternion(q Quaternion) *Vector3 {
	x, y, z := v[0], v[1], v[2]
	qx, qy, qz, qw := q[0], q[1], q[2], q[3]

	// t = 2 * cross(q.xyz, v)
	tx := 2 * (qy*z - qz*y)
	ty := 2 * (qz*x - qx*z)
	tz := 2 * (qx*y - qy*x)

	// v + w*t + cross(q.xyz, t)
	v[0] = x + qw*tx + qy*tz - qz*ty
	v[1] = y + qw*ty + qz*tx - qx*tz
	v[2] = z + qw*tz + qx*ty - qy*tx
	return v
}

// ApplyMatrix4 transforms v as a point (w = 1) by m, including the perspective divide.
func (v *Vector3) ApplyMatrix4(m *Matrix4) *Vector3 {
	x, y, z := v[0], v[1], v[2]
	w := m[3]*x + m[7]*y + m[11]*z + m[15]
	v[0] = (m[0]*x + m[4]*y + m[8]*z + m[12]) / w
	v[1] = (m[1]*x + m[5]*y + m[9]*z + m[13]) / w
	v[2] = (m[2]*x + m[6]*y + m[10]*z + m[14]) / w
	return v
}

// TransformDirection transforms v as a direction (w = 0) by the upper 3x3 of m. The result is not normalized.
func (v *Vector3) TransformDirection(m *Matrix4) *Vector3 {
	x, y, z := v[0], v[1], v[2]
	v[0] = m[0]*x + m[4]*y + m[8]*z
	v[1] = m[1]*x + m[5]*y + m[9]*z
	v[2] = m[2]*x + m[6]*y + m[10]*z
	return v
}

func (v *Vector3) ApplyMatrix3(m *Matrix3) *Vector3 {
	x, y, z := v[0], v[1], v[2]
	v[0] = m[0]*x + m[3]*y + m[6]*z
	v[1] = m[1]*x + m[4]*y + m[7]*z
	v[2] = m[2]*x + m[5]*y + m[8]*z
	return v
}

// SetFromMatrixPosition copies the translation column of m into v.
func (v *Vector3) SetFromMatrixPosition(m *Matrix4) *Vector3 {
	v[0], v[1], v[2] = m[12], m[13], m[14]
	return v
}

func (v *Vector3) ApproxEquals(o Vector3, eps float32) bool {
	return approxEqualN(v[:], o[:], eps)
}
