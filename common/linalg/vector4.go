package linalg

import "github.com/chewxy/math32"

// Vector4 is a four component float32 vector, used for homogeneous coordinates and RGBA colors.
type Vector4 [4]float32

// NewVector4 allocates a Vector4 with the given components.
func NewVector4(x, y, z, w float32) *Vector4 {
	return &Vector4{x, y, z, w}
}

func (v *Vector4) Set(x, y, z, w float32) *Vector4 {
	v[0], v[1], v[2], v[3] = x, y, z, w
	return v
}

func (v *Vector4) Copy(o Vector4) *Vector4 {
	*v = o
	return v
}

func (v *Vector4) Clone() *Vector4 {
	c := *v
	return &c
}

func (v *Vector4) Add(o Vector4) *Vector4 {
	addN(v[:], o[:])
	return v
}

func (v *Vector4) Sub(o Vector4) *Vector4 {
	subN(v[:], o[:])
	return v
}

func (v *Vector4) Mul(o Vector4) *Vector4 {
	mulN(v[:], o[:])
	return v
}

func (v *Vector4) Div(o Vector4) *Vector4 {
	divN(v[:], o[:])
	return v
}

func (v *Vector4) AddScalar(s float32) *Vector4 {
	addScalarN(v[:], s)
	return v
}

func (v *Vector4) SubScalar(s float32) *Vector4 {
	addScalarN(v[:], -s)
	return v
}

func (v *Vector4) MulScalar(s float32) *Vector4 {
	mulScalarN(v[:], s)
	return v
}

func (v *Vector4) DivScalar(s float32) *Vector4 {
	mulScalarN(v[:], 1/s)
	return v
}

func (v *Vector4) Dot(o Vector4) float32 {
	return dotN(v[:], o[:])
}

func (v *Vector4) LengthSqr() float32 {
	return dotN(v[:], v[:])
}

func (v *Vector4) Length() float32 {
	return math32.Sqrt(dotN(v[:], v[:]))
}

func (v *Vector4) Normalize() *Vector4 {
	normalizeN(v[:])
	return v
}

func (v *Vector4) SafeNormalize() *Vector4 {
	safeNormalizeN(v[:])
	return v
}

func (v *Vector4) Lerp(to Vector4, t float32) *Vector4 {
	lerpN(v[:], to[:], t)
	return v
}

func (v *Vector4) Clamp(lo, hi Vector4) *Vector4 {
	clampN(v[:], lo[:], hi[:])
	return v
}

// DistanceSqr returns the squared distance between v and o. It uses the Vector4 scratch value.
func (v *Vector4) DistanceSqr(o Vector4) float32 {
	return tmpVector4.Copy(*v).Sub(o).LengthSqr()
}

// ApplyMatrix4 transforms v by m without a perspective divide.
func (v *Vector4) ApplyMatrix4(m *Matrix4) *Vector4 {
	x, y, z, w := v[0], v[1], v[2], v[3]
	v[0] = m[0]*x + m[4]*y + m[8]*z + m[12]*w
	v[1] = m[1]*x + m[5]*y + m[9]*z + m[13]*w
	v[2] = m[2]*x + m[6]*y + m[10]*z + m[14]*w
	v[3] = m[3]*x + m[7]*y + m[11]*z + m[15]*w
	return v
}

func (v *Vector4) ApproxEquals(o Vector4, eps float32) bool {
	return approxEqualN(v[:], o[:], eps)
}
