package linalg

import "github.com/chewxy/math32"

// Vector2 is a two component float32 vector. The scene uses it for ground plane coordinates (x, z),
// spline control points and normalized screen positions.
type Vector2 [2]float32

// NewVector2 allocates a Vector2 with the given components.
func NewVector2(x, y float32) *Vector2 {
	return &Vector2{x, y}
}

func (v *Vector2) X() float32 { return v[0] }
func (v *Vector2) Y() float32 { return v[1] }

func (v *Vector2) Set(x, y float32) *Vector2 {
	v[0], v[1] = x, y
	return v
}

func (v *Vector2) Copy(o Vector2) *Vector2 {
	*v = o
	return v
}

func (v *Vector2) Clone() *Vector2 {
	c := *v
	return &c
}

func (v *Vector2) Add(o Vector2) *Vector2 {
	addN(v[:], o[:])
	return v
}

func (v *Vector2) Sub(o Vector2) *Vector2 {
	subN(v[:], o[:])
	return v
}

func (v *Vector2) Mul(o Vector2) *Vector2 {
	mulN(v[:], o[:])
	return v
}

func (v *Vector2) Div(o Vector2) *Vector2 {
	divN(v[:], o[:])
	return v
}

func (v *Vector2) AddScalar(s float32) *Vector2 {
	addScalarN(v[:], s)
	return v
}

func (v *Vector2) SubScalar(s float32) *Vector2 {
	addScalarN(v[:], -s)
	return v
}

func (v *Vector2) MulScalar(s float32) *Vector2 {
	mulScalarN(v[:], s)
	return v
}

func (v *Vector2) DivScalar(s float32) *Vector2 {
	mulScalarN(v[:], 1/s)
	return v
}

func (v *Vector2) Dot(o Vector2) float32 {
	return dotN(v[:], o[:])
}

// Cross returns the z component of the 3D cross product of v and o.
func (v *Vector2) Cross(o Vector2) float32 {
	return v[0]*o[1] - v[1]*o[0]
}

// Perpendicular rotates v by 90 degrees counter-clockwise.
func (v *Vector2) Perpendicular() *Vector2 {
	v[0], v[1] = -v[1], v[0]
	return v
}

func (v *Vector2) LengthSqr() float32 {
	return dotN(v[:], v[:])
}

func (v *Vector2) Length() float32 {
	return math32.Sqrt(dotN(v[:], v[:]))
}

func (v *Vector2) Normalize() *Vector2 {
	normalizeN(v[:])
	return v
}

func (v *Vector2) SafeNormalize() *Vector2 {
	safeNormalizeN(v[:])
	return v
}

func (v *Vector2) Lerp(to Vector2, t float32) *Vector2 {
	lerpN(v[:], to[:], t)
	return v
}

func (v *Vector2) Clamp(lo, hi Vector2) *Vector2 {
	clampN(v[:], lo[:], hi[:])
	return v
}

// DistanceSqr returns the squared distance between v and o. It uses the Vector2 scratch value.
func (v *Vector2) DistanceSqr(o Vector2) float32 {
	return tmpVector2.Copy(*v).Sub(o).LengthSqr()
}

func (v *Vector2) Distance(o Vector2) float32 {
	return math32.Sqrt(v.DistanceSqr(o))
}

func (v *Vector2) ApproxEquals(o Vector2, eps float32) bool {
	return approxEqualN(v[:], o[:], eps)
}
