package common

import (
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/chewxy/math32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   linalg.Vector3
	Distance float32
}

// SignedDistance returns the distance from p to the plane, positive on the side the normal points to.
func (p Plane) SignedDistance(point linalg.Vector3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts frustum planes from a view-projection matrix using the Gribb/Hartmann method,
// adjusted for the [0, 1] clip depth range the projections in linalg produce.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined projection * view matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(viewProj *linalg.Matrix4) Frustum {
	var f Frustum
	m := viewProj

	// Row i of a column-major matrix is (m[i], m[4+i], m[8+i], m[12+i]).
	row := func(i int) (float32, float32, float32, float32) {
		return m[i], m[4+i], m[8+i], m[12+i]
	}
	r0x, r0y, r0z, r0w := row(0)
	r1x, r1y, r1z, r1w := row(1)
	r2x, r2y, r2z, r2w := row(2)
	r3x, r3y, r3z, r3w := row(3)

	set := func(index int, x, y, z, w float32) {
		f.Planes[index] = Plane{Normal: linalg.Vector3{x, y, z}, Distance: w}
	}

	set(FrustumLeft, r3x+r0x, r3y+r0y, r3z+r0z, r3w+r0w)
	set(FrustumRight, r3x-r0x, r3y-r0y, r3z-r0z, r3w-r0w)
	set(FrustumBottom, r3x+r1x, r3y+r1y, r3z+r1z, r3w+r1w)
	set(FrustumTop, r3x-r1x, r3y-r1y, r3z-r1z, r3w-r1w)
	// Clip depth starts at 0, so the near plane is row2 alone rather than row3 + row2.
	set(FrustumNear, r2x, r2y, r2z, r2w)
	set(FrustumFar, r3x-r2x, r3y-r2y, r3z-r2z, r3w-r2w)

	for i := range f.Planes {
		f.normalizePlane(i)
	}

	return f
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := p.Normal.Length()

	if length > 0 {
		invLen := 1.0 / length
		p.Normal.MulScalar(invLen)
		p.Distance *= invLen
	}
}

// IntersectsSphere reports whether a sphere is at least partially inside the frustum.
//
// Parameters:
//   - center: sphere center in the same space as the view-projection matrix input
//   - radius: sphere radius
//
// Returns:
//   - bool: false only when the sphere lies entirely outside one of the planes
func (f *Frustum) IntersectsSphere(center linalg.Vector3, radius float32) bool {
	for i := range f.Planes {
		if f.Planes[i].SignedDistance(center) < -math32.Abs(radius) {
			return false
		}
	}
	return true
}
