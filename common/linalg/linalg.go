// Package linalg implements the fixed-size vector, quaternion and matrix types used by the scene graph
// and renderer. All types are plain float32 arrays. Arithmetic methods mutate the receiver and return it
// so calls can be chained:
//
//	v := linalg.NewVector3(1, 2, 3)
//	v.Sub(other).MulScalar(0.5).Normalize()
//
// Matrices are stored column-major (WebGPU convention) so a Matrix4 can be written to a uniform buffer
// without reordering.
//
// Each type owns a package-level scratch value, reachable through TmpVector2, TmpVector3, TmpVector4,
// TmpQuaternion, TmpMatrix3 and TmpMatrix4. Scratch values exist to keep hot paths allocation free and
// belong to the render loop goroutine. A scratch value is overwritten by the next operation that uses it,
// including operations inside this package (DistanceSqr uses the Vector3 scratch), so it must be consumed
// before any other call into this package and never stored.
package linalg

import "github.com/chewxy/math32"

// SafeNormalizeEpsilon is the length at or below which SafeNormalize yields the zero vector.
const SafeNormalizeEpsilon = 1e-9

var (
	tmpVector2    Vector2
	tmpVector3    Vector3
	tmpVector4    Vector4
	tmpQuaternion Quaternion
	tmpMatrix3    Matrix3
	tmpMatrix4    Matrix4
)

// TmpVector2 returns the shared Vector2 scratch value. See the package documentation for the aliasing contract.
func TmpVector2() *Vector2 { return &tmpVector2 }

// TmpVector3 returns the shared Vector3 scratch value. See the package documentation for the aliasing contract.
func TmpVector3() *Vector3 { return &tmpVector3 }

// TmpVector4 returns the shared Vector4 scratch value. See the package documentation for the aliasing contract.
func TmpVector4() *Vector4 { return &tmpVector4 }

// TmpQuaternion returns the shared Quaternion scratch value. See the package documentation for the aliasing contract.
func TmpQuaternion() *Quaternion { return &tmpQuaternion }

// TmpMatrix3 returns the shared Matrix3 scratch value. See the package documentation for the aliasing contract.
func TmpMatrix3() *Matrix3 { return &tmpMatrix3 }

// TmpMatrix4 returns the shared Matrix4 scratch value. See the package documentation for the aliasing contract.
func TmpMatrix4() *Matrix4 { return &tmpMatrix4 }

// The helpers below operate on the backing arrays of every vector type so each concrete type only
// forwards to them with v[:].

func addN(dst, src []float32) {
	for i := range dst {
		dst[i] += src[i]
	}
}

func subN(dst, src []float32) {
	for i := range dst {
		dst[i] -= src[i]
	}
}

func mulN(dst, src []float32) {
	for i := range dst {
		dst[i] *= src[i]
	}
}

func divN(dst, src []float32) {
	for i := range dst {
		dst[i] /= src[i]
	}
}

func addScalarN(dst []float32, s float32) {
	for i := range dst {
		dst[i] += s
	}
}

func mulScalarN(dst []float32, s float32) {
	for i := range dst {
		dst[i] *= s
	}
}

func dotN(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func lerpN(dst, to []float32, t float32) {
	for i := range dst {
		dst[i] += (to[i] - dst[i]) * t
	}
}

func clampN(dst, lo, hi []float32) {
	for i := range dst {
		dst[i] = math32.Max(lo[i], math32.Min(hi[i], dst[i]))
	}
}

// normalizeN divides by the length without a zero check, so a zero vector becomes NaN.
func normalizeN(dst []float32) {
	mulScalarN(dst, 1/math32.Sqrt(dotN(dst, dst)))
}

func safeNormalizeN(dst []float32) {
	l := math32.Sqrt(dotN(dst, dst))
	if l <= SafeNormalizeEpsilon {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	mulScalarN(dst, 1/l)
}

func approxEqualN(a, b []float32, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Clamp limits x to the closed range [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, x))
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
