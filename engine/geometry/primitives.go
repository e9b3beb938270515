package geometry

import (
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/chewxy/math32"
)

// All generators center the shape on the origin and wind triangles counter-clockwise seen from outside.

// boxFace describes one side of a unit cube: its outward normal and two in-plane axes with u × v = normal.
type boxFace struct {
	normal, u, v linalg.Vector3
}

var boxFaces = [6]boxFace{
	{normal: linalg.Vector3{1, 0, 0}, u: linalg.Vector3{0, 0, -1}, v: linalg.Vector3{0, 1, 0}},
	{normal: linalg.Vector3{-1, 0, 0}, u: linalg.Vector3{0, 0, 1}, v: linalg.Vector3{0, 1, 0}},
	{normal: linalg.Vector3{0, 1, 0}, u: linalg.Vector3{1, 0, 0}, v: linalg.Vector3{0, 0, -1}},
	{normal: linalg.Vector3{0, -1, 0}, u: linalg.Vector3{1, 0, 0}, v: linalg.Vector3{0, 0, 1}},
	{normal: linalg.Vector3{0, 0, 1}, u: linalg.Vector3{1, 0, 0}, v: linalg.Vector3{0, 1, 0}},
	{normal: linalg.Vector3{0, 0, -1}, u: linalg.Vector3{-1, 0, 0}, v: linalg.Vector3{0, 1, 0}},
}

// Box builds an axis-aligned box with hard edges: four vertices per face so each face has its own normal.
//
// Parameters:
//   - width, height, depth: the full extents along x, y and z
//
// Returns:
//   - *Geometry: 24 vertices, 12 triangles
func Box(width, height, depth float32) *Geometry {
	half := linalg.Vector3{width / 2, height / 2, depth / 2}
	vertices := make([]float32, 0, 24*3)
	normals := make([]float32, 0, 24*3)
	indices := make([]uint32, 0, 36)

	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range boxFaces {
		base := uint32(len(vertices) / 3)
		for _, c := range corners {
			p := f.normal
			p.AddScaled(f.u, c[0]).AddScaled(f.v, c[1]).Mul(half)
			vertices = append(vertices, p[:]...)
			normals = append(normals, f.normal[:]...)
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return New(vertices, normals, indices)
}

// Plane builds a flat, upward facing rectangle in the xz plane.
func Plane(width, depth float32) *Geometry {
	w, d := width/2, depth/2
	return New(
		[]float32{-w, 0, d, w, 0, d, w, 0, -d, -w, 0, -d},
		[]float32{0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0},
		[]uint32{0, 1, 2, 0, 2, 3},
	)
}

// lathe revolves a profile around the y axis. Profile points run from top to bottom as (radius, y) with
// matching (radial, y) normals. Each ring gets segments+1 vertices so the seam has its own pair.
func lathe(profile, profileNormals []linalg.Vector2, segments int) *Geometry {
	rows := len(profile)
	cols := segments + 1
	vertices := make([]float32, 0, rows*cols*3)
	normals := make([]float32, 0, rows*cols*3)

	for i, p := range profile {
		n := profileNormals[i]
		for x := 0; x <= segments; x++ {
			theta := float32(x) / float32(segments) * 2 * math32.Pi
			s, c := math32.Sin(theta), math32.Cos(theta)
			vertices = append(vertices, p[0]*s, p[1], p[0]*c)
			nv := linalg.Vector3{n[0] * s, n[1], n[0] * c}
			nv.SafeNormalize()
			normals = append(normals, nv[:]...)
		}
	}

	indices := make([]uint32, 0, (rows-1)*segments*6)
	for i := 0; i < rows-1; i++ {
		for x := 0; x < segments; x++ {
			a := uint32(i*cols + x)
			b := uint32((i+1)*cols + x)
			c := b + 1
			d := a + 1
			// Rows collapsing to a pole produce one zero-area triangle per quad; skip it.
			if profile[i][0] != 0 {
				indices = append(indices, a, b, d)
			}
			if profile[i+1][0] != 0 {
				indices = append(indices, b, c, d)
			}
		}
	}
	return New(vertices, normals, indices)
}

// Sphere builds a UV sphere.
//
// Parameters:
//   - radius: sphere radius
//   - widthSegments: segments around the equator, at least 3
//   - heightSegments: segments from pole to pole, at least 2
func Sphere(radius float32, widthSegments, heightSegments int) *Geometry {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	profile := make([]linalg.Vector2, 0, heightSegments+1)
	profileNormals := make([]linalg.Vector2, 0, heightSegments+1)
	for i := 0; i <= heightSegments; i++ {
		a := math32.Pi/2 - float32(i)/float32(heightSegments)*math32.Pi
		c, s := math32.Cos(a), math32.Sin(a)
		if i == 0 || i == heightSegments {
			c = 0
		}
		profile = append(profile, linalg.Vector2{radius * c, radius * s})
		profileNormals = append(profileNormals, linalg.Vector2{c, s})
	}
	return lathe(profile, profileNormals, widthSegments)
}

// Cylinder builds a cylinder or truncated cone along y.
//
// Parameters:
//   - radiusTop, radiusBottom: radii at y = +height/2 and y = -height/2
//   - height: total height
//   - radialSegments: segments around the axis, at least 3
//   - capped: whether to close both ends
func Cylinder(radiusTop, radiusBottom, height float32, radialSegments int, capped bool) *Geometry {
	radialSegments = max(radialSegments, 3)
	h := height / 2
	slope := (radiusBottom - radiusTop) / height

	side := lathe(
		[]linalg.Vector2{{radiusTop, h}, {radiusBottom, -h}},
		[]linalg.Vector2{{1, slope}, {1, slope}},
		radialSegments,
	)
	if !capped {
		return side
	}

	parts := []*Geometry{side}
	if radiusTop > 0 {
		parts = append(parts, disc(radiusTop, h, true, radialSegments))
	}
	if radiusBottom > 0 {
		parts = append(parts, disc(radiusBottom, -h, false, radialSegments))
	}
	return Join(parts...)
}

// disc builds a flat cap at height y facing +y when up is set and -y otherwise.
func disc(radius, y float32, up bool, segments int) *Geometry {
	ny := float32(-1)
	if up {
		ny = 1
	}
	vertices := []float32{0, y, 0}
	normals := []float32{0, ny, 0}
	for x := 0; x <= segments; x++ {
		theta := float32(x) / float32(segments) * 2 * math32.Pi
		vertices = append(vertices, radius*math32.Sin(theta), y, radius*math32.Cos(theta))
		normals = append(normals, 0, ny, 0)
	}
	indices := make([]uint32, 0, segments*3)
	for x := 1; x <= segments; x++ {
		if up {
			indices = append(indices, 0, uint32(x), uint32(x+1))
		} else {
			indices = append(indices, 0, uint32(x+1), uint32(x))
		}
	}
	return New(vertices, normals, indices)
}

// Capsule builds a cylinder of the given length capped by two hemispheres along y. The total height is
// length + 2*radius.
//
// Parameters:
//   - radius: radius of the body and caps
//   - length: length of the straight section
//   - capSegments: rings per hemisphere, at least 1
//   - radialSegments: segments around the axis, at least 3
func Capsule(radius, length float32, capSegments, radialSegments int) *Geometry {
	capSegments = max(capSegments, 1)
	radialSegments = max(radialSegments, 3)
	h := length / 2

	profile := make([]linalg.Vector2, 0, capSegments*2+2)
	profileNormals := make([]linalg.Vector2, 0, capSegments*2+2)
	add := func(a, yOffset float32, pole bool) {
		c, s := math32.Cos(a), math32.Sin(a)
		if pole {
			c = 0
		}
		profile = append(profile, linalg.Vector2{radius * c, yOffset + radius*s})
		profileNormals = append(profileNormals, linalg.Vector2{c, s})
	}

	for i := 0; i <= capSegments; i++ {
		a := math32.Pi/2 - float32(i)/float32(capSegments)*math32.Pi/2
		add(a, h, i == 0)
	}
	for i := 0; i <= capSegments; i++ {
		a := -float32(i) / float32(capSegments) * math32.Pi / 2
		add(a, -h, i == capSegments)
	}
	return lathe(profile, profileNormals, radialSegments)
}

// ExtrudedPolygon extrudes a convex polygon drawn in the xz plane upward from y = 0 to y = height. Point
// order may be either winding; the result always faces outward. Caps are triangle fans, so concave
// outlines produce overlapping cap triangles.
//
// Parameters:
//   - points: the outline, (x, z) per point, at least 3
//   - height: extrusion distance along +y
func ExtrudedPolygon(points []linalg.Vector2, height float32) *Geometry {
	if len(points) < 3 {
		panic("geometry: ExtrudedPolygon requires at least 3 points")
	}

	var area float32
	for i := range points {
		p, q := points[i], points[(i+1)%len(points)]
		area += p[0]*q[1] - q[0]*p[1]
	}
	pts := points
	if area > 0 {
		pts = make([]linalg.Vector2, len(points))
		for i, p := range points {
			pts[len(points)-1-i] = p
		}
	}

	n := len(pts)
	var vertices, normals []float32
	var indices []uint32

	// Caps.
	for _, face := range []struct {
		y  float32
		up bool
	}{{height, true}, {0, false}} {
		base := uint32(len(vertices) / 3)
		ny := float32(-1)
		if face.up {
			ny = 1
		}
		for _, p := range pts {
			vertices = append(vertices, p[0], face.y, p[1])
			normals = append(normals, 0, ny, 0)
		}
		for i := 1; i < n-1; i++ {
			if face.up {
				indices = append(indices, base, base+uint32(i), base+uint32(i+1))
			} else {
				indices = append(indices, base, base+uint32(i+1), base+uint32(i))
			}
		}
	}

	// Sides, one quad per edge with its own normal.
	for i := 0; i < n; i++ {
		p, q := pts[i], pts[(i+1)%n]
		normal := linalg.Vector3{-(q[1] - p[1]), 0, q[0] - p[0]}
		normal.SafeNormalize()

		base := uint32(len(vertices) / 3)
		vertices = append(vertices,
			p[0], 0, p[1],
			q[0], 0, q[1],
			q[0], height, q[1],
			p[0], height, p[1],
		)
		for k := 0; k < 4; k++ {
			normals = append(normals, normal[:]...)
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return New(vertices, normals, indices)
}
