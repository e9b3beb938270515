package spline

import (
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/geometry"
)

// RoadGeometry builds a flat ribbon along points at height y. Each point contributes a left and a right
// vertex offset by widthRadius along GetOffsetDirection, and each pair of consecutive points a quad of
// two upward facing triangles.
//
// Parameters:
//   - points: the road center line, at least two points
//   - widthRadius: half the road width
//   - y: the height of the ribbon
//
// Returns:
//   - *geometry.Geometry: the ribbon
func RoadGeometry(points []linalg.Vector2, widthRadius, y float32) *geometry.Geometry {
	if len(points) < 2 {
		panic("spline: RoadGeometry requires at least two points")
	}

	n := len(points)
	vertices := make([]float32, 0, n*6)
	normals := make([]float32, 0, n*6)
	indices := make([]uint32, 0, (n-1)*6)

	for i, p := range points {
		prev, next := p, p
		if i > 0 {
			prev = points[i-1]
		}
		if i < n-1 {
			next = points[i+1]
		}
		off := GetOffsetDirection(prev, p, next)
		off.MulScalar(widthRadius)
		vertices = append(vertices,
			p[0]+off[0], y, p[1]+off[1],
			p[0]-off[0], y, p[1]-off[1],
		)
		normals = append(normals, 0, 1, 0, 0, 1, 0)
	}

	for i := range n - 1 {
		l0, r0 := uint32(i*2), uint32(i*2+1)
		l1, r1 := l0+2, r0+2
		// Both triangles wind counter-clockwise seen from above.
		indices = append(indices, l0, r0, r1, l0, r1, l1)
	}
	return geometry.New(vertices, normals, indices)
}
