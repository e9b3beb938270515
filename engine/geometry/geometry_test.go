package geometry

import (
	"testing"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertOutwardWinding checks that every non-degenerate triangle's winding normal points away from the
// origin, which holds for all the convex shapes built around it.
func assertOutwardWinding(t *testing.T, g *Geometry) {
	t.Helper()
	center, _ := g.BoundingSphere()
	for i := 0; i < g.TriangleCount(); i++ {
		a := g.Vertex(int(g.Indices[i*3]))
		b := g.Vertex(int(g.Indices[i*3+1]))
		c := g.Vertex(int(g.Indices[i*3+2]))
		ac := c
		ac.Sub(a)
		n := b
		n.Sub(a).Cross(ac)
		if n.Length() < 1e-7 {
			continue
		}
		centroid := a
		centroid.Add(b).Add(c).DivScalar(3).Sub(center)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d winds inward", i)
	}
}

func TestBoxBounds(t *testing.T) {
	g := Box(2, 2, 2)
	lo, hi := g.Bounds()
	assert.Equal(t, linalg.Vector3{-1, -1, -1}, lo)
	assert.Equal(t, linalg.Vector3{1, 1, 1}, hi)
	assert.Equal(t, 24, g.VertexCount())
	assert.Equal(t, 12, g.TriangleCount())
	assertOutwardWinding(t, g)
}

func TestBoxNonUniformBounds(t *testing.T) {
	lo, hi := Box(4, 1, 6).Bounds()
	assert.Equal(t, linalg.Vector3{-2, -0.5, -3}, lo)
	assert.Equal(t, linalg.Vector3{2, 0.5, 3}, hi)
}

func TestIDsAreUnique(t *testing.T) {
	a := Box(1, 1, 1)
	b := Box(1, 1, 1)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), a.Clone().ID())
}

func TestSphere(t *testing.T) {
	g := Sphere(3, 16, 12)
	for i := 0; i < g.VertexCount(); i++ {
		v := g.Vertex(i)
		assert.InDelta(t, 3, v.Length(), 1e-4)
		n := g.Normal(i)
		assert.InDelta(t, 1, n.Length(), 1e-4)
	}
	assertOutwardWinding(t, g)
}

func TestCylinderAndCapsuleBounds(t *testing.T) {
	cyl := Cylinder(1, 1, 4, 12, true)
	lo, hi := cyl.Bounds()
	assert.InDelta(t, -2, lo[1], 1e-5)
	assert.InDelta(t, 2, hi[1], 1e-5)
	assertOutwardWinding(t, cyl)

	capsule := Capsule(0.5, 2, 4, 12)
	lo, hi = capsule.Bounds()
	assert.InDelta(t, -1.5, lo[1], 1e-5)
	assert.InDelta(t, 1.5, hi[1], 1e-5)
	assertOutwardWinding(t, capsule)
}

func TestExtrudedPolygonWindsOutwardEitherOrder(t *testing.T) {
	square := []linalg.Vector2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	reversed := []linalg.Vector2{{-1, 1}, {1, 1}, {1, -1}, {-1, -1}}
	for _, pts := range [][]linalg.Vector2{square, reversed} {
		g := ExtrudedPolygon(pts, 2)
		lo, hi := g.Bounds()
		assert.Equal(t, linalg.Vector3{-1, 0, -1}, lo)
		assert.Equal(t, linalg.Vector3{1, 2, 1}, hi)
		// 2 caps with 2 triangles each plus 4 sides with 2 each.
		assert.Equal(t, 12, g.TriangleCount())
		assertOutwardWinding(t, g)
	}
}

func TestTransformMovesVerticesAndRotatesNormals(t *testing.T) {
	g := Box(2, 2, 2)
	q := linalg.NewQuaternionFromAxisAngle(linalg.Vector3Up, math32.Pi/2)
	moved := g.TransformTRS(linalg.Vector3{5, 0, 0}, *q, linalg.Vector3One)

	lo, hi := moved.Bounds()
	assert.True(t, lo.ApproxEquals(linalg.Vector3{4, -1, -1}, 1e-5))
	assert.True(t, hi.ApproxEquals(linalg.Vector3{6, 1, 1}, 1e-5))

	// The +X face normal now points to -Z.
	n := moved.Normal(0)
	assert.True(t, n.ApproxEquals(linalg.Vector3{0, 0, -1}, 1e-5), "got %v", n)

	// The source is untouched.
	lo, _ = g.Bounds()
	assert.Equal(t, linalg.Vector3{-1, -1, -1}, lo)
}

func TestMirroredTransformKeepsFacesOutward(t *testing.T) {
	src := Box(2, 1, 3)
	g := src.TransformTRS(linalg.Vector3{}, linalg.QuaternionIdentity, linalg.Vector3{-1, 1, 1})
	assertOutwardWinding(t, g)
	assert.Equal(t, src.Indices[0], g.Indices[0])
	assert.Equal(t, src.Indices[1], g.Indices[2])
	assert.Equal(t, src.Indices[2], g.Indices[1])

	twice := g.TransformTRS(linalg.Vector3{}, linalg.QuaternionIdentity, linalg.Vector3{1, 1, -1})
	assertOutwardWinding(t, twice)
}

func TestJoinRebasesIndices(t *testing.T) {
	a := Plane(1, 1)
	b := Plane(1, 1)
	j := Join(a, b)
	require.Equal(t, 8, j.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}, j.Indices)
}

func TestFlatShade(t *testing.T) {
	g := Sphere(1, 8, 6).FlatShade()
	assert.Equal(t, g.TriangleCount()*3, g.VertexCount())
	for tri := 0; tri < g.TriangleCount(); tri++ {
		n0 := g.Normal(tri * 3)
		assert.Equal(t, n0, g.Normal(tri*3+1))
		assert.Equal(t, n0, g.Normal(tri*3+2))
	}
	assertOutwardWinding(t, g)
}

func TestVertexDataInterleaves(t *testing.T) {
	g := Plane(2, 2)
	data := g.VertexData()
	require.Len(t, data, g.VertexCount()*6)
	assert.Equal(t, []float32{-1, 0, 1, 0, 1, 0}, data[:6])
	assert.Len(t, g.VertexBytes(), len(data)*4)
	assert.Len(t, g.IndexBytes(), len(g.Indices)*4)
}

func TestNewPanicsOnMismatchedBuffers(t *testing.T) {
	assert.Panics(t, func() { New([]float32{0, 0, 0}, nil, nil) })
	assert.Panics(t, func() { New(nil, nil, []uint32{0, 1}) })
}
