// Package geometry holds indexed triangle meshes as flat position/normal/index buffers and the
// procedural generators that build them. Geometry has no UVs: surfaces are textured triplanarly from
// object-space position in the shader.
//
// Every Geometry carries an ID assigned at construction. The renderer's buffer cache keys on that ID,
// so two geometries with identical content still own separate GPU buffers, while any number of meshes
// built from the same *Geometry share one pair.
package geometry

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/rampart/common"
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/chewxy/math32"
)

// ID identifies a Geometry for buffer caching.
type ID uint64

var lastID atomic.Uint64

// NextID returns a fresh, never reused ID.
func NextID() ID {
	return ID(lastID.Add(1))
}

// Geometry is an indexed triangle list. Vertices and Normals hold three floats per vertex and Indices
// three entries per triangle.
//
// The buffers are exported for construction and inspection. Mutating them after a mesh has uploaded the
// geometry does not update the GPU copy; build a new Geometry instead (Transform, Join and FlatShade all
// return new ones).
type Geometry struct {
	id       ID
	Vertices []float32
	Normals  []float32
	Indices  []uint32
}

// New wraps the given buffers in a Geometry with a fresh ID. The slices are not copied.
//
// Parameters:
//   - vertices: xyz positions
//   - normals: xyz normals, parallel to vertices
//   - indices: three vertex indices per triangle
//
// Returns:
//   - *Geometry: the new geometry
func New(vertices, normals []float32, indices []uint32) *Geometry {
	if len(vertices) != len(normals) {
		panic("geometry: New requires one normal per vertex")
	}
	if len(indices)%3 != 0 {
		panic("geometry: New requires three indices per triangle")
	}
	return &Geometry{
		id:       NextID(),
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}
}

func (g *Geometry) ID() ID { return g.id }

func (g *Geometry) VertexCount() int { return len(g.Vertices) / 3 }

func (g *Geometry) TriangleCount() int { return len(g.Indices) / 3 }

// Vertex returns the position of vertex i.
func (g *Geometry) Vertex(i int) linalg.Vector3 {
	return linalg.Vector3{g.Vertices[i*3], g.Vertices[i*3+1], g.Vertices[i*3+2]}
}

// Normal returns the normal of vertex i.
func (g *Geometry) Normal(i int) linalg.Vector3 {
	return linalg.Vector3{g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2]}
}

// Bounds returns the axis-aligned bounding box of the vertex positions. An empty geometry returns two
// zero vectors.
func (g *Geometry) Bounds() (lo, hi linalg.Vector3) {
	if len(g.Vertices) < 3 {
		return lo, hi
	}
	lo = g.Vertex(0)
	hi = lo
	for i := 1; i < g.VertexCount(); i++ {
		v := g.Vertex(i)
		for a := 0; a < 3; a++ {
			lo[a] = math32.Min(lo[a], v[a])
			hi[a] = math32.Max(hi[a], v[a])
		}
	}
	return lo, hi
}

// BoundingSphere returns a sphere around the bounding box center enclosing every vertex.
func (g *Geometry) BoundingSphere() (center linalg.Vector3, radius float32) {
	lo, hi := g.Bounds()
	center = *lo.Clone().Add(hi).MulScalar(0.5)
	var maxSqr float32
	for i := 0; i < g.VertexCount(); i++ {
		v := g.Vertex(i)
		maxSqr = math32.Max(maxSqr, v.DistanceSqr(center))
	}
	return center, math32.Sqrt(maxSqr)
}

// Clone returns a deep copy with a new ID.
func (g *Geometry) Clone() *Geometry {
	return New(
		append([]float32(nil), g.Vertices...),
		append([]float32(nil), g.Normals...),
		append([]uint32(nil), g.Indices...),
	)
}

// Transform returns a copy of g with positions transformed by m and normals by its normal matrix. A
// mirroring m (negative determinant) also reverses each triangle's winding so front faces stay front.
//
// Parameters:
//   - m: the transform to bake into the vertices
//
// Returns:
//   - *Geometry: the transformed copy with a new ID
func (g *Geometry) Transform(m *linalg.Matrix4) *Geometry {
	out := g.Clone()
	var nm linalg.Matrix3
	nm.NormalMatrix(m)
	for i := 0; i < out.VertexCount(); i++ {
		p := out.Vertex(i)
		p.ApplyMatrix4(m)
		copy(out.Vertices[i*3:], p[:])

		n := out.Normal(i)
		n.ApplyMatrix3(&nm).SafeNormalize()
		copy(out.Normals[i*3:], n[:])
	}
	if m.Determinant() < 0 {
		for i := 0; i+2 < len(out.Indices); i += 3 {
			out.Indices[i+1], out.Indices[i+2] = out.Indices[i+2], out.Indices[i+1]
		}
	}
	return out
}

// TransformTRS is Transform with the matrix composed from position, rotation and scale.
func (g *Geometry) TransformTRS(position linalg.Vector3, rotation linalg.Quaternion, scale linalg.Vector3) *Geometry {
	var m linalg.Matrix4
	m.Compose(position, rotation, scale)
	return g.Transform(&m)
}

// FlatShade returns a copy of g in which every triangle owns its three vertices and they all carry the
// face normal, giving a faceted look.
func (g *Geometry) FlatShade() *Geometry {
	tris := g.TriangleCount()
	vertices := make([]float32, 0, tris*9)
	normals := make([]float32, 0, tris*9)
	indices := make([]uint32, 0, tris*3)

	for t := 0; t < tris; t++ {
		a := g.Vertex(int(g.Indices[t*3]))
		b := g.Vertex(int(g.Indices[t*3+1]))
		c := g.Vertex(int(g.Indices[t*3+2]))

		ac := c
		ac.Sub(a)
		n := b
		n.Sub(a).Cross(ac).SafeNormalize()

		for _, v := range [3]linalg.Vector3{a, b, c} {
			indices = append(indices, uint32(len(vertices)/3))
			vertices = append(vertices, v[:]...)
			normals = append(normals, n[:]...)
		}
	}
	return New(vertices, normals, indices)
}

// Join concatenates geometries into one, rebasing indices.
//
// Parameters:
//   - parts: the geometries to merge, in order
//
// Returns:
//   - *Geometry: the merged geometry with a new ID
func Join(parts ...*Geometry) *Geometry {
	var nv, ni int
	for _, p := range parts {
		nv += len(p.Vertices)
		ni += len(p.Indices)
	}
	vertices := make([]float32, 0, nv)
	normals := make([]float32, 0, nv)
	indices := make([]uint32, 0, ni)

	for _, p := range parts {
		base := uint32(len(vertices) / 3)
		vertices = append(vertices, p.Vertices...)
		normals = append(normals, p.Normals...)
		for _, idx := range p.Indices {
			indices = append(indices, idx+base)
		}
	}
	return New(vertices, normals, indices)
}

// VertexData returns positions and normals interleaved as six float32 per vertex, the layout of the
// GPU vertex buffer.
func (g *Geometry) VertexData() []float32 {
	out := make([]float32, 0, len(g.Vertices)*2)
	for i := 0; i < g.VertexCount(); i++ {
		out = append(out, g.Vertices[i*3:i*3+3]...)
		out = append(out, g.Normals[i*3:i*3+3]...)
	}
	return out
}

// VertexBytes and IndexBytes are the raw little-endian upload views of the buffers.
func (g *Geometry) VertexBytes() []byte { return common.SliceToBytes(g.VertexData()) }

func (g *Geometry) IndexBytes() []byte { return common.SliceToBytes(g.Indices) }
