package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/geometry"
	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/Carmen-Shannon/rampart/engine/renderer/geometry_cache"
	"github.com/Carmen-Shannon/rampart/engine/renderer/gputest"
	"github.com/Carmen-Shannon/rampart/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestMeshesShareGeometryBuffers(t *testing.T) {
	dev := gputest.NewDevice()
	cache := geometry_cache.NewCache(dev)
	box := geometry.Box(1, 1, 1)

	a, err := NewMesh(cache, box)
	require.NoError(t, err)
	b, err := NewMesh(cache, box, WithCull(renderer.CullNone))
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Uses(box.ID()))

	require.NoError(t, a.Dispose())
	require.NoError(t, a.Dispose(), "a disposed mesh is inert")
	assert.Equal(t, 1, cache.Uses(box.ID()))
	assert.True(t, a.Disposed())

	require.NoError(t, b.Dispose())
	assert.Zero(t, cache.Len())
	assert.Empty(t, dev.Buffers)
}

func TestMaterialIsCopiedIntoMesh(t *testing.T) {
	cache := geometry_cache.NewCache(gputest.NewDevice())
	mat := material.New(material.WithColor([4]float32{1, 0, 0, 1}))

	a, err := NewMesh(cache, geometry.Box(1, 1, 1), WithMaterial(mat))
	require.NoError(t, err)
	b, err := NewMesh(cache, geometry.Box(1, 1, 1), WithMaterial(mat))
	require.NoError(t, err)

	m := a.Material()
	m.Color[1] = 1
	a.SetMaterial(m)
	assert.Equal(t, float32(0), b.Material().Color[1])
}

func TestUniformLayout(t *testing.T) {
	cache := geometry_cache.NewCache(gputest.NewDevice())
	mesh, err := NewMesh(cache, geometry.Box(1, 1, 1),
		WithMaterial(material.New(material.WithMetallic(0.25), material.WithRoughness(0.5))),
		WithTextures([renderer.TextureSlotCount]renderer.TextureHandle{7, 0, 9}))
	require.NoError(t, err)

	var world linalg.Matrix4
	world.MakeTranslation(1, 2, 3)
	var view linalg.Matrix4
	view.MakeTranslation(0, 0, -10)
	frame := &Frame{
		View:           view,
		ViewProjection: view,
		LightPosition:  linalg.Vector3{0, 50, 0},
		LightColor:     linalg.Vector3{1, 0.9, 0.8},
		Ambient:        0.2,
		ShadowBias:     0.001,
		Shadows:        true,
	}
	frame.LightViewProjection.Identity()

	u := mesh.Uniforms(frame, &world)
	assert.Equal(t, linalg.Vector3{0, 50, -10}, u.LightPosView)
	assert.Equal(t, linalg.Vector3{1, 2, -7}, u.WorldView.Translation())

	cmd := mesh.DrawCommand(5, &u, false)
	require.Len(t, cmd.Uniforms, GPUObjectUniformsSize)
	assert.Equal(t, renderer.ProgramHandle(5), cmd.Program)
	assert.Equal(t, uint32(36), cmd.IndexCount)
	assert.Equal(t, renderer.CullBack, cmd.Cull)

	buf := cmd.Uniforms
	assert.Equal(t, float32(1), floatAt(buf, 48), "world translation x")
	assert.Equal(t, float32(-7), floatAt(buf, 64+56), "world-view translation z")
	assert.Equal(t, float32(1), floatAt(buf, 256), "normal matrix column 0")
	assert.Equal(t, float32(0), floatAt(buf, 268), "mat3 column padding")
	assert.Equal(t, float32(50), floatAt(buf, 356))
	assert.Equal(t, float32(1), floatAt(buf, 364), "shadow toggle")
	assert.Equal(t, float32(0.25), floatAt(buf, 380), "metallic")
	assert.Equal(t, material.RemapRoughness(0.5), floatAt(buf, 412))
	assert.Equal(t, float32(1), floatAt(buf, 432), "albedo slot bound")
	assert.Equal(t, float32(0), floatAt(buf, 436), "normal slot empty")
	assert.Equal(t, float32(1), floatAt(buf, 440), "roughness slot bound")
	assert.Equal(t, float32(0.9), floatAt(buf, 452))
	assert.Equal(t, float32(0.2), floatAt(buf, 460))
	assert.Equal(t, float32(0.001), floatAt(buf, 464))
}

func TestWorldBoundingSphere(t *testing.T) {
	cache := geometry_cache.NewCache(gputest.NewDevice())
	mesh, err := NewMesh(cache, geometry.Sphere(1, 16, 8))
	require.NoError(t, err)

	var world linalg.Matrix4
	world.Compose(linalg.Vector3{5, 0, 0}, linalg.QuaternionIdentity, linalg.Vector3{1, 3, 1})
	center, radius := mesh.WorldBoundingSphere(&world)
	assert.True(t, center.ApproxEquals(linalg.Vector3{5, 0, 0}, 1e-4))
	assert.InDelta(t, 3, radius, 1e-3)
}

func TestSetTexturePanicsOnBadSlot(t *testing.T) {
	cache := geometry_cache.NewCache(gputest.NewDevice())
	mesh, err := NewMesh(cache, geometry.Box(1, 1, 1))
	require.NoError(t, err)
	assert.Panics(t, func() { mesh.SetTexture(3, 1) })
	assert.Zero(t, mesh.Texture(-1))
}
