// Package mesh implements the drawable component attached to scene nodes: a geometry shared through the
// geometry cache, a material value, three texture slots and the per-draw uniform block.
package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/geometry"
	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/Carmen-Shannon/rampart/engine/renderer/geometry_cache"
	"github.com/Carmen-Shannon/rampart/engine/renderer/material"
)

// Texture slot indices.
const (
	SlotAlbedo = iota
	SlotNormal
	SlotRoughness
)

// Frame carries the per-frame values every mesh needs to build its uniform block.
type Frame struct {
	View                linalg.Matrix4
	ViewProjection      linalg.Matrix4
	LightViewProjection linalg.Matrix4
	LightPosition       linalg.Vector3
	LightColor          linalg.Vector3
	Ambient             float32
	ShadowBias          float32
	Shadows             bool
}

type meshImpl struct {
	cache    geometry_cache.Cache
	geometry *geometry.Geometry
	buffers  geometry_cache.Entry
	disposed bool

	material    material.Material
	textures    [renderer.TextureSlotCount]renderer.TextureHandle
	castShadows bool
	cull        renderer.CullMode
	frustumCull bool

	localCenter linalg.Vector3
	localRadius float32

	uniforms [renderer.UniformStride]byte
}

// Mesh draws a geometry with a material.
type Mesh interface {
	// Geometry returns the geometry drawn by this mesh.
	//
	// Returns:
	//   - *geometry.Geometry: the geometry
	Geometry() *geometry.Geometry

	// Material returns a copy of the mesh material.
	//
	// Returns:
	//   - material.Material: the material value
	Material() material.Material

	// SetMaterial replaces the mesh material with a copy of m.
	//
	// Parameters:
	//   - m: the new material
	SetMaterial(m material.Material)

	// Texture returns the texture bound to a slot, zero when empty.
	//
	// Parameters:
	//   - slot: SlotAlbedo, SlotNormal or SlotRoughness
	//
	// Returns:
	//   - renderer.TextureHandle: the bound texture
	Texture(slot int) renderer.TextureHandle

	// SetTexture binds a texture to a slot. Zero empties the slot and disables sampling for it.
	//
	// Parameters:
	//   - slot: SlotAlbedo, SlotNormal or SlotRoughness
	//   - h: the texture to bind
	SetTexture(slot int, h renderer.TextureHandle)

	// SetTextures binds all three slots at once.
	//
	// Parameters:
	//   - slots: albedo, normal and roughness textures
	SetTextures(slots [renderer.TextureSlotCount]renderer.TextureHandle)

	// CastShadows reports whether the mesh is drawn into the shadow map.
	//
	// Returns:
	//   - bool: true when the mesh casts shadows
	CastShadows() bool

	// SetCastShadows enables or disables drawing into the shadow map.
	//
	// Parameters:
	//   - cast: true to cast shadows
	SetCastShadows(cast bool)

	// Cull returns the face culling mode.
	//
	// Returns:
	//   - renderer.CullMode: the cull mode
	Cull() renderer.CullMode

	// SetCull sets the face culling mode. Flat, two-sided geometry uses renderer.CullNone.
	//
	// Parameters:
	//   - mode: the cull mode
	SetCull(mode renderer.CullMode)

	// FrustumCull reports whether the main pass skips this mesh when it is outside the view frustum.
	//
	// Returns:
	//   - bool: true when frustum culling is enabled
	FrustumCull() bool

	// SetFrustumCull enables or disables frustum culling.
	//
	// Parameters:
	//   - cull: true to enable culling
	SetFrustumCull(cull bool)

	// WorldBoundingSphere transforms the geometry's bounding sphere by a world matrix.
	//
	// Parameters:
	//   - world: the owning node's world matrix
	//
	// Returns:
	//   - linalg.Vector3: the world-space center
	//   - float32: the radius scaled by the largest axis scale
	WorldBoundingSphere(world *linalg.Matrix4) (linalg.Vector3, float32)

	// Uniforms builds the uniform block for one draw.
	//
	// Parameters:
	//   - frame: the per-frame camera and light values
	//   - world: the owning node's world matrix
	//
	// Returns:
	//   - GPUObjectUniforms: the populated block
	Uniforms(frame *Frame, world *linalg.Matrix4) GPUObjectUniforms

	// DrawCommand builds the draw for one pass from a populated uniform block. The returned command
	// aliases an internal buffer that is valid until the next DrawCommand call on this mesh.
	//
	// Parameters:
	//   - program: the program to draw with
	//   - uniforms: the block from Uniforms
	//   - transparent: whether to blend and skip depth writes
	//
	// Returns:
	//   - renderer.DrawCommand: the command to pass to Device.Draw
	DrawCommand(program renderer.ProgramHandle, uniforms *GPUObjectUniforms, transparent bool) renderer.DrawCommand

	// Dispose releases the mesh's hold on its cached geometry buffers. A disposed mesh is inert:
	// further calls are no-ops.
	//
	// Returns:
	//   - error: an error if the cache had no entry for the geometry
	Dispose() error

	// Disposed reports whether Dispose has run.
	//
	// Returns:
	//   - bool: true after Dispose
	Disposed() bool
}

var _ Mesh = &meshImpl{}

// NewMesh creates a mesh drawing geom, acquiring its buffers from cache.
//
// Parameters:
//   - cache: the geometry cache of the target device
//   - geom: the geometry to draw
//   - options: functional options to configure the mesh
//
// Returns:
//   - Mesh: the new mesh
//   - error: an error if the geometry could not be uploaded
func NewMesh(cache geometry_cache.Cache, geom *geometry.Geometry, options ...MeshBuilderOption) (Mesh, error) {
	if cache == nil {
		panic("mesh: NewMesh requires a geometry cache")
	}
	if geom == nil {
		panic("mesh: NewMesh requires a geometry")
	}

	m := &meshImpl{
		cache:       cache,
		geometry:    geom,
		material:    material.New(),
		castShadows: true,
		cull:        renderer.CullBack,
		frustumCull: true,
	}
	for _, option := range options {
		option(m)
	}

	entry, err := cache.Acquire(geom)
	if err != nil {
		return nil, fmt.Errorf("failed to create mesh: %w", err)
	}
	m.buffers = entry
	m.localCenter, m.localRadius = geom.BoundingSphere()
	return m, nil
}

func (m *meshImpl) Geometry() *geometry.Geometry {
	return m.geometry
}

func (m *meshImpl) Material() material.Material {
	return m.material
}

func (m *meshImpl) SetMaterial(mat material.Material) {
	m.material = mat
}

func (m *meshImpl) Texture(slot int) renderer.TextureHandle {
	if slot < 0 || slot >= renderer.TextureSlotCount {
		return 0
	}
	return m.textures[slot]
}

func (m *meshImpl) SetTexture(slot int, h renderer.TextureHandle) {
	if slot < 0 || slot >= renderer.TextureSlotCount {
		panic(fmt.Sprintf("mesh: texture slot %d out of range", slot))
	}
	m.textures[slot] = h
}

func (m *meshImpl) SetTextures(slots [renderer.TextureSlotCount]renderer.TextureHandle) {
	m.textures = slots
}

func (m *meshImpl) CastShadows() bool {
	return m.castShadows
}

func (m *meshImpl) SetCastShadows(cast bool) {
	m.castShadows = cast
}

func (m *meshImpl) Cull() renderer.CullMode {
	return m.cull
}

func (m *meshImpl) SetCull(mode renderer.CullMode) {
	m.cull = mode
}

func (m *meshImpl) FrustumCull() bool {
	return m.frustumCull
}

func (m *meshImpl) SetFrustumCull(cull bool) {
	m.frustumCull = cull
}

func (m *meshImpl) WorldBoundingSphere(world *linalg.Matrix4) (linalg.Vector3, float32) {
	center := m.localCenter
	center.ApplyMatrix4(world)
	return center, m.localRadius * world.MaxScale()
}

func (m *meshImpl) Uniforms(frame *Frame, world *linalg.Matrix4) GPUObjectUniforms {
	u := GPUObjectUniforms{
		World:         *world,
		LightViewProj: frame.LightViewProjection,
		LightPosWorld: frame.LightPosition,
		LightColor:    frame.LightColor,
		Ambient:       frame.Ambient,
		ShadowBias:    frame.ShadowBias,
	}

	u.WorldView.MultiplyMatrices(&frame.View, world)
	u.WorldViewProj.MultiplyMatrices(&frame.ViewProjection, world)
	u.NormalWorld.NormalMatrix(world)
	u.ViewRotation.NormalMatrix(&frame.View)

	u.LightPosView = frame.LightPosition
	u.LightPosView.ApplyMatrix4(&frame.View)
	if frame.Shadows {
		u.ShadowEnabled = 1
	}

	var textured [renderer.TextureSlotCount]bool
	for i, h := range m.textures {
		textured[i] = h != 0
	}
	u.Material = m.material.Uniform(textured)
	return u
}

func (m *meshImpl) DrawCommand(program renderer.ProgramHandle, uniforms *GPUObjectUniforms, transparent bool) renderer.DrawCommand {
	uniforms.MarshalInto(m.uniforms[:])
	return renderer.DrawCommand{
		Program:     program,
		Vertices:    m.buffers.Vertices,
		Indices:     m.buffers.Indices,
		IndexCount:  m.buffers.IndexCount,
		Uniforms:    m.uniforms[:GPUObjectUniformsSize],
		Textures:    m.textures,
		Cull:        m.cull,
		Transparent: transparent,
	}
}

func (m *meshImpl) Dispose() error {
	if m.disposed {
		return nil
	}
	m.disposed = true
	return m.cache.Release(m.geometry.ID())
}

func (m *meshImpl) Disposed() bool {
	return m.disposed
}
