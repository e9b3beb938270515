package mesh

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/renderer/material"
)

// GPUObjectUniformsSize is the byte size of the WGSL ObjectUniforms struct.
const GPUObjectUniformsSize = 480

// GPUObjectUniforms is the per-draw uniform block shared by the lit and shadow programs.
// Matches the WGSL ObjectUniforms struct in object_uniforms.wgsl.
type GPUObjectUniforms struct {
	World         linalg.Matrix4 // offset 0
	WorldView     linalg.Matrix4 // offset 64
	WorldViewProj linalg.Matrix4 // offset 128
	LightViewProj linalg.Matrix4 // offset 192
	NormalWorld   linalg.Matrix3 // offset 256, three padded columns
	ViewRotation  linalg.Matrix3 // offset 304, three padded columns
	LightPosView  linalg.Vector3 // offset 352
	ShadowEnabled float32        // offset 364
	LightPosWorld linalg.Vector3 // offset 368
	Material      material.GPUMaterial
	LightColor    linalg.Vector3 // offset 448
	Ambient       float32        // offset 460
	ShadowBias    float32        // offset 464
}

// Size returns the size of the uniform block in bytes.
//
// Returns:
//   - int: the size of the block in bytes
func (g *GPUObjectUniforms) Size() int {
	return GPUObjectUniformsSize
}

// Marshal serializes the block into a new buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 480-byte buffer ready for GPU upload
func (g *GPUObjectUniforms) Marshal() []byte {
	buf := make([]byte, GPUObjectUniformsSize)
	g.MarshalInto(buf)
	return buf
}

// MarshalInto serializes the block into buf, which must hold at least GPUObjectUniformsSize bytes.
//
// Parameters:
//   - buf: the destination buffer
func (g *GPUObjectUniforms) MarshalInto(buf []byte) {
	putFloats(buf[0:], g.World[:])
	putFloats(buf[64:], g.WorldView[:])
	putFloats(buf[128:], g.WorldViewProj[:])
	putFloats(buf[192:], g.LightViewProj[:])
	normalWorld := g.NormalWorld.Padded()
	putFloats(buf[256:], normalWorld[:])
	viewRotation := g.ViewRotation.Padded()
	putFloats(buf[304:], viewRotation[:])
	putFloats(buf[352:], g.LightPosView[:])
	putFloat(buf[364:], g.ShadowEnabled)
	putFloats(buf[368:], g.LightPosWorld[:])
	putFloat(buf[380:], g.Material.Metallic)
	g.Material.MarshalInto(buf[384 : 384+material.GPUMaterialSize])
	putFloats(buf[448:], g.LightColor[:])
	putFloat(buf[460:], g.Ambient)
	putFloat(buf[464:], g.ShadowBias)
	clear(buf[468:GPUObjectUniformsSize])
}

func putFloat(buf []byte, v float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
}

func putFloats(buf []byte, vs []float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}
