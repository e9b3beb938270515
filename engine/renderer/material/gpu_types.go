package material

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/rampart/common/linalg"
)

// GPUMaterialSize is the byte size of the material section of the object uniform block.
const GPUMaterialSize = 64

// GPUMaterial is the material section of the WGSL ObjectUniforms struct, from color through unlit.
// Scalars ride in the padding slot after each vec3.
type GPUMaterial struct {
	Color          [4]float32     // offset 0
	TextureScale   linalg.Vector3 // offset 16
	Roughness      float32        // offset 28, remapped
	TextureOffset  linalg.Vector3 // offset 32
	BlendSharpness float32        // offset 44
	TextureFlags   [3]float32     // offset 48: albedo, normal, roughness
	Unlit          float32        // offset 60

	// Metallic lives earlier in the object block, in the slot after the world light position.
	Metallic float32
}

// MarshalInto writes the 64-byte material section into buf, which must hold at least
// GPUMaterialSize bytes. Metallic is not part of this section.
//
// Parameters:
//   - buf: destination slice positioned at the section start
func (g *GPUMaterial) MarshalInto(buf []byte) {
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}
	for i, v := range g.Color {
		put(i*4, v)
	}
	for i := range 3 {
		put(16+i*4, g.TextureScale[i])
		put(32+i*4, g.TextureOffset[i])
		put(48+i*4, g.TextureFlags[i])
	}
	put(28, g.Roughness)
	put(44, g.BlendSharpness)
	put(60, g.Unlit)
}
