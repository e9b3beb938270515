package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/stretchr/testify/assert"
)

func TestRemapRoughnessIsMonotonic(t *testing.T) {
	prev := RemapRoughness(0)
	for r := float32(0.01); r <= 1; r += 0.01 {
		cur := RemapRoughness(r)
		assert.GreaterOrEqual(t, cur, prev, "r=%v", r)
		prev = cur
	}
	assert.InDelta(t, 1, RemapRoughness(1), 1e-3)
	assert.InDelta(t, 1.05-0.05/0.5, RemapRoughness(0.5), 1e-6)
	assert.Equal(t, RemapRoughness(-1), RemapRoughness(0), "inputs clamp to epsilon")
	assert.False(t, math.IsInf(float64(RemapRoughness(0)), 0))
}

func TestMaterialIsCopiedByValue(t *testing.T) {
	a := New(WithColor([4]float32{1, 0, 0, 1}))
	b := a
	b.Color[0] = 0
	assert.Equal(t, float32(1), a.Color[0])
}

func TestUniformFlagsAndRemap(t *testing.T) {
	m := New(WithRoughness(0.5), WithMetallic(0.7), WithUnlit(),
		WithTextureTransform(linalg.Vector3{2, 2, 2}, linalg.Vector3{0.5, 0, 0}))
	g := m.Uniform([3]bool{true, false, true})

	assert.Equal(t, [3]float32{1, 0, 1}, g.TextureFlags)
	assert.Equal(t, float32(1), g.Unlit)
	assert.Equal(t, float32(0.7), g.Metallic)
	assert.Equal(t, RemapRoughness(0.5), g.Roughness)

	buf := make([]byte, GPUMaterialSize)
	g.MarshalInto(buf)
	at := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(1), at(0))
	assert.Equal(t, float32(2), at(16))
	assert.Equal(t, g.Roughness, at(28))
	assert.Equal(t, float32(0.5), at(32))
	assert.Equal(t, m.BlendSharpness, at(44))
	assert.Equal(t, float32(1), at(48))
	assert.Equal(t, float32(0), at(52))
	assert.Equal(t, float32(1), at(60))
}
