package light

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/Carmen-Shannon/rampart/engine/renderer/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPlacement struct {
	pos linalg.Vector3
}

func (p fixedPlacement) LocalToWorldMatrix() linalg.Matrix4 {
	var m linalg.Matrix4
	m.MakeTranslation(p.pos[0], p.pos[1], p.pos[2])
	return m
}

func (p fixedPlacement) WorldToLocalMatrix() linalg.Matrix4 {
	var m linalg.Matrix4
	m.MakeTranslation(-p.pos[0], -p.pos[1], -p.pos[2])
	return m
}

func TestShadowTargetSize(t *testing.T) {
	dev := gputest.NewDevice()
	l := NewDirectionalLight()

	h, err := l.ShadowTarget(dev)
	require.NoError(t, err)
	assert.Equal(t, renderer.MaxShadowMapSize, l.ShadowMapSize())
	assert.True(t, dev.Textures[h].Depth)

	again, err := l.ShadowTarget(dev)
	require.NoError(t, err)
	assert.Equal(t, h, again, "the target is created once")

	l.Dispose()
	assert.Empty(t, dev.Textures)
	assert.Zero(t, l.ShadowMapSize())

	small := gputest.NewDevice()
	small.MaxTexture = 512
	_, err = NewDirectionalLight().ShadowTarget(small)
	require.NoError(t, err)
	for _, tex := range small.Textures {
		assert.Equal(t, 512, tex.Size)
	}
}

func TestShadowMapCap(t *testing.T) {
	dev := gputest.NewDevice()
	l := NewDirectionalLight(WithShadowMapCap(1024))
	_, err := l.ShadowTarget(dev)
	require.NoError(t, err)
	assert.Equal(t, 1024, l.ShadowMapSize())

	dev.MaxTexture = 256
	l = NewDirectionalLight(WithShadowMapCap(1024))
	_, err = l.ShadowTarget(dev)
	require.NoError(t, err)
	assert.Equal(t, 256, l.ShadowMapSize(), "the device limit still applies")
}

func TestShadowTargetError(t *testing.T) {
	dev := gputest.NewDevice()
	dev.MaxTexture = 0
	_, err := NewDirectionalLight().ShadowTarget(dev)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, renderer.ErrNoPass))
}

func TestLightSpaceMatrixMapsTargetToCenter(t *testing.T) {
	l := NewDirectionalLight(WithTarget(linalg.Vector3{5, 0, 5}))
	l.Attach(fixedPlacement{linalg.Vector3{25, 50, 25}})

	m := l.LightSpaceMatrix()
	p := linalg.Vector4{5, 0, 5, 1}
	p.ApplyMatrix4(&m)
	assert.InDelta(t, 0, p[0]/p[3], 1e-4)
	assert.InDelta(t, 0, p[1]/p[3], 1e-4)
	assert.Greater(t, p[2]/p[3], float32(0))
	assert.Less(t, p[2]/p[3], float32(1))

	dir := l.Direction()
	assert.InDelta(t, 1, dir.Length(), 1e-5)
	assert.Less(t, dir[1], float32(0), "light shines downward")
}

func TestStraightDownLightIsNotDegenerate(t *testing.T) {
	l := NewDirectionalLight()
	l.Attach(fixedPlacement{linalg.Vector3{0, 100, 0}})
	m := l.LightSpaceMatrix()
	for _, v := range m {
		assert.False(t, math.IsNaN(float64(v)), "NaN in light-space matrix")
	}
	p := linalg.Vector4{0, 0, 0, 1}
	p.ApplyMatrix4(&m)
	assert.InDelta(t, 0, p[0], 1e-4)
	assert.InDelta(t, 0, p[1], 1e-4)
}

func TestColorIncludesIntensity(t *testing.T) {
	l := NewDirectionalLight(WithColor(1, 0.5, 0), WithIntensity(2), WithAmbient(0.1))
	assert.Equal(t, linalg.Vector3{2, 1, 0}, l.Color())
	assert.Equal(t, float32(0.1), l.Ambient())
	l.SetCastsShadows(false)
	assert.False(t, l.CastsShadows())
}
