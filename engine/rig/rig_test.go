package rig

import (
	"testing"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/renderer/geometry_cache"
	"github.com/Carmen-Shannon/rampart/engine/renderer/gputest"
	"github.com/Carmen-Shannon/rampart/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHuman(t *testing.T, options ...HumanBuilderOption) Human {
	t.Helper()
	h, err := NewHuman(options...)
	require.NoError(t, err)
	return h
}

func TestHierarchy(t *testing.T) {
	h := newHuman(t)
	for _, j := range skeleton {
		n := h.Joint(j.part)
		require.NotNil(t, n, j.part)
		want := h.Root()
		if j.parent != "" {
			want = h.Joint(j.parent)
		}
		assert.Equal(t, want, n.Parent(), j.part)
	}
	assert.Nil(t, h.Joint("tail"))

	foot := h.Joint(PartFootLeft).WorldPosition()
	hip := h.Joint(PartHipLeft).WorldPosition()
	assert.InDelta(t, hipHeight-2*legSegment, foot[1], 1e-5)
	assert.Greater(t, hip[1], foot[1])
	assert.Greater(t, h.Joint(PartHead).WorldPosition()[1], h.Joint(PartBody).WorldPosition()[1])
}

func TestWalkIntensityBlends(t *testing.T) {
	h := newHuman(t, WithBlendRate(2))
	root := h.Root()

	h.StartWalking()
	assert.True(t, h.Walking())
	root.RunUpdate(0.25)
	assert.InDelta(t, 0.5, h.WalkIntensity(), 1e-6)
	root.RunUpdate(1)
	assert.Equal(t, float32(1), h.WalkIntensity())

	h.StopWalking()
	root.RunUpdate(0.1)
	assert.InDelta(t, 0.8, h.WalkIntensity(), 1e-6)
	root.RunUpdate(5)
	assert.Zero(t, h.WalkIntensity())
}

func TestIdlePoseIsRest(t *testing.T) {
	h := newHuman(t)
	h.Root().RunUpdate(0.3)
	for _, p := range []Part{PartUpperLegLeft, PartLowerLegRight, PartUpperArmLeft} {
		assert.True(t, h.Joint(p).Transform().Rotation.ApproxEquals(linalg.QuaternionIdentity, 1e-6), p)
	}
	assert.Equal(t, skeleton[0].offset, h.Joint(PartBody).Transform().Position)
}

func TestWalkSwingsLegsInOpposition(t *testing.T) {
	h := newHuman(t, WithBlendRate(100), WithStrideRate(1))
	h.StartWalking()
	h.Root().RunUpdate(0.2)

	left := h.Joint(PartUpperLegLeft).Transform().Rotation
	right := h.Joint(PartUpperLegRight).Transform().Rotation
	assert.False(t, left.ApproxEquals(linalg.QuaternionIdentity, 1e-3))
	// The right leg runs half a cycle behind, so it mirrors the left about the rest pose.
	assert.InDelta(t, left[0], -right[0], 1e-5)
	assert.InDelta(t, left[3], right[3], 1e-5)
}

func TestPulse(t *testing.T) {
	assert.Zero(t, Pulse(0, 0.5))
	assert.InDelta(t, 1, Pulse(0.25, 0.5), 1e-6)
	assert.InDelta(t, 1, Pulse(3.25, 0.5), 1e-5, "periodic")
	assert.Zero(t, Pulse(0.75, 0.5))
	assert.Zero(t, Pulse(0.3, 0))
	for _, x := range []float32{0.05, 0.1, 0.2, 0.4, 0.45} {
		v := Pulse(x, 0.5)
		assert.True(t, v >= 0 && v <= 1, "Pulse(%v) = %v", x, v)
	}
}

func TestAttackRemovesItself(t *testing.T) {
	h := newHuman(t)
	arm := h.Joint(PartUpperArmRight)

	h.Attack(0.5)
	assert.True(t, h.Attacking())
	h.Root().RunUpdate(0.2)
	assert.False(t, arm.Transform().Rotation.ApproxEquals(linalg.QuaternionIdentity, 1e-3), "arm is raised mid swing")

	h.Root().RunUpdate(0.2)
	h.Root().RunUpdate(0.2)
	assert.False(t, h.Attacking())
	assert.True(t, arm.Transform().Rotation.ApproxEquals(linalg.QuaternionIdentity, 1e-6))

	h.Root().RunUpdate(0.2)
	assert.True(t, arm.Transform().Rotation.ApproxEquals(linalg.QuaternionIdentity, 1e-6), "no swing after removal")
}

func TestAttackRestarts(t *testing.T) {
	h := newHuman(t)
	h.Attack(1)
	h.Root().RunUpdate(0.8)
	h.Attack(1)
	h.Root().RunUpdate(0.8)
	assert.True(t, h.Attacking())
	h.Root().RunUpdate(0.3)
	assert.False(t, h.Attacking())
}

func TestMeshesShareGeometry(t *testing.T) {
	dev := gputest.NewDevice()
	cache := geometry_cache.NewCache(dev)
	a := newHuman(t, WithMeshes(cache, material.New()))
	b := newHuman(t, WithMeshes(cache, material.New(material.WithColor([4]float32{1, 0, 0, 1}))))

	assert.NotNil(t, a.Joint(PartHead).Mesh())
	assert.Nil(t, a.Joint(PartHipLeft).Mesh())
	legs := a.Joint(PartUpperLegLeft).Mesh().Geometry().ID()
	assert.Equal(t, 8, cache.Uses(legs))
	assert.Equal(t, b.Joint(PartLowerLegRight).Mesh().Geometry(), a.Joint(PartUpperLegLeft).Mesh().Geometry())

	require.NoError(t, a.Root().Dispose())
	require.NoError(t, b.Root().Dispose())
	assert.Zero(t, cache.Len())
	assert.Empty(t, dev.Buffers)
}
