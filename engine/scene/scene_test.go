package scene

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/camera"
	"github.com/Carmen-Shannon/rampart/engine/geometry"
	"github.com/Carmen-Shannon/rampart/engine/light"
	"github.com/Carmen-Shannon/rampart/engine/node"
	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/Carmen-Shannon/rampart/engine/renderer/gputest"
	"github.com/Carmen-Shannon/rampart/engine/renderer/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, options ...SceneBuilderOption) (Scene, *gputest.Device) {
	t.Helper()
	dev := gputest.NewDevice()
	s, err := NewScene(dev, options...)
	require.NoError(t, err)
	return s, dev
}

// drawnZ reads the world translation z out of the uniform block of each draw.
func drawnZ(draws []renderer.DrawCommand) []float32 {
	out := make([]float32, len(draws))
	for i, d := range draws {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(d.Uniforms[56:60]))
	}
	return out
}

func addCamera(s Scene, pos linalg.Vector3) camera.Camera {
	cam := camera.NewCamera()
	s.Add(node.NewNode(node.WithName("camera"), node.WithPosition(pos), node.WithCamera(cam)))
	return cam
}

func addBox(t *testing.T, s Scene, pos linalg.Vector3, options ...node.NodeBuilderOption) node.Node {
	t.Helper()
	m, err := s.NewMesh(geometry.Box(1, 1, 1))
	require.NoError(t, err)
	n := node.NewNode(append([]node.NodeBuilderOption{node.WithPosition(pos), node.WithMesh(m)}, options...)...)
	s.Add(n)
	return n
}

func TestNewSceneCompilesPrograms(t *testing.T) {
	s, dev := newTestScene(t)
	assert.Len(t, dev.Programs, 2)
	assert.Equal(t, "scene", s.Root().Name())

	require.NoError(t, s.Dispose())
	assert.Empty(t, dev.Programs)
}

func TestNewSceneProgramFailure(t *testing.T) {
	dev := gputest.NewDevice()
	dev.ProgramErr = errors.New("bad shader")
	s, err := NewScene(dev)
	if renderer.DebugChecks {
		assert.Error(t, err)
		assert.Nil(t, s)
		return
	}
	require.NoError(t, err)
	addCamera(s, linalg.Vector3{0, 0, 10})
	addBox(t, s, linalg.Vector3{})
	require.NoError(t, s.Render())
	for _, p := range dev.Passes {
		assert.Empty(t, p.Draws, "draws through an invalid program are dropped")
	}
}

func TestNewScenePanicsWithoutDevice(t *testing.T) {
	assert.Panics(t, func() { _, _ = NewScene(nil) })
}

func TestFixedUpdateIsDeterministic(t *testing.T) {
	splits := [][]float32{
		{10.0 / 60},
		{1.0 / 60, 1.0 / 60, 1.0 / 60, 1.0 / 60, 1.0 / 60, 1.0 / 60, 1.0 / 60, 1.0 / 60, 1.0 / 60, 1.0 / 60},
		{0.5 / 60, 3.5 / 60, 2.25 / 60, 3.75 / 60},
		{7.3 / 60, 2.7 / 60},
	}
	for _, deltas := range splits {
		s, _ := newTestScene(t)
		var fixed, updates int
		s.Root().OnFixedUpdate(func(step float32) node.CallbackResult {
			assert.Equal(t, DefaultFixedStep, step)
			fixed++
			return node.Continue
		})
		s.Root().OnUpdate(func(float32) node.CallbackResult {
			updates++
			return node.Continue
		})

		total := 0
		for _, dt := range deltas {
			total += s.UpdateScene(dt)
		}
		assert.Equal(t, 10, total, "deltas %v", deltas)
		assert.Equal(t, 10, fixed)
		assert.Equal(t, len(deltas), updates)
	}
}

func TestFixedUpdateCapDropsExcess(t *testing.T) {
	s, _ := newTestScene(t)
	var fixed int
	s.Root().OnFixedUpdate(func(float32) node.CallbackResult {
		fixed++
		return node.Continue
	})

	assert.Equal(t, 10, s.UpdateScene(1))
	assert.Equal(t, 10, fixed)
	assert.Zero(t, s.UpdateScene(0), "excess time is not caught up")
	assert.Zero(t, s.UpdateScene(0.5/60))
	assert.Equal(t, 1, s.UpdateScene(0.5/60))
}

func TestFixedStepOptions(t *testing.T) {
	s, _ := newTestScene(t, WithFixedStep(0.1), WithMaxFixedSteps(3))
	assert.Equal(t, 2, s.UpdateScene(0.25))
	assert.Equal(t, 3, s.UpdateScene(5))
}

func TestFixedUpdateRemove(t *testing.T) {
	s, _ := newTestScene(t)
	var once, always int
	n := node.NewNode()
	s.Add(n)
	n.OnFixedUpdate(func(float32) node.CallbackResult {
		once++
		return node.Remove
	})
	n.OnFixedUpdate(func(float32) node.CallbackResult {
		always++
		return node.Continue
	})

	s.UpdateScene(3.0 / 60)
	assert.Equal(t, 1, once)
	assert.Equal(t, 3, always)
}

func TestDispatchOrderAndLateChildren(t *testing.T) {
	s, _ := newTestScene(t)
	a := node.NewNode(node.WithName("a"))
	b := node.NewNode(node.WithName("b"))
	a1 := node.NewNode(node.WithName("a1"))
	s.Add(a, b)
	a.Add(a1)

	var visited []string
	record := func(n node.Node) {
		n.OnUpdate(func(float32) node.CallbackResult {
			visited = append(visited, n.Name())
			return node.Continue
		})
	}
	for _, n := range []node.Node{a, a1, b} {
		record(n)
	}

	late := node.NewNode(node.WithName("late"))
	record(late)
	b.OnUpdate(func(float32) node.CallbackResult {
		a.Add(late)
		return node.Remove
	})

	s.UpdateScene(0)
	assert.Equal(t, []string{"a", "a1", "b"}, visited, "a was snapshotted before late was added")

	visited = nil
	s.UpdateScene(0)
	assert.Equal(t, []string{"a", "a1", "late", "b"}, visited)
}

func TestDisposeDuringUpdateSkipsSubtree(t *testing.T) {
	s, _ := newTestScene(t)
	a := node.NewNode()
	b := node.NewNode()
	child := node.NewNode()
	s.Add(a, b)
	b.Add(child)

	var childRuns int
	child.OnUpdate(func(float32) node.CallbackResult {
		childRuns++
		return node.Continue
	})
	a.OnUpdate(func(float32) node.CallbackResult {
		require.NoError(t, b.Dispose())
		return node.Remove
	})

	s.UpdateScene(0)
	assert.Zero(t, childRuns)
	assert.Len(t, s.Root().Children(), 1)
}

func TestRenderRequiresCamera(t *testing.T) {
	s, dev := newTestScene(t)
	addBox(t, s, linalg.Vector3{})
	assert.Error(t, s.Render())
	assert.Zero(t, dev.Presents)
}

func TestRenderPasses(t *testing.T) {
	s, dev := newTestScene(t)
	addCamera(s, linalg.Vector3{0, 0, 10})
	sun := light.NewDirectionalLight()
	s.Add(node.NewNode(node.WithPosition(linalg.Vector3{10, 20, 10}), node.WithLight(sun)))

	addBox(t, s, linalg.Vector3{0, 0, 0})
	hidden := addBox(t, s, linalg.Vector3{1, 0, 0})
	hidden.SetVisible(false)
	noShadow := addBox(t, s, linalg.Vector3{-1, 0, 0})
	noShadow.Mesh().SetCastShadows(false)

	require.NoError(t, s.Render())
	assert.Equal(t, 1, dev.Presents)

	shadow := dev.PassesOf(renderer.PassKindShadow)
	main := dev.PassesOf(renderer.PassKindMain)
	require.Len(t, shadow, 1)
	require.Len(t, main, 1)
	assert.Equal(t, renderer.PassKindShadow, dev.Passes[0].Desc.Kind, "shadow pass runs first")

	target, err := sun.ShadowTarget(dev)
	require.NoError(t, err)
	assert.Equal(t, target, shadow[0].Desc.Target)
	assert.Equal(t, target, main[0].Desc.ShadowMap)
	assert.Equal(t, renderer.ShadowMapSize(dev), dev.Textures[target].Size)

	assert.Len(t, shadow[0].Draws, 2, "invisible meshes still cast shadows")
	assert.Len(t, main[0].Draws, 2)
	for _, d := range main[0].Draws {
		assert.Equal(t, renderer.CullBack, d.Cull)
		assert.Len(t, d.Uniforms, mesh.GPUObjectUniformsSize)
	}
}

func TestRenderWithoutShadows(t *testing.T) {
	s, dev := newTestScene(t)
	addCamera(s, linalg.Vector3{0, 0, 10})
	s.Add(node.NewNode(node.WithLight(light.NewDirectionalLight(light.WithCastsShadows(false)))))
	addBox(t, s, linalg.Vector3{})

	require.NoError(t, s.Render())
	assert.Empty(t, dev.PassesOf(renderer.PassKindShadow))
	main := dev.PassesOf(renderer.PassKindMain)
	require.Len(t, main, 1)
	assert.Zero(t, main[0].Desc.ShadowMap)
	assert.Equal(t, s.ClearColor(), main[0].Desc.ClearColor)
}

func TestRenderSortsOpaqueNearFirstTransparentFarFirst(t *testing.T) {
	s, dev := newTestScene(t)
	addCamera(s, linalg.Vector3{0, 0, 10})
	addBox(t, s, linalg.Vector3{0, 0, -5})
	addBox(t, s, linalg.Vector3{0, 0, 5})
	addBox(t, s, linalg.Vector3{0, 0, 0})
	addBox(t, s, linalg.Vector3{0, 0, 4}, node.WithTransparent())
	addBox(t, s, linalg.Vector3{0, 0, -4}, node.WithTransparent())
	addBox(t, s, linalg.Vector3{0, 0, -8}, node.WithRenderOrder(-1))

	require.NoError(t, s.Render())
	main := dev.PassesOf(renderer.PassKindMain)
	require.Len(t, main, 1)
	draws := main[0].Draws
	assert.Equal(t, []float32{-8, 5, 0, -5, -4, 4}, drawnZ(draws))
	for i, d := range draws {
		assert.Equal(t, i >= 4, d.Transparent)
	}
}

func TestRenderFrustumCulls(t *testing.T) {
	s, dev := newTestScene(t)
	addCamera(s, linalg.Vector3{0, 0, 10})
	addBox(t, s, linalg.Vector3{0, 0, 0})
	addBox(t, s, linalg.Vector3{0, 0, 30})
	behind := addBox(t, s, linalg.Vector3{0, 0, 40})
	behind.Mesh().SetFrustumCull(false)

	require.NoError(t, s.Render())
	main := dev.PassesOf(renderer.PassKindMain)
	require.Len(t, main, 1)
	assert.ElementsMatch(t, []float32{0, 40}, drawnZ(main[0].Draws))
}

func TestRenderNestedWorldMatrices(t *testing.T) {
	s, dev := newTestScene(t)
	addCamera(s, linalg.Vector3{0, 0, 10})
	group := node.NewNode(node.WithPosition(linalg.Vector3{0, 0, -3}))
	s.Add(group)
	m, err := s.NewMesh(geometry.Box(1, 1, 1))
	require.NoError(t, err)
	group.Add(node.NewNode(node.WithPosition(linalg.Vector3{0, 0, -2}), node.WithMesh(m)))

	require.NoError(t, s.Render())
	main := dev.PassesOf(renderer.PassKindMain)
	require.Len(t, main, 1)
	assert.Equal(t, []float32{-5}, drawnZ(main[0].Draws))
}

func TestAfterRenderSeesCachedViewProjection(t *testing.T) {
	s, _ := newTestScene(t)
	cam := addCamera(s, linalg.Vector3{0, 0, 10})

	var runs int
	var screen linalg.Vector2
	var ok bool
	s.Root().OnAfterRender(func() node.CallbackResult {
		runs++
		screen, ok = cam.ScreenPosition(linalg.Vector3{})
		return node.Continue
	})

	require.NoError(t, s.Render())
	require.NoError(t, s.Render())
	assert.Equal(t, 2, runs)
	require.True(t, ok)
	assert.True(t, screen.ApproxEquals(linalg.Vector2{0.5, 0.5}, 1e-4))
}

func TestExplicitCameraWins(t *testing.T) {
	s, _ := newTestScene(t)
	first := addCamera(s, linalg.Vector3{0, 0, 10})
	second := addCamera(s, linalg.Vector3{0, 0, 20})
	assert.Equal(t, first, s.Camera())

	s.SetCamera(second)
	assert.Equal(t, second, s.Camera())
	require.NoError(t, s.Render())
	_, rendered := second.LastViewProjection()
	_, skipped := first.LastViewProjection()
	assert.True(t, rendered)
	assert.False(t, skipped)
}

func TestDisposeReleasesSharedGeometry(t *testing.T) {
	s, dev := newTestScene(t)
	box := geometry.Box(2, 2, 2)
	for range 3 {
		m, err := s.NewMesh(box)
		require.NoError(t, err)
		s.Add(node.NewNode(node.WithMesh(m)))
	}
	assert.Equal(t, 1, dev.BufferUploads/2, "one vertex and one index buffer for every mesh")
	assert.Equal(t, 3, s.GeometryCache().Uses(box.ID()))

	require.NoError(t, s.Dispose())
	assert.Zero(t, s.GeometryCache().Uses(box.ID()))
	assert.Empty(t, dev.Buffers)
}

func TestSortDrawOrderOrthographicDistances(t *testing.T) {
	entries := []*drawEntry{
		{opaque: false, distance: -2},
		{opaque: true, order: 1, distance: 0},
		{opaque: true, distance: 3},
		{opaque: false, distance: 6},
		{opaque: true, distance: -1},
	}
	sortDrawOrder(entries)

	got := make([]float32, len(entries))
	for i, e := range entries {
		got[i] = e.distance
	}
	assert.Equal(t, []float32{-1, 3, 0, 6, -2}, got)
}
