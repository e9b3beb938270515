package scene

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/camera"
	"github.com/Carmen-Shannon/rampart/engine/geometry"
	"github.com/Carmen-Shannon/rampart/engine/light"
	"github.com/Carmen-Shannon/rampart/engine/node"
	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/Carmen-Shannon/rampart/engine/renderer/geometry_cache"
	"github.com/Carmen-Shannon/rampart/engine/renderer/mesh"
	"github.com/Carmen-Shannon/rampart/engine/renderer/shader"
	"github.com/chewxy/math32"
)

const (
	// DefaultFixedStep is the fixed-update interval in seconds.
	DefaultFixedStep float32 = 1.0 / 60.0

	// DefaultMaxFixedSteps caps the fixed updates run in a single frame.
	DefaultMaxFixedSteps = 10

	// stepTolerance absorbs float32 rounding when the accumulator lands on a whole number of steps.
	stepTolerance = 1e-4
)

// Scene is the root of a node tree together with the device it renders to. It schedules the per-frame
// callbacks of every node and draws the tree with a shadow pass and a depth-sorted main pass.
//
// A Scene is confined to the render loop goroutine. Nothing in it is safe for concurrent use.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Root returns the node every other node in the scene descends from.
	//
	// Returns:
	//   - node.Node: the root node
	Root() node.Node

	// Add appends nodes to the root.
	//
	// Parameters:
	//   - nodes: the nodes to add
	Add(nodes ...node.Node)

	// Device returns the device the scene renders to.
	//
	// Returns:
	//   - renderer.Device: the device
	Device() renderer.Device

	// GeometryCache returns the cache meshes of this scene acquire their buffers from.
	//
	// Returns:
	//   - geometry_cache.Cache: the geometry cache
	GeometryCache() geometry_cache.Cache

	// NewMesh creates a mesh whose buffers come from the scene's geometry cache.
	//
	// Parameters:
	//   - geom: the geometry to draw
	//   - options: functional options to configure the mesh
	//
	// Returns:
	//   - mesh.Mesh: the new mesh
	//   - error: an error if the geometry could not be uploaded
	NewMesh(geom *geometry.Geometry, options ...mesh.MeshBuilderOption) (mesh.Mesh, error)

	// Camera returns the camera used by Render. When none was set, the first camera component found in
	// the tree is used.
	//
	// Returns:
	//   - camera.Camera: the active camera, or nil
	Camera() camera.Camera

	// SetCamera selects the camera used by Render. The camera must be attached to a node of the tree.
	//
	// Parameters:
	//   - cam: the camera to render through, nil to fall back to the first camera in the tree
	SetCamera(cam camera.Camera)

	// ClearColor returns the main pass background color.
	ClearColor() [4]float64

	// SetClearColor sets the main pass background color.
	SetClearColor(color [4]float64)

	// UpdateScene runs the update callbacks of every node once with dt and the fixed-update callbacks
	// zero or more times at the fixed step. Fractional time carries over to the next frame. When more
	// than the maximum number of steps are due, the excess is dropped rather than caught up later.
	//
	// Parameters:
	//   - dt: seconds elapsed since the previous frame
	//
	// Returns:
	//   - int: the number of fixed steps run
	UpdateScene(dt float32) int

	// Render draws the tree: a depth pass into the shadow target of the first directional light when it
	// casts shadows, then a main pass of every visible mesh sorted opaque first, by render order and by
	// distance. After presenting, the after-render callbacks of every node run.
	//
	// Returns:
	//   - error: an error if there is no camera or a pass fails
	Render() error

	// Dispose disposes the whole tree and releases the scene's programs. The device is left open.
	//
	// Returns:
	//   - error: the joined errors of every disposal
	Dispose() error
}

// drawEntry is one collected node with its world matrix for the frame.
type drawEntry struct {
	node     node.Node
	mesh     mesh.Mesh
	world    linalg.Matrix4
	position linalg.Vector3
	distance float32
	opaque   bool
	order    int
}

type sceneImpl struct {
	name string
	root node.Node

	dev   renderer.Device
	cache geometry_cache.Cache

	litProgram    renderer.ProgramHandle
	shadowProgram renderer.ProgramHandle

	cam        camera.Camera
	clearColor [4]float64

	fixedStep     float32
	maxFixedSteps int
	accumulator   float32

	// entries is reused across frames; only entries[:used] are live.
	entries []drawEntry
	used    int
	drawn   []*drawEntry
	visit   []node.Node
	light   light.DirectionalLight
	found   camera.Camera
}

var _ Scene = &sceneImpl{}

// NewScene creates an empty scene drawing to dev and compiles its shader programs.
//
// Parameters:
//   - dev: the device to render to (must not be nil)
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
//   - error: an error if a shader program could not be built
func NewScene(dev renderer.Device, options ...SceneBuilderOption) (Scene, error) {
	if dev == nil {
		panic("scene: NewScene requires a non-nil Device")
	}

	s := &sceneImpl{
		name:          "scene",
		dev:           dev,
		clearColor:    [4]float64{0.53, 0.71, 0.85, 1},
		fixedStep:     DefaultFixedStep,
		maxFixedSteps: DefaultMaxFixedSteps,
	}
	for _, option := range options {
		option(s)
	}
	if s.root == nil {
		s.root = node.NewNode(node.WithName(s.name))
	}
	if s.cache == nil {
		s.cache = geometry_cache.NewCache(dev)
	}
	if s.fixedStep <= 0 {
		s.fixedStep = DefaultFixedStep
	}
	if s.maxFixedSteps < 1 {
		s.maxFixedSteps = DefaultMaxFixedSteps
	}

	lit, err := shader.Lit()
	if err != nil {
		return nil, fmt.Errorf("failed to build lit shader: %w", err)
	}
	s.litProgram, err = renderer.CompileProgram(dev, renderer.ProgramDesc{
		Label:         "lit",
		Kind:          renderer.ProgramKindMain,
		Source:        lit,
		VertexEntry:   shader.VertexEntry,
		FragmentEntry: shader.FragmentEntry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}

	shadow, err := shader.Shadow()
	if err != nil {
		dev.ReleaseProgram(s.litProgram)
		return nil, fmt.Errorf("failed to build shadow shader: %w", err)
	}
	s.shadowProgram, err = renderer.CompileProgram(dev, renderer.ProgramDesc{
		Label:         "shadow",
		Kind:          renderer.ProgramKindShadow,
		Source:        shadow,
		VertexEntry:   shader.VertexEntry,
		FragmentEntry: shader.FragmentEntry,
	})
	if err != nil {
		dev.ReleaseProgram(s.litProgram)
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	return s, nil
}

func (s *sceneImpl) Name() string {
	return s.name
}

func (s *sceneImpl) SetName(name string) {
	s.name = name
}

func (s *sceneImpl) Root() node.Node {
	return s.root
}

func (s *sceneImpl) Add(nodes ...node.Node) {
	s.root.Add(nodes...)
}

func (s *sceneImpl) Device() renderer.Device {
	return s.dev
}

func (s *sceneImpl) GeometryCache() geometry_cache.Cache {
	return s.cache
}

func (s *sceneImpl) NewMesh(geom *geometry.Geometry, options ...mesh.MeshBuilderOption) (mesh.Mesh, error) {
	return mesh.NewMesh(s.cache, geom, options...)
}

func (s *sceneImpl) Camera() camera.Camera {
	if s.cam != nil {
		return s.cam
	}
	var found camera.Camera
	s.root.Traverse(func(n node.Node) {
		if found == nil && n.Camera() != nil {
			found = n.Camera()
		}
	})
	return found
}

func (s *sceneImpl) SetCamera(cam camera.Camera) {
	s.cam = cam
}

func (s *sceneImpl) ClearColor() [4]float64 {
	return s.clearColor
}

func (s *sceneImpl) SetClearColor(color [4]float64) {
	s.clearColor = color
}

// dispatch visits the tree depth-first in pre-order. Each node's children are copied onto the stack
// when the node is visited, so nodes added during the walk wait for the next one and removed nodes that
// were already queued are skipped once disposed.
func (s *sceneImpl) dispatch(fn func(node.Node)) {
	s.visit = append(s.visit[:0], s.root)
	for len(s.visit) > 0 {
		n := s.visit[len(s.visit)-1]
		s.visit = s.visit[:len(s.visit)-1]
		if n.Disposed() {
			continue
		}
		fn(n)
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			s.visit = append(s.visit, children[i])
		}
	}
}

func (s *sceneImpl) UpdateScene(dt float32) int {
	if dt < 0 {
		dt = 0
	}
	s.accumulator += dt
	steps := int(s.accumulator/s.fixedStep + stepTolerance)
	s.accumulator = math32.Max(s.accumulator-float32(steps)*s.fixedStep, 0)
	if steps > s.maxFixedSteps {
		steps = s.maxFixedSteps
	}

	step := s.fixedStep
	for range steps {
		s.dispatch(func(n node.Node) { n.RunFixedUpdate(step) })
	}
	s.dispatch(func(n node.Node) { n.RunUpdate(dt) })
	return steps
}

// collect records every node with its world matrix, reusing the entry pool. It also finds the first
// directional light and camera in the tree.
func (s *sceneImpl) collect(n node.Node, parent *linalg.Matrix4) {
	if s.used == len(s.entries) {
		s.entries = append(s.entries, drawEntry{})
	}
	e := &s.entries[s.used]
	s.used++

	local := n.Transform().LocalMatrix()
	if parent != nil {
		e.world.MultiplyMatrices(parent, &local)
	} else {
		e.world = local
	}
	e.node, e.mesh = n, n.Mesh()
	if e.mesh != nil && e.mesh.Disposed() {
		e.mesh = nil
	}
	e.position = e.world.Translation()
	e.order = n.RenderOrder()
	e.opaque = !n.Transparent()

	if s.light == nil && n.Light() != nil {
		s.light = n.Light()
	}
	if s.found == nil && n.Camera() != nil {
		s.found = n.Camera()
	}

	world := e.world
	for _, child := range n.Children() {
		s.collect(child, &world)
	}
}

func (s *sceneImpl) reset() {
	for i := range s.entries[:s.used] {
		s.entries[i].node, s.entries[i].mesh = nil, nil
	}
	s.used = 0
	s.drawn = s.drawn[:0]
	s.light, s.found = nil, nil
}

func (s *sceneImpl) Render() error {
	s.reset()
	s.collect(s.root, nil)
	defer s.reset()

	cam := s.cam
	if cam == nil {
		cam = s.found
	}
	if cam == nil {
		return fmt.Errorf("failed to render scene %q: no camera", s.name)
	}

	frame := mesh.Frame{
		View:           cam.ViewMatrix(),
		ViewProjection: cam.UpdateViewProjection(),
		Ambient:        1,
	}

	var shadowMap renderer.TextureHandle
	if l := s.light; l != nil {
		frame.LightPosition = l.WorldPosition()
		frame.LightColor = l.Color()
		frame.Ambient = l.Ambient()
		frame.ShadowBias = l.ShadowBias()
		if l.CastsShadows() {
			target, err := l.ShadowTarget(s.dev)
			if err != nil {
				return fmt.Errorf("failed to render scene %q: %w", s.name, err)
			}
			frame.LightViewProjection = l.LightSpaceMatrix()
			frame.Shadows = true
			shadowMap = target
			if err := s.shadowPass(&frame, target); err != nil {
				return err
			}
		}
	}

	if err := s.mainPass(&frame, cam, shadowMap); err != nil {
		return err
	}
	s.dev.Present()

	s.dispatch(func(n node.Node) { n.RunAfterRender() })
	return nil
}

func (s *sceneImpl) shadowPass(frame *mesh.Frame, target renderer.TextureHandle) error {
	if err := s.dev.BeginPass(renderer.PassDesc{Kind: renderer.PassKindShadow, Target: target}); err != nil {
		return fmt.Errorf("failed to begin shadow pass: %w", err)
	}
	for i := range s.entries[:s.used] {
		e := &s.entries[i]
		if e.mesh == nil || !e.mesh.CastShadows() {
			continue
		}
		u := e.mesh.Uniforms(frame, &e.world)
		s.dev.Draw(e.mesh.DrawCommand(s.shadowProgram, &u, false))
	}
	if err := s.dev.EndPass(); err != nil {
		return fmt.Errorf("failed to end shadow pass: %w", err)
	}
	return nil
}

func (s *sceneImpl) mainPass(frame *mesh.Frame, cam camera.Camera, shadowMap renderer.TextureHandle) error {
	frustum := cam.Frustum()
	camPos := cam.WorldPosition()
	camForward := cam.Forward()
	ortho := cam.IsOrthographic()

	for i := range s.entries[:s.used] {
		e := &s.entries[i]
		if e.mesh == nil || !e.node.Visible() {
			continue
		}
		if e.mesh.FrustumCull() {
			center, radius := e.mesh.WorldBoundingSphere(&e.world)
			if !frustum.IntersectsSphere(center, radius) {
				continue
			}
		}
		if ortho {
			d := e.position
			d.Sub(camPos)
			e.distance = d.Dot(camForward)
		} else {
			e.distance = e.position.DistanceSqr(camPos)
		}
		s.drawn = append(s.drawn, e)
	}
	sortDrawOrder(s.drawn)

	pass := renderer.PassDesc{Kind: renderer.PassKindMain, ShadowMap: shadowMap, ClearColor: s.clearColor}
	if err := s.dev.BeginPass(pass); err != nil {
		return fmt.Errorf("failed to begin main pass: %w", err)
	}
	for _, e := range s.drawn {
		u := e.mesh.Uniforms(frame, &e.world)
		s.dev.Draw(e.mesh.DrawCommand(s.litProgram, &u, !e.opaque))
	}
	if err := s.dev.EndPass(); err != nil {
		return fmt.Errorf("failed to end main pass: %w", err)
	}
	return nil
}

// sortDrawOrder orders opaque entries before transparent ones, then by ascending render order, then
// nearest-first for opaque and farthest-first for transparent entries.
func sortDrawOrder(entries []*drawEntry) {
	slices.SortStableFunc(entries, func(a, b *drawEntry) int {
		if a.opaque != b.opaque {
			if a.opaque {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.order, b.order); c != 0 {
			return c
		}
		if a.opaque {
			return cmp.Compare(a.distance, b.distance)
		}
		return cmp.Compare(b.distance, a.distance)
	})
}

func (s *sceneImpl) Dispose() error {
	err := s.root.Dispose()
	s.dev.ReleaseProgram(s.litProgram)
	s.dev.ReleaseProgram(s.shadowProgram)
	s.litProgram, s.shadowProgram = 0, 0
	return err
}
