// Package node implements the scene graph. A node owns its children, carries a transform and three
// callback lists, and optionally holds a camera, a light or a mesh component.
//
// Adding an ancestor as a child creates a cycle. Nothing detects it; world matrices, traversal and
// disposal then recurse without bound.
package node

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/camera"
	"github.com/Carmen-Shannon/rampart/engine/light"
	"github.com/Carmen-Shannon/rampart/engine/renderer/mesh"
	"github.com/Carmen-Shannon/rampart/engine/transform"
)

type nodeImpl struct {
	name      string
	transform *transform.Transform
	parent    *nodeImpl
	children  []Node

	onUpdate      callbackList[UpdateFunc]
	onFixedUpdate callbackList[UpdateFunc]
	onAfterRender callbackList[AfterRenderFunc]

	visible     bool
	renderOrder int
	transparent bool
	disposed    bool

	camera camera.Camera
	light  light.DirectionalLight
	mesh   mesh.Mesh
}

// Node is an element of the scene graph.
type Node interface {
	camera.Placement

	// Name returns the node's debug name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// SetName sets the node's debug name.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Transform returns the node's local transform for direct mutation.
	//
	// Returns:
	//   - *transform.Transform: the local transform
	Transform() *transform.Transform

	// Parent returns the owning node, or nil for a root.
	//
	// Returns:
	//   - Node: the parent
	Parent() Node

	// Children returns the node's children in insertion order. The slice is owned by the node and must
	// not be modified or retained across Add and Remove.
	//
	// Returns:
	//   - []Node: the children
	Children() []Node

	// Add appends children, detaching each from any previous parent first.
	//
	// Parameters:
	//   - children: the nodes to adopt
	Add(children ...Node)

	// Remove detaches a child without disposing it.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: true if child was a child of this node
	Remove(child Node) bool

	// WorldPosition returns the node's origin in world space.
	//
	// Returns:
	//   - linalg.Vector3: the world-space position
	WorldPosition() linalg.Vector3

	// WorldRotation returns the composed rotation parentWorldRotation × localRotation.
	//
	// Returns:
	//   - linalg.Quaternion: the world-space rotation
	WorldRotation() linalg.Quaternion

	// Dirs returns the node's local axes rotated into world space: right (+X), up (+Y) and forward (-Z).
	//
	// Returns:
	//   - right, up, forward: unit vectors
	Dirs() (right, up, forward linalg.Vector3)

	// Traverse visits this node and its descendants in pre-order.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(Node))

	// OnUpdate registers a callback run once per frame with the frame delta.
	//
	// Parameters:
	//   - fn: the callback
	OnUpdate(fn UpdateFunc)

	// OnFixedUpdate registers a callback run once per fixed step.
	//
	// Parameters:
	//   - fn: the callback
	OnFixedUpdate(fn UpdateFunc)

	// OnAfterRender registers a callback run once per frame after rendering.
	//
	// Parameters:
	//   - fn: the callback
	OnAfterRender(fn AfterRenderFunc)

	// RunUpdate invokes this node's update callbacks, dropping those that return Remove.
	//
	// Parameters:
	//   - dt: the frame delta in seconds
	RunUpdate(dt float32)

	// RunFixedUpdate invokes this node's fixed-update callbacks, dropping those that return Remove.
	//
	// Parameters:
	//   - step: the fixed step in seconds
	RunFixedUpdate(step float32)

	// RunAfterRender invokes this node's after-render callbacks, dropping those that return Remove.
	RunAfterRender()

	Visible() bool
	SetVisible(visible bool)
	RenderOrder() int
	SetRenderOrder(order int)
	Transparent() bool
	SetTransparent(transparent bool)

	// Camera returns the camera component, or nil.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// SetCamera attaches a camera component placed at this node.
	//
	// Parameters:
	//   - c: the camera, or nil to detach
	SetCamera(c camera.Camera)

	// Light returns the light component, or nil.
	//
	// Returns:
	//   - light.DirectionalLight: the light
	Light() light.DirectionalLight

	// SetLight attaches a light component placed at this node.
	//
	// Parameters:
	//   - l: the light, or nil to detach
	SetLight(l light.DirectionalLight)

	// Mesh returns the drawable component, or nil for grouping nodes.
	//
	// Returns:
	//   - mesh.Mesh: the mesh
	Mesh() mesh.Mesh

	// SetMesh attaches a drawable component. A replaced mesh is not disposed.
	//
	// Parameters:
	//   - m: the mesh, or nil to detach
	SetMesh(m mesh.Mesh)

	// Dispose detaches the node from its parent, clears its callbacks, releases its mesh and light
	// resources and disposes its children. It must run once per owned node; later calls are no-ops.
	//
	// Returns:
	//   - error: the joined release errors of this subtree
	Dispose() error

	// Disposed reports whether Dispose has run.
	//
	// Returns:
	//   - bool: true after Dispose
	Disposed() bool
}

var _ Node = &nodeImpl{}

// NewNode creates a visible node with an identity transform.
//
// Parameters:
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the new node
func NewNode(options ...NodeBuilderOption) Node {
	n := &nodeImpl{
		transform: transform.New(),
		visible:   true,
	}
	for _, option := range options {
		option(n)
	}
	return n
}

func impl(n Node) *nodeImpl {
	ni, ok := n.(*nodeImpl)
	if !ok {
		panic(fmt.Sprintf("node: unsupported Node implementation %T", n))
	}
	return ni
}

func (n *nodeImpl) Name() string {
	return n.name
}

func (n *nodeImpl) SetName(name string) {
	n.name = name
}

func (n *nodeImpl) Transform() *transform.Transform {
	return n.transform
}

func (n *nodeImpl) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *nodeImpl) Children() []Node {
	return n.children
}

func (n *nodeImpl) Add(children ...Node) {
	for _, child := range children {
		c := impl(child)
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

func (n *nodeImpl) Remove(child Node) bool {
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	impl(child).parent = nil
	return true
}

func (n *nodeImpl) LocalToWorldMatrix() linalg.Matrix4 {
	m := n.transform.LocalMatrix()
	if n.parent != nil {
		parent := n.parent.LocalToWorldMatrix()
		m.Premultiply(&parent)
	}
	return m
}

func (n *nodeImpl) WorldToLocalMatrix() linalg.Matrix4 {
	m := n.transform.InverseLocalMatrix()
	if n.parent != nil {
		parent := n.parent.WorldToLocalMatrix()
		m.Multiply(&parent)
	}
	return m
}

func (n *nodeImpl) WorldPosition() linalg.Vector3 {
	m := n.LocalToWorldMatrix()
	return m.Translation()
}

func (n *nodeImpl) WorldRotation() linalg.Quaternion {
	q := n.transform.Rotation
	if n.parent != nil {
		q.Premultiply(n.parent.WorldRotation())
	}
	return q
}

func (n *nodeImpl) Dirs() (right, up, forward linalg.Vector3) {
	q := n.WorldRotation()
	right = linalg.Vector3{1, 0, 0}
	right.ApplyQuaternion(q).SafeNormalize()
	up = linalg.Vector3Up
	up.ApplyQuaternion(q).SafeNormalize()
	forward = linalg.Vector3Forward
	forward.ApplyQuaternion(q).SafeNormalize()
	return
}

func (n *nodeImpl) Traverse(fn func(Node)) {
	fn(n)
	for _, child := range n.children {
		child.Traverse(fn)
	}
}

func (n *nodeImpl) OnUpdate(fn UpdateFunc) {
	n.onUpdate.add(fn)
}

func (n *nodeImpl) OnFixedUpdate(fn UpdateFunc) {
	n.onFixedUpdate.add(fn)
}

func (n *nodeImpl) OnAfterRender(fn AfterRenderFunc) {
	n.onAfterRender.add(fn)
}

func (n *nodeImpl) RunUpdate(dt float32) {
	n.onUpdate.run(func(fn UpdateFunc) CallbackResult { return fn(dt) })
}

func (n *nodeImpl) RunFixedUpdate(step float32) {
	n.onFixedUpdate.run(func(fn UpdateFunc) CallbackResult { return fn(step) })
}

func (n *nodeImpl) RunAfterRender() {
	n.onAfterRender.run(func(fn AfterRenderFunc) CallbackResult { return fn() })
}

func (n *nodeImpl) Visible() bool {
	return n.visible
}

func (n *nodeImpl) SetVisible(visible bool) {
	n.visible = visible
}

func (n *nodeImpl) RenderOrder() int {
	return n.renderOrder
}

func (n *nodeImpl) SetRenderOrder(order int) {
	n.renderOrder = order
}

func (n *nodeImpl) Transparent() bool {
	return n.transparent
}

func (n *nodeImpl) SetTransparent(transparent bool) {
	n.transparent = transparent
}

func (n *nodeImpl) Camera() camera.Camera {
	return n.camera
}

func (n *nodeImpl) SetCamera(c camera.Camera) {
	n.camera = c
	if c != nil {
		c.Attach(n)
	}
}

func (n *nodeImpl) Light() light.DirectionalLight {
	return n.light
}

func (n *nodeImpl) SetLight(l light.DirectionalLight) {
	n.light = l
	if l != nil {
		l.Attach(n)
	}
}

func (n *nodeImpl) Mesh() mesh.Mesh {
	return n.mesh
}

func (n *nodeImpl) SetMesh(m mesh.Mesh) {
	n.mesh = m
}

func (n *nodeImpl) Dispose() error {
	if n.disposed {
		return nil
	}
	n.disposed = true

	if n.parent != nil {
		n.parent.Remove(n)
	}
	n.onUpdate.clear()
	n.onFixedUpdate.clear()
	n.onAfterRender.clear()

	var errs []error
	if n.mesh != nil {
		if err := n.mesh.Dispose(); err != nil {
			errs = append(errs, fmt.Errorf("node %q: %w", n.name, err))
		}
	}
	if n.light != nil {
		n.light.Dispose()
	}

	children := n.children
	n.children = nil
	for _, child := range children {
		c := impl(child)
		c.parent = nil
		if err := c.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *nodeImpl) Disposed() bool {
	return n.disposed
}
