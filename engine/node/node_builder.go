package node

import (
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/camera"
	"github.com/Carmen-Shannon/rampart/engine/light"
	"github.com/Carmen-Shannon/rampart/engine/renderer/mesh"
)

// NodeBuilderOption configures a node during construction.
type NodeBuilderOption func(*nodeImpl)

// WithName sets the node's debug name.
func WithName(name string) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.name = name
	}
}

// WithPosition sets the initial local position.
//
// Parameters:
//   - position: the local position
//
// Returns:
//   - NodeBuilderOption: a function that applies the position
func WithPosition(position linalg.Vector3) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.transform.Position = position
	}
}

// WithRotation sets the initial local rotation.
func WithRotation(rotation linalg.Quaternion) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.transform.Rotation = rotation
	}
}

// WithScale sets the initial local scale.
func WithScale(scale linalg.Vector3) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.transform.Scale = scale
	}
}

// WithMesh attaches a drawable component.
//
// Parameters:
//   - m: the mesh to draw at this node
//
// Returns:
//   - NodeBuilderOption: a function that attaches the mesh
func WithMesh(m mesh.Mesh) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.mesh = m
	}
}

// WithCamera attaches a camera component.
func WithCamera(c camera.Camera) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.SetCamera(c)
	}
}

// WithLight attaches a light component.
func WithLight(l light.DirectionalLight) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.SetLight(l)
	}
}

// WithRenderOrder sets the render order. Lower values draw first within the opaque and transparent
// groups.
func WithRenderOrder(order int) NodeBuilderOption {
	return func(n *nodeImpl) {
		n.renderOrder = order
	}
}

// WithTransparent marks the node's mesh as alpha blended.
func WithTransparent() NodeBuilderOption {
	return func(n *nodeImpl) {
		n.transparent = true
	}
}
