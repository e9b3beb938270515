package scene

import (
	"github.com/Carmen-Shannon/rampart/engine/camera"
	"github.com/Carmen-Shannon/rampart/engine/node"
	"github.com/Carmen-Shannon/rampart/engine/renderer/geometry_cache"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *sceneImpl)

// WithName sets the scene's identifier, which also names the root node.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.name = name
	}
}

// WithRoot uses an existing node as the scene root instead of creating one.
//
// Parameters:
//   - root: the root node
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRoot(root node.Node) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.root = root
	}
}

// WithNodes adds initial nodes to the root.
//
// Parameters:
//   - nodes: the nodes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithNodes(nodes ...node.Node) SceneBuilderOption {
	return func(s *sceneImpl) {
		if s.root == nil {
			s.root = node.NewNode(node.WithName(s.name))
		}
		s.root.Add(nodes...)
	}
}

// WithGeometryCache shares a geometry cache between scenes drawing to the same device.
//
// Parameters:
//   - cache: the cache to acquire mesh buffers from
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithGeometryCache(cache geometry_cache.Cache) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.cache = cache
	}
}

// WithCamera selects the camera Render draws through.
//
// Parameters:
//   - cam: the camera, attached to a node of the scene
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.cam = cam
	}
}

// WithClearColor sets the main pass background color.
//
// Parameters:
//   - color: RGBA in 0..1
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithClearColor(color [4]float64) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.clearColor = color
	}
}

// WithFixedStep sets the fixed-update interval. Defaults to 1/60 s.
//
// Parameters:
//   - step: interval in seconds (non-positive values keep the default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFixedStep(step float32) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.fixedStep = step
	}
}

// WithMaxFixedSteps caps how many fixed updates a single frame may run. Defaults to 10.
//
// Parameters:
//   - n: the cap (values below 1 keep the default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaxFixedSteps(n int) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.maxFixedSteps = n
	}
}
