package spline

import (
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/node"
)

// PathFollower moves a node along a polyline of waypoints from its fixed-update callback. The node keeps
// a constant lateral offset from the path and turns to face the direction of travel.
type PathFollower interface {
	// Distance returns how far along the path the follower has travelled.
	//
	// Returns:
	//   - float32: the distance in world units
	Distance() float32

	// Length returns the total length of the path.
	Length() float32

	// Done reports whether the end of the path was reached or Stop was called.
	Done() bool

	// Stop ends the walk. The callback removes itself on its next run.
	Stop()

	// SetSpeed changes the walking speed.
	//
	// Parameters:
	//   - speed: world units per second
	SetSpeed(speed float32)
}

type pathFollowerImpl struct {
	n        node.Node
	path     []linalg.Vector2
	offsets  []linalg.Vector2
	segments []float32

	speed    float32
	lateral  float32
	height   float32
	distance float32
	length   float32
	done     bool
	onArrive func()
}

var _ PathFollower = &pathFollowerImpl{}

// NewPathFollower places n at the start of path and registers a fixed-update callback that walks it to
// the end.
//
// Parameters:
//   - n: the node to move
//   - path: at least two waypoints
//   - options: functional options to configure the follower
//
// Returns:
//   - PathFollower: the follower
func NewPathFollower(n node.Node, path []linalg.Vector2, options ...PathFollowerBuilderOption) PathFollower {
	if n == nil {
		panic("spline: NewPathFollower requires a node")
	}
	if len(path) < 2 {
		panic("spline: NewPathFollower requires at least two waypoints")
	}

	f := &pathFollowerImpl{
		n:     n,
		path:  path,
		speed: 1,
	}
	for _, option := range options {
		option(f)
	}

	f.offsets = make([]linalg.Vector2, len(path))
	f.segments = make([]float32, len(path)-1)
	for i, p := range path {
		prev, next := p, p
		if i > 0 {
			prev = path[i-1]
		}
		if i < len(path)-1 {
			next = path[i+1]
			f.segments[i] = p.Distance(next)
			f.length += f.segments[i]
		}
		f.offsets[i] = GetOffsetDirection(prev, p, next)
	}

	f.place()
	n.OnFixedUpdate(f.step)
	return f
}

func (f *pathFollowerImpl) Distance() float32 {
	return f.distance
}

func (f *pathFollowerImpl) Length() float32 {
	return f.length
}

func (f *pathFollowerImpl) Done() bool {
	return f.done
}

func (f *pathFollowerImpl) Stop() {
	f.done = true
}

func (f *pathFollowerImpl) SetSpeed(speed float32) {
	f.speed = speed
}

func (f *pathFollowerImpl) step(dt float32) node.CallbackResult {
	if f.done {
		return node.Remove
	}
	f.distance = min(f.distance+f.speed*dt, f.length)
	f.place()
	if f.distance >= f.length {
		f.done = true
		if f.onArrive != nil {
			f.onArrive()
		}
		return node.Remove
	}
	return node.Continue
}

// place moves the node to the current distance along the path.
func (f *pathFollowerImpl) place() {
	i, along := 0, f.distance
	for i < len(f.segments)-1 && along > f.segments[i] {
		along -= f.segments[i]
		i++
	}
	t := float32(0)
	if f.segments[i] > 0 {
		t = linalg.Clamp(along/f.segments[i], 0, 1)
	}

	pos := f.path[i]
	pos.Lerp(f.path[i+1], t)
	off := f.offsets[i]
	off.Lerp(f.offsets[i+1], t).SafeNormalize().MulScalar(f.lateral)
	pos.Add(off)

	tr := f.n.Transform()
	tr.Position = linalg.Vector3{pos[0], f.height, pos[1]}

	dir := f.path[i+1]
	dir.Sub(f.path[i])
	if dir.LengthSqr() > 0 {
		tr.Rotation.LookRotation(linalg.Vector3{dir[0], 0, dir[1]}, linalg.Vector3Up)
	}
}
