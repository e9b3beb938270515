// Package rig poses procedural characters built from scene nodes. A Human is a fixed joint hierarchy
// animated entirely from node callbacks: a walk cycle that blends in and out, and one-shot attacks that
// override the arm swing while they run.
package rig

import (
	"sync"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/geometry"
	"github.com/Carmen-Shannon/rampart/engine/node"
	"github.com/Carmen-Shannon/rampart/engine/renderer/geometry_cache"
	"github.com/Carmen-Shannon/rampart/engine/renderer/material"
	"github.com/Carmen-Shannon/rampart/engine/renderer/mesh"
	"github.com/chewxy/math32"
)

// Part names one joint of a Human.
type Part string

const (
	PartBody          Part = "body"
	PartHead          Part = "head"
	PartHipLeft       Part = "hip.l"
	PartUpperLegLeft  Part = "upper_leg.l"
	PartLowerLegLeft  Part = "lower_leg.l"
	PartFootLeft      Part = "foot.l"
	PartHipRight      Part = "hip.r"
	PartUpperLegRight Part = "upper_leg.r"
	PartLowerLegRight Part = "lower_leg.r"
	PartFootRight     Part = "foot.r"
	PartShoulderLeft  Part = "shoulder.l"
	PartUpperArmLeft  Part = "upper_arm.l"
	PartLowerArmLeft  Part = "lower_arm.l"
	PartItemLeft      Part = "item.l"
	PartShoulderRight Part = "shoulder.r"
	PartUpperArmRight Part = "upper_arm.r"
	PartLowerArmRight Part = "lower_arm.r"
	PartItemRight     Part = "item.r"
)

const (
	legSegment = 0.45
	armSegment = 0.3
	hipHeight  = 0.95
	limbRadius = 0.06
)

// joint is one entry of the rest pose: a part, its parent (empty for the root) and its offset.
type joint struct {
	part   Part
	parent Part
	offset linalg.Vector3
}

// skeleton lists parents before children.
var skeleton = []joint{
	{PartBody, "", linalg.Vector3{0, 1.15, 0}},
	{PartHead, PartBody, linalg.Vector3{0, 0.5, 0}},

	{PartHipLeft, "", linalg.Vector3{0.12, hipHeight, 0}},
	{PartUpperLegLeft, PartHipLeft, linalg.Vector3{}},
	{PartLowerLegLeft, PartUpperLegLeft, linalg.Vector3{0, -legSegment, 0}},
	{PartFootLeft, PartLowerLegLeft, linalg.Vector3{0, -legSegment, 0}},
	{PartHipRight, "", linalg.Vector3{-0.12, hipHeight, 0}},
	{PartUpperLegRight, PartHipRight, linalg.Vector3{}},
	{PartLowerLegRight, PartUpperLegRight, linalg.Vector3{0, -legSegment, 0}},
	{PartFootRight, PartLowerLegRight, linalg.Vector3{0, -legSegment, 0}},

	{PartShoulderLeft, PartBody, linalg.Vector3{0.25, 0.3, 0}},
	{PartUpperArmLeft, PartShoulderLeft, linalg.Vector3{}},
	{PartLowerArmLeft, PartUpperArmLeft, linalg.Vector3{0, -armSegment, 0}},
	{PartItemLeft, PartLowerArmLeft, linalg.Vector3{0, -armSegment, 0}},
	{PartShoulderRight, PartBody, linalg.Vector3{-0.25, 0.3, 0}},
	{PartUpperArmRight, PartShoulderRight, linalg.Vector3{}},
	{PartLowerArmRight, PartUpperArmRight, linalg.Vector3{0, -armSegment, 0}},
	{PartItemRight, PartLowerArmRight, linalg.Vector3{0, -armSegment, 0}},
}

// Human is a posed biped. Its root node is placed by game code; everything below it is owned by the rig.
type Human interface {
	// Root returns the node to position, rotate and add to a scene.
	//
	// Returns:
	//   - node.Node: the root joint
	Root() node.Node

	// Joint returns the node of one part.
	//
	// Parameters:
	//   - part: the part to look up
	//
	// Returns:
	//   - node.Node: the joint node, or nil for unknown parts
	Joint(part Part) node.Node

	// StartWalking blends the walk cycle in over a fraction of a second.
	StartWalking()

	// StopWalking blends the walk cycle back out to the idle pose.
	StopWalking()

	// Walking reports whether the walk cycle is requested.
	Walking() bool

	// WalkIntensity returns the current blend between idle (0) and full walk (1).
	WalkIntensity() float32

	// Attack swings the right arm once over duration seconds. Attacking again while a swing runs restarts
	// it.
	//
	// Parameters:
	//   - duration: the swing length in seconds
	Attack(duration float32)

	// Attacking reports whether an attack swing is running.
	Attacking() bool
}

type humanImpl struct {
	root   node.Node
	joints map[Part]node.Node

	walking     bool
	intensity   float32
	blendRate   float32
	phase       float32
	strideRate  float32
	legSwing    float32
	kneeBend    float32
	armSwing    float32
	bob         float32
	sway        float32
	attackSwing float32

	attacking      bool
	attackProgress float32
	attackDuration float32

	cache    geometry_cache.Cache
	material material.Material
}

var _ Human = &humanImpl{}

// NewHuman builds the joint hierarchy in its rest pose and registers the walk callback on the root.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - Human: the new rig
//   - error: an error if body meshes were requested and could not be created
func NewHuman(options ...HumanBuilderOption) (Human, error) {
	h := &humanImpl{
		joints:      make(map[Part]node.Node, len(skeleton)),
		blendRate:   4,
		strideRate:  2 * math32.Pi * 1.6,
		legSwing:    0.6,
		kneeBend:    1.1,
		armSwing:    0.5,
		bob:         0.05,
		sway:        0.06,
		attackSwing: 2.2,
		material:    material.New(),
	}
	for _, option := range options {
		option(h)
	}

	h.root = node.NewNode(node.WithName("human"))
	for _, j := range skeleton {
		n := node.NewNode(node.WithName(string(j.part)), node.WithPosition(j.offset))
		parent := h.root
		if j.parent != "" {
			parent = h.joints[j.parent]
		}
		parent.Add(n)
		h.joints[j.part] = n
	}

	if h.cache != nil {
		if err := h.attachMeshes(); err != nil {
			_ = h.root.Dispose()
			return nil, err
		}
	}

	h.root.OnUpdate(h.walk)
	return h, nil
}

// bodyGeometry is shared by every rig so all humans on a device draw from one set of buffers.
var bodyGeometry = sync.OnceValue(func() map[Part]*geometry.Geometry {
	down := func(g *geometry.Geometry, dy float32) *geometry.Geometry {
		return g.TransformTRS(linalg.Vector3{0, dy, 0}, linalg.QuaternionIdentity, linalg.Vector3One)
	}
	leg := down(geometry.Capsule(limbRadius, legSegment-2*limbRadius, 2, 8), -legSegment/2)
	arm := down(geometry.Capsule(limbRadius*0.8, armSegment-1.6*limbRadius, 2, 8), -armSegment/2)
	return map[Part]*geometry.Geometry{
		PartBody:          geometry.Capsule(0.2, 0.35, 3, 10),
		PartHead:          geometry.Sphere(0.14, 10, 8),
		PartUpperLegLeft:  leg,
		PartLowerLegLeft:  leg,
		PartUpperLegRight: leg,
		PartLowerLegRight: leg,
		PartFootLeft:      geometry.Box(0.1, 0.06, 0.22).TransformTRS(linalg.Vector3{0, 0, 0.05}, linalg.QuaternionIdentity, linalg.Vector3One),
		PartFootRight:     geometry.Box(0.1, 0.06, 0.22).TransformTRS(linalg.Vector3{0, 0, 0.05}, linalg.QuaternionIdentity, linalg.Vector3One),
		PartUpperArmLeft:  arm,
		PartLowerArmLeft:  arm,
		PartUpperArmRight: arm,
		PartLowerArmRight: arm,
	}
})

func (h *humanImpl) attachMeshes() error {
	for part, geom := range bodyGeometry() {
		m, err := mesh.NewMesh(h.cache, geom, mesh.WithMaterial(h.material))
		if err != nil {
			return err
		}
		h.joints[part].SetMesh(m)
	}
	return nil
}

func (h *humanImpl) Root() node.Node {
	return h.root
}

func (h *humanImpl) Joint(part Part) node.Node {
	return h.joints[part]
}

func (h *humanImpl) StartWalking() {
	h.walking = true
}

func (h *humanImpl) StopWalking() {
	h.walking = false
}

func (h *humanImpl) Walking() bool {
	return h.walking
}

func (h *humanImpl) WalkIntensity() float32 {
	return h.intensity
}

func (h *humanImpl) Attacking() bool {
	return h.attacking
}

// Pulse is a periodic waveform with period 1. It rises from 0 to 1 and falls back within the first width
// of each period, then rests at 0.
//
// Parameters:
//   - t: the phase in periods
//   - width: the fraction of the period the pulse occupies, in (0, 1]
//
// Returns:
//   - float32: the waveform value in [0, 1]
func Pulse(t, width float32) float32 {
	f := t - math32.Floor(t)
	if width <= 0 || f >= width {
		return 0
	}
	s := math32.Sin(math32.Pi * f / width)
	return s * s
}

// swingCurve is sin(phase) raised to a power below one, so the leg lingers at the ends of its swing.
func swingCurve(phase float32) float32 {
	s := math32.Sin(phase)
	return math32.Copysign(math32.Pow(math32.Abs(s), 0.7), s)
}

func setAngle(n node.Node, axis linalg.Vector3, angle float32) {
	n.Transform().Rotation.SetFromAxisAngle(axis, angle)
}

var axisX = linalg.Vector3{1, 0, 0}
var axisZ = linalg.Vector3{0, 0, 1}

func (h *humanImpl) walk(dt float32) node.CallbackResult {
	target := float32(0)
	if h.walking {
		target = 1
	}
	if h.intensity < target {
		h.intensity = min(h.intensity+h.blendRate*dt, target)
	} else if h.intensity > target {
		h.intensity = max(h.intensity-h.blendRate*dt, target)
	}
	if h.intensity > 0 {
		h.phase = math32.Mod(h.phase+h.strideRate*dt, 2*math32.Pi)
	}

	w := h.intensity
	for i, side := range [2][3]Part{
		{PartUpperLegLeft, PartLowerLegLeft, PartUpperArmLeft},
		{PartUpperLegRight, PartLowerLegRight, PartUpperArmRight},
	} {
		phase := h.phase + float32(i)*math32.Pi
		// Negative angles about +X swing the limb forward toward -Z.
		setAngle(h.joints[side[0]], axisX, -h.legSwing*w*swingCurve(phase))
		setAngle(h.joints[side[1]], axisX, h.kneeBend*w*Pulse(phase/(2*math32.Pi), 0.5))
		setAngle(h.joints[side[2]], axisX, h.armSwing*w*swingCurve(phase))
	}

	s := math32.Sin(h.phase)
	body := h.joints[PartBody].Transform()
	body.Position = skeleton[0].offset
	body.Position[1] += h.bob * w * s * s
	body.Position[0] += h.sway * w * s * math32.Abs(s)
	setAngle(h.joints[PartBody], axisZ, -h.sway*w*s)
	return node.Continue
}

func (h *humanImpl) Attack(duration float32) {
	h.attackDuration = max(duration, 1e-3)
	h.attackProgress = 0
	if h.attacking {
		return
	}
	h.attacking = true
	h.root.OnUpdate(h.attack)
}

func (h *humanImpl) attack(dt float32) node.CallbackResult {
	h.attackProgress = min(h.attackProgress+dt/h.attackDuration, 1)
	arm := h.joints[PartUpperArmRight]
	if h.attackProgress >= 1 {
		h.attacking = false
		setAngle(arm, axisX, 0)
		return node.Remove
	}
	// Raise quickly, then strike down past the rest pose.
	p := h.attackProgress
	angle := -h.attackSwing * math32.Sin(math32.Pi*p) * (1 - 0.4*p)
	setAngle(arm, axisX, angle)
	return node.Continue
}
