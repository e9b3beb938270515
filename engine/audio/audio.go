// Package audio places sounds in the scene. Listener and source nodes forward their world placement to a
// spatializer after every render; the oto-backed spatializer turns that placement into distance
// attenuation and stereo panning for each playing voice.
package audio

import (
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/Carmen-Shannon/rampart/engine/node"
	"github.com/chewxy/math32"
)

// Listener receives the placement of the node sounds are heard from, usually the camera.
type Listener interface {
	// SetListener moves the listener.
	//
	// Parameters:
	//   - position: world position
	//   - forward: world direction the listener faces
	SetListener(position, forward linalg.Vector3)
}

// Source receives the placement of a node emitting sound.
type Source interface {
	// SetPosition moves the source.
	//
	// Parameters:
	//   - position: world position
	SetPosition(position linalg.Vector3)
}

// AttachAudioListener forwards the world position and facing of n to sink after every render until n is
// disposed.
//
// Parameters:
//   - n: the node to hear from
//   - sink: the listener to update
func AttachAudioListener(n node.Node, sink Listener) {
	if n == nil || sink == nil {
		panic("audio: AttachAudioListener requires a node and a listener")
	}
	n.OnAfterRender(func() node.CallbackResult {
		_, _, forward := n.Dirs()
		sink.SetListener(n.WorldPosition(), forward)
		return node.Continue
	})
}

// AttachAudioSource forwards the world position of n to sink after every render until n is disposed.
//
// Parameters:
//   - n: the node emitting sound
//   - sink: the source to update
func AttachAudioSource(n node.Node, sink Source) {
	if n == nil || sink == nil {
		panic("audio: AttachAudioSource requires a node and a source")
	}
	n.OnAfterRender(func() node.CallbackResult {
		sink.SetPosition(n.WorldPosition())
		return node.Continue
	})
}

// Falloff describes how loudness drops with distance.
type Falloff struct {
	// Reference is the distance at and below which a source plays at full volume.
	Reference float32

	// Max is the distance beyond which a source is silent.
	Max float32

	// Rolloff scales how quickly loudness drops past Reference.
	Rolloff float32
}

// DefaultFalloff suits a top-down camera tens of units above the battlefield.
var DefaultFalloff = Falloff{Reference: 10, Max: 150, Rolloff: 1}

// Gain returns the inverse-distance attenuation for a source d units away.
//
// Parameters:
//   - d: the distance from the listener
//
// Returns:
//   - float32: loudness in [0, 1]
func (f Falloff) Gain(d float32) float32 {
	if d >= f.Max {
		return 0
	}
	if d <= f.Reference {
		return 1
	}
	return f.Reference / (f.Reference + f.Rolloff*(d-f.Reference))
}

// Spatialize computes the stereo channel gains of a source heard by a listener. Panning is equal-power
// across the listener's horizontal right axis.
//
// Parameters:
//   - listener, forward: the listener position and facing
//   - source: the source position
//   - falloff: the distance model
//
// Returns:
//   - left, right: the channel gains in [0, 1]
func Spatialize(listener, forward, source linalg.Vector3, falloff Falloff) (left, right float32) {
	offset := source
	offset.Sub(listener)
	gain := falloff.Gain(offset.Length())
	if gain == 0 {
		return 0, 0
	}

	rightAxis := forward
	rightAxis.Cross(linalg.Vector3Up)
	rightAxis[1] = 0
	rightAxis.SafeNormalize()
	offset[1] = 0
	offset.SafeNormalize()
	pan := linalg.Clamp(offset.Dot(rightAxis), -1, 1)

	angle := (pan + 1) * math32.Pi / 4
	return gain * math32.Cos(angle), gain * math32.Sin(angle)
}
