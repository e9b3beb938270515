package audio

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/Carmen-Shannon/rampart/common/linalg"
)

// Voice is one playing sound placed in the world.
type Voice interface {
	Source

	// Stop ends playback. The voice reports io.EOF on its next read.
	Stop()

	// Playing reports whether the voice still has samples to produce.
	//
	// Returns:
	//   - bool: false once the sound ended or Stop was called
	Playing() bool
}

var _ Voice = &voice{}

// stereoFrameBytes is one float32 LE sample per channel.
const stereoFrameBytes = 8

type voice struct {
	mu       *sync.Mutex
	owner    *spatializerImpl
	samples  []float32
	cursor   int
	loop     bool
	stopped  bool
	position linalg.Vector3
}

func newVoice(owner *spatializerImpl, samples []float32, loop bool) *voice {
	return &voice{
		mu:      &sync.Mutex{},
		owner:   owner,
		samples: samples,
		loop:    loop,
	}
}

func (v *voice) SetPosition(position linalg.Vector3) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.position = position
}

func (v *voice) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopped = true
}

func (v *voice) Playing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.stopped && (v.loop || v.cursor < len(v.samples))
}

// Read expands the mono samples into interleaved stereo float32 LE frames, weighting each channel by the
// current listener placement.
func (v *voice) Read(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped || len(v.samples) == 0 {
		return 0, io.EOF
	}
	if !v.loop && v.cursor >= len(v.samples) {
		return 0, io.EOF
	}

	left, right := v.owner.gains(v.position)
	n := 0
	for n+stereoFrameBytes <= len(p) {
		if v.cursor >= len(v.samples) {
			if !v.loop {
				break
			}
			v.cursor = 0
		}
		s := v.samples[v.cursor]
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(s*left))
		binary.LittleEndian.PutUint32(p[n+4:], math.Float32bits(s*right))
		v.cursor++
		n += stereoFrameBytes
	}
	return n, nil
}
