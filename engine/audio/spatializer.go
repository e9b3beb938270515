package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/hajimehoshi/oto/v2"
)

const (
	// DefaultSampleRate is the rate voices are mixed at.
	DefaultSampleRate = 44100

	channelCount = 2

	// formatFloat32LE selects oto's float32 little-endian sample format.
	formatFloat32LE = 0
)

// Spatializer plays mono sounds positioned relative to a listener.
type Spatializer interface {
	Listener

	// Play starts a sound at a world position.
	//
	// Parameters:
	//   - samples: mono samples in [-1, 1] at the spatializer's sample rate
	//   - position: where the sound starts
	//   - loop: whether the sound repeats until stopped
	//
	// Returns:
	//   - Voice: handle to move or stop the sound
	//   - error: error if the output device could not take the sound
	Play(samples []float32, position linalg.Vector3, loop bool) (Voice, error)

	// SampleRate returns the rate sounds must be authored at.
	//
	// Returns:
	//   - int: samples per second
	SampleRate() int

	// Close stops every voice.
	Close()
}

var _ Spatializer = &spatializerImpl{}

type player interface {
	Play()
	IsPlaying() bool
	SetVolume(volume float64)
	Close() error
}

type spatializerImpl struct {
	mu         *sync.RWMutex
	sampleRate int
	falloff    Falloff
	volume     float64
	listener   linalg.Vector3
	forward    linalg.Vector3

	newPlayer func(v *voice) (player, error)
	voicesMu  *sync.Mutex
	voices    map[*voice]player
}

func newSpatializer(options ...SpatializerBuilderOption) *spatializerImpl {
	s := &spatializerImpl{
		mu:         &sync.RWMutex{},
		sampleRate: DefaultSampleRate,
		falloff:    DefaultFalloff,
		volume:     1,
		forward:    linalg.Vector3Forward,
		voicesMu:   &sync.Mutex{},
		voices:     make(map[*voice]player),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.falloff.Max <= s.falloff.Reference {
		panic(fmt.Sprintf("audio: falloff max %v must exceed reference %v", s.falloff.Max, s.falloff.Reference))
	}
	return s
}

// NewOtoSpatializer opens the default audio output through oto. Only one may exist per process.
//
// Parameters:
//   - options: variadic list of SpatializerBuilderOption functions
//
// Returns:
//   - Spatializer: the spatializer
//   - error: error if the output device could not be opened
func NewOtoSpatializer(options ...SpatializerBuilderOption) (Spatializer, error) {
	s := newSpatializer(options...)

	ctx, ready, err := oto.NewContext(s.sampleRate, channelCount, formatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio output: %w", err)
	}
	<-ready

	s.newPlayer = func(v *voice) (player, error) {
		p := ctx.NewPlayer(v)
		if err := p.Err(); err != nil {
			return nil, err
		}
		return p, nil
	}
	log.Printf("[Audio] output ready at %d Hz", s.sampleRate)
	return s, nil
}

func (s *spatializerImpl) SetListener(position, forward linalg.Vector3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = position
	s.forward = forward
}

func (s *spatializerImpl) SampleRate() int {
	return s.sampleRate
}

func (s *spatializerImpl) gains(position linalg.Vector3) (float32, float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Spatialize(s.listener, s.forward, position, s.falloff)
}

func (s *spatializerImpl) Play(samples []float32, position linalg.Vector3, loop bool) (Voice, error) {
	v := newVoice(s, samples, loop)
	v.position = position
	if s.newPlayer == nil {
		return v, nil
	}

	p, err := s.newPlayer(v)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player: %w", err)
	}
	p.SetVolume(s.volume)
	p.Play()

	s.voicesMu.Lock()
	s.voices[v] = p
	s.voicesMu.Unlock()

	go s.reap(v, p)
	return v, nil
}

// reap closes the player once its voice runs dry.
func (s *spatializerImpl) reap(v *voice, p player) {
	for p.IsPlaying() && v.Playing() {
		time.Sleep(10 * time.Millisecond)
	}
	s.voicesMu.Lock()
	delete(s.voices, v)
	s.voicesMu.Unlock()
	_ = p.Close()
}

func (s *spatializerImpl) Close() {
	s.voicesMu.Lock()
	defer s.voicesMu.Unlock()
	for v := range s.voices {
		v.Stop()
	}
}
