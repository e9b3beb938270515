package profiler

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTickReportsFrameSpread(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var out bytes.Buffer
	p := NewProfiler(withClock(clock.now), WithLogger(log.New(&out, "", 0)), WithMemoryStats(false))

	frames := []time.Duration{10 * time.Millisecond, 30 * time.Millisecond, 20 * time.Millisecond}
	for _, d := range frames {
		clock.advance(d)
		assert.False(t, p.Tick())
	}
	assert.Empty(t, out.String())

	clock.advance(940 * time.Millisecond)
	require.True(t, p.Tick())

	s := p.Last()
	assert.Equal(t, 4, s.Frames)
	assert.InDelta(t, 4, s.FPS, 1e-9)
	assert.Equal(t, 10*time.Millisecond, s.MinFrame)
	assert.Equal(t, 940*time.Millisecond, s.MaxFrame)
	assert.Equal(t, 250*time.Millisecond, s.AvgFrame)
	assert.Contains(t, out.String(), "[Profiler] FPS: 4.00")
}

func TestTickStartsNewInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(withClock(clock.now), WithLogger(log.New(&bytes.Buffer{}, "", 0)),
		WithMemoryStats(false), WithInterval(100*time.Millisecond))

	clock.advance(100 * time.Millisecond)
	require.True(t, p.Tick())

	clock.advance(5 * time.Millisecond)
	assert.False(t, p.Tick())
	clock.advance(95 * time.Millisecond)
	require.True(t, p.Tick())
	s := p.Last()
	assert.Equal(t, 2, s.Frames)
	assert.Equal(t, 5*time.Millisecond, s.MinFrame)
	assert.Equal(t, 95*time.Millisecond, s.MaxFrame)
}

func TestResetDiscardsFrames(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(withClock(clock.now), WithLogger(log.New(&bytes.Buffer{}, "", 0)), WithMemoryStats(false))
	clock.advance(900 * time.Millisecond)
	p.Tick()
	p.Reset()
	clock.advance(500 * time.Millisecond)
	assert.False(t, p.Tick(), "the interval restarts at Reset")
}

func TestMemoryStatsAreRead(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(withClock(clock.now), WithLogger(log.New(&bytes.Buffer{}, "", 0)))
	clock.advance(time.Second)
	require.True(t, p.Tick())
	assert.Greater(t, p.Last().HeapMB, 0.0)
}
