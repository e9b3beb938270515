// Package profiler logs frame timing and memory statistics at a fixed interval.
package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats summarizes the frames of one reporting interval.
type Stats struct {
	Frames int
	FPS    float64

	// MinFrame, AvgFrame and MaxFrame are frame durations within the interval.
	MinFrame time.Duration
	AvgFrame time.Duration
	MaxFrame time.Duration

	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	MaxPauseUs  uint64
}

// Profiler tracks frame rate, frame-time spread and memory statistics.
type Profiler struct {
	now            func() time.Time
	logger         *log.Logger
	updateInterval time.Duration
	readMem        bool

	frameCount int
	lastTime   time.Time
	lastFrame  time.Time
	minFrame   time.Duration
	maxFrame   time.Duration

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	last Stats
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		now:            time.Now,
		logger:         log.Default(),
		updateInterval: time.Second,
		readMem:        true,
	}
	for _, opt := range options {
		opt(p)
	}
	p.Reset()
	return p
}

// Reset starts a fresh interval, discarding frames counted so far.
func (p *Profiler) Reset() {
	t := p.now()
	p.frameCount = 0
	p.lastTime = t
	p.lastFrame = t
	p.minFrame = 0
	p.maxFrame = 0
}

// Tick should be called once per frame. It logs a summary when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	currentTime := p.now()
	frame := currentTime.Sub(p.lastFrame)
	p.lastFrame = currentTime

	if p.frameCount == 0 || frame < p.minFrame {
		p.minFrame = frame
	}
	p.maxFrame = max(p.maxFrame, frame)
	p.frameCount++

	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	s := Stats{
		Frames:   p.frameCount,
		FPS:      float64(p.frameCount) / elapsed.Seconds(),
		MinFrame: p.minFrame,
		AvgFrame: elapsed / time.Duration(p.frameCount),
		MaxFrame: p.maxFrame,
	}
	if p.readMem {
		p.readMemory(&s, elapsed)
	}
	p.last = s

	p.logger.Printf("[Profiler] FPS: %.2f | Frame: %s avg, %s min, %s max | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max pause: %d µs)",
		s.FPS, s.AvgFrame.Round(time.Microsecond), s.MinFrame.Round(time.Microsecond), s.MaxFrame.Round(time.Microsecond),
		s.HeapMB, s.AllocRateMB, s.GCCount, s.MaxPauseUs)

	p.frameCount = 0
	p.lastTime = currentTime
	p.minFrame = 0
	p.maxFrame = 0
	return true
}

func (p *Profiler) readMemory(s *Stats, elapsed time.Duration) {
	runtime.ReadMemStats(&p.memStats)
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	start := p.lastGCCount
	if gcCount-start > 256 {
		start = gcCount - 256
	}
	for i := start; i < gcCount; i++ {
		s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}
	s.GCCount = gcCount

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
}

// Last returns the most recently logged summary.
//
// Returns:
//   - Stats: zero until the first interval completes
func (p *Profiler) Last() Stats {
	return p.last
}
