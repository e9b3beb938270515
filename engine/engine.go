// Package engine binds a window, a GPU device, a scene and a profiler into the game loop. The scene is
// updated and rendered on a dedicated goroutine; window input is queued and delivered on that goroutine
// at the start of each frame so game code never races the scene.
package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/rampart/common"
	"github.com/Carmen-Shannon/rampart/engine/config"
	"github.com/Carmen-Shannon/rampart/engine/light"
	"github.com/Carmen-Shannon/rampart/engine/profiler"
	"github.com/Carmen-Shannon/rampart/engine/renderer"
	"github.com/Carmen-Shannon/rampart/engine/scene"
	"github.com/Carmen-Shannon/rampart/engine/window"
)

// eventQueueSize bounds the input events buffered between two frames.
const eventQueueSize = 256

// Engine is the main entry point for the engine.
type Engine interface {
	// Window returns the window, nil for a headless engine.
	Window() window.Window

	// Device returns the GPU device scenes must render to.
	//
	// Returns:
	//   - renderer.Device: the device
	Device() renderer.Device

	// Config returns the configuration the engine was built with.
	Config() config.Config

	// SceneOptions returns the scene options implied by the configuration.
	//
	// Returns:
	//   - []scene.SceneBuilderOption: fixed step and step cap options
	SceneOptions() []scene.SceneBuilderOption

	// LightOptions returns the light options implied by the configuration.
	//
	// Returns:
	//   - []light.LightBuilderOption: shadow resolution and extent options
	LightOptions() []light.LightBuilderOption

	// Scene returns the scene being run, or nil.
	Scene() scene.Scene

	// SetScene replaces the scene being run. The previous scene is not disposed.
	//
	// Parameters:
	//   - s: the scene to update and render each frame
	SetScene(s scene.Scene)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers the function called each frame before the scene updates.
	//
	// Parameters:
	//   - callback: function receiving the frame delta in seconds
	SetFrameCallback(callback func(dt float32))

	// SetPointerCallback registers the handler for mouse events, called on the frame goroutine.
	//
	// Parameters:
	//   - callback: function receiving pointer events in normalized screen coordinates
	SetPointerCallback(callback func(ev common.PointerEvent))

	// SetKeyCallback registers the handler for keyboard events, called on the frame goroutine.
	//
	// Parameters:
	//   - callback: function receiving key events
	SetKeyCallback(callback func(ev common.KeyEvent))

	// SetScrollCallback registers the handler for scroll wheel events, called on the frame goroutine.
	//
	// Parameters:
	//   - callback: function receiving the scroll delta
	SetScrollCallback(callback func(delta float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the frame loop and blocks until the window closes or Quit is called. The scene is
	// disposed when the loop ends.
	//
	// Returns:
	//   - error: the scene disposal error, if any
	Run() error

	// Quit signals the frame loop to stop. Safe to call multiple times and from any goroutine.
	Quit()
}

type engine struct {
	cfg config.Config

	window window.Window
	device renderer.Device

	mu    *sync.Mutex
	scene scene.Scene

	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once

	events chan func()

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback   func(dt float32)
	pointerCallback func(ev common.PointerEvent)
	keyCallback     func(ev common.KeyEvent)
	scrollCallback  func(delta float32)

	renderFrameLimit time.Duration
	lastRenderErr    string
	disposeErr       error
}

var _ Engine = &engine{}

// NewEngine creates an Engine. Without WithWindow or WithDevice it opens a window and a WebGPU device
// sized by the configuration; with only WithDevice it runs headless.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if the GPU device cannot be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		cfg:         config.Default(),
		mu:          &sync.Mutex{},
		quitChannel: make(chan struct{}),
		events:      make(chan func(), eventQueueSize),
		profiler:    profiler.NewProfiler(),
	}
	for _, opt := range options {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	if e.window == nil && e.device == nil {
		e.window = window.NewWindow(
			window.WithTitle(common.Coalesce(e.cfg.Window.Title, "rampart")),
			window.WithSize(e.cfg.Window.Width, e.cfg.Window.Height),
		)
	}
	if e.device == nil {
		dev, err := renderer.NewWGPUDevice(e.window.SurfaceDescriptor(), e.window.Width(), e.window.Height(), e.deviceOptions()...)
		if err != nil {
			return nil, fmt.Errorf("failed to create device: %w", err)
		}
		e.device = dev
	}
	if e.window != nil {
		e.bindWindow()
	}

	log.Printf("[Engine] %s backend ready", e.device.Backend())
	return e, nil
}

func (e *engine) deviceOptions() []renderer.DeviceBuilderOption {
	mode := renderer.PresentModeVSync
	if e.cfg.Window.PresentMode == config.PresentUncapped {
		mode = renderer.PresentModeUncapped
	}
	msaa := renderer.MSAA4x
	if e.cfg.Render.MSAA == 1 {
		msaa = renderer.MSAAOff
	}
	return []renderer.DeviceBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(msaa),
		renderer.WithAnisotropy(uint16(common.ClampOrdered(e.cfg.Render.Anisotropy, 1, 16))),
	}
}

// bindWindow queues window input for the frame goroutine.
func (e *engine) bindWindow() {
	e.window.SetResizeCallback(func(width, height int) {
		e.enqueue(func() { e.resize(width, height) })
	})
	e.window.SetPointerCallback(func(ev common.PointerEvent) {
		e.enqueue(func() {
			if e.pointerCallback != nil {
				e.pointerCallback(ev)
			}
		})
	})
	e.window.SetKeyCallback(func(ev common.KeyEvent) {
		if ev.Key == common.KeyEsc && ev.Pressed {
			e.Quit()
			return
		}
		e.enqueue(func() {
			if e.keyCallback != nil {
				e.keyCallback(ev)
			}
		})
	})
	e.window.SetScrollCallback(func(delta float32) {
		e.enqueue(func() {
			if e.scrollCallback != nil {
				e.scrollCallback(delta)
			}
		})
	})
}

// enqueue never blocks the window thread; events arriving while the queue is full are dropped.
func (e *engine) enqueue(fn func()) {
	select {
	case e.events <- fn:
	default:
		log.Printf("[Engine] input queue full, dropping event")
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Device() renderer.Device {
	return e.device
}

func (e *engine) Config() config.Config {
	return e.cfg
}

func (e *engine) SceneOptions() []scene.SceneBuilderOption {
	return []scene.SceneBuilderOption{
		scene.WithFixedStep(e.cfg.Simulation.FixedStep),
		scene.WithMaxFixedSteps(e.cfg.Simulation.MaxFixedSteps),
	}
}

func (e *engine) LightOptions() []light.LightBuilderOption {
	return []light.LightBuilderOption{
		light.WithShadowMapCap(e.cfg.Render.ShadowMapCap),
		light.WithShadowFrustum(e.cfg.Render.ShadowHalfExtent, light.DefaultShadowNear, light.DefaultShadowFar),
	}
}

func (e *engine) Scene() scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

func (e *engine) SetScene(s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene = s
	e.lastRenderErr = ""
}

func (e *engine) Run() error {
	e.wg.Add(1)
	go e.handleRender()

	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()

	if e.window != nil {
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] failed to close window: %v", err)
		}
	}
	return e.disposeErr
}

func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handleRender runs the frame loop until quit. Panics are recovered and end the loop.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer e.disposeScene()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()
	e.profiler.Reset()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		e.frame(dt)

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(lastRender); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// frame drains queued input, runs the frame callback, then updates and renders the scene.
func (e *engine) frame(dt float32) {
	e.drainEvents()

	if e.frameCallback != nil {
		e.frameCallback(dt)
	}

	if s := e.Scene(); s != nil {
		s.UpdateScene(dt)
		if err := s.Render(); err != nil {
			if msg := err.Error(); msg != e.lastRenderErr {
				log.Printf("[Engine] render failed: %v", err)
				e.lastRenderErr = msg
			}
		} else {
			e.lastRenderErr = ""
		}
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}
}

func (e *engine) drainEvents() {
	for {
		select {
		case fn := <-e.events:
			fn()
		default:
			return
		}
	}
}

func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.device.Resize(width, height)
	if s := e.Scene(); s != nil {
		if c := s.Camera(); c != nil {
			c.SetAspect(float32(width) / float32(height))
		}
	}
}

func (e *engine) disposeScene() {
	s := e.Scene()
	if s == nil {
		return
	}
	if err := s.Dispose(); err != nil {
		e.disposeErr = fmt.Errorf("failed to dispose scene %q: %w", s.Name(), err)
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback func(dt float32)) {
	e.frameCallback = callback
}

func (e *engine) SetPointerCallback(callback func(ev common.PointerEvent)) {
	e.pointerCallback = callback
}

func (e *engine) SetKeyCallback(callback func(ev common.KeyEvent)) {
	e.keyCallback = callback
}

func (e *engine) SetScrollCallback(callback func(delta float32)) {
	e.scrollCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
