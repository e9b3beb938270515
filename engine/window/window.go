// Package window opens the game window and turns platform input into engine events. Pointer positions are
// reported in normalized screen coordinates so they feed Camera.WorldRay directly.
package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/rampart/common"
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in)
	SetScrollCallback(callback func(delta float32))

	// SetKeyCallback sets the callback for key presses, repeats and releases.
	//
	// Parameters:
	//   - callback: function receiving the key event
	SetKeyCallback(callback func(ev common.KeyEvent))

	// SetPointerCallback sets the callback for mouse movement and button events.
	//
	// Parameters:
	//   - callback: function receiving the pointer event in normalized screen coordinates
	SetPointerCallback(callback func(ev common.PointerEvent))

	// Pointer returns the last known cursor position.
	//
	// Returns:
	//   - linalg.Vector2: position in normalized screen coordinates
	Pointer() linalg.Vector2

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

type engineWindow struct {
	title     string
	minWidth  int
	minHeight int

	// width and height are the framebuffer size in pixels.
	width  int
	height int

	// windowWidth and windowHeight are the size in screen coordinates, the space cursor positions
	// arrive in. They differ from the framebuffer on high-DPI displays.
	windowWidth  int
	windowHeight int

	pointer  linalg.Vector2
	shiftKey [2]bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onScroll  func(delta float32)
	onKey     func(ev common.KeyEvent)
	onPointer func(ev common.PointerEvent)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window. It must be called from the main goroutine.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("window: failed to create platform window: %v", err))
	}
	return w
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "rampart",
		minWidth:  640,
		minHeight: 360,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	w.windowWidth, w.windowHeight = w.width, w.height
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyCallback(callback func(ev common.KeyEvent)) {
	w.onKey = callback
}

func (w *engineWindow) SetPointerCallback(callback func(ev common.PointerEvent)) {
	w.onPointer = callback
}

func (w *engineWindow) Pointer() linalg.Vector2 {
	return w.pointer
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// The handlers below receive raw platform input and are shared by every platform backend.

func (w *engineWindow) handleKey(key common.KeyCode, pressed, repeat bool) {
	switch key {
	case common.KeyLeftShift:
		w.shiftKey[0] = pressed
	case common.KeyRightShift:
		w.shiftKey[1] = pressed
	}
	if w.onKey != nil {
		w.onKey(common.KeyEvent{Key: key, Pressed: pressed, Repeat: repeat})
	}
}

func (w *engineWindow) handleCursor(x, y float64) {
	w.pointer = common.NormalizePointer(x, y, w.windowWidth, w.windowHeight)
	w.emitPointer(common.PointerMove, common.PointerLeft)
}

func (w *engineWindow) handleButton(button common.PointerButton, pressed bool) {
	action := common.PointerUp
	if pressed {
		action = common.PointerDown
	}
	w.emitPointer(action, button)
}

func (w *engineWindow) emitPointer(action common.PointerAction, button common.PointerButton) {
	if w.onPointer == nil {
		return
	}
	w.onPointer(common.PointerEvent{
		Action:   action,
		Button:   button,
		Position: w.pointer,
		Shift:    w.shiftKey[0] || w.shiftKey[1],
	})
}

func (w *engineWindow) handleScroll(dy float64) {
	if w.onScroll != nil {
		w.onScroll(float32(dy))
	}
}

func (w *engineWindow) handleWindowSize(width, height int) {
	w.windowWidth, w.windowHeight = width, height
}

func (w *engineWindow) handleFramebufferSize(width, height int) {
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
