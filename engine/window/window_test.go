package window

import (
	"testing"

	"github.com/Carmen-Shannon/rampart/common"
	"github.com/Carmen-Shannon/rampart/common/linalg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	w := newEngineWindow(WithTitle("siege"), WithSize(800, 600), WithMinSize(320, 200))
	assert.Equal(t, "siege", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, 320, w.minWidth)
	assert.Equal(t, 200, w.minHeight)
	assert.False(t, w.IsRunning(), "no platform window yet")
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
}

func TestPointerIsNormalizedToWindowCoordinates(t *testing.T) {
	w := newEngineWindow(WithSize(800, 600))
	// High-DPI: the framebuffer is twice the window size but cursors arrive in window coordinates.
	w.handleFramebufferSize(1600, 1200)
	w.handleWindowSize(800, 600)

	var events []common.PointerEvent
	w.SetPointerCallback(func(ev common.PointerEvent) { events = append(events, ev) })

	w.handleCursor(200, 450)
	w.handleButton(common.PointerRight, true)
	w.handleButton(common.PointerRight, false)

	require.Len(t, events, 3)
	assert.Equal(t, common.PointerMove, events[0].Action)
	assert.True(t, events[0].Position.ApproxEquals(linalg.Vector2{0.25, 0.75}, 1e-6))
	assert.Equal(t, common.PointerDown, events[1].Action)
	assert.Equal(t, common.PointerRight, events[1].Button)
	assert.Equal(t, events[0].Position, events[1].Position)
	assert.Equal(t, common.PointerUp, events[2].Action)
	assert.Equal(t, linalg.Vector2{0.25, 0.75}, w.Pointer())
}

func TestPointerClampsOutsideWindow(t *testing.T) {
	w := newEngineWindow(WithSize(100, 100))
	w.handleCursor(-20, 250)
	assert.Equal(t, linalg.Vector2{0, 1}, w.Pointer())
}

func TestShiftIsTrackedAcrossEvents(t *testing.T) {
	w := newEngineWindow()
	var keys []common.KeyEvent
	var pointer common.PointerEvent
	w.SetKeyCallback(func(ev common.KeyEvent) { keys = append(keys, ev) })
	w.SetPointerCallback(func(ev common.PointerEvent) { pointer = ev })

	w.handleKey(common.KeyLeftShift, true, false)
	w.handleButton(common.PointerLeft, true)
	assert.True(t, pointer.Shift)

	w.handleKey(common.KeyLeftShift, false, false)
	w.handleButton(common.PointerLeft, false)
	assert.False(t, pointer.Shift)

	w.handleKey(common.KeyW, true, true)
	require.Len(t, keys, 3)
	assert.Equal(t, common.KeyEvent{Key: common.KeyW, Pressed: true, Repeat: true}, keys[2])
}

func TestResizeAndScrollCallbacks(t *testing.T) {
	w := newEngineWindow()
	var size [2]int
	var scroll float32
	w.SetResizeCallback(func(width, height int) { size = [2]int{width, height} })
	w.SetScrollCallback(func(delta float32) { scroll = delta })

	w.handleFramebufferSize(1920, 1080)
	w.handleScroll(-2)
	assert.Equal(t, [2]int{1920, 1080}, size)
	assert.Equal(t, 1920, w.Width())
	assert.Equal(t, float32(-2), scroll)

	w.SetScrollCallback(nil)
	w.handleScroll(1)
	assert.Equal(t, float32(-2), scroll)
}
