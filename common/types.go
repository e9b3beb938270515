// Package common holds plain value types and helpers shared across the engine: input events, key codes,
// frustum culling and small generic utilities.
package common

import "github.com/Carmen-Shannon/rampart/common/linalg"

// PointerButton identifies a mouse button.
type PointerButton int

const (
	PointerLeft PointerButton = iota
	PointerRight
	PointerMiddle
)

// PointerAction says what happened to the pointer.
type PointerAction int

const (
	PointerMove PointerAction = iota
	PointerDown
	PointerUp
)

// PointerEvent is a mouse event in normalized screen coordinates: (0, 0) is the top-left corner of the
// window and (1, 1) the bottom-right. Camera.WorldRay and Camera.ScreenPosition use the same space.
type PointerEvent struct {
	Action PointerAction

	// Button is meaningful for PointerDown and PointerUp.
	Button PointerButton

	Position linalg.Vector2

	// Shift is set while either shift key is held.
	Shift bool
}

// KeyEvent is a keyboard press, repeat or release.
type KeyEvent struct {
	Key     KeyCode
	Pressed bool
	Repeat  bool
}

// NormalizePointer maps a cursor position in window coordinates into normalized screen space, clamping
// positions dragged outside the window.
//
// Parameters:
//   - x, y: cursor position in window coordinates
//   - width, height: window size in the same units
//
// Returns:
//   - linalg.Vector2: position in [0, 1]
func NormalizePointer(x, y float64, width, height int) linalg.Vector2 {
	if width <= 0 || height <= 0 {
		return linalg.Vector2{}
	}
	return linalg.Vector2{
		linalg.Clamp(float32(x/float64(width)), 0, 1),
		linalg.Clamp(float32(y/float64(height)), 0, 1),
	}
}
