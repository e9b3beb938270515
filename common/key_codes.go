package common

// KeyCode identifies a keyboard key. Values match GLFW key codes, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type KeyCode uint32

// Camera and selection keys.
const (
	KeyW      KeyCode = 87
	KeyA      KeyCode = 65
	KeyS      KeyCode = 83
	KeyD      KeyCode = 68
	KeyQ      KeyCode = 81
	KeyE      KeyCode = 69
	KeyR      KeyCode = 82
	KeyF      KeyCode = 70
	KeyP      KeyCode = 80
	KeySpace  KeyCode = 32
	KeyEsc    KeyCode = 256
	KeyEnter  KeyCode = 257
	KeyTab    KeyCode = 258
	KeyDelete KeyCode = 261

	KeyRight KeyCode = 262
	KeyLeft  KeyCode = 263
	KeyDown  KeyCode = 264
	KeyUp    KeyCode = 265

	KeyLeftShift    KeyCode = 340
	KeyLeftControl  KeyCode = 341
	KeyRightShift   KeyCode = 344
	KeyRightControl KeyCode = 345
)

// Build hotkeys.
const (
	Key0 KeyCode = 48 + iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// Digit returns the number on a digit key.
//
// Returns:
//   - int: 0 through 9
//   - bool: false for keys that are not digits
func (k KeyCode) Digit() (int, bool) {
	if k < Key0 || k > Key9 {
		return 0, false
	}
	return int(k - Key0), true
}

// IsShift reports whether k is either shift key.
func (k KeyCode) IsShift() bool {
	return k == KeyLeftShift || k == KeyRightShift
}
