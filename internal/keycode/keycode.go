// Package keycode defines the canonical KeyCode enum shared by Capture and
// Injection, and the fixed translation tables between that canonical code
// and the three supported platforms' native key identities. A scan code (or
// key name) measured on a Windows capture source always maps to the same
// KeyCode a Linux or macOS injector would receive, which is what lets a
// server and a client running on different OSes exchange keyboard events
// at all.
package keycode

// KeyCode is a canonical, platform-independent key identity.
type KeyCode int

const (
	Unknown KeyCode = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyEscape
	KeyTab
	KeyCapsLock
	KeyBackspace
	KeyEnter
	KeySpace
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeySemicolon
	KeyQuote
	KeyComma
	KeyPeriod
	KeySlash
	KeyGrave

	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight

	KeyShiftLeft
	KeyShiftRight
	KeyControlLeft
	KeyControlRight
	KeyAltLeft
	KeyAltRight
	KeyGuiLeft
	KeyGuiRight

	KeyNumLock
	KeyScrollLock
	KeyPrintScreen
	KeyPause

	KeyNumpad0
	KeyNumpad1
	KeyNumpad2
	KeyNumpad3
	KeyNumpad4
	KeyNumpad5
	KeyNumpad6
	KeyNumpad7
	KeyNumpad8
	KeyNumpad9
	KeyNumpadDecimal
	KeyNumpadAdd
	KeyNumpadSubtract
	KeyNumpadMultiply
	KeyNumpadDivide
	KeyNumpadEnter

	keyCount
)

// IsModifier reports whether a key is one of the keys tracked by
// events.Modifiers rather than delivered as a plain key state change.
func (k KeyCode) IsModifier() bool {
	switch k {
	case KeyShiftLeft, KeyShiftRight, KeyControlLeft, KeyControlRight,
		KeyAltLeft, KeyAltRight, KeyGuiLeft, KeyGuiRight,
		KeyCapsLock, KeyNumLock, KeyScrollLock:
		return true
	default:
		return false
	}
}

func (k KeyCode) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "unknown"
}
