package keycode

var names = map[KeyCode]string{
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",
	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",
	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",
	KeyEscape: "Escape", KeyTab: "Tab", KeyCapsLock: "CapsLock", KeyBackspace: "Backspace",
	KeyEnter: "Enter", KeySpace: "Space", KeyMinus: "Minus", KeyEqual: "Equal",
	KeyLeftBracket: "LeftBracket", KeyRightBracket: "RightBracket", KeyBackslash: "Backslash",
	KeySemicolon: "Semicolon", KeyQuote: "Quote", KeyComma: "Comma", KeyPeriod: "Period",
	KeySlash: "Slash", KeyGrave: "Grave",
	KeyInsert: "Insert", KeyDelete: "Delete", KeyHome: "Home", KeyEnd: "End",
	KeyPageUp: "PageUp", KeyPageDown: "PageDown",
	KeyArrowUp: "ArrowUp", KeyArrowDown: "ArrowDown", KeyArrowLeft: "ArrowLeft", KeyArrowRight: "ArrowRight",
	KeyShiftLeft: "ShiftLeft", KeyShiftRight: "ShiftRight",
	KeyControlLeft: "ControlLeft", KeyControlRight: "ControlRight",
	KeyAltLeft: "AltLeft", KeyAltRight: "AltRight",
	KeyGuiLeft: "GuiLeft", KeyGuiRight: "GuiRight",
	KeyNumLock: "NumLock", KeyScrollLock: "ScrollLock", KeyPrintScreen: "PrintScreen", KeyPause: "Pause",
	KeyNumpad0: "Numpad0", KeyNumpad1: "Numpad1", KeyNumpad2: "Numpad2", KeyNumpad3: "Numpad3",
	KeyNumpad4: "Numpad4", KeyNumpad5: "Numpad5", KeyNumpad6: "Numpad6", KeyNumpad7: "Numpad7",
	KeyNumpad8: "Numpad8", KeyNumpad9: "Numpad9", KeyNumpadDecimal: "NumpadDecimal",
	KeyNumpadAdd: "NumpadAdd", KeyNumpadSubtract: "NumpadSubtract", KeyNumpadMultiply: "NumpadMultiply",
	KeyNumpadDivide: "NumpadDivide", KeyNumpadEnter: "NumpadEnter",
}

// windowsScanToKey is indexed by the scan code packed into a single byte the
// way windows_scan_code_to_key_code packs it: the low byte of the scan code
// with bit 0x80 set when the code carried the 0xE0 extended prefix. Plain
// (non-extended) codes are PC/AT set-1 scan codes.
var windowsScanToKey = map[uint8]KeyCode{
	0x01: KeyEscape,
	0x02: Key1, 0x03: Key2, 0x04: Key3, 0x05: Key4, 0x06: Key5,
	0x07: Key6, 0x08: Key7, 0x09: Key8, 0x0A: Key9, 0x0B: Key0,
	0x0C: KeyMinus, 0x0D: KeyEqual, 0x0E: KeyBackspace, 0x0F: KeyTab,
	0x10: KeyQ, 0x11: KeyW, 0x12: KeyE, 0x13: KeyR, 0x14: KeyT,
	0x15: KeyY, 0x16: KeyU, 0x17: KeyI, 0x18: KeyO, 0x19: KeyP,
	0x1A: KeyLeftBracket, 0x1B: KeyRightBracket, 0x1C: KeyEnter, 0x1D: KeyControlLeft,
	0x1E: KeyA, 0x1F: KeyS, 0x20: KeyD, 0x21: KeyF, 0x22: KeyG,
	0x23: KeyH, 0x24: KeyJ, 0x25: KeyK, 0x26: KeyL,
	0x27: KeySemicolon, 0x28: KeyQuote, 0x29: KeyGrave, 0x2A: KeyShiftLeft, 0x2B: KeyBackslash,
	0x2C: KeyZ, 0x2D: KeyX, 0x2E: KeyC, 0x2F: KeyV, 0x30: KeyB, 0x31: KeyN, 0x32: KeyM,
	0x33: KeyComma, 0x34: KeyPeriod, 0x35: KeySlash, 0x36: KeyShiftRight,
	0x37: KeyNumpadMultiply, 0x38: KeyAltLeft, 0x39: KeySpace, 0x3A: KeyCapsLock,
	0x3B: KeyF1, 0x3C: KeyF2, 0x3D: KeyF3, 0x3E: KeyF4, 0x3F: KeyF5,
	0x40: KeyF6, 0x41: KeyF7, 0x42: KeyF8, 0x43: KeyF9, 0x44: KeyF10,
	0x45: KeyNumLock, 0x46: KeyScrollLock,
	0x47: KeyNumpad7, 0x48: KeyNumpad8, 0x49: KeyNumpad9, 0x4A: KeyNumpadSubtract,
	0x4B: KeyNumpad4, 0x4C: KeyNumpad5, 0x4D: KeyNumpad6, 0x4E: KeyNumpadAdd,
	0x4F: KeyNumpad1, 0x50: KeyNumpad2, 0x51: KeyNumpad3, 0x52: KeyNumpad0, 0x53: KeyNumpadDecimal,
	0x57: KeyF11, 0x58: KeyF12,

	// Extended (0xE0-prefixed) codes, packed with the 0x80 bit set.
	0x9C: KeyNumpadEnter, 0x9D: KeyControlRight, 0xB5: KeyNumpadDivide, 0xB8: KeyAltRight,
	0xC6: KeyPause, 0xC7: KeyHome, 0xC8: KeyArrowUp, 0xC9: KeyPageUp,
	0xCB: KeyArrowLeft, 0xCD: KeyArrowRight, 0xCF: KeyEnd, 0xD0: KeyArrowDown,
	0xD1: KeyPageDown, 0xD2: KeyInsert, 0xD3: KeyDelete, 0xDB: KeyGuiLeft, 0xDC: KeyGuiRight,
	0xB7: KeyPrintScreen,
}

var keyToWindowsIndex = func() map[KeyCode]uint8 {
	m := make(map[KeyCode]uint8, len(windowsScanToKey))
	for idx, k := range windowsScanToKey {
		m[k] = idx
	}
	return m
}()

// FromWindowsScanCode mirrors windows_scan_code_to_key_code: it packs a raw
// (scanCode, extended) pair into the single-byte index used by the table
// above. scanCode is the low-order scan code byte reported by the OS;
// extended is true when the report carried the 0xE0 (or 0xE1, for
// Pause/Break) prefix.
func FromWindowsScanCode(scanCode uint8, extended bool) KeyCode {
	index := scanCode &^ 0x80
	if extended {
		index |= 0x80
	}
	if k, ok := windowsScanToKey[index]; ok {
		return k
	}
	return Unknown
}

// ToWindowsScanCode returns the (scanCode, extended) pair SendInput expects
// for a canonical key, the inverse of FromWindowsScanCode.
func ToWindowsScanCode(k KeyCode) (scanCode uint8, extended bool) {
	index, ok := keyToWindowsIndex[k]
	if !ok {
		return 0, false
	}
	return index &^ 0x80, index&0x80 != 0
}

// x11Names are xdotool/X11 keysym names, used by the linux capture and
// injection backends, which shell out to xdotool.
var x11Names = map[KeyCode]string{
	KeyEscape: "Escape", KeyTab: "Tab", KeyCapsLock: "Caps_Lock", KeyBackspace: "BackSpace",
	KeyEnter: "Return", KeySpace: "space", KeyMinus: "minus", KeyEqual: "equal",
	KeyLeftBracket: "bracketleft", KeyRightBracket: "bracketright", KeyBackslash: "backslash",
	KeySemicolon: "semicolon", KeyQuote: "apostrophe", KeyComma: "comma", KeyPeriod: "period",
	KeySlash: "slash", KeyGrave: "grave",
	KeyInsert: "Insert", KeyDelete: "Delete", KeyHome: "Home", KeyEnd: "End",
	KeyPageUp: "Page_Up", KeyPageDown: "Page_Down",
	KeyArrowUp: "Up", KeyArrowDown: "Down", KeyArrowLeft: "Left", KeyArrowRight: "Right",
	KeyShiftLeft: "Shift_L", KeyShiftRight: "Shift_R",
	KeyControlLeft: "Control_L", KeyControlRight: "Control_R",
	KeyAltLeft: "Alt_L", KeyAltRight: "Alt_R",
	KeyGuiLeft: "Super_L", KeyGuiRight: "Super_R",
	KeyNumLock: "Num_Lock", KeyScrollLock: "Scroll_Lock", KeyPrintScreen: "Print", KeyPause: "Pause",
	KeyNumpad0: "KP_0", KeyNumpad1: "KP_1", KeyNumpad2: "KP_2", KeyNumpad3: "KP_3",
	KeyNumpad4: "KP_4", KeyNumpad5: "KP_5", KeyNumpad6: "KP_6", KeyNumpad7: "KP_7",
	KeyNumpad8: "KP_8", KeyNumpad9: "KP_9", KeyNumpadDecimal: "KP_Decimal",
	KeyNumpadAdd: "KP_Add", KeyNumpadSubtract: "KP_Subtract", KeyNumpadMultiply: "KP_Multiply",
	KeyNumpadDivide: "KP_Divide", KeyNumpadEnter: "KP_Enter",
}

var x11NameToKey = func() map[string]KeyCode {
	m := make(map[string]KeyCode, len(x11Names)+36)
	for k, n := range x11Names {
		m[n] = k
	}
	for k := KeyA; k <= KeyZ; k++ {
		m[string(rune('a'+int(k)-int(KeyA)))] = k
	}
	for k := Key0; k <= Key9; k++ {
		m[string(rune('0'+int(k)-int(Key0)))] = k
	}
	return m
}()

// ToX11Name returns the xdotool key name for a canonical key. Letters and
// digits pass through as their lowercase ASCII form, matching xdotool's own
// convention, so they are not listed in the table above.
func ToX11Name(k KeyCode) string {
	if k >= KeyA && k <= KeyZ {
		return string(rune('a' + int(k) - int(KeyA)))
	}
	if k >= Key0 && k <= Key9 {
		return string(rune('0' + int(k) - int(Key0)))
	}
	if n, ok := x11Names[k]; ok {
		return n
	}
	return ""
}

// FromX11Name is the inverse of ToX11Name, used to decode xdotool-style
// key names back to a canonical key when parsing capture output.
func FromX11Name(name string) KeyCode {
	if k, ok := x11NameToKey[name]; ok {
		return k
	}
	return Unknown
}

// darwinNames are the key names cliclick's "kp:" action and AppleScript's
// "key code" both recognize, used by the darwin injection backend.
var darwinNames = map[KeyCode]string{
	KeyEscape: "esc", KeyTab: "tab", KeyCapsLock: "caps-lock", KeyBackspace: "delete",
	KeyEnter: "return", KeySpace: "space", KeyDelete: "fwd-delete",
	KeyHome: "home", KeyEnd: "end", KeyPageUp: "page-up", KeyPageDown: "page-down",
	KeyArrowUp: "arrow-up", KeyArrowDown: "arrow-down", KeyArrowLeft: "arrow-left", KeyArrowRight: "arrow-right",
	KeyShiftLeft: "shift", KeyShiftRight: "shift",
	KeyControlLeft: "ctrl", KeyControlRight: "ctrl",
	KeyAltLeft: "alt", KeyAltRight: "alt",
	KeyGuiLeft: "cmd", KeyGuiRight: "cmd",
	KeyF1: "f1", KeyF2: "f2", KeyF3: "f3", KeyF4: "f4", KeyF5: "f5", KeyF6: "f6",
	KeyF7: "f7", KeyF8: "f8", KeyF9: "f9", KeyF10: "f10", KeyF11: "f11", KeyF12: "f12",
}

// ToDarwinKeyName returns the cliclick "kp:" key name for a canonical key.
// Letters and digits pass through as their lowercase ASCII form.
func ToDarwinKeyName(k KeyCode) string {
	if k >= KeyA && k <= KeyZ {
		return string(rune('a' + int(k) - int(KeyA)))
	}
	if k >= Key0 && k <= Key9 {
		return string(rune('0' + int(k) - int(Key0)))
	}
	if n, ok := darwinNames[k]; ok {
		return n
	}
	return ""
}
