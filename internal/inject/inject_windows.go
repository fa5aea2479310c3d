//go:build windows

package inject

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/keycode"
)

var (
	user32           = syscall.NewLazyDLL("user32.dll")
	sendInput        = user32.NewProc("SendInput")
	setCursorPos     = user32.NewProc("SetCursorPos")
	getCursorPos     = user32.NewProc("GetCursorPos")
	getSystemMetrics = user32.NewProc("GetSystemMetrics")
)

const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseeventfMove    = 0x0001
	mouseeventfLeftD   = 0x0002
	mouseeventfLeftU   = 0x0004
	mouseeventfRightD  = 0x0008
	mouseeventfRightU  = 0x0010
	mouseeventfMiddleD = 0x0020
	mouseeventfMiddleU = 0x0040
	mouseeventfWheel   = 0x0800
	mouseeventfHWheel  = 0x1000

	keyeventfKeyUp       = 0x0002
	keyeventfScanCode    = 0x0008
	keyeventfExtendedKey = 0x0001

	smCXScreen = 0
	smCYScreen = 1
)

type mouseInput struct {
	dx, dy      int32
	mouseData   uint32
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

type keybdInput struct {
	wVk         uint16
	wScan       uint16
	dwFlags     uint32
	time        uint32
	dwExtraInfo uintptr
}

// rawInput mirrors the Windows INPUT union: inputType selects whether mi
// holds a MOUSEINPUT or, reinterpreted via unsafe.Pointer, a KEYBDINPUT —
// mouseInput's layout is large enough to hold either.
type rawInput struct {
	inputType uint32
	padding   [4]byte
	mi        mouseInput
}

type point struct{ X, Y int32 }

// windowsBackend synthesizes input with SendInput, the same user32.dll
// entry point the teacher's remote-control injector uses.
type windowsBackend struct {
	mu sync.Mutex
}

func newOSBackend() Backend { return &windowsBackend{} }

func sendMouse(flags uint32, dx, dy int32, data uint32) error {
	var inp rawInput
	inp.inputType = inputMouse
	inp.mi.dx, inp.mi.dy, inp.mi.dwFlags, inp.mi.mouseData = dx, dy, flags, data

	ret, _, _ := sendInput.Call(1, uintptr(unsafe.Pointer(&inp)), unsafe.Sizeof(inp))
	if ret == 0 {
		return fmt.Errorf("SendInput(mouse) failed, flags=0x%x", flags)
	}
	return nil
}

func (b *windowsBackend) MoveAbsolute(x, y int32) error {
	ret, _, _ := setCursorPos.Call(uintptr(x), uintptr(y))
	if ret == 0 {
		return fmt.Errorf("SetCursorPos failed")
	}
	return nil
}

func (b *windowsBackend) MoveRelative(dx, dy int32) error {
	return sendMouse(mouseeventfMove, dx, dy, 0)
}

func (b *windowsBackend) Button(state events.ButtonState, button events.MouseButtonName, clicks uint8) error {
	down, up := buttonFlags(button)
	switch state {
	case events.ButtonDown:
		return sendMouse(down, 0, 0, 0)
	case events.ButtonUp:
		return sendMouse(up, 0, 0, 0)
	case events.ButtonClick:
		n := clicks
		if n == 0 {
			n = 1
		}
		for i := uint8(0); i < n; i++ {
			if err := sendMouse(down, 0, 0, 0); err != nil {
				return err
			}
			if err := sendMouse(up, 0, 0, 0); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func buttonFlags(button events.MouseButtonName) (down, up uint32) {
	switch button {
	case events.ButtonRight:
		return mouseeventfRightD, mouseeventfRightU
	case events.ButtonMiddle:
		return mouseeventfMiddleD, mouseeventfMiddleU
	default:
		return mouseeventfLeftD, mouseeventfLeftU
	}
}

func (b *windowsBackend) Wheel(dx, dy float32) error {
	if dy != 0 {
		if err := sendMouse(mouseeventfWheel, 0, 0, uint32(int32(dy*120))); err != nil {
			return err
		}
	}
	if dx != 0 {
		if err := sendMouse(mouseeventfHWheel, 0, 0, uint32(int32(dx*120))); err != nil {
			return err
		}
	}
	return nil
}

func (b *windowsBackend) Key(state events.KeyState, key keycode.KeyCode) error {
	scanCode, extended := keycode.ToWindowsScanCode(key)
	if scanCode == 0 && !extended {
		return fmt.Errorf("inject: no windows scan code for %s", key)
	}

	var inp rawInput
	inp.inputType = inputKeyboard
	ki := (*keybdInput)(unsafe.Pointer(&inp.mi))
	ki.wScan = uint16(scanCode)
	ki.dwFlags = keyeventfScanCode
	if extended {
		ki.dwFlags |= keyeventfExtendedKey
	}
	if state == events.KeyUp {
		ki.dwFlags |= keyeventfKeyUp
	}

	ret, _, _ := sendInput.Call(1, uintptr(unsafe.Pointer(&inp)), unsafe.Sizeof(inp))
	if ret == 0 {
		return fmt.Errorf("SendInput(keyboard) failed for %s", key)
	}
	return nil
}

func (b *windowsBackend) Close() error { return nil }
