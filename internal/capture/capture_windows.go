//go:build windows

package capture

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/keycode"
)

var (
	user32              = syscall.NewLazyDLL("user32.dll")
	kernel32            = syscall.NewLazyDLL("kernel32.dll")
	procSetWindowsHook  = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHk = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHook    = user32.NewProc("CallNextHookEx")
	procGetMessage      = user32.NewProc("GetMessageW")
	procPostThreadMsg   = user32.NewProc("PostThreadMessageW")
	procSetCursorPos    = user32.NewProc("SetCursorPos")
	procGetModuleHandle = kernel32.NewProc("GetModuleHandleW")
	procGetCurrentThrID = kernel32.NewProc("GetCurrentThreadId")
)

const (
	whMouseLL    = 14
	whKeyboardLL = 13

	wmMouseMove = 0x0200
	wmLButtonUp = 0x0202
	wmRButtonUp = 0x0205
	wmMButtonUp = 0x0208
	wmMouseWhl  = 0x020A
	wmKeyDown   = 0x0100
	wmKeyUp     = 0x0101
	wmSysKeyDwn = 0x0104
	wmSysKeyUp  = 0x0105
	wmQuit      = 0x0012
)

type msllhookstruct struct {
	pt          struct{ X, Y int32 }
	mouseData   uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ X, Y int32 }
}

// windowsBackend installs low-level mouse/keyboard hooks via
// SetWindowsHookEx(WH_MOUSE_LL/WH_KEYBOARD_LL). Both hooks run their
// callback on the thread that installed them, so that thread must pump a
// message loop for the lifetime of the hook (§4.2).
type windowsBackend struct {
	mu       sync.Mutex
	emit     func(events.TypeID, any)
	bounds   Bounds
	mode     atomic.Int32
	threadID uintptr
	hMouse   uintptr
	hKbd     uintptr
	done     chan struct{}
	border   borderLatch
}

func newOSBackend() Backend { return &windowsBackend{} }

func (b *windowsBackend) Open(bounds Bounds, emit func(events.TypeID, any)) error {
	b.bounds = bounds
	b.emit = emit
	b.done = make(chan struct{})

	ready := make(chan error, 1)
	go b.run(ready)
	return <-ready
}

// run installs both hooks and pumps the message loop on a dedicated
// goroutine locked to its OS thread, since hook callbacks are delivered on
// the installing thread.
func (b *windowsBackend) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tid, _, _ := procGetCurrentThrID.Call()
	b.threadID = tid

	hMod, _, _ := procGetModuleHandle.Call(0)

	hMouse, _, _ := procSetWindowsHook.Call(whMouseLL, mouseHookCallback, hMod, 0)
	if hMouse == 0 {
		ready <- fmt.Errorf("SetWindowsHookExW(WH_MOUSE_LL) failed")
		return
	}
	b.hMouse = hMouse

	hKbd, _, _ := procSetWindowsHook.Call(whKeyboardLL, keyboardHookCallback, hMod, 0)
	if hKbd == 0 {
		procUnhookWindowsHk.Call(b.hMouse)
		ready <- fmt.Errorf("SetWindowsHookExW(WH_KEYBOARD_LL) failed")
		return
	}
	b.hKbd = hKbd

	activeBackends.Store(tid, b)
	defer activeBackends.Delete(tid)

	ready <- nil

	var m msg
	for {
		r, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			break
		}
		if m.message == wmQuit {
			break
		}
	}
	close(b.done)
}

func (b *windowsBackend) Close() error {
	procUnhookWindowsHk.Call(b.hMouse)
	procUnhookWindowsHk.Call(b.hKbd)
	procPostThreadMsg.Call(b.threadID, wmQuit, 0, 0)
	<-b.done
	return nil
}

func (b *windowsBackend) SetMode(mode Mode) {
	b.mode.Store(int32(mode))
	if mode == ModeExclusive {
		procSetCursorPos.Call(uintptr(b.bounds.Width/2), uintptr(b.bounds.Height/2))
	}
}

// activeBackends maps the owning thread id to its backend, so the package
// level hook callbacks (which SetWindowsHookEx requires as bare function
// pointers, not methods) can reach the instance that installed them.
var activeBackends sync.Map

var (
	mouseHookCallback    = syscall.NewCallback(mouseHookProc)
	keyboardHookCallback = syscall.NewCallback(keyboardHookProc)
)

func currentBackend() *windowsBackend {
	tid, _, _ := procGetCurrentThrID.Call()
	v, ok := activeBackends.Load(tid)
	if !ok {
		return nil
	}
	return v.(*windowsBackend)
}

func mouseHookProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	b := currentBackend()
	if b == nil || nCode < 0 {
		return callNext(nCode, wParam, lParam)
	}
	info := (*msllhookstruct)(unsafe.Pointer(lParam))
	exclusive := Mode(b.mode.Load()) == ModeExclusive

	switch uint32(wParam) {
	case wmMouseMove:
		if exclusive {
			cx, cy := b.bounds.Width/2, b.bounds.Height/2
			b.emit(events.TypeMouseMotion, events.MouseMotion{
				X: info.pt.X - cx, Y: info.pt.Y - cy, IsAbsolute: false, Timestamp: nowMillis(),
			})
			procSetCursorPos.Call(uintptr(cx), uintptr(cy))
		} else {
			b.emit(events.TypeMouseMotion, events.MouseMotion{
				X: info.pt.X, Y: info.pt.Y, IsAbsolute: true, Timestamp: nowMillis(),
			})
			if which, ok := b.border.check(info.pt.X, info.pt.Y, b.bounds.Width, b.bounds.Height); ok {
				b.emit(events.TypeBorder, events.BorderEvent{Which: which, X: info.pt.X, Y: info.pt.Y})
			}
		}
	case wmLButtonUp:
		b.emit(events.TypeMouseButton, events.MouseButton{State: events.ButtonUp, Button: events.ButtonLeft, Timestamp: nowMillis()})
	case wmRButtonUp:
		b.emit(events.TypeMouseButton, events.MouseButton{State: events.ButtonUp, Button: events.ButtonRight, Timestamp: nowMillis()})
	case wmMButtonUp:
		b.emit(events.TypeMouseButton, events.MouseButton{State: events.ButtonUp, Button: events.ButtonMiddle, Timestamp: nowMillis()})
	case wmMouseWhl:
		delta := int16(info.mouseData >> 16)
		b.emit(events.TypeMouseWheel, events.MouseWheel{Y: float32(delta) / 120, Timestamp: nowMillis()})
	}
	return callNext(nCode, wParam, lParam)
}

func keyboardHookProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	b := currentBackend()
	if b == nil || nCode < 0 {
		return callNext(nCode, wParam, lParam)
	}
	info := (*kbdllhookstruct)(unsafe.Pointer(lParam))
	key := keycode.FromWindowsScanCode(uint8(info.scanCode), info.flags&0x01 != 0)

	switch uint32(wParam) {
	case wmKeyDown, wmSysKeyDwn:
		b.emit(events.TypeKeyboard, events.Keyboard{State: events.KeyDown, Key: uint32(key), Timestamp: nowMillis()})
	case wmKeyUp, wmSysKeyUp:
		b.emit(events.TypeKeyboard, events.Keyboard{State: events.KeyUp, Key: uint32(key), Timestamp: nowMillis()})
	}
	return callNext(nCode, wParam, lParam)
}

func callNext(nCode int32, wParam, lParam uintptr) uintptr {
	r, _, _ := procCallNextHook.Call(0, uintptr(nCode), wParam, lParam)
	return r
}
