//go:build darwin

package inject

import (
	"fmt"
	"os/exec"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/keycode"
)

// darwinBackend prefers cliclick when present and falls back to
// AppleScript via osascript, exactly as the teacher's remote desktop
// input handler does on this platform.
type darwinBackend struct {
	lastX, lastY int32
	hasCliclick  bool
}

func newOSBackend() Backend {
	_, err := exec.LookPath("cliclick")
	return &darwinBackend{hasCliclick: err == nil}
}

func (b *darwinBackend) MoveAbsolute(x, y int32) error {
	b.lastX, b.lastY = x, y
	if b.hasCliclick {
		return exec.Command("cliclick", fmt.Sprintf("m:%d,%d", x, y)).Run()
	}
	script := fmt.Sprintf(`tell application "System Events" to set mouseLocation to {%d, %d}`, x, y)
	return exec.Command("osascript", "-e", script).Run()
}

func (b *darwinBackend) MoveRelative(dx, dy int32) error {
	return b.MoveAbsolute(b.lastX+dx, b.lastY+dy)
}

func (b *darwinBackend) Button(state events.ButtonState, button events.MouseButtonName, clicks uint8) error {
	if !b.hasCliclick {
		script := fmt.Sprintf(`tell application "System Events" to click at {%d, %d}`, b.lastX, b.lastY)
		return exec.Command("osascript", "-e", script).Run()
	}

	action := cliclickAction(state, button)
	n := clicks
	if n == 0 {
		n = 1
	}
	for i := uint8(0); i < n; i++ {
		if err := exec.Command("cliclick", fmt.Sprintf("%s:%d,%d", action, b.lastX, b.lastY)).Run(); err != nil {
			return err
		}
	}
	return nil
}

func cliclickAction(state events.ButtonState, button events.MouseButtonName) string {
	right := button == events.ButtonRight
	switch state {
	case events.ButtonDown:
		if right {
			return "rd"
		}
		return "dd"
	case events.ButtonUp:
		if right {
			return "ru"
		}
		return "du"
	default:
		if right {
			return "rc"
		}
		return "c"
	}
}

func (b *darwinBackend) Wheel(dx, dy float32) error {
	if dy == 0 {
		return nil
	}
	direction := "down"
	amount := dy
	if amount < 0 {
		direction = "up"
		amount = -amount
	}
	script := fmt.Sprintf(`tell application "System Events" to scroll %s by %d`, direction, int(amount))
	return exec.Command("osascript", "-e", script).Run()
}

func (b *darwinBackend) Key(state events.KeyState, key keycode.KeyCode) error {
	name := keycode.ToDarwinKeyName(key)
	if name == "" {
		return nil
	}
	if b.hasCliclick {
		return exec.Command("cliclick", "kp:"+name).Run()
	}
	// osascript has no key-down/key-up primitive; only full keystrokes are
	// supported without cliclick (§10 Non-goals).
	if state != events.KeyDown {
		return nil
	}
	script := fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, name)
	return exec.Command("osascript", "-e", script).Run()
}

func (b *darwinBackend) Close() error { return nil }
