//go:build linux

package inject

import (
	"os/exec"
	"strconv"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/keycode"
)

// linuxBackend shells out to xdotool, the same tool the teacher's remote
// desktop input handler uses on this platform.
type linuxBackend struct {
	lastX, lastY int32
}

func newOSBackend() Backend { return &linuxBackend{} }

func (b *linuxBackend) MoveAbsolute(x, y int32) error {
	b.lastX, b.lastY = x, y
	return exec.Command("xdotool", "mousemove", strconv.Itoa(int(x)), strconv.Itoa(int(y))).Run()
}

func (b *linuxBackend) MoveRelative(dx, dy int32) error {
	b.lastX += dx
	b.lastY += dy
	return exec.Command("xdotool", "mousemove_relative", "--", strconv.Itoa(int(dx)), strconv.Itoa(int(dy))).Run()
}

func (b *linuxBackend) Button(state events.ButtonState, button events.MouseButtonName, clicks uint8) error {
	btn := xdotoolButton(button)
	switch state {
	case events.ButtonDown:
		return exec.Command("xdotool", "mousedown", btn).Run()
	case events.ButtonUp:
		return exec.Command("xdotool", "mouseup", btn).Run()
	case events.ButtonClick:
		n := clicks
		if n == 0 {
			n = 1
		}
		return exec.Command("xdotool", "click", "--repeat", strconv.Itoa(int(n)), btn).Run()
	}
	return nil
}

func xdotoolButton(button events.MouseButtonName) string {
	switch button {
	case events.ButtonRight:
		return "3"
	case events.ButtonMiddle:
		return "2"
	default:
		return "1"
	}
}

func (b *linuxBackend) Wheel(dx, dy float32) error {
	if dy != 0 {
		direction := "4" // scroll up
		amount := dy
		if amount < 0 {
			direction = "5"
			amount = -amount
		}
		if err := repeatClick(direction, int(amount)); err != nil {
			return err
		}
	}
	if dx != 0 {
		direction := "7" // scroll right
		amount := dx
		if amount < 0 {
			direction = "6"
			amount = -amount
		}
		return repeatClick(direction, int(amount))
	}
	return nil
}

func repeatClick(direction string, amount int) error {
	if amount < 1 {
		amount = 1
	}
	return exec.Command("xdotool", "click", "--repeat", strconv.Itoa(amount), direction).Run()
}

func (b *linuxBackend) Key(state events.KeyState, key keycode.KeyCode) error {
	name := keycode.ToX11Name(key)
	if name == "" {
		return nil
	}
	switch state {
	case events.KeyDown:
		return exec.Command("xdotool", "keydown", name).Run()
	case events.KeyUp:
		return exec.Command("xdotool", "keyup", name).Run()
	}
	return nil
}

func (b *linuxBackend) Close() error { return nil }
