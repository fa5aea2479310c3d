//go:build linux

package capture

import (
	"bufio"
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/keycode"
)

// pollInterval is how often the linux backend samples the pointer position
// via xdotool. There is no portable low-level mouse hook without a root
// evdev grab, so edge-watch mode is built on polling instead.
const pollInterval = 8 * time.Millisecond

// linuxBackend polls xdotool for pointer position and shells out to
// `xinput test-xi2 --root` to observe raw key press/release events,
// mirroring the xdotool dependency internal/inject/inject_linux.go already
// carries for injection.
type linuxBackend struct {
	mu     sync.Mutex
	emit   func(events.TypeID, any)
	bounds Bounds
	mode   atomic.Int32
	lastX  int32
	lastY  int32
	border borderLatch

	cancel context.CancelFunc
	wg     sync.WaitGroup
	keyCmd *exec.Cmd
}

func newOSBackend() Backend { return &linuxBackend{} }

func (b *linuxBackend) Open(bounds Bounds, emit func(events.TypeID, any)) error {
	b.bounds = bounds
	b.emit = emit

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	b.wg.Add(1)
	go b.pollMouse(ctx)

	b.wg.Add(1)
	go b.watchKeys(ctx)

	return nil
}

func (b *linuxBackend) Close() error {
	b.cancel()
	if b.keyCmd != nil && b.keyCmd.Process != nil {
		b.keyCmd.Process.Kill()
	}
	b.wg.Wait()
	return nil
}

func (b *linuxBackend) SetMode(mode Mode) {
	b.mode.Store(int32(mode))
	if mode == ModeExclusive {
		exec.Command("xdotool", "mousemove", strconv.Itoa(int(b.bounds.Width/2)), strconv.Itoa(int(b.bounds.Height/2))).Run()
	}
}

func (b *linuxBackend) pollMouse(ctx context.Context) {
	defer b.wg.Done()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			x, y, ok := queryPointer()
			if !ok {
				continue
			}
			exclusive := Mode(b.mode.Load()) == ModeExclusive
			if exclusive {
				cx, cy := b.bounds.Width/2, b.bounds.Height/2
				if x != cx || y != cy {
					b.emit(events.TypeMouseMotion, events.MouseMotion{X: x - cx, Y: y - cy, Timestamp: nowMillis()})
					exec.Command("xdotool", "mousemove", strconv.Itoa(int(cx)), strconv.Itoa(int(cy))).Run()
				}
				continue
			}
			if x != b.lastX || y != b.lastY {
				b.lastX, b.lastY = x, y
				b.emit(events.TypeMouseMotion, events.MouseMotion{X: x, Y: y, IsAbsolute: true, Timestamp: nowMillis()})
				if which, ok := b.border.check(x, y, b.bounds.Width, b.bounds.Height); ok {
					b.emit(events.TypeBorder, events.BorderEvent{Which: which, X: x, Y: y})
				}
			}
		}
	}
}

func queryPointer() (x, y int32, ok bool) {
	out, err := exec.Command("xdotool", "getmouselocation", "--shell").Output()
	if err != nil {
		return 0, 0, false
	}
	var gotX, gotY bool
	for _, line := range strings.Split(string(out), "\n") {
		if v, found := strings.CutPrefix(line, "X="); found {
			n, perr := strconv.Atoi(v)
			if perr == nil {
				x, gotX = int32(n), true
			}
		}
		if v, found := strings.CutPrefix(line, "Y="); found {
			n, perr := strconv.Atoi(v)
			if perr == nil {
				y, gotY = int32(n), true
			}
		}
	}
	return x, y, gotX && gotY
}

var keyEventLine = regexp.MustCompile(`\(Key(Press|Release)\).*detail:\s*(\d+)`)

// watchKeys parses `xinput test-xi2 --root` output for raw key press and
// release lines. The detail field is an X keycode; it is not resolved to a
// keysym name, but passed to keycode.FromX11Name as its decimal string
// (see xKeycodeToName).
func (b *linuxBackend) watchKeys(ctx context.Context) {
	defer b.wg.Done()

	cmd := exec.CommandContext(ctx, "xinput", "test-xi2", "--root")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Warn("capture: cannot start xinput key watcher", "error", err)
		return
	}
	b.keyCmd = cmd
	if err := cmd.Start(); err != nil {
		log.Warn("capture: cannot start xinput key watcher", "error", err)
		return
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		m := keyEventLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		code, _ := strconv.Atoi(m[2])
		key := keycode.FromX11Name(xKeycodeToName(code))
		state := events.KeyDown
		if m[1] == "Release" {
			state = events.KeyUp
		}
		b.emit(events.TypeKeyboard, events.Keyboard{State: state, Key: uint32(key), Timestamp: nowMillis()})
	}
	cmd.Wait()
}

// xKeycodeToName resolves an X11 keycode to the keysym name xdotool uses.
// Querying xmodmap per event would be too slow for a capture loop, so this
// falls back to the raw numeric keycode; FromX11Name returns Unknown for
// names it does not recognize rather than blocking capture on a lookup.
func xKeycodeToName(keycode int) string {
	return strconv.Itoa(keycode)
}
