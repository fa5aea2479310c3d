//go:build darwin

package capture

import (
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mksync/mksync/internal/events"
)

const darwinPollInterval = 8 * time.Millisecond

var cliclickPosition = regexp.MustCompile(`(\d+),(\d+)`)

// darwinBackend polls cliclick for the pointer position, mirroring the
// cliclick dependency internal/inject/inject_darwin.go already carries for
// injection.
// Global keyboard capture on macOS requires a CGEventTap, which needs cgo
// and an Accessibility permission grant; without cgo in the build this
// backend only reports mouse motion and border crossings (§10 Non-goals
// leave secure-desktop-equivalent capture out of scope on this OS).
type darwinBackend struct {
	emit   func(events.TypeID, any)
	bounds Bounds
	mode   atomic.Int32
	lastX  int32
	lastY  int32
	border borderLatch

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newOSBackend() Backend { return &darwinBackend{} }

func (b *darwinBackend) Open(bounds Bounds, emit func(events.TypeID, any)) error {
	b.bounds = bounds
	b.emit = emit

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	b.wg.Add(1)
	go b.pollMouse(ctx)
	return nil
}

func (b *darwinBackend) Close() error {
	b.cancel()
	b.wg.Wait()
	return nil
}

func (b *darwinBackend) SetMode(mode Mode) {
	b.mode.Store(int32(mode))
	if mode == ModeExclusive {
		moveTo(b.bounds.Width/2, b.bounds.Height/2)
	}
}

func (b *darwinBackend) pollMouse(ctx context.Context) {
	defer b.wg.Done()
	ticker := time.NewTicker(darwinPollInterval)
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
					moveTo(cx, cy)
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
	out, err := exec.Command("cliclick", "p:.").Output()
	if err != nil {
		return 0, 0, false
	}
	m := cliclickPosition.FindSubmatch(out)
	if m == nil {
		return 0, 0, false
	}
	ix, errX := strconv.Atoi(string(m[1]))
	iy, errY := strconv.Atoi(string(m[2]))
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return int32(ix), int32(iy), true
}

func moveTo(x, y int32) {
	exec.Command("cliclick", "m:"+strconv.Itoa(int(x))+","+strconv.Itoa(int(y))).Run()
}
