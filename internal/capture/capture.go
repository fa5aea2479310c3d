// Package capture reads raw mouse and keyboard activity from the local OS
// and turns it into node.Event values: MouseMotion, MouseButton,
// MouseWheel, Keyboard and Border. Each OS gets its own backend file;
// capture.go holds the shared contract and the edge-watch/exclusive mode
// bookkeeping common to all of them.
package capture

import (
	"context"
	"sync"
	"time"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/keycode"
	"github.com/mksync/mksync/internal/logging"
	"github.com/mksync/mksync/internal/node"
)

var log = logging.L("capture")

// Mode selects how the local backend watches the cursor.
type Mode int

const (
	// ModeEdgeWatch only reports Border crossings; the cursor is left free
	// to move normally on the local screen. This is the mode a server
	// node runs in while it owns the focus.
	ModeEdgeWatch Mode = iota
	// ModeExclusive grabs the cursor, re-centers it after every motion
	// sample and reports MouseMotion as relative deltas instead of moving
	// the local pointer. This is the mode a server node runs in once
	// focus has handed off to a remote screen.
	ModeExclusive
)

// borderHysteresis is the width, in pixels, of the interior band a cursor
// must clear before it is considered to have left the border again (§4.2,
// §7). Border itself only fires at the outer 1px ring.
const borderHysteresis = 10

// Backend is the per-OS implementation. Node wraps one and adapts it to
// node.Producer.
type Backend interface {
	// Open prepares the backend (installs hooks, spawns helper processes)
	// and begins delivering raw samples to emit.
	Open(bounds Bounds, emit func(events.TypeID, any)) error
	// Close releases everything Open acquired.
	Close() error
	// SetMode switches between edge-watch and exclusive capture.
	SetMode(mode Mode)
}

// Bounds is the local screen's pixel size, used to compute border
// proximity and, in exclusive mode, the re-centering point.
type Bounds struct {
	Width, Height int32
}

// Node adapts a Backend to node.Producer / node.Node, translating its raw
// callbacks into events on out.
type Node struct {
	name    string
	backend Backend
	bounds  Bounds
	out     chan node.Event

	mu   sync.Mutex
	mode Mode
}

// New wraps backend as a node named name, watching a screen of the given
// bounds.
func New(name string, backend Backend, bounds Bounds) *Node {
	return &Node{name: name, backend: backend, bounds: bounds, out: make(chan node.Event, 64)}
}

// NewOS wraps this platform's Backend implementation, selected at build
// time by the per-OS capture_*.go file linked into the binary.
func NewOS(name string, bounds Bounds) *Node {
	return New(name, newOSBackend(), bounds)
}

func (n *Node) Name() string { return n.name }

func (n *Node) Setup(ctx context.Context) error {
	return n.backend.Open(n.bounds, n.emit)
}

func (n *Node) Teardown(ctx context.Context) error {
	close(n.out)
	return n.backend.Close()
}

func (n *Node) Events() <-chan node.Event { return n.out }

// SetMode switches the backend between edge-watch and exclusive capture,
// driven by Controller on focus handoff (§4.5).
func (n *Node) SetMode(mode Mode) {
	n.mu.Lock()
	n.mode = mode
	n.mu.Unlock()
	n.backend.SetMode(mode)
}

func (n *Node) emit(typ events.TypeID, payload any) {
	select {
	case n.out <- node.Event{Type: typ, Payload: payload}:
	default:
		log.Warn("capture event dropped, consumer too slow", "type", typ.String())
	}
}

func (n *Node) emitMotion(x, y int32, absolute bool) {
	n.emit(events.TypeMouseMotion, events.MouseMotion{
		X: x, Y: y, IsAbsolute: absolute, Timestamp: nowMillis(),
	})
}

func (n *Node) emitButton(state events.ButtonState, button events.MouseButtonName, clicks uint8) {
	n.emit(events.TypeMouseButton, events.MouseButton{
		State: state, Button: button, Clicks: clicks, Timestamp: nowMillis(),
	})
}

func (n *Node) emitWheel(dx, dy float32) {
	n.emit(events.TypeMouseWheel, events.MouseWheel{X: dx, Y: dy, Timestamp: nowMillis()})
}

func (n *Node) emitKey(state events.KeyState, key keycode.KeyCode, mod events.Modifiers) {
	n.emit(events.TypeKeyboard, events.Keyboard{
		State: state, Key: uint32(key), Mod: mod, Timestamp: nowMillis(),
	})
}

func (n *Node) emitBorder(which events.Border, x, y int32) {
	n.emit(events.TypeBorder, events.BorderEvent{Which: which, X: x, Y: y})
}

// borderOf reports which edge (x, y) sits on, in the outer 1px ring of the
// local screen's bounds, or false if it is not on any edge.
func borderOf(x, y, width, height int32) (events.Border, bool) {
	switch {
	case x <= 0:
		return events.BorderLeft, true
	case x >= width-1:
		return events.BorderRight, true
	case y <= 0:
		return events.BorderTop, true
	case y >= height-1:
		return events.BorderBottom, true
	default:
		return 0, false
	}
}

// borderLatch suppresses repeated Border events for the same edge touch:
// once the cursor fires a Border, further samples are ignored until it
// clears the full hysteresis band back into the interior (§4.2, §8).
type borderLatch struct {
	active bool
}

// check reports the edge to fire, if any, and updates the latch. While
// latched it only watches for the cursor clearing the interior band; it
// never re-fires from inside the band even if the cursor dithers on the
// 1px ring.
func (l *borderLatch) check(x, y, width, height int32) (events.Border, bool) {
	if l.active {
		if x > borderHysteresis && x < width-borderHysteresis &&
			y > borderHysteresis && y < height-borderHysteresis {
			l.active = false
		}
		return 0, false
	}
	which, ok := borderOf(x, y, width, height)
	if ok {
		l.active = true
	}
	return which, ok
}

func nowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}
