// Package inject synthesizes mouse and keyboard input on the local OS from
// the canonical events the controller and transport packages deliver. Each
// OS gets its own backend file; inject.go holds the shared Node that
// adapts a Backend to node.Consumer.
package inject

import (
	"context"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/keycode"
	"github.com/mksync/mksync/internal/logging"
	"github.com/mksync/mksync/internal/node"
)

var log = logging.L("inject")

// Backend is the per-OS synthesis implementation.
type Backend interface {
	MoveAbsolute(x, y int32) error
	MoveRelative(dx, dy int32) error
	Button(state events.ButtonState, button events.MouseButtonName, clicks uint8) error
	Wheel(dx, dy float32) error
	Key(state events.KeyState, key keycode.KeyCode) error
	Close() error
}

// Node adapts a Backend to node.Consumer, subscribing to the events
// injected on the local OS (§4.3).
type Node struct {
	name    string
	backend Backend
}

// New wraps backend as a node named name.
func New(name string, backend Backend) *Node {
	return &Node{name: name, backend: backend}
}

// NewOS wraps this platform's Backend implementation, selected at build
// time by the per-OS inject_*.go file linked into the binary.
func NewOS(name string) *Node {
	return New(name, newOSBackend())
}

func (n *Node) Name() string { return n.name }

func (n *Node) Setup(ctx context.Context) error { return nil }

func (n *Node) Teardown(ctx context.Context) error { return n.backend.Close() }

func (n *Node) Subscribes() []events.TypeID {
	return []events.TypeID{
		events.TypeMouseMotionEventConversion,
		events.TypeMouseButton,
		events.TypeMouseWheel,
		events.TypeKeyboard,
	}
}

func (n *Node) HandleEvent(ctx context.Context, ev node.Event) error {
	switch payload := ev.Payload.(type) {
	case events.MouseMotionEventConversion:
		if payload.IsAbsolute {
			return n.backend.MoveAbsolute(payload.X, payload.Y)
		}
		return n.backend.MoveRelative(payload.X, payload.Y)
	case events.MouseButton:
		return n.backend.Button(payload.State, payload.Button, payload.Clicks)
	case events.MouseWheel:
		return n.backend.Wheel(payload.X, payload.Y)
	case events.Keyboard:
		return n.backend.Key(payload.State, keycode.KeyCode(payload.Key))
	default:
		log.Warn("inject: unexpected event payload", "type", ev.Type.String())
		return nil
	}
}
