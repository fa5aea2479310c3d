// Package node implements the dataflow backbone: a set of named Node
// instances, each optionally a Producer, a Consumer, or both, wired together
// by a NodeManager that dispatches every produced Event to the consumers
// subscribed to its type. It is the Go translation of the original
// coroutine-based node/event system: one goroutine drives each producer,
// one goroutine dispatches, and context.Context cancellation replaces
// coroutine cancellation.
package node

import (
	"context"

	"github.com/mksync/mksync/internal/events"
)

// Event is one message in flight on the bus, tagged with the name of the
// node that produced it so the dispatcher can skip delivering it back to
// its own origin.
type Event struct {
	Type    events.TypeID
	Origin  string
	Payload any
}

// Node is the minimum a component must implement to be managed: a name for
// diagnostics and command routing, and lifecycle hooks run in the order
// nodes were added (Setup) and in reverse (Teardown). Neither hook may
// block; long-running work belongs in a Producer's own goroutine, or in a
// goroutine a node spawns from Setup and stops from Teardown.
type Node interface {
	Name() string
	Setup(ctx context.Context) error
	Teardown(ctx context.Context) error
}

// Producer is a Node that originates events. Events returns the channel
// the node publishes to; it must be closed when the producer has nothing
// left to send, which signals the manager's producer-driver goroutine for
// this node to exit.
type Producer interface {
	Node
	Events() <-chan Event
}

// Consumer is a Node that reacts to events of the types it subscribes to.
// HandleEvent is called sequentially by the manager's single dispatcher
// goroutine, so a slow consumer delays delivery to every other subscriber
// of the same event; consumers that need to do real work should hand it
// off to their own goroutine and return quickly.
type Consumer interface {
	Node
	Subscribes() []events.TypeID
	HandleEvent(ctx context.Context, ev Event) error
}
