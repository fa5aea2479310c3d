package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/node"
)

// Node is the transport component: a node.Producer (inbound wire frames
// become bus events) and node.Consumer (outgoing bus events are written to
// the current peer only). Exactly one of its server or client half is
// active at a time, selected by Listen/Connect (§4.4).
type Node struct {
	name  string
	local events.VirtualScreenInfo
	out   chan node.Event

	mu          sync.Mutex
	srv         *server
	cli         *client
	currentPeer string
	activeCtx   context.Context
}

// New creates a transport node named name, announcing local in every
// handshake it performs.
func New(name string, local events.VirtualScreenInfo) *Node {
	return &Node{name: name, local: local, out: make(chan node.Event, 64)}
}

func (n *Node) Name() string { return n.name }

func (n *Node) Setup(ctx context.Context) error { return nil }

func (n *Node) Teardown(ctx context.Context) error {
	n.mu.Lock()
	srv, cli := n.srv, n.cli
	n.srv, n.cli = nil, nil
	n.mu.Unlock()

	if srv != nil {
		srv.close()
	}
	if cli != nil {
		cli.close()
	}
	close(n.out)
	return nil
}

func (n *Node) Events() <-chan node.Event { return n.out }

func (n *Node) Subscribes() []events.TypeID {
	return []events.TypeID{
		events.TypeMouseMotionEventConversion,
		events.TypeMouseButton,
		events.TypeMouseWheel,
		events.TypeKeyboard,
		events.TypeFocusScreenChanged,
	}
}

// HandleEvent writes outgoing wire-eligible events to the current peer.
// FocusScreenChanged updates which peer that is; it never itself crosses
// the wire.
func (n *Node) HandleEvent(ctx context.Context, ev node.Event) error {
	if focus, ok := ev.Payload.(events.FocusScreenChanged); ok {
		n.mu.Lock()
		n.currentPeer = focus.Peer
		n.mu.Unlock()
		return nil
	}

	n.mu.Lock()
	peerName := n.currentPeer
	srv, cli := n.srv, n.cli
	n.mu.Unlock()
	if peerName == "" || peerName == "self" {
		return nil
	}

	switch {
	case srv != nil:
		return srv.send(ctx, peerName, ev.Type, ev.Payload)
	case cli != nil:
		return cli.send(ctx, ev.Type, ev.Payload)
	default:
		return nil
	}
}

// Listen starts this node in server mode, accepting client connections on
// addr. It is an error to call Listen or Connect twice without an
// intervening Close.
func (n *Node) Listen(ctx context.Context, addr string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.srv != nil || n.cli != nil {
		return fmt.Errorf("transport: already active")
	}

	srv := newServer(n.local)
	srv.onMessage = func(peerName string, typ events.TypeID, payload any) {
		n.publish(ctx, events.TypeClientMessage, events.ClientMessage{Peer: peerName, Msg: payload})
	}
	srv.onConnect = func(peerName string, info events.VirtualScreenInfo) {
		n.publish(ctx, events.TypeClientConnected, events.ClientConnected{Peer: peerName, Info: info})
	}
	srv.onLost = func(peerName string, reason string) {
		n.publish(ctx, events.TypeClientDisconnected, events.ClientDisconnected{Peer: peerName, Reason: reason})
	}

	if err := srv.listen(ctx, addr); err != nil {
		return err
	}
	n.srv = srv
	n.activeCtx = ctx
	n.publish(ctx, events.TypeAppStatusChanged, events.AppStatusChanged{Status: events.StatusStarted, Mode: events.ModeServer})
	return nil
}

// Connect starts this node in client mode, connecting (and reconnecting)
// to addr until Close is called.
func (n *Node) Connect(ctx context.Context, addr string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.srv != nil || n.cli != nil {
		return fmt.Errorf("transport: already active")
	}

	cli := newClient(n.local)
	cli.onMessage = func(typ events.TypeID, payload any) {
		n.publish(ctx, events.TypeClientMessage, events.ClientMessage{Peer: addr, Msg: payload})
	}
	cli.onConnect = func(info events.VirtualScreenInfo) {
		n.publish(ctx, events.TypeClientConnected, events.ClientConnected{Peer: addr, Info: info})
	}
	cli.onLost = func(reason string) {
		n.publish(ctx, events.TypeClientDisconnected, events.ClientDisconnected{Peer: addr, Reason: reason})
	}

	n.cli = cli
	n.activeCtx = ctx
	go cli.run(ctx, addr)
	n.publish(ctx, events.TypeAppStatusChanged, events.AppStatusChanged{Status: events.StatusStarted, Mode: events.ModeClient})
	return nil
}

// Close tears down whichever of server or client mode is active.
func (n *Node) Close() {
	n.mu.Lock()
	srv, cli := n.srv, n.cli
	ctx := n.activeCtx
	n.srv, n.cli = nil, nil
	n.mu.Unlock()

	if srv != nil {
		srv.close()
	}
	if cli != nil {
		cli.close()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	n.publish(ctx, events.TypeAppStatusChanged, events.AppStatusChanged{Status: events.StatusStopped})
}

// Peers returns the names of every currently connected peer.
func (n *Node) Peers() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.srv != nil {
		return n.srv.peerNames()
	}
	return nil
}

// publish delivers ev to the dispatcher, blocking until there is room or
// ctx is cancelled. The main bus does not use overwrite/drop semantics —
// only Capture's local buffer does (§4.1) — so a slow dispatcher applies
// backpressure here instead of silently losing a ClientDisconnected or a
// forwarded wire message.
func (n *Node) publish(ctx context.Context, typ events.TypeID, payload any) {
	select {
	case n.out <- node.Event{Type: typ, Payload: payload}:
	case <-ctx.Done():
		log.Warn("transport event dropped, context canceled", "type", typ.String())
	}
}
