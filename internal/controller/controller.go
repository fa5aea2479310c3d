// Package controller owns the screen layout and the cursor handoff
// algorithm: tracking which virtual screen currently has focus, converting
// local Border/MouseMotion samples into the absolute coordinates a remote
// peer expects, and switching capture between edge-watch and exclusive mode
// as focus crosses a screen boundary (§4.5).
package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/mksync/mksync/internal/capture"
	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/inject"
	"github.com/mksync/mksync/internal/logging"
	"github.com/mksync/mksync/internal/node"
	"github.com/mksync/mksync/internal/transport"
)

var log = logging.L("controller")

// Mode is the role Controller is currently playing. Idle means neither
// StartServer nor StartClient has been called (or the matching Stop has).
type Mode int

const (
	ModeIdle Mode = iota
	ModeServer
	ModeClient
)

const (
	captureNodeName = "capture"
	injectNodeName  = "inject"
)

type screenState struct {
	peer     string
	name     string
	config   *events.VirtualScreenConfig
	posX     int
	posY     int
	inBorder bool
}

// Controller is the node that implements the handoff algorithm. It is a
// node.Consumer but not a node.Producer: every event it originates is
// injected directly onto the bus via Manager.Dispatch, the same path a
// command uses.
type Controller struct {
	name      string
	manager   *node.Manager
	transport *transport.Node
	local     events.VirtualScreenInfo

	mu              sync.Mutex
	mode            Mode
	vscreenConfig   []events.VirtualScreenConfig
	virtualScreens  map[string]events.VirtualScreenInfo // peer -> announced info
	screenNameTable map[string]string                   // screen name -> peer
	current         screenState
}

// New creates a Controller named name, wired to manager and transport, with
// local describing this machine's own screen.
func New(name string, manager *node.Manager, transport *transport.Node, local events.VirtualScreenInfo, config []events.VirtualScreenConfig) *Controller {
	return &Controller{
		name:            name,
		manager:         manager,
		transport:       transport,
		local:           local,
		vscreenConfig:   config,
		virtualScreens:  map[string]events.VirtualScreenInfo{"self": local},
		screenNameTable: map[string]string{local.Name: "self"},
		current: screenState{
			peer: "self",
			name: local.Name,
		},
	}
}

func (c *Controller) Name() string { return c.name }

func (c *Controller) Setup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.config = c.configFor(c.local.Name)
	return nil
}

func (c *Controller) Teardown(ctx context.Context) error {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()
	switch mode {
	case ModeServer:
		return c.StopServer(ctx)
	case ModeClient:
		return c.StopClient(ctx)
	}
	return nil
}

func (c *Controller) Subscribes() []events.TypeID {
	return []events.TypeID{
		events.TypeClientConnected,
		events.TypeClientDisconnected,
		events.TypeClientMessage,
		events.TypeBorder,
		events.TypeMouseMotion,
	}
}

func (c *Controller) HandleEvent(ctx context.Context, ev node.Event) error {
	switch payload := ev.Payload.(type) {
	case events.ClientConnected:
		return c.onClientConnected(payload)
	case events.ClientDisconnected:
		return c.onClientDisconnected(ctx, payload)
	case events.ClientMessage:
		return c.onClientMessage(ctx, payload)
	case events.BorderEvent:
		return c.onBorder(ctx, payload)
	case events.MouseMotion:
		return c.onMouseMotion(ctx, payload)
	default:
		return nil
	}
}

// StartServer puts Controller in server mode: it starts listening on addr
// and adds a capture node driving the local edge-watch/exclusive loop.
func (c *Controller) StartServer(ctx context.Context, addr string) error {
	c.mu.Lock()
	if c.mode != ModeIdle {
		c.mu.Unlock()
		return fmt.Errorf("controller: already active")
	}
	c.mode = ModeServer
	c.mu.Unlock()

	capNode := capture.NewOS(captureNodeName, capture.Bounds{
		Width:  int32(c.local.Width),
		Height: int32(c.local.Height),
	})
	if err := c.manager.Add(capNode); err != nil {
		return err
	}
	if err := c.manager.SetupNode(ctx, captureNodeName); err != nil {
		return err
	}
	if err := c.transport.Listen(ctx, addr); err != nil {
		_ = c.manager.TeardownNode(ctx, captureNodeName)
		return err
	}
	log.Info("server started", "addr", addr)
	return nil
}

// StopServer tears down the capture node and stops listening.
func (c *Controller) StopServer(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != ModeServer {
		c.mu.Unlock()
		return nil
	}
	c.mode = ModeIdle
	c.mu.Unlock()

	c.transport.Close()
	return c.manager.TeardownNode(ctx, captureNodeName)
}

// StartClient puts Controller in client mode: it connects (and reconnects)
// to addr and adds an inject node applying everything the server sends.
func (c *Controller) StartClient(ctx context.Context, addr string) error {
	c.mu.Lock()
	if c.mode != ModeIdle {
		c.mu.Unlock()
		return fmt.Errorf("controller: already active")
	}
	c.mode = ModeClient
	c.mu.Unlock()

	injNode := inject.NewOS(injectNodeName)
	if err := c.manager.Add(injNode); err != nil {
		return err
	}
	if err := c.manager.SetupNode(ctx, injectNodeName); err != nil {
		return err
	}
	if err := c.transport.Connect(ctx, addr); err != nil {
		_ = c.manager.TeardownNode(ctx, injectNodeName)
		return err
	}
	log.Info("client started", "addr", addr)
	return nil
}

// StopClient tears down the inject node and disconnects.
func (c *Controller) StopClient(ctx context.Context) error {
	c.mu.Lock()
	if c.mode != ModeClient {
		c.mu.Unlock()
		return nil
	}
	c.mode = ModeIdle
	c.mu.Unlock()

	c.transport.Close()
	return c.manager.TeardownNode(ctx, injectNodeName)
}

// StartCapture resumes the server role's capture node after StopCapture,
// translated from mk_capture.cpp's CaptureCommand eStart. It only has an
// effect in server mode; the capture node does not exist otherwise.
func (c *Controller) StartCapture(ctx context.Context) error {
	if c.Mode() != ModeServer {
		return fmt.Errorf("controller: capture is only available in server mode")
	}
	if _, ok := c.manager.GetNode(captureNodeName); ok {
		return nil
	}
	capNode := capture.NewOS(captureNodeName, capture.Bounds{
		Width:  int32(c.local.Width),
		Height: int32(c.local.Height),
	})
	if err := c.manager.Add(capNode); err != nil {
		return err
	}
	return c.manager.SetupNode(ctx, captureNodeName)
}

// StopCapture pauses the server role's capture node without leaving server
// mode, translated from CaptureCommand eStop.
func (c *Controller) StopCapture(ctx context.Context) error {
	if c.Mode() != ModeServer {
		return fmt.Errorf("controller: capture is only available in server mode")
	}
	if _, ok := c.manager.GetNode(captureNodeName); !ok {
		return nil
	}
	return c.manager.TeardownNode(ctx, captureNodeName)
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}
