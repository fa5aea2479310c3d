package transport

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/logging"
)

const (
	reconnectBaseDelay = 500 * time.Millisecond
	reconnectMaxDelay  = 30 * time.Second
)

// protocolVersion is sent in Hello so a future incompatible release can
// refuse the handshake instead of failing on the first malformed frame.
const protocolVersion = "1"

// client holds the single connection a client-mode node maintains to its
// server, reconnecting with exponential backoff and jitter whenever the
// connection drops, the same shape as the reconnect loop the teacher's
// websocket client runs.
type client struct {
	local events.VirtualScreenInfo

	onMessage func(typ events.TypeID, payload any)
	onConnect func(info events.VirtualScreenInfo)
	onLost    func(reason string)

	p      *peer
	cancel context.CancelFunc
}

func newClient(local events.VirtualScreenInfo) *client {
	return &client{local: local}
}

// run dials addr and maintains the connection until ctx is cancelled,
// reconnecting on any disconnect.
func (c *client) run(ctx context.Context, addr string) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	attempt := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
		if err != nil {
			c.sleep(ctx, attempt)
			attempt++
			continue
		}

		info, err := clientHandshake(conn, c.local)
		if err != nil {
			log.Warn("handshake with server failed", logging.KeyError, err)
			conn.Close()
			c.sleep(ctx, attempt)
			attempt++
			continue
		}
		attempt = 0

		p := newPeer(addr, conn)
		c.p = p
		if c.onConnect != nil {
			c.onConnect(info)
		}

		done := make(chan struct{})
		p.start(ctx,
			func(typ events.TypeID, payload any) {
				if c.onMessage != nil {
					c.onMessage(typ, payload)
				}
			},
			func(err error) {
				reason := "closed"
				if err != nil {
					reason = err.Error()
				}
				if c.onLost != nil {
					c.onLost(reason)
				}
				close(done)
			},
		)

		select {
		case <-done:
		case <-ctx.Done():
			p.close()
			return
		}
	}
}

// sleep waits out an exponential backoff with jitter before the next
// reconnect attempt, or returns early if ctx is cancelled.
func (c *client) sleep(ctx context.Context, attempt int) {
	delay := reconnectBaseDelay * time.Duration(1<<uint(min(attempt, 6)))
	if delay > reconnectMaxDelay {
		delay = reconnectMaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 2))
	select {
	case <-time.After(delay/2 + jitter):
	case <-ctx.Done():
	}
}

func (c *client) send(ctx context.Context, typ events.TypeID, payload any) error {
	if c.p == nil {
		return fmt.Errorf("transport: not connected")
	}
	return c.p.send(ctx, typ, payload)
}

func (c *client) close() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.p != nil {
		c.p.close()
	}
}

// clientHandshake sends this client's Hello/VirtualScreenInfo and returns
// the server's VirtualScreenInfo in reply.
func clientHandshake(conn net.Conn, local events.VirtualScreenInfo) (events.VirtualScreenInfo, error) {
	if err := writeFrame(conn, events.TypeHello, events.Hello{AppName: "mksyncd", AppVersion: protocolVersion}); err != nil {
		return events.VirtualScreenInfo{}, fmt.Errorf("write hello: %w", err)
	}
	if err := writeFrame(conn, events.TypeVirtualScreenInfo, local); err != nil {
		return events.VirtualScreenInfo{}, fmt.Errorf("write screen info: %w", err)
	}

	_, helloPayload, err := readFrame(conn)
	if err != nil {
		return events.VirtualScreenInfo{}, fmt.Errorf("read hello: %w", err)
	}
	if _, ok := helloPayload.(events.Hello); !ok {
		return events.VirtualScreenInfo{}, fmt.Errorf("expected Hello, got %T", helloPayload)
	}

	_, infoPayload, err := readFrame(conn)
	if err != nil {
		return events.VirtualScreenInfo{}, fmt.Errorf("read screen info: %w", err)
	}
	info, ok := infoPayload.(events.VirtualScreenInfo)
	if !ok {
		return events.VirtualScreenInfo{}, fmt.Errorf("expected VirtualScreenInfo, got %T", infoPayload)
	}
	return info, nil
}
