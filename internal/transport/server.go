package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/logging"
)

// server accepts client connections, completes the handshake on each, and
// forwards every inbound wire frame to onMessage tagged with the peer name.
type server struct {
	local events.VirtualScreenInfo

	mu        sync.Mutex
	peers     map[string]*peer
	listener  net.Listener
	onMessage func(peerName string, typ events.TypeID, payload any)
	onConnect func(peerName string, info events.VirtualScreenInfo)
	onLost    func(peerName string, reason string)
}

func newServer(local events.VirtualScreenInfo) *server {
	return &server{local: local, peers: make(map[string]*peer)}
}

func (s *server) listen(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("transport: listen %s: %w", addr, err)
	}
	s.listener = ln

	go s.acceptLoop(ctx)
	return nil
}

func (s *server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				log.Warn("accept failed", logging.KeyError, err)
				return
			}
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *server) handleConn(ctx context.Context, conn net.Conn) {
	info, err := serverHandshake(conn, s.local)
	if err != nil {
		log.Warn("handshake with client failed", logging.KeyError, err)
		conn.Close()
		return
	}

	name := conn.RemoteAddr().String()
	p := newPeer(name, conn)

	s.mu.Lock()
	s.peers[name] = p
	s.mu.Unlock()

	if s.onConnect != nil {
		s.onConnect(name, info)
	}

	p.start(ctx,
		func(typ events.TypeID, payload any) {
			if s.onMessage != nil {
				s.onMessage(name, typ, payload)
			}
		},
		func(err error) {
			s.mu.Lock()
			delete(s.peers, name)
			s.mu.Unlock()
			if s.onLost != nil {
				reason := "closed"
				if err != nil {
					reason = err.Error()
				}
				s.onLost(name, reason)
			}
		},
	)
}

func (s *server) send(ctx context.Context, peerName string, typ events.TypeID, payload any) error {
	s.mu.Lock()
	p, ok := s.peers[peerName]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("transport: peer %q not connected", peerName)
	}
	return p.send(ctx, typ, payload)
}

func (s *server) peerNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.peers))
	for name := range s.peers {
		out = append(out, name)
	}
	return out
}

func (s *server) close() {
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Lock()
	peers := make([]*peer, 0, len(s.peers))
	for _, p := range s.peers {
		peers = append(peers, p)
	}
	s.peers = make(map[string]*peer)
	s.mu.Unlock()

	for _, p := range peers {
		p.close()
	}
}

// serverHandshake replies to a connecting client's Hello/VirtualScreenInfo
// with the server's own, then returns the client's info.
func serverHandshake(conn net.Conn, local events.VirtualScreenInfo) (events.VirtualScreenInfo, error) {
	_, helloPayload, err := readFrame(conn)
	if err != nil {
		return events.VirtualScreenInfo{}, fmt.Errorf("read hello: %w", err)
	}
	hello, ok := helloPayload.(events.Hello)
	if !ok {
		return events.VirtualScreenInfo{}, fmt.Errorf("expected Hello, got %T", helloPayload)
	}
	if hello.AppVersion != protocolVersion {
		return events.VirtualScreenInfo{}, fmt.Errorf("protocol version mismatch: got %q, want %q", hello.AppVersion, protocolVersion)
	}

	_, infoPayload, err := readFrame(conn)
	if err != nil {
		return events.VirtualScreenInfo{}, fmt.Errorf("read screen info: %w", err)
	}
	info, ok := infoPayload.(events.VirtualScreenInfo)
	if !ok {
		return events.VirtualScreenInfo{}, fmt.Errorf("expected VirtualScreenInfo, got %T", infoPayload)
	}

	if err := writeFrame(conn, events.TypeHello, events.Hello{AppName: "mksyncd", AppVersion: protocolVersion}); err != nil {
		return events.VirtualScreenInfo{}, fmt.Errorf("write hello: %w", err)
	}
	if err := writeFrame(conn, events.TypeVirtualScreenInfo, local); err != nil {
		return events.VirtualScreenInfo{}, fmt.Errorf("write screen info: %w", err)
	}

	return info, nil
}
