package transport

import (
	"net"
	"testing"

	"github.com/mksync/mksync/internal/events"
)

func TestServerHandshakeRejectsVersionMismatch(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	local := events.VirtualScreenInfo{Name: "server", Width: 1920, Height: 1080}

	errCh := make(chan error, 1)
	go func() {
		_, err := serverHandshake(serverConn, local)
		errCh <- err
	}()

	if err := writeFrame(clientConn, events.TypeHello, events.Hello{AppName: "mksync", AppVersion: "0.0.0"}); err != nil {
		t.Fatalf("write hello: %v", err)
	}

	err := <-errCh
	if err == nil {
		t.Fatal("serverHandshake accepted a mismatched AppVersion, want an error")
	}
}

func TestServerHandshakeAcceptsMatchingVersion(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	local := events.VirtualScreenInfo{Name: "server", Width: 1920, Height: 1080}
	clientInfo := events.VirtualScreenInfo{Name: "client", Width: 1280, Height: 720}

	resultCh := make(chan struct {
		info events.VirtualScreenInfo
		err  error
	}, 1)
	go func() {
		info, err := serverHandshake(serverConn, local)
		resultCh <- struct {
			info events.VirtualScreenInfo
			err  error
		}{info, err}
	}()

	if err := writeFrame(clientConn, events.TypeHello, events.Hello{AppName: "mksync", AppVersion: protocolVersion}); err != nil {
		t.Fatalf("write hello: %v", err)
	}
	if err := writeFrame(clientConn, events.TypeVirtualScreenInfo, clientInfo); err != nil {
		t.Fatalf("write screen info: %v", err)
	}

	if _, _, err := readFrame(clientConn); err != nil {
		t.Fatalf("read server hello: %v", err)
	}
	if _, _, err := readFrame(clientConn); err != nil {
		t.Fatalf("read server screen info: %v", err)
	}

	result := <-resultCh
	if result.err != nil {
		t.Fatalf("serverHandshake() error = %v, want nil", result.err)
	}
	if result.info.Name != clientInfo.Name {
		t.Errorf("serverHandshake() info = %+v, want %+v", result.info, clientInfo)
	}
}
