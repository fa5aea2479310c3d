package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/logging"
)

var log = logging.L("transport")

// peer is one established connection, server- or client-side. It owns a
// dedicated send goroutine (so writes never block the receive loop) and a
// receive goroutine that decodes frames and hands them to onFrame.
type peer struct {
	name string
	conn net.Conn

	sendCh chan sendJob
	wg     sync.WaitGroup
	cancel context.CancelFunc

	closeOnce sync.Once
}

type sendJob struct {
	typ     events.TypeID
	payload any
	done    chan error
}

func newPeer(name string, conn net.Conn) *peer {
	return &peer{name: name, conn: conn, sendCh: make(chan sendJob, 32)}
}

// start launches the send and receive goroutines. onFrame is called from
// the receive goroutine for every successfully decoded frame; it must not
// block for long. onClose is called exactly once, from the receive
// goroutine, when reading from the connection fails.
func (p *peer) start(ctx context.Context, onFrame func(events.TypeID, any), onClose func(error)) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(2)
	go p.sendLoop(ctx)
	go p.receiveLoop(onFrame, onClose)
}

func (p *peer) sendLoop(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.sendCh:
			err := writeFrame(p.conn, job.typ, job.payload)
			if job.done != nil {
				job.done <- err
			}
			if err != nil {
				log.Warn("write to peer failed", logging.KeyPeer, p.name, logging.KeyError, err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (p *peer) receiveLoop(onFrame func(events.TypeID, any), onClose func(error)) {
	defer p.wg.Done()
	for {
		typ, payload, err := readFrame(p.conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn("read from peer failed", logging.KeyPeer, p.name, logging.KeyError, err)
			}
			p.closeOnce.Do(func() { onClose(err) })
			return
		}
		onFrame(typ, payload)
	}
}

// send enqueues a frame for the send goroutine. It returns an error only if
// ctx is cancelled before the frame is queued.
func (p *peer) send(ctx context.Context, typ events.TypeID, payload any) error {
	select {
	case p.sendCh <- sendJob{typ: typ, payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *peer) close() {
	if p.cancel != nil {
		p.cancel()
	}
	p.conn.Close()
	p.wg.Wait()
}
