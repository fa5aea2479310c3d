package rpcserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mksync/mksync/internal/logging"
	"github.com/mksync/mksync/internal/workerpool"
)

var log = logging.L("rpcserver")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

// Handler answers one RPC method call.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server accepts RemoteController connections and dispatches requests to
// registered Handlers, bounding concurrent execution through pool.
type Server struct {
	pool     *workerpool.Pool
	handlers map[string]Handler
	http     *http.Server
}

// New creates a Server with no registered handlers; call Register for each
// RPC method before ListenAndServe.
func New(pool *workerpool.Pool) *Server {
	return &Server{pool: pool, handlers: make(map[string]Handler)}
}

// Register binds method to handler. Calling it twice for the same method
// replaces the previous handler.
func (s *Server) Register(method string, handler Handler) {
	s.handlers[method] = handler
}

// ListenAndServe upgrades every connection to addr's "/rpc" path and blocks
// until the underlying http.Server stops (normally via Close).
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", s.handleUpgrade)
	s.http = &http.Server{Addr: addr, Handler: mux}
	log.Info("rpc server listening", "addr", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("rpcserver: %w", err)
	}
	return nil
}

// Close stops accepting new connections.
func (s *Server) Close(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("upgrade failed", logging.KeyError, err)
		return
	}
	newConnection(s, conn).run()
}

// connection runs one RemoteController session: a read pump that dispatches
// each request into the worker pool, and a write pump draining replies onto
// the socket, mirroring the teacher's websocket.Client send/receive split.
type connection struct {
	srv    *Server
	conn   *websocket.Conn
	send   chan Response
	done   chan struct{}
	closer sync.Once
}

func newConnection(srv *Server, conn *websocket.Conn) *connection {
	return &connection{
		srv:  srv,
		conn: conn,
		send: make(chan Response, 32),
		done: make(chan struct{}),
	}
}

func (c *connection) run() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writePump()
	c.readPump()
}

func (c *connection) readPump() {
	defer c.close()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("read error", logging.KeyError, err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(message, &req); err != nil {
			log.Warn("malformed request", logging.KeyError, err)
			continue
		}
		c.dispatch(req)
	}
}

func (c *connection) dispatch(req Request) {
	handler, ok := c.srv.handlers[req.Method]
	if !ok {
		c.reply(errorResponse(req.ID, fmt.Errorf("rpcserver: unknown method %q", req.Method)))
		return
	}
	accepted := c.srv.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := handler(ctx, req.Params)
		if err != nil {
			c.reply(errorResponse(req.ID, err))
			return
		}
		c.reply(okResponse(req.ID, result))
	})
	if !accepted {
		c.reply(errorResponse(req.ID, fmt.Errorf("rpcserver: busy, try again")))
	}
}

func (c *connection) reply(resp Response) {
	select {
	case c.send <- resp:
	case <-c.done:
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.close()

	for {
		select {
		case <-c.done:
			return
		case resp := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			data, err := json.Marshal(resp)
			if err != nil {
				log.Error("failed to marshal response", logging.KeyError, err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn("write error", logging.KeyError, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *connection) close() {
	c.closer.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
