package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/drivesim/drivesim/internal/core/events/bus"
	"github.com/drivesim/drivesim/internal/core/observability/log"
)

const maxInboundMessage = 512

// client is one HUD connection. The send queue is never closed because the
// bus may still deliver to a handler that is being cancelled.
type client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

func newClient(conn *websocket.Conn, buffer int) *client {
	return &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// deliver is the bus handler. It never blocks the publisher: when the queue is
// full the frame is dropped and counted.
func (c *client) deliver(event bus.Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	select {
	case c.send <- msg:
	default:
		c.dropped.Add(1)
	}
	return nil
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

func (s *Server) authorize(r *http.Request) error {
	if s.config.Token == "" {
		return nil
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.config.Token)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		s.logger.Warn("rejected HUD client", log.String("remote", r.RemoteAddr), log.Error(err))
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	c := newClient(conn, s.config.SendBuffer)
	sub, err := s.events.Subscribe(bus.Wildcard, c.deliver)
	if err != nil {
		s.logger.Error("subscribe HUD client", log.Error(err))
		_ = conn.Close()
		return
	}
	s.addClient(c)

	logger := s.logger.With(log.String("client", c.id))
	logger.Info("HUD client connected", log.String("remote", conn.RemoteAddr().String()))

	go s.writePump(c)
	s.readPump(c)

	_ = sub.Cancel()
	s.removeClient(c)
	c.close()
	logger.Info("HUD client disconnected", log.Int64("dropped", int64(c.dropped.Load())))
}

// readPump discards inbound frames and returns once the connection fails or closes.
func (s *Server) readPump(c *client) {
	c.conn.SetReadLimit(maxInboundMessage)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the only writer on the connection.
func (s *Server) writePump(c *client) {
	defer c.conn.Close()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}
