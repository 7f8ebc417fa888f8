package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/drivesim/drivesim/internal/core/events/bus"
	"github.com/drivesim/drivesim/internal/core/observability/log"
)

// Config holds the HUD feed settings.
type Config struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// SendBuffer is the number of frames queued per client before new ones are dropped.
	SendBuffer int `yaml:"send_buffer"`
	// Token, when set, must be presented by every feed client.
	Token string `yaml:"token"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		Addr:         "127.0.0.1:8080",
		WriteTimeout: 5 * time.Second,
		SendBuffer:   256,
	}
}

// Server streams every bus event to websocket clients as JSON frames.
type Server struct {
	config   Config
	events   bus.EventBus
	logger   log.Log
	mux      *http.ServeMux
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}

	running atomic.Bool
}

// NewServer creates the feed. Nothing listens until Run or Serve is called.
func NewServer(config Config, events bus.EventBus, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}
	if config.SendBuffer <= 0 {
		config.SendBuffer = DefaultConfig().SendBuffer
	}

	s := &Server{
		config: config,
		events: events,
		logger: logger.With(log.String("component", "server")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The feed is read-only.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Handler exposes the routes, mostly for httptest.
func (s *Server) Handler() http.Handler { return s.mux }

// ClientCount is the number of connected feed clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.config.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes every
// client and shuts the HTTP server down. It returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if !s.running.CompareAndSwap(false, true) {
		_ = ln.Close()
		return ErrServerAlreadyRunning
	}
	defer s.running.Store(false)

	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("HUD feed listening", log.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("HUD feed shutting down", log.Int("clients", s.ClientCount()))
	s.closeClients()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if serveErr := <-errCh; !errors.Is(serveErr, http.ErrServerClosed) {
		err = errors.Join(err, serveErr)
	}
	return err
}

func (s *Server) addClient(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.close()
	}
}
