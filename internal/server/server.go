package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/qrgen/internal/discovery"
	"github.com/muurk/qrgen/internal/logging"
	"github.com/muurk/qrgen/internal/payload"
	"github.com/muurk/qrgen/internal/render"
)

// shutdownTimeout bounds a graceful shutdown triggered by a signal
const shutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Host string
	Port int

	// Form defaults
	DefaultMode payload.Mode
	Size        int  // Image size in pixels, clamped by the renderer
	EscapeWiFi  bool // Backslash-escape WiFi special characters

	// Advertise registers the server over mDNS as Name
	Advertise bool
	Name      string

	LogLevel string // Empty keeps the current logger
}

// Server serves the QR form over HTTP
type Server struct {
	config   *Config
	router   *mux.Router
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener
	advert     *discovery.Advertisement

	wg       sync.WaitGroup
	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.LogLevel != "" {
		if err := logging.Initialize(config.LogLevel); err != nil {
			return nil, fmt.Errorf("failed to initialize logging: %w", err)
		}
	}
	if config.Size == 0 {
		config.Size = render.DefaultSize
	}

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions: make(map[string]*session),
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler serving every endpoint
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listening address, or the configured one before Start
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
}

// Listen binds the configured address
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	return nil
}

// Serve serves on the bound listener, binding it first if needed. It
// blocks until the server is shut down.
func (s *Server) Serve() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	logging.Info("Server listening for connections",
		zap.String("addr", s.listener.Addr().String()),
	)

	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// advertise registers the bound listener over mDNS. Failures are logged
// and the server keeps running without it.
func (s *Server) advertise() {
	port := s.listener.Addr().(*net.TCPAddr).Port
	ad, err := discovery.Advertise(s.config.Name, port, "/")
	if err != nil {
		logging.Warn("Failed to advertise over mDNS", zap.Error(err))
		return
	}
	s.advert = ad
}

// Start starts the server and blocks until shutdown
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}

	logging.Info("Starting qrgen server",
		zap.String("addr", s.Addr()),
		zap.Int("size", s.config.Size),
		zap.Bool("advertise", s.config.Advertise),
	)

	if s.config.Advertise {
		s.advertise()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(ctx)
	case err := <-errChan:
		s.advert.Shutdown()
		return err
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.advert.Shutdown()

	var shutdownErr error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		shutdownErr = fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	// Hijacked websocket connections are not tracked by http.Server
	s.mu.Lock()
	for id, sess := range s.sessions {
		logging.Info("Closing live preview session", zap.String("session", id))
		sess.close(websocket.CloseGoingAway, "server shutting down")
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return shutdownErr
}

// ActiveSessions returns the number of open live preview sessions
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) addSession(sess *session) {
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
