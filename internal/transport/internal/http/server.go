// Package http provides the chi router, the HTTP server and the responder
// that renders every non-fosite outcome as a response descriptor.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jamesprial/oauth-response/internal/config"
	"github.com/jamesprial/oauth-response/internal/transport/transportcore"
)

// defaultShutdownTimeout bounds Shutdown when the caller's context has no deadline.
const defaultShutdownTimeout = 30 * time.Second

// server implements transportcore.Server using net/http.Server.
type server struct {
	httpServer *http.Server
	logger     *slog.Logger

	mu       sync.RWMutex
	listener net.Listener
}

// NewServer creates an HTTP server serving handler with the configured
// address and timeouts. If logger is nil, slog.Default() is used.
func NewServer(cfg *config.Config, handler http.Handler, logger *slog.Logger) transportcore.Server {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if handler == nil {
		panic("handler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		logger: logger,
	}
}

// Start listens on the configured address and serves until Shutdown.
// A clean shutdown returns nil.
func (s *server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("server listening", "addr", listener.Addr().String())

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *server) Shutdown(ctx context.Context) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultShutdownTimeout)
		defer cancel()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Addr returns the bound address once listening, else the configured one.
// Useful with ":0".
func (s *server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}
