package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/daphne-go/daphne/internal/endpoints"
	"github.com/daphne-go/daphne/internal/logger"
)

type server struct {
	cfg    Config
	logger *logger.Logger

	httpServer *http.Server
	listeners  []net.Listener

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewServer validates cfg and builds the server. Listeners are not bound
// until RunServer.
func NewServer(cfg Config, log *logger.Logger) (Server, error) {
	if cfg.Application == nil {
		return nil, errNoApplication
	}
	if len(cfg.Endpoints) == 0 {
		return nil, errNoEndpoints
	}

	s := &server{
		cfg:     cfg,
		logger:  log,
		stopped: make(chan struct{}),
	}
	s.httpServer = &http.Server{
		Handler: s.handler(),
	}

	return s, nil
}

// RunServer binds every configured endpoint, fires the ready callback, and
// serves until SIGINT/SIGTERM/SIGQUIT. Blocks for the process lifetime on
// the success path.
func (s *server) RunServer() error {
	if err := s.bind(); err != nil {
		s.closeListeners()
		return err
	}

	// All sockets are bound; tell the callback module.
	if s.cfg.Ready != nil {
		s.cfg.Ready()
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		select {
		case <-ctx.Done():
			s.Shutdown()
		case <-s.stopped:
		}
	}()

	for _, ln := range s.listeners {
		ln := ln
		s.logger.Info().Str("address", ln.Addr().String()).Msg("Listening")
		go func() {
			if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error().Err(err).Msg("HTTP server Serve")
			}
		}()
	}

	<-s.stopped
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}

// Shutdown gracefully stops serving and closes all listeners. Safe to call
// more than once; RunServer unblocks after the first call completes.
func (s *server) Shutdown() {
	s.stopOnce.Do(func() {
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server Shutdown")
		}
		s.closeListeners()
		close(s.stopped)
	})
}

// bind materializes one listener per endpoint description string. Any
// failure aborts startup.
func (s *server) bind() error {
	for _, desc := range s.cfg.Endpoints {
		ln, err := endpoints.Listen(desc)
		if err != nil {
			return fmt.Errorf("binding endpoint %q: %w", desc, err)
		}
		s.listeners = append(s.listeners, ln)
	}
	return nil
}

func (s *server) closeListeners() {
	for _, ln := range s.listeners {
		ln.Close() //nolint:errcheck // already shutting down
	}
	s.listeners = nil
}
