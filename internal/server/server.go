package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/handler"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		logger:     logger,
	}, nil
}

func (s *server) RunServer() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return s.run(ctx)
}

func (s *server) Shutdown() error {
	return s.httpServer.Shutdown()
}

// run serves until ctx is done, then shuts the server down gracefully.
func (s *server) run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.RunServer()
	}()

	select {
	case err := <-serveErr:
		// the listener failed before any stop signal
		if err != nil {
			return fmt.Errorf("error running HTTP server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("error shutting down HTTP server: %w", err)
	}
	if err := <-serveErr; err != nil {
		return errors.Join(errServerStopped, err)
	}

	s.logger.Info().Msg("server shutdown gracefully")
	return nil
}
