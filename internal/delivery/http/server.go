package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/masho-mammad/shadowclean-bot/config"
)

// Server is the HTTP side surface: health, metrics and, in webhook mode, the
// bot update endpoint.
type Server struct {
	server *http.Server
	logger zerolog.Logger
}

// NewServer creates an HTTP server with timeouts from config
func NewServer(cfg *config.ServiceConfig, handler http.Handler, logger zerolog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger.With().Str("component", "http_server").Logger(),
	}
}

// Start begins serving in a separate goroutine
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}
