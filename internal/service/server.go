package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server owns the HTTP listener lifecycle: blocking serve plus a
// deadline-bounded drain on shutdown.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until the listener closes. It returns
// http.ErrServerClosed after a clean Stop.
func (s *Server) Start() error {
	s.logger.Info("Starting hospverse-api HTTP server", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	start := time.Now()
	err := s.httpServer.Shutdown(ctx)
	s.logger.Info("Stopped hospverse-api HTTP server", zap.Duration("drain", time.Since(start)))
	return err
}
