package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/ratelimit"
)

// HTTPServer serves the REST API behind the middleware chain.
type HTTPServer struct {
	srv *http.Server
	log *slog.Logger
}

// NewHTTPServer wraps routes with recovery, request IDs, access logs, CORS
// and rate limiting, outermost first.
func NewHTTPServer(cfg *config.Config, routes http.Handler, limiter *ratelimit.Limiter, log *slog.Logger) *HTTPServer {
	h := routes
	h = rateLimitMiddleware(limiter, h)
	h = corsMiddleware(cfg.HTTP.CORSOrigin, h)
	h = loggingMiddleware(h)
	h = requestIDMiddleware(log, h)
	h = recoverMiddleware(h)

	return &HTTPServer{
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: log,
	}
}

func (s *HTTPServer) Handler() http.Handler { return s.srv.Handler }

// Serve blocks until the listener fails or Shutdown is called. A clean
// shutdown returns nil.
func (s *HTTPServer) Serve(lis net.Listener) error {
	s.log.Info("http server listening", "addr", lis.Addr().String())
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address.
func (s *HTTPServer) ListenAndServe() error {
	lis, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
