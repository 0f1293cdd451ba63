package server

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
)

// GRPCServer carries the operational gRPC surface (health, reflection).
type GRPCServer struct {
	srv  *grpc.Server
	addr string
	log  *slog.Logger
}

// NewGRPCServer builds a gRPC server and registers all provided services.
func NewGRPCServer(cfg *config.Config, log *slog.Logger, registrars ...Registrar) *GRPCServer {
	grpcServer := grpc.NewServer()

	for _, r := range registrars {
		r.Register(grpcServer)
	}

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	return &GRPCServer{
		srv:  grpcServer,
		addr: net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port),
		log:  log,
	}
}

// Serve blocks until the listener fails or GracefulStop is called.
func (s *GRPCServer) Serve(lis net.Listener) error {
	s.log.Info("grpc server listening", "addr", lis.Addr().String())
	return s.srv.Serve(lis)
}

// ListenAndServe listens on the configured address.
func (s *GRPCServer) ListenAndServe() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(lis)
}

func (s *GRPCServer) GracefulStop() { s.srv.GracefulStop() }
