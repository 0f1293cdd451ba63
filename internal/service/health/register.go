package health

import (
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Registrar ties the health service into the gRPC server
type Registrar struct {
	svc *Service
}

// NewRegistrar creates a new Registrar for the health service
func NewRegistrar(svc *Service) *Registrar {
	return &Registrar{svc: svc}
}

// Register attaches the grpc.health.v1 implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, r.svc.Server())
}
