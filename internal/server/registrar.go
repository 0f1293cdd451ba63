package server

import "google.golang.org/grpc"

// Registrar attaches a service to the operational gRPC server
// (health.Registrar today).
type Registrar interface {
	Register(s *grpc.Server)
}
