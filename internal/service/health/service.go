package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/app"
)

// checkTimeout bounds one round of dependency pings.
const checkTimeout = 2 * time.Second

// Service reports whether the backing stores answer. The same check backs
// the HTTP healthcheck and the grpc.health.v1 status.
type Service struct {
	appCtx *app.AppContext
	grpc   *grpchealth.Server
}

// NewService creates a health service that starts NOT_SERVING until the
// first successful Refresh.
func NewService(appCtx *app.AppContext) *Service {
	s := &Service{appCtx: appCtx, grpc: grpchealth.NewServer()}
	s.grpc.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// Status is the per-dependency result of Check.
type Status struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Check pings the database and, when configured, Redis.
//
// Behavior:
//   - Each dependency reports "up", "down" or "disabled".
//   - The error joins every failed ping; nil means healthy.
func (s *Service) Check(ctx context.Context) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	st := Status{Database: "up", Redis: "disabled"}
	var errs []error

	sqlDB, err := s.appCtx.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		st.Database = "down"
		errs = append(errs, fmt.Errorf("database: %w", err))
	}

	if s.appCtx.RedisCache != nil {
		st.Redis = "up"
		if err := s.appCtx.RedisCache.Ping(ctx); err != nil {
			st.Redis = "down"
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return st, errors.Join(errs...)
}

// Refresh runs Check and publishes the result on the gRPC health server.
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.Check(ctx)
	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.appCtx.Logger.Warn("health check failed", "err", err)
	}
	s.grpc.SetServingStatus("", status)
	return err
}

// Server is the grpc.health.v1 implementation fed by Refresh.
func (s *Service) Server() healthpb.HealthServer {
	return s.grpc
}

// Shutdown flips every service to NOT_SERVING so balancers drain traffic.
func (s *Service) Shutdown() {
	s.grpc.Shutdown()
}
