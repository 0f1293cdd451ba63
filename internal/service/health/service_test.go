package health_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/app"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/cache"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/service/health"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/testsupport"
)

func newAppCtx(t *testing.T, withRedis bool) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()
	cfg := config.Defaults()
	var rc *cache.RedisCache
	var mr *miniredis.Miniredis
	if withRedis {
		mr = miniredis.RunT(t)
		cfg.Redis.Addr = mr.Addr()
		rc = cache.NewRedisCache(cfg)
		t.Cleanup(func() { _ = rc.Close() })
	}
	return app.New(cfg, testsupport.OpenDB(t), rc, nil, slog.Default()), mr
}

func grpcStatus(t *testing.T, svc *health.Service) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := svc.Server().Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestCheck(t *testing.T) {
	appCtx, mr := newAppCtx(t, true)
	svc := health.NewService(appCtx)
	ctx := context.Background()

	st, err := svc.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, health.Status{Database: "up", Redis: "up"}, st)

	mr.Close()
	st, err = svc.Check(ctx)
	assert.Error(t, err)
	assert.Equal(t, "down", st.Redis)
	assert.Equal(t, "up", st.Database)
}

func TestCheck_WithoutRedis(t *testing.T) {
	appCtx, _ := newAppCtx(t, false)
	st, err := health.NewService(appCtx).Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "disabled", st.Redis)
}

func TestRefreshAndShutdown(t *testing.T) {
	appCtx, mr := newAppCtx(t, true)
	svc := health.NewService(appCtx)
	ctx := context.Background()

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, grpcStatus(t, svc))

	require.NoError(t, svc.Refresh(ctx))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, grpcStatus(t, svc))

	mr.Close()
	assert.Error(t, svc.Refresh(ctx))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, grpcStatus(t, svc))

	svc.Shutdown()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, grpcStatus(t, svc))
}

func TestRegistrar(t *testing.T) {
	appCtx, _ := newAppCtx(t, false)
	s := grpc.NewServer()
	health.NewRegistrar(health.NewService(appCtx)).Register(s)

	_, ok := s.GetServiceInfo()[healthpb.Health_ServiceDesc.ServiceName]
	assert.True(t, ok)
}
