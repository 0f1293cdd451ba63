package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/api"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/app"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/cache"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/db"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/ratelimit"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/server"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/service/health"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/upload"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		return err
	}

	// Init Redis; an empty address runs without the login limiter
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		redisCache = cache.NewRedisCache(cfg)
		defer redisCache.Close()
		if err := redisCache.Ping(context.Background()); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
	} else {
		log.Warn("redis disabled, login attempts are not limited")
	}

	appCtx := app.New(cfg, database, redisCache, upload.NewLocalStore(cfg.Upload), log)

	healthSvc := health.NewService(appCtx)
	handler, err := api.NewHandler(appCtx, healthSvc)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := healthSvc.Refresh(ctx); err != nil {
		return err
	}

	httpServer := server.NewHTTPServer(cfg, handler.Routes(), ratelimit.New(cfg.RateLimit, redisCache), log)
	grpcServer := server.NewGRPCServer(cfg, log, health.NewRegistrar(healthSvc))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.ListenAndServe)
	g.Go(grpcServer.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		healthSvc.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
