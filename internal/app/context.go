package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/cache"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/upload"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
// RedisCache may be nil; features backed by it are then disabled.
type AppContext struct {
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Config     *config.Config
	Uploads    upload.Store
}

// New creates a new AppContext
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, uploads upload.Store, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Config:     cfg,
		Uploads:    uploads,
	}
}
