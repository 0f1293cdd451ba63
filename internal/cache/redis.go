package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.Client.Close()
}

// KeyForLoginAttempts generates the Redis key counting login attempts from
// one client.
func (c *RedisCache) KeyForLoginAttempts(client string) string {
	return fmt.Sprintf("vidtube:login:%s", client)
}

// IncrWindow counts a hit in a fixed window.
//
// Behavior:
//   - The first hit creates the key and starts the window (EXPIRE).
//   - Returns the hit count so far and the time left in the window.
//   - A key that lost its TTL is given a fresh window.
func (c *RedisCache) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if window < time.Second {
		window = time.Second
	}

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := c.Client.Pipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		ttl = p.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	left := ttl.Val()
	if incr.Val() == 1 || left < 0 {
		if err := c.Client.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		left = window
	}
	return incr.Val(), left, nil
}
