// Package ratelimit throttles the whole API and login attempts per client.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/sumit00002/VidTube-Practice-Backend/internal/cache"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/config"
)

// Limiter combines an in-process token bucket for all requests with a
// Redis fixed window for logins, so the login budget is shared across
// instances.
type Limiter struct {
	global      *rate.Limiter
	redis       *cache.RedisCache
	loginLimit  int
	loginWindow time.Duration
}

// New builds a limiter. GlobalRPS <= 0 disables the global bucket; a nil
// cache or LoginLimit <= 0 disables the login window.
func New(cfg config.RateLimitConfig, rc *cache.RedisCache) *Limiter {
	l := &Limiter{
		redis:       rc,
		loginLimit:  cfg.LoginLimit,
		loginWindow: cfg.LoginWindow,
	}
	if cfg.GlobalRPS > 0 {
		burst := cfg.GlobalBurst
		if burst <= 0 {
			burst = max(int(cfg.GlobalRPS), 1)
		}
		l.global = rate.NewLimiter(rate.Limit(cfg.GlobalRPS), burst)
	}
	if l.loginWindow <= 0 {
		l.loginWindow = time.Minute
	}
	return l
}

func (l *Limiter) AllowRequest() bool {
	if l == nil || l.global == nil {
		return true
	}
	return l.global.Allow()
}

// AllowLogin counts one login attempt for key. When the window is spent
// it returns false and the time until the window resets.
func (l *Limiter) AllowLogin(ctx context.Context, key string) (bool, time.Duration, error) {
	if l == nil || l.redis == nil || l.loginLimit <= 0 {
		return true, 0, nil
	}
	if key == "" {
		key = "unknown"
	}
	count, left, err := l.redis.IncrWindow(ctx, l.redis.KeyForLoginAttempts(key), l.loginWindow)
	if err != nil {
		return false, 0, err
	}
	if count <= int64(l.loginLimit) {
		return true, 0, nil
	}
	return false, left, nil
}
