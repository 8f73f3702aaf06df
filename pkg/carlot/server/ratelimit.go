package server

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/config"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether the client identified by key may make a request.
// When it may not, the returned duration says when to retry.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// NewLimiter builds the limiter described by cfg. It returns nil when rate
// limiting is disabled. The returned close function releases the Redis
// client, if any.
func NewLimiter(cfg config.RateLimitConfig) (Limiter, func() error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		return nil, noop
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		return newRedisLimiter(client, cfg), client.Close
	}
	return newLocalLimiter(cfg.RPS, cfg.Burst), noop
}

// localLimiter keeps one token bucket per client in process memory.
type localLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idle      time.Duration
	clients   map[string]*clientBucket
	lastSweep time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLocalLimiter(rps float64, burst int) *localLimiter {
	if burst <= 0 {
		burst = int(math.Max(1, rps))
	}
	return &localLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		idle:    3 * time.Minute,
		clients: make(map[string]*clientBucket),
	}
}

func (l *localLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()

	l.mu.Lock()
	bucket, ok := l.clients[key]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = bucket
	}
	bucket.lastSeen = now
	l.sweepLocked(now)
	l.mu.Unlock()

	reservation := bucket.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second, nil
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

func (l *localLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.idle {
		return
	}
	l.lastSweep = now
	cutoff := now.Add(-l.idle)
	for key, b := range l.clients {
		if b.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// redisLimiter counts requests per client in fixed windows shared through
// Redis, so every instance enforces the same budget.
type redisLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
	prefix string
}

func newRedisLimiter(client redis.Cmdable, cfg config.RateLimitConfig) *redisLimiter {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	limit := int64(math.Ceil(cfg.RPS * window.Seconds()))
	if limit < 1 {
		limit = 1
	}
	return &redisLimiter{client: client, limit: limit, window: window, prefix: "carlot:ratelimit:"}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := l.prefix + key

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("redis rate limit: %w", err)
	}
	if incr.Val() <= l.limit {
		return true, 0, nil
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis rate limit ttl: %w", err)
	}
	if ttl <= 0 {
		return false, l.window, nil
	}
	return false, ttl, nil
}
