package server

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiterDisabled(t *testing.T) {
	limiter, closeFn := NewLimiter(config.RateLimitConfig{Enabled: false, RPS: 10, Burst: 10})
	assert.Nil(t, limiter)
	assert.NoError(t, closeFn())
}

func TestNewLimiterLocal(t *testing.T) {
	limiter, closeFn := NewLimiter(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2})
	defer closeFn()
	require.IsType(t, &localLimiter{}, limiter)
}

func TestLocalLimiterBurst(t *testing.T) {
	limiter := newLocalLimiter(1, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, retry, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retry, time.Duration(0))
	assert.LessOrEqual(t, retry, time.Second)

	allowed, _, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed, "clients have separate budgets")
}

func TestLocalLimiterDropsIdleClients(t *testing.T) {
	limiter := newLocalLimiter(1, 1)
	limiter.idle = time.Millisecond

	_, _, err := limiter.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, _, err = limiter.Allow(context.Background(), "10.0.0.2")
	require.NoError(t, err)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.clients, "10.0.0.1")
	assert.Contains(t, limiter.clients, "10.0.0.2")
}

func TestRedisLimiterWindow(t *testing.T) {
	limiter := newRedisLimiter(nil, config.RateLimitConfig{RPS: 0.5, Window: 10 * time.Second})
	assert.Equal(t, int64(5), limiter.limit)
	assert.Equal(t, 10*time.Second, limiter.window)

	limiter = newRedisLimiter(nil, config.RateLimitConfig{RPS: 0.01})
	assert.Equal(t, int64(1), limiter.limit)
	assert.Equal(t, time.Minute, limiter.window)
}

func TestRedisLimiterIntegration(t *testing.T) {
	addr := os.Getenv("CARLOT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CARLOT_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	limiter := newRedisLimiter(client, config.RateLimitConfig{RPS: 0.1, Window: 30 * time.Second})
	require.Equal(t, int64(3), limiter.limit)

	ctx := context.Background()
	key := fmt.Sprintf("test-%s", uuid.New().String())
	t.Cleanup(func() { client.Del(context.Background(), limiter.prefix+key) })

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, retry, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retry, time.Duration(0))
	assert.LessOrEqual(t, retry, 30*time.Second)
}
