package security

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter decides whether a client identified by key may consume one
// request token.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// tokenBucketScript implements a token bucket atomically in Redis. State is
// a hash of remaining tokens and the last refill timestamp; running it as a
// script keeps concurrent requests from double-spending tokens.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local data = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = capacity
  ts = now
end

local elapsed = now - ts
if elapsed > 0 then
  tokens = math.min(capacity, tokens + (elapsed / interval) * refill)
  ts = now
end

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("HMSET", key, "tokens", tokens, "ts", ts)
redis.call("EXPIRE", key, interval * 2)
return allowed
`)

// RedisLimiter is a Redis-backed token bucket rate limiter.
type RedisLimiter struct {
	client   *redis.Client
	capacity int
	refill   int
	interval time.Duration
}

// NewRedisLimiter connects to Redis and returns a token bucket limiter
// refilling refill tokens per interval up to capacity.
func NewRedisLimiter(addr, password string, capacity, refill int, interval time.Duration) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisLimiter{
		client:   client,
		capacity: capacity,
		refill:   refill,
		interval: interval,
	}, nil
}

// Allow consumes one token from the bucket for key.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := tokenBucketScript.Run(ctx, l.client,
		[]string{"shield:bucket:" + key},
		l.capacity, l.refill, l.interval.Seconds(), time.Now().Unix(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis token bucket: %w", err)
	}
	return res == 1, nil
}

// Close closes the Redis client.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}

var _ RateLimiter = (*RedisLimiter)(nil)
