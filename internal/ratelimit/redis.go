package ratelimit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// allowScript prunes, checks, and records in one round trip so two concurrent
// attempts can never both be admitted off a stale count. Members carry a
// unique suffix so attempts sharing a timestamp still count separately. Keys
// expire with the window, bounding memory per address.
var allowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
    return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[5])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// RedisLimiter implements the sliding window over a Redis sorted set.
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	max    int
	now    func() time.Time
}

// NewRedisLimiter builds a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, window time.Duration, max int) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 5
	}
	return &RedisLimiter{client: client, window: window, max: max, now: time.Now}
}

// Allow runs the check-and-record script for the address.
func (l *RedisLimiter) Allow(ctx context.Context, addr string) error {
	now := l.now()
	cutoff := now.Add(-l.window).UnixNano()

	allowed, err := allowScript.Run(ctx, l.client,
		[]string{"login_attempts:" + addr},
		cutoff,
		l.max,
		now.UnixNano(),
		l.window.Milliseconds(),
		uuid.NewString(),
	).Int()
	if err != nil {
		return err
	}
	if allowed == 0 {
		return ErrRateLimited
	}
	return nil
}
