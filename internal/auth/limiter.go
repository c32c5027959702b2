package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxFailedLogins = 5
	failureWindow   = 15 * time.Minute
	lockoutDuration = 15 * time.Minute
)

// Limiter throttles repeated failed logins per client key.
type Limiter interface {
	// LockedFor returns the remaining lockout, or zero when key may log in.
	LockedFor(ctx context.Context, key string) (time.Duration, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// NoopLimiter never locks anybody out. It is used when Redis is not configured.
type NoopLimiter struct{}

func (NoopLimiter) LockedFor(context.Context, string) (time.Duration, error) { return 0, nil }
func (NoopLimiter) RecordFailure(context.Context, string) error               { return nil }
func (NoopLimiter) Reset(context.Context, string) error                       { return nil }

// RedisLimiter counts failures in Redis so the lockout is shared by every
// instance of the service.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(ctx context.Context, url string) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisLimiter{client: client}, nil
}

func NewRedisLimiterWithClient(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func attemptsKey(key string) string { return "login:attempts:" + key }
func lockKey(key string) string     { return "login:lock:" + key }

func (l *RedisLimiter) LockedFor(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := l.client.TTL(ctx, lockKey(key)).Result()
	if err != nil {
		return 0, err
	}
	// TTL reports negative values when the key is missing or has no expiry.
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, key string) error {
	attempts, err := l.client.Incr(ctx, attemptsKey(key)).Result()
	if err != nil {
		return err
	}
	if attempts == 1 {
		if err := l.client.Expire(ctx, attemptsKey(key), failureWindow).Err(); err != nil {
			return err
		}
	}
	if attempts < maxFailedLogins {
		return nil
	}

	pipe := l.client.TxPipeline()
	pipe.Set(ctx, lockKey(key), "locked", lockoutDuration)
	pipe.Del(ctx, attemptsKey(key))
	_, err = pipe.Exec(ctx)
	return err
}

func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	err := l.client.Del(ctx, attemptsKey(key), lockKey(key)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
