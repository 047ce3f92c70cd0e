package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultLockPrefix        = "medishare:lock:"
	defaultLockTTL           = 30 * time.Second
	defaultLockRetryInterval = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still carries our token, so a
// holder whose lease expired cannot free someone else's lock
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisKeyLocker implements keyed locking across process instances with
// SET NX PX leases
type RedisKeyLocker struct {
	client        *redis.Client
	keyPrefix     string
	ttl           time.Duration
	retryInterval time.Duration
	logger        *zap.Logger
}

// RedisLockOptions tunes lease length and polling
type RedisLockOptions struct {
	KeyPrefix     string
	TTL           time.Duration
	RetryInterval time.Duration
}

// NewRedisKeyLocker connects to Redis and returns a locker
func NewRedisKeyLocker(cfg RedisConfig, opts RedisLockOptions, logger *zap.Logger) (*RedisKeyLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisKeyLockerWithClient(client, opts, logger), nil
}

// NewRedisKeyLockerWithClient creates a locker with an existing Redis client
func NewRedisKeyLockerWithClient(client *redis.Client, opts RedisLockOptions, logger *zap.Logger) *RedisKeyLocker {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = defaultLockPrefix
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultLockTTL
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = defaultLockRetryInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisKeyLocker{
		client:        client,
		keyPrefix:     opts.KeyPrefix,
		ttl:           opts.TTL,
		retryInterval: opts.RetryInterval,
		logger:        logger,
	}
}

// Acquire takes a lease on every key, polling until it is free or ctx is done
func (l *RedisKeyLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalizeKeys(keys)
	token := uuid.NewString()
	held := make([]string, 0, len(keys))

	for _, key := range keys {
		if err := l.lock(ctx, l.keyPrefix+key, token); err != nil {
			l.release(held, token)
			return nil, err
		}
		held = append(held, l.keyPrefix+key)
	}

	return func() { l.release(held, token) }, nil
}

func (l *RedisKeyLocker) lock(ctx context.Context, key, token string) error {
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %q: %w", key, err)
		}
		if ok {
			return nil
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("failed to acquire lock %q: %w", key, ctx.Err())
		case <-timer.C:
		}
	}
}

func (l *RedisKeyLocker) release(keys []string, token string) {
	// Release must run even when the caller's context is already cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, key := range keys {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("Failed to release lock",
				zap.String("key", key),
				zap.Error(err))
		}
	}
}

// Close closes the Redis client
func (l *RedisKeyLocker) Close() error {
	return l.client.Close()
}
