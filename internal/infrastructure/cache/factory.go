package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/medishare/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// KeyLocker serializes callers on named keys
type KeyLocker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

var (
	_ KeyLocker = (*InMemoryKeyLocker)(nil)
	_ KeyLocker = (*RedisKeyLocker)(nil)
)

// LockerFactory creates keyed lockers based on configuration
type LockerFactory struct {
	redisConfig config.RedisConfig
	lockConfig  config.LockConfig
	logger      *zap.Logger
}

// LockerFactoryOption is a functional option for configuring the factory
type LockerFactoryOption func(*LockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.logger = logger
	}
}

// NewLockerFactory creates a new factory
func NewLockerFactory(redisCfg config.RedisConfig, lockCfg config.LockConfig, opts ...LockerFactoryOption) *LockerFactory {
	f := &LockerFactory{
		redisConfig: redisCfg,
		lockConfig:  lockCfg,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisLocker creates a Redis-backed locker shared by every instance
func (f *LockerFactory) CreateRedisLocker() (*RedisKeyLocker, error) {
	locker, err := NewRedisKeyLocker(
		RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		},
		RedisLockOptions{
			TTL:           f.lockConfig.TTL,
			RetryInterval: f.lockConfig.RetryInterval,
		},
		f.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis locker: %w", err)
	}
	return locker, nil
}

// CreateLocker returns the configured locker. With the redis backend it
// falls back to an in-memory locker when Redis is unreachable and fallback
// is allowed.
// WARNING: in-memory locks are not shared across process instances.
func (f *LockerFactory) CreateLocker() (KeyLocker, error) {
	if f.lockConfig.Backend != "redis" {
		f.logger.Info("using in-memory key locker")
		return f.bounded(NewInMemoryKeyLocker()), nil
	}

	locker, err := f.CreateRedisLocker()
	if err == nil {
		f.logger.Info("using Redis key locker")
		return f.bounded(locker), nil
	}

	if !f.lockConfig.AllowFallback {
		return nil, fmt.Errorf("Redis required for locking but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory key locker. "+
		"Transfers are only serialized within this instance.",
		zap.Error(err),
	)
	return f.bounded(NewInMemoryKeyLocker()), nil
}

func (f *LockerFactory) bounded(locker KeyLocker) KeyLocker {
	if f.lockConfig.AcquireTimeout <= 0 {
		return locker
	}
	return &timeoutLocker{inner: locker, timeout: f.lockConfig.AcquireTimeout}
}

// timeoutLocker caps how long Acquire may wait for contended keys
type timeoutLocker struct {
	inner   KeyLocker
	timeout time.Duration
}

func (l *timeoutLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.inner.Acquire(ctx, keys...)
}
