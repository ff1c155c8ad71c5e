package cache

import (
	"fmt"

	"github.com/bucketledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// BalanceCacheFactory creates balance caches based on configuration
type BalanceCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// BalanceCacheFactoryOption is a functional option for configuring the factory
type BalanceCacheFactoryOption func(*BalanceCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) BalanceCacheFactoryOption {
	return func(f *BalanceCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) BalanceCacheFactoryOption {
	return func(f *BalanceCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewBalanceCacheFactory creates a new factory
func NewBalanceCacheFactory(cfg config.RedisConfig, opts ...BalanceCacheFactoryOption) *BalanceCacheFactory {
	f := &BalanceCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisCache creates a Redis-backed balance cache
func (f *BalanceCacheFactory) CreateRedisCache() (*RedisBalanceCache, error) {
	c, err := NewRedisBalanceCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
		TTL:      f.redisConfig.BalanceCacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis balance cache: %w", err)
	}
	return c, nil
}

// CreateInMemoryCache creates an in-process balance cache. Instances do not
// share state, so every replica computes its own balances.
func (f *BalanceCacheFactory) CreateInMemoryCache() *InMemoryBalanceCache {
	return NewInMemoryBalanceCache(
		WithInMemoryTTL(f.redisConfig.BalanceCacheTTL),
		WithInMemoryLogger(f.logger),
	)
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise the in-memory cache if fallback is allowed.
func (f *BalanceCacheFactory) CreateCache() (BalanceCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory balance cache")
		return f.CreateInMemoryCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis balance cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for balance cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory balance cache", zap.Error(err))
	return f.CreateInMemoryCache(), nil
}
