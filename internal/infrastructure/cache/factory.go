package cache

import (
	"time"

	"github.com/menulink/backend/internal/domain/registry"
	"go.uber.org/zap"
)

// ResolutionCacheFactory builds the slug-resolution cache from
// configuration, falling back to in-memory-only when Redis is
// unreachable so a cache outage never keeps the server from starting.
type ResolutionCacheFactory struct {
	redisConfig           RedisConfig
	cacheConfig           registry.CacheConfig
	logger                *zap.Logger
	sweepInterval         time.Duration
	allowInMemoryFallback bool
}

// ResolutionCacheFactoryOption is a functional option for the factory
type ResolutionCacheFactoryOption func(*ResolutionCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ResolutionCacheFactoryOption {
	return func(f *ResolutionCacheFactory) {
		f.logger = logger
	}
}

// WithCacheConfig sets cache TTLs
func WithCacheConfig(cfg registry.CacheConfig) ResolutionCacheFactoryOption {
	return func(f *ResolutionCacheFactory) {
		f.cacheConfig = cfg
	}
}

// WithInMemoryFallback controls the fallback when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) ResolutionCacheFactoryOption {
	return func(f *ResolutionCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithSweepInterval sets the in-memory tier's expiry sweep interval
func WithSweepInterval(d time.Duration) ResolutionCacheFactoryOption {
	return func(f *ResolutionCacheFactory) {
		f.sweepInterval = d
	}
}

// NewResolutionCacheFactory creates a new factory
func NewResolutionCacheFactory(redisCfg RedisConfig, opts ...ResolutionCacheFactoryOption) *ResolutionCacheFactory {
	f := &ResolutionCacheFactory{
		redisConfig:           redisCfg,
		cacheConfig:           registry.DefaultCacheConfig(),
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds a tiered cache when Redis is reachable, otherwise the
// in-memory cache alone (or an error when fallback is disabled).
func (f *ResolutionCacheFactory) Create() (registry.ResolutionCache, error) {
	l1 := NewInMemoryResolutionCache(
		WithInMemoryConfig(f.cacheConfig),
		WithInMemoryLogger(f.logger),
		WithInMemorySweepInterval(f.sweepInterval),
	)

	l2, err := NewRedisResolutionCache(f.redisConfig,
		WithRedisConfig(f.cacheConfig),
		WithRedisLogger(f.logger),
	)
	if err != nil {
		if !f.allowInMemoryFallback {
			l1.Stop()
			return nil, err
		}
		f.logger.Warn("Redis unavailable, using in-memory resolution cache only", zap.Error(err))
		return l1, nil
	}

	return NewTieredResolutionCache(l1, l2,
		WithTieredConfig(f.cacheConfig),
		WithTieredLogger(f.logger),
	), nil
}
