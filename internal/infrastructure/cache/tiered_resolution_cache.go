package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menulink/backend/internal/domain/registry"
	"go.uber.org/zap"
)

// TieredResolutionCache layers the in-memory cache over Redis with a
// read-through pattern: L1 hit wins, an L2 hit backfills L1. Redis
// errors degrade to a miss so a cache outage never blocks resolution.
type TieredResolutionCache struct {
	l1     *InMemoryResolutionCache
	l2     *RedisResolutionCache
	config registry.CacheConfig
	logger *zap.Logger
}

// TieredResolutionCacheOption is a functional option for the cache
type TieredResolutionCacheOption func(*TieredResolutionCache)

// WithTieredConfig sets the cache configuration
func WithTieredConfig(config registry.CacheConfig) TieredResolutionCacheOption {
	return func(c *TieredResolutionCache) {
		c.config = config
	}
}

// WithTieredLogger sets the logger for the cache
func WithTieredLogger(logger *zap.Logger) TieredResolutionCacheOption {
	return func(c *TieredResolutionCache) {
		c.logger = logger
	}
}

// NewTieredResolutionCache creates a two-tier resolution cache
func NewTieredResolutionCache(l1 *InMemoryResolutionCache, l2 *RedisResolutionCache, opts ...TieredResolutionCacheOption) *TieredResolutionCache {
	cache := &TieredResolutionCache{
		l1:     l1,
		l2:     l2,
		config: registry.DefaultCacheConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// Get checks L1 first, then L2
func (c *TieredResolutionCache) Get(ctx context.Context, slug string) (uuid.UUID, bool, error) {
	if id, ok, _ := c.l1.Get(ctx, slug); ok {
		return id, true, nil
	}

	id, ok, err := c.l2.Get(ctx, slug)
	if err != nil {
		c.logger.Warn("L2 resolution cache unavailable", zap.String("slug", slug), zap.Error(err))
		return uuid.Nil, false, nil
	}
	if !ok {
		return uuid.Nil, false, nil
	}

	// Backfill L1 so the next lookup stays local
	_ = c.l1.Set(ctx, slug, id, c.config.L1TTL)
	return id, true, nil
}

// Set writes through both tiers
func (c *TieredResolutionCache) Set(ctx context.Context, slug string, tenantID uuid.UUID, ttl time.Duration) error {
	if err := c.l1.Set(ctx, slug, tenantID, c.l1TTL(ttl)); err != nil {
		return err
	}
	if err := c.l2.Set(ctx, slug, tenantID, ttl); err != nil {
		c.logger.Warn("L2 resolution cache write failed", zap.String("slug", slug), zap.Error(err))
	}
	return nil
}

// Invalidate drops a slug from both tiers
func (c *TieredResolutionCache) Invalidate(ctx context.Context, slug string) error {
	_ = c.l1.Invalidate(ctx, slug)
	return c.l2.Invalidate(ctx, slug)
}

// InvalidateTenant drops a tenant's slugs from both tiers
func (c *TieredResolutionCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	_ = c.l1.InvalidateTenant(ctx, tenantID)
	return c.l2.InvalidateTenant(ctx, tenantID)
}

func (c *TieredResolutionCache) l1TTL(ttl time.Duration) time.Duration {
	if ttl == 0 || ttl > c.config.L1TTL {
		return c.config.L1TTL
	}
	return ttl
}
