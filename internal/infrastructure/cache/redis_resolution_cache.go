package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/menulink/backend/internal/domain/registry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	resolutionKeyPrefix = "menulink:resolve:"
	tenantSetKeyPrefix  = "menulink:resolve:tenant:"
)

// RedisConfig holds Redis connection settings for the cache layer
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisResolutionCache implements registry.ResolutionCache on Redis so
// resolved slugs are shared across server instances.
type RedisResolutionCache struct {
	client     *redis.Client
	ownsClient bool
	config     registry.CacheConfig
	logger     *zap.Logger
}

// RedisResolutionCacheOption is a functional option for the cache
type RedisResolutionCacheOption func(*RedisResolutionCache)

// WithRedisConfig sets the cache configuration
func WithRedisConfig(config registry.CacheConfig) RedisResolutionCacheOption {
	return func(c *RedisResolutionCache) {
		c.config = config
	}
}

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisResolutionCacheOption {
	return func(c *RedisResolutionCache) {
		c.logger = logger
	}
}

// NewRedisResolutionCache creates a Redis-backed resolution cache
func NewRedisResolutionCache(cfg RedisConfig, opts ...RedisResolutionCacheOption) (*RedisResolutionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisResolutionCache{
		client:     client,
		ownsClient: true,
		config:     registry.DefaultCacheConfig(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache, nil
}

// NewRedisResolutionCacheWithClient creates a cache around an existing
// client. The caller retains ownership of the client.
func NewRedisResolutionCacheWithClient(client *redis.Client, opts ...RedisResolutionCacheOption) *RedisResolutionCache {
	cache := &RedisResolutionCache{
		client:     client,
		ownsClient: false,
		config:     registry.DefaultCacheConfig(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// Get returns the cached tenant id for a slug
func (c *RedisResolutionCache) Get(ctx context.Context, slug string) (uuid.UUID, bool, error) {
	val, err := c.client.Get(ctx, resolutionKeyPrefix+slug).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("redis get: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		// Corrupt entry; drop it rather than poisoning callers.
		_ = c.client.Del(ctx, resolutionKeyPrefix+slug).Err()
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

// Set stores a resolution, tracking the slug under its tenant's set so
// InvalidateTenant can find every alias later.
func (c *RedisResolutionCache) Set(ctx context.Context, slug string, tenantID uuid.UUID, ttl time.Duration) error {
	if slug == "" || tenantID == uuid.Nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.config.L2TTL
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, resolutionKeyPrefix+slug, tenantID.String(), ttl)
	tenantKey := tenantSetKeyPrefix + tenantID.String()
	pipe.SAdd(ctx, tenantKey, slug)
	pipe.Expire(ctx, tenantKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops a single slug
func (c *RedisResolutionCache) Invalidate(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, resolutionKeyPrefix+slug).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// InvalidateTenant drops every slug mapped to a tenant
func (c *RedisResolutionCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenantKey := tenantSetKeyPrefix + tenantID.String()
	slugs, err := c.client.SMembers(ctx, tenantKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis smembers: %w", err)
	}
	keys := make([]string, 0, len(slugs)+1)
	for _, slug := range slugs {
		keys = append(keys, resolutionKeyPrefix+slug)
	}
	keys = append(keys, tenantKey)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the Redis connection if this cache owns it
func (c *RedisResolutionCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
