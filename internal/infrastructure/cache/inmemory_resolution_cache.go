package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/menulink/backend/internal/domain/registry"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryResolutionCache implements registry.ResolutionCache with local
// storage. Used standalone or as the L1 tier in front of Redis.
type InMemoryResolutionCache struct {
	entries       sync.Map // map[string]*resolutionEntry, keyed by slug
	config        registry.CacheConfig
	logger        *zap.Logger
	sweepInterval time.Duration
	stopCh        chan struct{}
	stopped       int32

	hits   int64
	misses int64
}

type resolutionEntry struct {
	tenantID  uuid.UUID
	expiresAt time.Time
}

func (e *resolutionEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryResolutionCacheOption is a functional option for the cache
type InMemoryResolutionCacheOption func(*InMemoryResolutionCache)

// WithInMemoryConfig sets the cache configuration
func WithInMemoryConfig(config registry.CacheConfig) InMemoryResolutionCacheOption {
	return func(c *InMemoryResolutionCache) {
		c.config = config
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryResolutionCacheOption {
	return func(c *InMemoryResolutionCache) {
		c.logger = logger
	}
}

// WithInMemorySweepInterval sets how often expired entries are swept
func WithInMemorySweepInterval(d time.Duration) InMemoryResolutionCacheOption {
	return func(c *InMemoryResolutionCache) {
		if d > 0 {
			c.sweepInterval = d
		}
	}
}

// NewInMemoryResolutionCache creates a new in-memory resolution cache
func NewInMemoryResolutionCache(opts ...InMemoryResolutionCacheOption) *InMemoryResolutionCache {
	cache := &InMemoryResolutionCache{
		config:        registry.DefaultCacheConfig(),
		logger:        zap.NewNop(),
		sweepInterval: defaultCleanupInterval,
		stopCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get returns the cached tenant id for a slug
func (c *InMemoryResolutionCache) Get(ctx context.Context, slug string) (uuid.UUID, bool, error) {
	if value, ok := c.entries.Load(slug); ok {
		entry := value.(*resolutionEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.tenantID, true, nil
		}
		c.entries.Delete(slug)
	}
	atomic.AddInt64(&c.misses, 1)
	return uuid.Nil, false, nil
}

// Set stores a resolution
func (c *InMemoryResolutionCache) Set(ctx context.Context, slug string, tenantID uuid.UUID, ttl time.Duration) error {
	if slug == "" || tenantID == uuid.Nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.config.L1TTL
	}
	c.entries.Store(slug, &resolutionEntry{
		tenantID:  tenantID,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Invalidate drops a single slug
func (c *InMemoryResolutionCache) Invalidate(ctx context.Context, slug string) error {
	c.entries.Delete(slug)
	return nil
}

// InvalidateTenant drops every slug mapped to a tenant
func (c *InMemoryResolutionCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	c.entries.Range(func(key, value any) bool {
		if value.(*resolutionEntry).tenantID == tenantID {
			c.entries.Delete(key)
		}
		return true
	})
	return nil
}

// Stats returns hit/miss counters for monitoring
func (c *InMemoryResolutionCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Stop terminates the background cleanup goroutine
func (c *InMemoryResolutionCache) Stop() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

func (c *InMemoryResolutionCache) cleanupExpired() {
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*resolutionEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}
