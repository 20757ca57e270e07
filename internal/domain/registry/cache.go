package registry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ResolutionCache caches resolved slug → tenant id mappings so repeated
// menu views do not hit the registry on every request. Implementations
// live in infrastructure/cache. Negative results are never cached.
type ResolutionCache interface {
	// Get returns the cached tenant id for a slug, if present.
	Get(ctx context.Context, slug string) (uuid.UUID, bool, error)
	// Set stores a resolution with the given TTL (0 = implementation default).
	Set(ctx context.Context, slug string, tenantID uuid.UUID, ttl time.Duration) error
	// Invalidate drops one cached slug.
	Invalidate(ctx context.Context, slug string) error
	// InvalidateTenant drops every slug currently mapped to a tenant.
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

// CacheConfig holds TTL settings for the resolution cache
type CacheConfig struct {
	L1TTL time.Duration // in-memory layer
	L2TTL time.Duration // Redis layer
}

// DefaultCacheConfig returns sensible cache TTLs
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		L1TTL: 1 * time.Minute,
		L2TTL: 10 * time.Minute,
	}
}
