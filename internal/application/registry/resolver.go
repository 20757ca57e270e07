package registry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/menulink/backend/internal/domain/registry"
	"github.com/menulink/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Resolver turns a viewer-typed URL slug into the tenant's registry
// record. Resolution is a pure function of the slug and registry state;
// the cache only short-circuits repeat lookups and never changes the
// outcome. Negative results are not cached.
type Resolver struct {
	repo   registry.TenantRepository
	cache  registry.ResolutionCache
	ttl    time.Duration
	logger *zap.Logger
}

// ResolverOption is a functional option for the resolver
type ResolverOption func(*Resolver)

// WithCache enables slug-resolution caching with the given TTL
// (0 = cache implementation default)
func WithCache(cache registry.ResolutionCache, ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.cache = cache
		r.ttl = ttl
	}
}

// WithLogger sets the resolver's logger
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a slug resolver against the central registry
func NewResolver(repo registry.TenantRepository, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		repo:   repo,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the tenant a slug refers to. Exact display-name matches
// are tried for every slug transform first; only when all of them miss
// is one case-insensitive contains match attempted. Returns
// registry.ErrTenantNotFound when nothing matches.
func (r *Resolver) Resolve(ctx context.Context, slug string) (*registry.TenantRecord, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, registry.ErrTenantNotFound
	}

	if record := r.fromCache(ctx, slug); record != nil {
		return record, nil
	}

	candidates := registry.NameCandidates(slug)

	for _, candidate := range candidates {
		record, err := r.repo.FindByExactName(ctx, candidate)
		if err == nil {
			r.remember(ctx, slug, record)
			return record, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	// Exactness exhausted; one partial attempt against the primary candidate.
	record, err := r.repo.FindByPartialName(ctx, registry.PrimaryCandidate(slug))
	if err == nil {
		r.remember(ctx, slug, record)
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	r.logger.Debug("slug did not resolve", zap.String("slug", slug))
	return nil, registry.ErrTenantNotFound
}

// InvalidateTenant drops every cached slug for a tenant, e.g. after the
// admin registry renames or suspends it.
func (r *Resolver) InvalidateTenant(ctx context.Context, record *registry.TenantRecord) {
	if r.cache == nil || record == nil {
		return
	}
	if err := r.cache.InvalidateTenant(ctx, record.ID); err != nil {
		r.logger.Warn("resolution cache invalidation failed",
			zap.String("tenant_id", record.ID.String()), zap.Error(err))
	}
}

func (r *Resolver) fromCache(ctx context.Context, slug string) *registry.TenantRecord {
	if r.cache == nil {
		return nil
	}
	id, ok, err := r.cache.Get(ctx, slug)
	if err != nil || !ok {
		return nil
	}
	record, err := r.repo.FindByID(ctx, id)
	if err != nil {
		// The registry entry went away; drop the stale mapping and
		// resolve from scratch.
		_ = r.cache.Invalidate(ctx, slug)
		return nil
	}
	return record
}

func (r *Resolver) remember(ctx context.Context, slug string, record *registry.TenantRecord) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, slug, record.ID, r.ttl); err != nil {
		r.logger.Warn("resolution cache write failed", zap.String("slug", slug), zap.Error(err))
	}
}
