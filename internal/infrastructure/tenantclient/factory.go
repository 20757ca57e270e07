package tenantclient

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/menulink/backend/internal/domain/registry"
	"github.com/menulink/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Config holds tenant client construction settings
type Config struct {
	// RequestTimeout bounds each HTTP request a handle makes.
	RequestTimeout time.Duration
	// HandleTTL rebuilds a cached handle after this age; 0 disables expiry.
	HandleTTL time.Duration
}

// Builder constructs a concrete Client for a record. Swapped for a Mock
// builder in tests.
type Builder func(record *registry.TenantRecord) (Client, error)

// FactoryOption is a functional option for Factory configuration
type FactoryOption func(*Factory)

// WithBuilder overrides how concrete clients are constructed
func WithBuilder(build Builder) FactoryOption {
	return func(f *Factory) {
		f.build = build
	}
}

// Factory owns the per-tenant handle cache. For a given tenant identity
// at most one live handle exists at a time, even when two resolutions
// race. Handles are built lazily, reused for the session, and discarded
// on invalidation, TTL expiry, or when the tenant's registry record
// turns suspended/error.
type Factory struct {
	mu      sync.Mutex
	handles map[uuid.UUID]*handleEntry
	cfg     Config
	build   Builder
	logger  *zap.Logger
}

type handleEntry struct {
	client  Client
	builtAt time.Time
}

// NewFactory creates a handle factory/cache
func NewFactory(cfg Config, logger *zap.Logger, opts ...FactoryOption) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Factory{
		handles: make(map[uuid.UUID]*handleEntry),
		cfg:     cfg,
		logger:  logger,
	}
	f.build = func(record *registry.TenantRecord) (Client, error) {
		return NewRESTClient(record, cfg.RequestTimeout, logger)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Handle returns the cached handle for the record's tenant, constructing
// one when none is live. A record that turned suspended/error evicts the
// stale handle first and yields a freshly constructed one, so the next
// aggregation retries against the backend's current state.
func (f *Factory) Handle(record *registry.TenantRecord) (Client, error) {
	if record == nil {
		return nil, shared.ErrInvalidInput
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if entry, ok := f.handles[record.ID]; ok {
		switch {
		case record.Unusable():
			f.evictLocked(record.ID, "status "+string(record.ConnectionStatus))
		case f.expired(entry):
			f.evictLocked(record.ID, "ttl elapsed")
		default:
			return entry.client, nil
		}
	}

	client, err := f.build(record)
	if err != nil {
		return nil, err
	}
	f.handles[record.ID] = &handleEntry{client: client, builtAt: time.Now()}
	f.logger.Debug("tenant handle constructed", zap.String("tenant_id", record.ID.String()))
	return client, nil
}

// Invalidate discards the cached handle for one tenant, if any
func (f *Factory) Invalidate(tenantID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evictLocked(tenantID, "explicit invalidation")
}

// Close discards every cached handle. Called on session teardown.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id := range f.handles {
		f.evictLocked(id, "factory closed")
	}
	return nil
}

// Len returns the number of live handles, for observability
func (f *Factory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

func (f *Factory) expired(entry *handleEntry) bool {
	return f.cfg.HandleTTL > 0 && time.Since(entry.builtAt) > f.cfg.HandleTTL
}

func (f *Factory) evictLocked(tenantID uuid.UUID, reason string) {
	entry, ok := f.handles[tenantID]
	if !ok {
		return
	}
	_ = entry.client.Close()
	delete(f.handles, tenantID)
	f.logger.Debug("tenant handle evicted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("reason", reason))
}
