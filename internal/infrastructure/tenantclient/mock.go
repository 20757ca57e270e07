package tenantclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/menulink/backend/internal/domain/shared"
)

// Mock is an in-memory tenant backend double, the second concrete Client
// variant. Tests seed it with pre-filtered, pre-ordered rows per
// collection; it serves them verbatim the way a real backend would serve
// a filtered read.
type Mock struct {
	ID uuid.UUID

	// Rows holds the canned result set per collection.
	Rows map[string][]map[string]any
	// Errs fails reads of specific collections.
	Errs map[string]error
	// Delay is applied before every read, to exercise timeouts.
	Delay time.Duration

	mu     sync.Mutex
	reads  []string
	closed atomic.Bool
}

// NewMock creates an empty mock backend for a tenant
func NewMock(tenantID uuid.UUID) *Mock {
	return &Mock{
		ID:   tenantID,
		Rows: make(map[string][]map[string]any),
		Errs: make(map[string]error),
	}
}

// TenantID returns the bound tenant's identity
func (m *Mock) TenantID() uuid.UUID {
	return m.ID
}

// ReadCollection serves the canned rows for a collection
func (m *Mock) ReadCollection(ctx context.Context, collection string, opts ReadOptions, dest any) error {
	rows, err := m.rows(ctx, collection)
	if err != nil {
		return err
	}
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	return roundTrip(rows, dest)
}

// ReadSingle serves the first canned row, or shared.ErrNotFound
func (m *Mock) ReadSingle(ctx context.Context, collection string, opts ReadOptions, dest any) error {
	rows, err := m.rows(ctx, collection)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return shared.ErrNotFound
	}
	return roundTrip(rows[0], dest)
}

// StorageURL mirrors the REST client's public object URL shape
func (m *Mock) StorageURL(bucket, path string) string {
	return "mock://" + m.ID.String() + "/" + bucket + "/" + path
}

// Close invalidates the handle
func (m *Mock) Close() error {
	m.closed.Store(true)
	return nil
}

// ReadLog returns the collections read so far, in order
func (m *Mock) ReadLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.reads...)
}

func (m *Mock) rows(ctx context.Context, collection string) ([]map[string]any, error) {
	if m.closed.Load() {
		return nil, ErrClientClosed
	}
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	m.reads = append(m.reads, collection)
	err := m.Errs[collection]
	rows := m.Rows[collection]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return rows, nil
}

func roundTrip(src, dest any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encoding mock rows: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decoding mock rows: %w", err)
	}
	return nil
}
