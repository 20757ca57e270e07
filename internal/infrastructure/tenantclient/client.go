// Package tenantclient provides handles bound to a single tenant's
// isolated backend project. A handle is built from the tenant's registry
// record (backend address + anon-level credential), performs no I/O at
// construction time, and is cached per tenant by the Factory.
package tenantclient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrClientClosed is returned by reads against an invalidated handle
var ErrClientClosed = errors.New("tenant client is closed")

// Client is the capability set a tenant backend handle exposes. Concrete
// variants are the REST client and the in-memory Mock; both are selected
// at construction time and are safe for concurrent readers.
type Client interface {
	TenantID() uuid.UUID
	// ReadCollection fetches rows from one collection into dest, which
	// must be a pointer to a slice. Filters and ordering are applied by
	// the backend, not client-side.
	ReadCollection(ctx context.Context, collection string, opts ReadOptions, dest any) error
	// ReadSingle fetches at most one row into dest (a pointer to a
	// struct) and returns shared.ErrNotFound when the collection is empty.
	ReadSingle(ctx context.Context, collection string, opts ReadOptions, dest any) error
	// StorageURL resolves a stored object reference to a public URL.
	StorageURL(bucket, path string) string
	// Close invalidates the handle; subsequent reads fail with ErrClientClosed.
	Close() error
}

// Order is one ordering clause of a collection read
type Order struct {
	Column string
	Desc   bool
}

// ReadOptions narrows a collection read. All options are applied
// server-side so partial result sets are never mixed with filtered rows.
type ReadOptions struct {
	// Eq holds column = value equality filters.
	Eq map[string]string
	// OrderBy clauses, applied in order.
	OrderBy []Order
	// Limit caps the number of rows; 0 means no limit.
	Limit int
}

func (o ReadOptions) orderParam() string {
	if len(o.OrderBy) == 0 {
		return ""
	}
	parts := make([]string, 0, len(o.OrderBy))
	for _, ord := range o.OrderBy {
		if ord.Desc {
			parts = append(parts, ord.Column+".desc")
		} else {
			parts = append(parts, ord.Column+".asc")
		}
	}
	return strings.Join(parts, ",")
}
