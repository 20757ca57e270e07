package registry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantRepository defines the read surface of the central registry.
// Lookups return shared.ErrNotFound when no tenant matches.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TenantRecord, error)
	// FindByExactName matches the display name exactly, case-sensitive.
	FindByExactName(ctx context.Context, name string) (*TenantRecord, error)
	// FindByPartialName performs one case-insensitive contains match.
	FindByPartialName(ctx context.Context, fragment string) (*TenantRecord, error)
	Save(ctx context.Context, record *TenantRecord) error
	// TouchLastConnected refreshes last_connected_at without loading the row.
	TouchLastConnected(ctx context.Context, id uuid.UUID, at time.Time) error
}
