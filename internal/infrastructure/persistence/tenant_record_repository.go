package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/menulink/backend/internal/domain/registry"
	"github.com/menulink/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTenantRepository implements registry.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant record by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.TenantRecord, error) {
	var record registry.TenantRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByExactName finds a tenant record whose display name matches exactly
func (r *GormTenantRepository) FindByExactName(ctx context.Context, name string) (*registry.TenantRecord, error) {
	var record registry.TenantRecord
	if err := r.db.WithContext(ctx).
		Where("display_name = ?", name).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByPartialName finds a tenant record whose display name contains the
// fragment, case-insensitive. The oldest matching record wins so that the
// result is stable across calls.
func (r *GormTenantRepository) FindByPartialName(ctx context.Context, fragment string) (*registry.TenantRecord, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, shared.ErrNotFound
	}
	var record registry.TenantRecord
	if err := r.db.WithContext(ctx).
		Where("display_name ILIKE ?", "%"+escapeLike(fragment)+"%").
		Order("created_at ASC").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Save saves a tenant record
func (r *GormTenantRepository) Save(ctx context.Context, record *registry.TenantRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// TouchLastConnected refreshes last_connected_at and flips the status to
// connected without loading the row
func (r *GormTenantRepository) TouchLastConnected(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&registry.TenantRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_connected_at": at,
			"connection_status": registry.StatusConnected,
			"updated_at":        at,
		}).Error
}

// escapeLike escapes LIKE wildcards so a fragment matches literally
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
