package registry

import (
	"net/url"
	"strings"
	"time"

	"github.com/menulink/backend/internal/domain/shared"
)

// ConnectionStatus represents the connection state of a tenant backend
type ConnectionStatus string

const (
	StatusPending   ConnectionStatus = "pending"
	StatusConnected ConnectionStatus = "connected"
	StatusSuspended ConnectionStatus = "suspended"
	StatusError     ConnectionStatus = "error"
)

// Registry-specific domain errors
var (
	ErrTenantNotFound      = shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
	ErrInvalidTenantConfig = shared.NewDomainError("INVALID_TENANT_CONFIG", "Tenant backend configuration is invalid")
)

// TenantRecord is the registry entry for one restaurant. Each tenant runs
// against its own isolated data project; the record carries everything
// needed to reach it. The core only reads these rows, the admin registry
// owns their lifecycle.
type TenantRecord struct {
	shared.BaseEntity
	DisplayName       string           `gorm:"type:varchar(200);not null;index"`
	BackendAddress    string           `gorm:"type:varchar(500);not null"`
	BackendCredential string           `gorm:"type:varchar(500);not null"`
	ConnectionStatus  ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	LastConnectedAt   *time.Time
}

// TableName returns the table name for GORM
func (TenantRecord) TableName() string {
	return "tenant_records"
}

// NewTenantRecord creates a registry entry for a new tenant
func NewTenantRecord(displayName, backendAddress, backendCredential string) (*TenantRecord, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Display name cannot be empty")
	}
	record := &TenantRecord{
		BaseEntity:        shared.NewBaseEntity(),
		DisplayName:       displayName,
		BackendAddress:    strings.TrimSpace(backendAddress),
		BackendCredential: strings.TrimSpace(backendCredential),
		ConnectionStatus:  StatusPending,
	}
	if err := record.ValidateBackend(); err != nil {
		return nil, err
	}
	return record, nil
}

// ValidateBackend checks that the backend address and credential are
// well formed enough to construct a client from. A failure here is
// terminal for the tenant until the registry entry is fixed.
func (t *TenantRecord) ValidateBackend() error {
	u, err := url.Parse(t.BackendAddress)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidTenantConfig
	}
	if strings.TrimSpace(t.BackendCredential) == "" {
		return ErrInvalidTenantConfig
	}
	return nil
}

// Unusable reports whether the tenant's backend should not be served.
// Handles bound to an unusable tenant must be discarded.
func (t *TenantRecord) Unusable() bool {
	return t.ConnectionStatus == StatusSuspended || t.ConnectionStatus == StatusError
}

// MarkConnected records a successful read against the tenant backend
func (t *TenantRecord) MarkConnected(at time.Time) {
	t.ConnectionStatus = StatusConnected
	t.LastConnectedAt = &at
	t.UpdatedAt = at
}
