package identity

import (
	"context"
	"strings"

	"github.com/faktura/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Tenant is the isolation boundary for all invoicing data. Every tenant-owned
// entity carries the tenant ID, and the persistence layer scopes every query
// to it. A tenant is provisioned automatically when its owning user registers
// and is never merged or split afterwards.
type Tenant struct {
	shared.BaseEntity
	Name    string
	OwnerID uuid.UUID
	Active  bool
}

// NewTenant creates a tenant owned by the given user
func NewTenant(name string, ownerID uuid.UUID) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant name is required")
	}
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant owner is required")
	}
	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		OwnerID:    ownerID,
		Active:     true,
	}, nil
}

// Deactivate marks the tenant inactive. Inactive tenants fail middleware
// validation and can no longer authenticate requests.
func (t *Tenant) Deactivate() {
	t.Active = false
	t.Touch()
}

// TenantRepository defines persistence operations for tenants
type TenantRepository interface {
	Save(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Tenant, error)
}
