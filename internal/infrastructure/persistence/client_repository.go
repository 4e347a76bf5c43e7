package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
	"github.com/faktura/backend/internal/infrastructure/persistence/models"
	"github.com/faktura/backend/internal/infrastructure/persistence/tenant"
)

// GormClientRepository implements invoicing.ClientRepository using GORM
type GormClientRepository struct {
	tdb *tenant.TenantDB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{tdb: tenant.NewTenantDB(db)}
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *invoicing.Client) error {
	model := &models.ClientModel{}
	model.FromDomain(client)
	return r.tdb.DB().WithContext(ctx).Save(model).Error
}

// FindByID finds a client by ID within a tenant
func (r *GormClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Client, error) {
	var model models.ClientModel
	if err := r.tdb.WithTenant(tenantID).WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists all clients of a tenant ordered by name
func (r *GormClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]invoicing.Client, error) {
	var clientModels []models.ClientModel
	if err := r.tdb.WithTenant(tenantID).WithContext(ctx).
		Order("name ASC").
		Find(&clientModels).Error; err != nil {
		return nil, err
	}

	clients := make([]invoicing.Client, len(clientModels))
	for i := range clientModels {
		clients[i] = *clientModels[i].ToDomain()
	}
	return clients, nil
}

// Delete removes a client within a tenant
func (r *GormClientRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.tdb.WithTenant(tenantID).WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ClientModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
