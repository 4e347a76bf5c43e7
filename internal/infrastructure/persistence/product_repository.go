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

// GormProductRepository implements invoicing.ProductRepository using GORM
type GormProductRepository struct {
	tdb *tenant.TenantDB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{tdb: tenant.NewTenantDB(db)}
}

// Save creates or updates a product template
func (r *GormProductRepository) Save(ctx context.Context, product *invoicing.Product) error {
	model := &models.ProductModel{}
	model.FromDomain(product)
	return r.tdb.DB().WithContext(ctx).Save(model).Error
}

// FindByID finds a product by ID within a tenant
func (r *GormProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Product, error) {
	var model models.ProductModel
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

// FindAll lists all product templates of a tenant ordered by name
func (r *GormProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]invoicing.Product, error) {
	var productModels []models.ProductModel
	if err := r.tdb.WithTenant(tenantID).WithContext(ctx).
		Order("name ASC").
		Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]invoicing.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products, nil
}

// Delete removes a product within a tenant
func (r *GormProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.tdb.WithTenant(tenantID).WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ProductModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
