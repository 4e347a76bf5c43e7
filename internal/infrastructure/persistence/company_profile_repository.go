package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
	"github.com/faktura/backend/internal/infrastructure/persistence/models"
)

// GormCompanyProfileRepository implements invoicing.CompanyProfileRepository
// using GORM. The one-profile-per-tenant invariant is enforced twice: a
// pre-check for a friendly error, and the unique index on tenant_id for the
// race window the pre-check cannot close.
type GormCompanyProfileRepository struct {
	db *gorm.DB
}

// NewGormCompanyProfileRepository creates a new GormCompanyProfileRepository
func NewGormCompanyProfileRepository(db *gorm.DB) *GormCompanyProfileRepository {
	return &GormCompanyProfileRepository{db: db}
}

// Create persists a new profile, failing with shared.ErrProfileExists when
// the tenant already has one
func (r *GormCompanyProfileRepository) Create(ctx context.Context, profile *invoicing.CompanyProfile) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CompanyProfileModel{}).
		Where("tenant_id = ?", profile.TenantID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrProfileExists
	}

	model := &models.CompanyProfileModel{}
	model.FromDomain(profile)
	err := r.db.WithContext(ctx).Create(model).Error
	if isUniqueViolation(err) {
		return shared.ErrProfileExists
	}
	return err
}

// Update persists changes to a profile with optimistic locking
func (r *GormCompanyProfileRepository) Update(ctx context.Context, profile *invoicing.CompanyProfile) error {
	model := &models.CompanyProfileModel{}
	model.FromDomain(profile)
	model.Version = profile.Version + 1

	result := r.db.WithContext(ctx).Model(&models.CompanyProfileModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", profile.TenantID, profile.ID, profile.Version).
		Select("*").
		Omit("id", "tenant_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	profile.IncrementVersion()
	return nil
}

// Find returns the tenant's profile, or shared.ErrNotFound when none exists
func (r *GormCompanyProfileRepository) Find(ctx context.Context, tenantID uuid.UUID) (*invoicing.CompanyProfile, error) {
	var model models.CompanyProfileModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetOrCreate returns the tenant's profile, provisioning one with default
// rates on first access. A concurrent first access loses the insert race and
// reads back the winner's row.
func (r *GormCompanyProfileRepository) GetOrCreate(ctx context.Context, tenantID uuid.UUID) (*invoicing.CompanyProfile, error) {
	profile, err := r.Find(ctx, tenantID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	profile, err = invoicing.NewCompanyProfile(tenantID, "")
	if err != nil {
		return nil, err
	}

	model := &models.CompanyProfileModel{}
	model.FromDomain(profile)
	createErr := r.db.WithContext(ctx).Create(model).Error
	if createErr == nil {
		return profile, nil
	}
	if isUniqueViolation(createErr) {
		return r.Find(ctx, tenantID)
	}
	return nil, createErr
}
