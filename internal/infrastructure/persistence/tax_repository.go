package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/faktura/backend/internal/domain/shared"
	"github.com/faktura/backend/internal/domain/taxation"
	"github.com/faktura/backend/internal/infrastructure/persistence/models"
)

// GormTaxYearRepository implements taxation.TaxYearRepository using GORM
type GormTaxYearRepository struct {
	db *gorm.DB
}

// NewGormTaxYearRepository creates a new GormTaxYearRepository
func NewGormTaxYearRepository(db *gorm.DB) *GormTaxYearRepository {
	return &GormTaxYearRepository{db: db}
}

// Save creates or updates a tax year together with its brackets
func (r *GormTaxYearRepository) Save(ctx context.Context, year *taxation.TaxYear) error {
	model := &models.TaxYearModel{}
	model.FromDomain(year)
	err := r.db.WithContext(ctx).Save(model).Error
	if isUniqueViolation(err) {
		return shared.NewDomainError("DUPLICATE_TAX_YEAR", "a configuration for this year already exists")
	}
	return err
}

// FindByYear finds a tax year by calendar year within a tenant
func (r *GormTaxYearRepository) FindByYear(ctx context.Context, tenantID uuid.UUID, year int) (*taxation.TaxYear, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).
		Where("tenant_id = ? AND year = ?", tenantID, year))
}

// FindActiveByYear finds the active configuration for a calendar year. The
// soft "not configured" outcome for tax calculation maps from the
// shared.ErrNotFound returned here.
func (r *GormTaxYearRepository) FindActiveByYear(ctx context.Context, tenantID uuid.UUID, year int) (*taxation.TaxYear, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).
		Where("tenant_id = ? AND year = ? AND active = ?", tenantID, year, true))
}

func (r *GormTaxYearRepository) findOne(ctx context.Context, query *gorm.DB) (*taxation.TaxYear, error) {
	var model models.TaxYearModel
	if err := query.
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("lower ASC")
		}).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists all tax years of a tenant, newest first
func (r *GormTaxYearRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]taxation.TaxYear, error) {
	var yearModels []models.TaxYearModel
	if err := r.db.WithContext(ctx).
		Preload("Brackets", func(db *gorm.DB) *gorm.DB {
			return db.Order("lower ASC")
		}).
		Where("tenant_id = ?", tenantID).
		Order("year DESC").
		Find(&yearModels).Error; err != nil {
		return nil, err
	}

	years := make([]taxation.TaxYear, len(yearModels))
	for i := range yearModels {
		years[i] = *yearModels[i].ToDomain()
	}
	return years, nil
}

// ReplaceBrackets swaps the bracket set of a tax year atomically
func (r *GormTaxYearRepository) ReplaceBrackets(ctx context.Context, year *taxation.TaxYear) error {
	model := &models.TaxYearModel{}
	model.FromDomain(year)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.TaxYearModel{}).
			Where("tenant_id = ? AND id = ?", year.TenantID, year.ID).
			Update("active", year.Active)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if err := tx.Where("tax_year_id = ?", year.ID).
			Delete(&models.TaxBracketModel{}).Error; err != nil {
			return err
		}
		if len(model.Brackets) == 0 {
			return nil
		}
		return tx.Create(&model.Brackets).Error
	})
}

// Delete removes a tax year and its brackets within a tenant
func (r *GormTaxYearRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tax_year_id = ?", id).
			Delete(&models.TaxBracketModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.TaxYearModel{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
