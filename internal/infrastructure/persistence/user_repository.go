package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/faktura/backend/internal/domain/identity"
	"github.com/faktura/backend/internal/domain/shared"
	"github.com/faktura/backend/internal/infrastructure/persistence/models"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	model := &models.UserModel{}
	model.FromDomain(user)
	err := r.db.WithContext(ctx).Save(model).Error
	if isUniqueViolation(err) {
		return shared.NewDomainError("DUPLICATE_EMAIL", "a user with this email already exists")
	}
	return err
}

// CreateWithTenant persists a new user and the tenant they own in one
// transaction. A failure on either row rolls back both, so no user is
// ever left stranded without a tenant.
func (r *GormUserRepository) CreateWithTenant(ctx context.Context, user *identity.User, tenant *identity.Tenant) error {
	userModel := &models.UserModel{}
	userModel.FromDomain(user)
	tenantModel := &models.TenantModel{}
	tenantModel.FromDomain(tenant)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userModel).Error; err != nil {
			return err
		}
		return tx.Create(tenantModel).Error
	})
	if isUniqueViolation(err) {
		return shared.NewDomainError("DUPLICATE_EMAIL", "a user with this email already exists")
	}
	return err
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
