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

// GormProjectRepository implements invoicing.ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// Save creates or updates a project. Project names are unique within a
// client; a collision surfaces as a domain error rather than a raw
// constraint failure.
func (r *GormProjectRepository) Save(ctx context.Context, project *invoicing.Project) error {
	model := &models.ProjectModel{}
	model.FromDomain(project)
	err := r.db.WithContext(ctx).Save(model).Error
	if isUniqueViolation(err) {
		return shared.NewDomainError("DUPLICATE_PROJECT", "a project with this name already exists for the client")
	}
	return err
}

// FindByID finds a project by ID within a tenant
func (r *GormProjectRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByClient lists a client's projects ordered by name
func (r *GormProjectRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]invoicing.Project, error) {
	var projectModels []models.ProjectModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID).
		Order("name ASC").
		Find(&projectModels).Error; err != nil {
		return nil, err
	}
	return toDomainProjects(projectModels), nil
}

// FindAll lists all projects of a tenant ordered by name
func (r *GormProjectRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]invoicing.Project, error) {
	var projectModels []models.ProjectModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&projectModels).Error; err != nil {
		return nil, err
	}
	return toDomainProjects(projectModels), nil
}

// Delete removes a project within a tenant
func (r *GormProjectRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.ProjectModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainProjects(projectModels []models.ProjectModel) []invoicing.Project {
	projects := make([]invoicing.Project, len(projectModels))
	for i := range projectModels {
		projects[i] = *projectModels[i].ToDomain()
	}
	return projects
}
