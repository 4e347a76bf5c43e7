package invoicing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
)

// ProjectService handles project management
type ProjectService struct {
	projectRepo invoicing.ProjectRepository
	clientRepo  invoicing.ClientRepository
	invoiceRepo invoicing.InvoiceRepository
	logger      *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo invoicing.ProjectRepository,
	clientRepo invoicing.ClientRepository,
	invoiceRepo invoicing.InvoiceRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// Create creates a project under an existing client
func (s *ProjectService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProjectRequest) (*ProjectResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, tenantID, req.ClientID); err != nil {
		return nil, err
	}

	project, err := invoicing.NewProject(tenantID, req.ClientID, req.Name, req.Abbreviation)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("Project created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("project_id", project.ID.String()),
		zap.String("slug", project.Slug))

	return toProjectResponse(project), nil
}

// Get returns a project by ID
func (s *ProjectService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// List returns all projects, optionally restricted to one client
func (s *ProjectService) List(ctx context.Context, tenantID uuid.UUID, clientID *uuid.UUID) ([]ProjectResponse, error) {
	var (
		projects []invoicing.Project
		err      error
	)
	if clientID != nil {
		projects, err = s.projectRepo.FindByClient(ctx, tenantID, *clientID)
	} else {
		projects, err = s.projectRepo.FindAll(ctx, tenantID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = *toProjectResponse(&projects[i])
	}
	return responses, nil
}

// Update applies a partial update to a project
func (s *ProjectService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := project.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Abbreviation != nil {
		if err := project.SetAbbreviation(*req.Abbreviation); err != nil {
			return nil, err
		}
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

// Delete removes a project without invoices
func (s *ProjectService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	count, err := s.invoiceRepo.Count(ctx, tenantID, invoicing.InvoiceFilter{ProjectID: &id})
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("PROJECT_IN_USE", "project has invoices and cannot be deleted")
	}
	return s.projectRepo.Delete(ctx, tenantID, id)
}
