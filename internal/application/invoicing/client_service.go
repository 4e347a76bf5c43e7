package invoicing

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
)

// ClientService handles client management
type ClientService struct {
	clientRepo  invoicing.ClientRepository
	invoiceRepo invoicing.InvoiceRepository
	logger      *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(
	clientRepo invoicing.ClientRepository,
	invoiceRepo invoicing.InvoiceRepository,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := invoicing.NewClient(tenantID, req.Name, req.Initials)
	if err != nil {
		return nil, err
	}
	client.Email = strings.TrimSpace(req.Email)
	client.Address = req.Address
	client.Phone = req.Phone

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("Client created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("client_id", client.ID.String()))

	return toClientResponse(client), nil
}

// Get returns a client by ID
func (s *ClientService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List returns all clients of the tenant
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID) ([]ClientResponse, error) {
	clients, err := s.clientRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = *toClientResponse(&clients[i])
	}
	return responses, nil
}

// Update applies a partial update to a client
func (s *ClientService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := client.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Initials != nil {
		if err := client.SetInitials(*req.Initials); err != nil {
			return nil, err
		}
	}
	if req.Email != nil {
		client.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	client.Touch()

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete removes a client without invoices. Clients referenced by invoices
// are kept so historical numbers stay resolvable.
func (s *ClientService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	count, err := s.invoiceRepo.Count(ctx, tenantID, invoicing.InvoiceFilter{ClientID: &id})
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("CLIENT_IN_USE", "client has invoices and cannot be deleted")
	}
	return s.clientRepo.Delete(ctx, tenantID, id)
}
