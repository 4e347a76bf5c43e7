package invoicing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
)

func newTestClientService() (*ClientService, *MockClientRepository, *MockInvoiceRepository) {
	clientRepo := new(MockClientRepository)
	invoiceRepo := new(MockInvoiceRepository)
	service := NewClientService(clientRepo, invoiceRepo, zap.NewNop())
	return service, clientRepo, invoiceRepo
}

func TestClientService_Create(t *testing.T) {
	service, clientRepo, _ := newTestClientService()
	tenantID := uuid.New()

	clientRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.Create(context.Background(), tenantID, CreateClientRequest{
		Name:     "Peter Kowalski",
		Initials: "pk",
		Email:    " peter@example.com ",
	})

	require.NoError(t, err)
	assert.Equal(t, "Peter Kowalski", resp.Name)
	assert.Equal(t, "PK", resp.Initials)
	assert.Equal(t, "peter@example.com", resp.Email)
	clientRepo.AssertExpectations(t)
}

func TestClientService_Update_ChangesInitials(t *testing.T) {
	service, clientRepo, _ := newTestClientService()
	tenantID := uuid.New()

	client, err := invoicing.NewClient(tenantID, "Peter Kowalski", "PK")
	require.NoError(t, err)

	clientRepo.On("FindByID", mock.Anything, tenantID, client.ID).Return(client, nil)
	clientRepo.On("Save", mock.Anything, client).Return(nil)

	initials := "pw"
	resp, err := service.Update(context.Background(), tenantID, client.ID, UpdateClientRequest{Initials: &initials})

	require.NoError(t, err)
	assert.Equal(t, "PW", resp.Initials)
}

func TestClientService_Delete_RejectsClientWithInvoices(t *testing.T) {
	service, clientRepo, invoiceRepo := newTestClientService()
	tenantID := uuid.New()
	clientID := uuid.New()

	invoiceRepo.On("Count", mock.Anything, tenantID, mock.MatchedBy(func(f invoicing.InvoiceFilter) bool {
		return f.ClientID != nil && *f.ClientID == clientID
	})).Return(int64(3), nil)

	err := service.Delete(context.Background(), tenantID, clientID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CLIENT_IN_USE", domainErr.Code)
	clientRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestClientService_Delete_UnusedClient(t *testing.T) {
	service, clientRepo, invoiceRepo := newTestClientService()
	tenantID := uuid.New()
	clientID := uuid.New()

	invoiceRepo.On("Count", mock.Anything, tenantID, mock.Anything).Return(int64(0), nil)
	clientRepo.On("Delete", mock.Anything, tenantID, clientID).Return(nil)

	require.NoError(t, service.Delete(context.Background(), tenantID, clientID))
	clientRepo.AssertExpectations(t)
}
