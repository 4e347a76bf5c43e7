package invoicing

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
	"github.com/faktura/backend/internal/infrastructure/document"
)

type invoiceServiceMocks struct {
	invoiceRepo *MockInvoiceRepository
	projectRepo *MockProjectRepository
	clientRepo  *MockClientRepository
	productRepo *MockProductRepository
	profileRepo *MockCompanyProfileRepository
	archiveDir  string
}

func newTestInvoiceService(t *testing.T, scheme invoicing.NumberScheme) (*InvoiceService, *invoiceServiceMocks) {
	t.Helper()
	mocks := &invoiceServiceMocks{
		invoiceRepo: new(MockInvoiceRepository),
		projectRepo: new(MockProjectRepository),
		clientRepo:  new(MockClientRepository),
		productRepo: new(MockProductRepository),
		profileRepo: new(MockCompanyProfileRepository),
		archiveDir:  t.TempDir(),
	}
	service := NewInvoiceService(
		mocks.invoiceRepo,
		mocks.projectRepo,
		mocks.clientRepo,
		mocks.productRepo,
		mocks.profileRepo,
		document.NewRenderer("A4"),
		document.NewArchive(mocks.archiveDir),
		scheme,
		zap.NewNop(),
	)
	return service, mocks
}

func defaultTestProfile(t *testing.T, tenantID uuid.UUID) *invoicing.CompanyProfile {
	t.Helper()
	profile, err := invoicing.NewCompanyProfile(tenantID, "Muster GmbH")
	require.NoError(t, err)
	return profile
}

func testProjectAndClient(t *testing.T, tenantID uuid.UUID) (*invoicing.Project, *invoicing.Client) {
	t.Helper()
	client, err := invoicing.NewClient(tenantID, "Peter Kowalski", "PK")
	require.NoError(t, err)
	project, err := invoicing.NewProject(tenantID, client.ID, "Neue Infrastruktur", "NI")
	require.NoError(t, err)
	return project, client
}

func TestInvoiceService_Create_Numbered(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()
	project, client := testProjectAndClient(t, tenantID)

	mocks.projectRepo.On("FindByID", mock.Anything, tenantID, project.ID).Return(project, nil)
	mocks.clientRepo.On("FindByID", mock.Anything, tenantID, client.ID).Return(client, nil)
	mocks.profileRepo.On("GetOrCreate", mock.Anything, tenantID).Return(defaultTestProfile(t, tenantID), nil)
	mocks.invoiceRepo.On("CreateNumbered", mock.Anything, mock.Anything, mock.MatchedBy(func(meta invoicing.NumberMeta) bool {
		return meta.Scheme == invoicing.NumberSchemeComposite &&
			meta.ClientID == client.ID &&
			meta.ClientInitials == "PK" &&
			meta.ProjectAbbr == "NI"
	})).Run(func(args mock.Arguments) {
		inv := args.Get(1).(*invoicing.Invoice)
		require.NoError(t, inv.AssignSequences(1, 1, 1))
		require.NoError(t, inv.AssignNumber("#001-PK-01-NI01"))
	}).Return(nil)

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	resp, err := service.Create(context.Background(), tenantID, CreateInvoiceRequest{
		ProjectID: &project.ID,
		Date:      date,
		DueDate:   date.AddDate(0, 0, 14),
		Items: []CreateInvoiceItemRequest{
			{Type: "service", Description: "Beratung", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
			{Type: "mileage", Description: "Anfahrt", Quantity: decimal.NewFromInt(300)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "#001-PK-01-NI01", resp.Number)
	assert.Equal(t, "#001-PK-01-NI01", resp.DisplayNumber)
	assert.Equal(t, "draft", resp.Status)
	// 100.00 service plus 300 km at the 0.42 base rate.
	assert.True(t, resp.NetTotal.Equal(decimal.RequireFromString("226.00")), "net = %s", resp.NetTotal)
	assert.True(t, resp.VATAmount.Equal(decimal.RequireFromString("20.00")), "vat = %s", resp.VATAmount)
	assert.True(t, resp.GrossTotal.Equal(decimal.RequireFromString("246.00")), "gross = %s", resp.GrossTotal)
	mocks.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_DraftWithoutProject(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()

	mocks.profileRepo.On("GetOrCreate", mock.Anything, tenantID).Return(defaultTestProfile(t, tenantID), nil)
	mocks.invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	resp, err := service.Create(context.Background(), tenantID, CreateInvoiceRequest{
		Date:    date,
		DueDate: date.AddDate(0, 0, 14),
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Number)
	assert.True(t, strings.HasPrefix(resp.DisplayNumber, "DRAFT-"), "display number = %s", resp.DisplayNumber)
	mocks.invoiceRepo.AssertNotCalled(t, "CreateNumbered", mock.Anything, mock.Anything, mock.Anything)
	mocks.projectRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Create_CopiesProductDefaults(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()

	product, err := invoicing.NewProduct(tenantID, "Consulting", "Stundensatz Beratung", decimal.RequireFromString("90.00"))
	require.NoError(t, err)

	mocks.productRepo.On("FindByID", mock.Anything, tenantID, product.ID).Return(product, nil)
	mocks.profileRepo.On("GetOrCreate", mock.Anything, tenantID).Return(defaultTestProfile(t, tenantID), nil)
	mocks.invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	resp, err := service.Create(context.Background(), tenantID, CreateInvoiceRequest{
		Date:    date,
		DueDate: date.AddDate(0, 0, 14),
		Items: []CreateInvoiceItemRequest{
			{Type: "service", ProductID: &product.ID, Quantity: decimal.NewFromInt(2)},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Consulting", resp.Items[0].Description)
	assert.True(t, resp.Items[0].Total.Equal(decimal.RequireFromString("180.00")), "total = %s", resp.Items[0].Total)
}

func TestInvoiceService_Update_HeaderLockedAfterSending(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, nil, date, date.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.NoError(t, inv.MarkSent())

	mocks.invoiceRepo.On("FindByID", mock.Anything, tenantID, inv.ID).Return(inv, nil)

	newDate := date.AddDate(0, 1, 0)
	_, err = service.Update(context.Background(), tenantID, inv.ID, UpdateInvoiceRequest{Date: &newDate})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	mocks.invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_Update_NotesStayEditableAfterSending(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, nil, date, date.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.NoError(t, inv.MarkSent())

	mocks.invoiceRepo.On("FindByID", mock.Anything, tenantID, inv.ID).Return(inv, nil)
	mocks.invoiceRepo.On("Update", mock.Anything, inv).Return(nil)
	mocks.profileRepo.On("GetOrCreate", mock.Anything, tenantID).Return(defaultTestProfile(t, tenantID), nil)

	notes := "Zahlbar innerhalb von 14 Tagen"
	resp, err := service.Update(context.Background(), tenantID, inv.ID, UpdateInvoiceRequest{Notes: &notes})

	require.NoError(t, err)
	assert.Equal(t, notes, resp.Notes)
}

func TestInvoiceService_Transition(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, nil, date, date.AddDate(0, 0, 14))
	require.NoError(t, err)

	mocks.invoiceRepo.On("FindByID", mock.Anything, tenantID, inv.ID).Return(inv, nil)
	mocks.invoiceRepo.On("Update", mock.Anything, inv).Return(nil)
	mocks.profileRepo.On("GetOrCreate", mock.Anything, tenantID).Return(defaultTestProfile(t, tenantID), nil)

	resp, err := service.Transition(context.Background(), tenantID, inv.ID, "send")
	require.NoError(t, err)
	assert.Equal(t, "sent", resp.Status)

	resp, err = service.Transition(context.Background(), tenantID, inv.ID, "pay")
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)
}

func TestInvoiceService_Transition_UnknownAction(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, nil, date, date.AddDate(0, 0, 14))
	require.NoError(t, err)

	mocks.invoiceRepo.On("FindByID", mock.Anything, tenantID, inv.ID).Return(inv, nil)

	_, err = service.Transition(context.Background(), tenantID, inv.ID, "archive")

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	mocks.invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_Delete_RejectsPaidInvoice(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, nil, date, date.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.NoError(t, inv.MarkSent())
	require.NoError(t, inv.MarkPaid())

	mocks.invoiceRepo.On("FindByID", mock.Anything, tenantID, inv.ID).Return(inv, nil)

	err = service.Delete(context.Background(), tenantID, inv.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	mocks.invoiceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Delete_RejectsNumberedInvoice(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()

	// A cancelled invoice still holds its number and sequences. Removing
	// the row would let the allocator hand out #002-PK-02-NI02 a second
	// time, so deletion must be refused even though the status allows
	// no further edits.
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, nil, date, date.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.NoError(t, inv.AssignSequences(2, 2, 2))
	require.NoError(t, inv.AssignNumber("#002-PK-02-NI02"))
	require.NoError(t, inv.Cancel())

	mocks.invoiceRepo.On("FindByID", mock.Anything, tenantID, inv.ID).Return(inv, nil)

	err = service.Delete(context.Background(), tenantID, inv.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	assert.Contains(t, domainErr.Message, "cancel them instead")
	mocks.invoiceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Delete_Draft(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, nil, date, date.AddDate(0, 0, 14))
	require.NoError(t, err)

	mocks.invoiceRepo.On("FindByID", mock.Anything, tenantID, inv.ID).Return(inv, nil)
	mocks.invoiceRepo.On("Delete", mock.Anything, tenantID, inv.ID).Return(nil)

	require.NoError(t, service.Delete(context.Background(), tenantID, inv.ID))
	mocks.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_List_Paginates(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, nil, date, date.AddDate(0, 0, 14))
	require.NoError(t, err)

	mocks.invoiceRepo.On("FindAll", mock.Anything, tenantID, mock.MatchedBy(func(f invoicing.InvoiceFilter) bool {
		return f.Page == 1 && f.PageSize == 50
	})).Return([]invoicing.Invoice{*inv}, nil)
	mocks.invoiceRepo.On("Count", mock.Anything, tenantID, mock.Anything).Return(int64(7), nil)
	mocks.profileRepo.On("GetOrCreate", mock.Anything, tenantID).Return(defaultTestProfile(t, tenantID), nil)

	resp, err := service.List(context.Background(), tenantID, ListInvoicesRequest{})

	require.NoError(t, err)
	assert.Len(t, resp.Invoices, 1)
	assert.Equal(t, int64(7), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 50, resp.PageSize)
}

func TestInvoiceService_RenderPDF(t *testing.T) {
	service, mocks := newTestInvoiceService(t, invoicing.NumberSchemeComposite)
	tenantID := uuid.New()
	project, client := testProjectAndClient(t, tenantID)

	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv, err := invoicing.NewInvoice(tenantID, &project.ID, date, date.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.NoError(t, inv.AssignSequences(1, 1, 1))
	require.NoError(t, inv.AssignNumber("#001-PK-01-NI01"))

	item, err := invoicing.NewInvoiceItem(inv.ID, invoicing.ItemTypeService, "Beratung", decimal.NewFromInt(1), decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NoError(t, inv.AddItem(item))

	mocks.invoiceRepo.On("FindByID", mock.Anything, tenantID, inv.ID).Return(inv, nil)
	mocks.projectRepo.On("FindByID", mock.Anything, tenantID, project.ID).Return(project, nil)
	mocks.clientRepo.On("FindByID", mock.Anything, tenantID, client.ID).Return(client, nil)
	mocks.profileRepo.On("GetOrCreate", mock.Anything, tenantID).Return(defaultTestProfile(t, tenantID), nil)

	data, err := service.RenderPDF(context.Background(), tenantID, inv.ID)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	archived, err := os.ReadFile(filepath.Join(mocks.archiveDir, tenantID.String(), "001-PK-01-NI01.pdf"))
	require.NoError(t, err)
	assert.Equal(t, data, archived)
}
