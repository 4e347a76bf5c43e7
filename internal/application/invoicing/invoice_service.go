package invoicing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
	"github.com/faktura/backend/internal/infrastructure/document"
)

// InvoiceService orchestrates invoice creation, numbering and lifecycle.
// Invoices created with a project are numbered atomically at creation;
// invoices without a project stay unnumbered drafts and are displayed under
// a placeholder derived from their ID.
type InvoiceService struct {
	invoiceRepo invoicing.InvoiceRepository
	projectRepo invoicing.ProjectRepository
	clientRepo  invoicing.ClientRepository
	productRepo invoicing.ProductRepository
	profileRepo invoicing.CompanyProfileRepository
	renderer    *document.Renderer
	archive     *document.Archive
	scheme      invoicing.NumberScheme
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo invoicing.InvoiceRepository,
	projectRepo invoicing.ProjectRepository,
	clientRepo invoicing.ClientRepository,
	productRepo invoicing.ProductRepository,
	profileRepo invoicing.CompanyProfileRepository,
	renderer *document.Renderer,
	archive *document.Archive,
	scheme invoicing.NumberScheme,
	logger *zap.Logger,
) *InvoiceService {
	if !scheme.IsValid() {
		scheme = invoicing.NumberSchemeComposite
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		profileRepo: profileRepo,
		renderer:    renderer,
		archive:     archive,
		scheme:      scheme,
		logger:      logger,
	}
}

// Create creates an invoice. With a project the number and all three
// sequence numbers are allocated in the same transaction as the insert.
func (s *InvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := invoicing.NewInvoice(tenantID, req.ProjectID, req.Date, req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.Language != "" {
		inv.Language = invoicing.Language(req.Language)
	}
	if req.VATRate != nil {
		inv.VATRate = *req.VATRate
	}
	if req.VATLabel != "" {
		inv.VATLabel = invoicing.VATLabel(req.VATLabel)
	}
	inv.Notes = req.Notes

	for _, itemReq := range req.Items {
		item, err := s.buildItem(ctx, tenantID, inv.ID, itemReq)
		if err != nil {
			return nil, err
		}
		if err := inv.AddItem(item); err != nil {
			return nil, err
		}
	}

	if req.ProjectID == nil {
		if err := s.invoiceRepo.Create(ctx, inv); err != nil {
			return nil, err
		}
	} else {
		meta, err := s.numberMeta(ctx, tenantID, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		if err := s.invoiceRepo.CreateNumbered(ctx, inv, meta); err != nil {
			return nil, err
		}
	}

	rates, err := s.mileageRates(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", inv.Number))

	return toInvoiceResponse(inv, rates), nil
}

// numberMeta resolves the formatting metadata for sequence allocation
func (s *InvoiceService) numberMeta(ctx context.Context, tenantID, projectID uuid.UUID) (invoicing.NumberMeta, error) {
	project, err := s.projectRepo.FindByID(ctx, tenantID, projectID)
	if err != nil {
		return invoicing.NumberMeta{}, err
	}
	client, err := s.clientRepo.FindByID(ctx, tenantID, project.ClientID)
	if err != nil {
		return invoicing.NumberMeta{}, err
	}
	return invoicing.NumberMeta{
		Scheme:         s.scheme,
		ClientID:       client.ID,
		ClientInitials: client.Initials,
		ProjectAbbr:    project.Abbreviation,
	}, nil
}

// buildItem constructs a line item, copying description and price from the
// referenced product when the request leaves them empty
func (s *InvoiceService) buildItem(ctx context.Context, tenantID, invoiceID uuid.UUID, req CreateInvoiceItemRequest) (*invoicing.InvoiceItem, error) {
	description := req.Description
	unitPrice := req.UnitPrice

	if req.ProductID != nil {
		product, err := s.productRepo.FindByID(ctx, tenantID, *req.ProductID)
		if err != nil {
			return nil, err
		}
		if description == "" {
			description = product.Name
		}
		if unitPrice.IsZero() {
			unitPrice = product.DefaultUnitPrice
		}
	}

	item, err := invoicing.NewInvoiceItem(invoiceID, invoicing.ItemType(req.Type), description, req.Quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	item.ProductID = req.ProductID
	if req.ApplyVAT != nil {
		item.ApplyVAT = *req.ApplyVAT
	}
	if req.NumPeople != nil {
		item.NumPeople = *req.NumPeople
	}
	return item, nil
}

// Get returns an invoice with computed totals
func (s *InvoiceService) Get(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	rates, err := s.mileageRates(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, rates), nil
}

// List returns invoices matching the filters, with computed totals
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, req ListInvoicesRequest) (*InvoiceListResponse, error) {
	filter := invoicing.InvoiceFilter{
		ProjectID: req.ProjectID,
		ClientID:  req.ClientID,
		FromDate:  req.FromDate,
		ToDate:    req.ToDate,
		Search:    req.Search,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if req.Status != "" {
		status := invoicing.InvoiceStatus(req.Status)
		filter.Status = &status
	}
	if filter.PageSize == 0 {
		filter.PageSize = 50
	}
	if filter.Page == 0 {
		filter.Page = 1
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	rates, err := s.mileageRates(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *toInvoiceResponse(&invoices[i], rates)
	}
	return &InvoiceListResponse{
		Invoices: responses,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Update applies a partial update to an invoice. Header fields other than
// the note fields are only editable while the invoice is a draft.
func (s *InvoiceService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	touchesHeader := req.Date != nil || req.DueDate != nil || req.Language != nil ||
		req.VATRate != nil || req.VATLabel != nil
	if touchesHeader && !inv.IsEditable() {
		return nil, shared.NewDomainError("INVALID_STATE", "only draft invoices can be edited")
	}

	if req.Date != nil {
		inv.Date = *req.Date
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if inv.DueDate.Before(inv.Date) {
		return nil, shared.NewDomainError("INVALID_INPUT", "due date must not precede invoice date")
	}
	if req.Language != nil {
		inv.Language = invoicing.Language(*req.Language)
	}
	if req.VATRate != nil {
		inv.VATRate = *req.VATRate
	}
	if req.VATLabel != nil {
		inv.VATLabel = invoicing.VATLabel(*req.VATLabel)
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	if req.PaymentNotes != nil {
		inv.PaymentNotes = *req.PaymentNotes
	}
	inv.Touch()

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	rates, err := s.mileageRates(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, rates), nil
}

// AddItem appends a line item to a draft invoice
func (s *InvoiceService) AddItem(ctx context.Context, tenantID, id uuid.UUID, req CreateInvoiceItemRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	item, err := s.buildItem(ctx, tenantID, inv.ID, req)
	if err != nil {
		return nil, err
	}
	if err := inv.AddItem(item); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	rates, err := s.mileageRates(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, rates), nil
}

// RemoveItem deletes a line item from a draft invoice
func (s *InvoiceService) RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := inv.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	rates, err := s.mileageRates(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, rates), nil
}

// Transition moves an invoice through its status machine
func (s *InvoiceService) Transition(ctx context.Context, tenantID, id uuid.UUID, action string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	switch action {
	case "send":
		err = inv.MarkSent()
	case "pay":
		err = inv.MarkPaid()
	case "cancel":
		err = inv.Cancel()
	case "reopen":
		err = inv.Reopen()
	default:
		err = shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown transition %q", action))
	}
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice transitioned",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", inv.ID.String()),
		zap.String("action", action),
		zap.String("status", string(inv.Status)))

	rates, err := s.mileageRates(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, rates), nil
}

// Delete removes an unnumbered draft invoice. Once an invoice carries a
// number its sequences anchor the allocator's max+1 scan, so deleting the
// row could hand the same number out again; numbered invoices are
// cancelled instead of deleted.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if inv.HasNumber() {
		return shared.NewDomainError("INVALID_STATE", "numbered invoices cannot be deleted; cancel them instead")
	}
	if inv.Status != invoicing.InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, tenantID, id)
}

// RenderPDF renders an invoice to PDF and stores it in the tenant's archive
func (s *InvoiceService) RenderPDF(ctx context.Context, tenantID, id uuid.UUID) ([]byte, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rates := profile.MileageRates()

	doc := document.InvoiceDocument{
		Number:       inv.Number,
		Date:         inv.Date,
		DueDate:      inv.DueDate,
		Language:     inv.Language,
		VATLabel:     inv.VATLabel,
		VATRate:      inv.VATRate,
		CompanyName:  profile.CompanyName,
		CompanyLines: addressLines(profile.Address, profile.Email, profile.Phone, profile.UID),
		NetTotal:     inv.NetTotal(rates),
		VATAmount:    inv.VATAmount(rates),
		GrossTotal:   inv.GrossTotal(rates),
		Notes:        inv.Notes,
		PaymentNotes: inv.PaymentNotes,
	}
	if doc.Number == "" {
		doc.Number = invoicing.DraftPlaceholder(inv.ID)
	}
	if doc.PaymentNotes == "" {
		doc.PaymentNotes = profile.PaymentTerms
	}

	if inv.ProjectID != nil {
		project, err := s.projectRepo.FindByID(ctx, tenantID, *inv.ProjectID)
		if err != nil {
			return nil, err
		}
		client, err := s.clientRepo.FindByID(ctx, tenantID, project.ClientID)
		if err != nil {
			return nil, err
		}
		doc.ProjectName = project.Name
		doc.ClientName = client.Name
		doc.ClientLines = addressLines(client.Address, client.Email, client.Phone, "")
	}

	doc.Lines = make([]document.InvoiceLine, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		doc.Lines[i] = document.InvoiceLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitRate:    item.UnitRate(rates),
			Total:       item.Total(rates),
			ApplyVAT:    item.ApplyVAT,
		}
	}

	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, err
	}

	if path, err := s.archive.Store(tenantID.String(), doc.Number, data); err != nil {
		// Archiving is best effort; the caller still gets the document.
		s.logger.Warn("Failed to archive invoice document",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err))
	} else {
		s.logger.Info("Invoice document archived",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("path", path))
	}

	return data, nil
}

func (s *InvoiceService) mileageRates(ctx context.Context, tenantID uuid.UUID) (invoicing.MileageRates, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, tenantID)
	if err != nil {
		return invoicing.MileageRates{}, err
	}
	return profile.MileageRates(), nil
}

func addressLines(parts ...string) []string {
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			lines = append(lines, part)
		}
	}
	return lines
}
