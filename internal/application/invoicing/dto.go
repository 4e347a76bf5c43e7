package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/faktura/backend/internal/domain/invoicing"
)

// ===================== Company profile =====================

// UpdateCompanyProfileRequest represents a profile update. All fields are
// optional; omitted fields keep their stored value.
type UpdateCompanyProfileRequest struct {
	CompanyName            *string          `json:"company_name" binding:"omitempty,min=1,max=200"`
	Address                *string          `json:"address" binding:"omitempty,max=500"`
	Email                  *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone                  *string          `json:"phone" binding:"omitempty,max=50"`
	UID                    *string          `json:"uid" binding:"omitempty,max=50"`
	IBAN                   *string          `json:"iban" binding:"omitempty,max=50"`
	PaymentTerms           *string          `json:"payment_terms" binding:"omitempty,max=1000"`
	MileageBaseRate        *decimal.Decimal `json:"mileage_base_rate"`
	MileageExtraPersonRate *decimal.Decimal `json:"mileage_extra_person_rate"`
}

// CompanyProfileResponse represents a company profile in API responses
type CompanyProfileResponse struct {
	ID                     uuid.UUID       `json:"id"`
	CompanyName            string          `json:"company_name"`
	Address                string          `json:"address"`
	Email                  string          `json:"email"`
	Phone                  string          `json:"phone"`
	UID                    string          `json:"uid"`
	IBAN                   string          `json:"iban"`
	PaymentTerms           string          `json:"payment_terms"`
	MileageBaseRate        decimal.Decimal `json:"mileage_base_rate"`
	MileageExtraPersonRate decimal.Decimal `json:"mileage_extra_person_rate"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func toCompanyProfileResponse(p *invoicing.CompanyProfile) *CompanyProfileResponse {
	return &CompanyProfileResponse{
		ID:                     p.ID,
		CompanyName:            p.CompanyName,
		Address:                p.Address,
		Email:                  p.Email,
		Phone:                  p.Phone,
		UID:                    p.UID,
		IBAN:                   p.IBAN,
		PaymentTerms:           p.PaymentTerms,
		MileageBaseRate:        p.MileageBaseRate,
		MileageExtraPersonRate: p.MileageExtraPersonRate,
		UpdatedAt:              p.UpdatedAt,
	}
}

// ===================== Clients and projects =====================

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Initials string `json:"initials" binding:"required,len=2,alpha"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Address  string `json:"address" binding:"max=500"`
	Phone    string `json:"phone" binding:"max=50"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Initials *string `json:"initials" binding:"omitempty,len=2,alpha"`
	Email    *string `json:"email" binding:"omitempty,email,max=200"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Initials  string    `json:"initials"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClientResponse(c *invoicing.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Initials:  c.Initials,
		Email:     c.Email,
		Address:   c.Address,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	ClientID     uuid.UUID `json:"client_id" binding:"required"`
	Name         string    `json:"name" binding:"required,min=1,max=200"`
	Abbreviation string    `json:"abbreviation" binding:"required,min=1,max=5,alpha"`
}

// UpdateProjectRequest represents a request to update a project
type UpdateProjectRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	Abbreviation *string `json:"abbreviation" binding:"omitempty,min=1,max=5,alpha"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID           uuid.UUID `json:"id"`
	ClientID     uuid.UUID `json:"client_id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	Slug         string    `json:"slug"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toProjectResponse(p *invoicing.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:           p.ID,
		ClientID:     p.ClientID,
		Name:         p.Name,
		Abbreviation: p.Abbreviation,
		Slug:         p.Slug,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ===================== Products =====================

// CreateProductRequest represents a request to create a product template
type CreateProductRequest struct {
	Name             string          `json:"name" binding:"required,min=1,max=200"`
	Description      string          `json:"description" binding:"max=1000"`
	DefaultUnitPrice decimal.Decimal `json:"default_unit_price"`
}

// UpdateProductRequest represents a request to update a product template
type UpdateProductRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description      *string          `json:"description" binding:"omitempty,max=1000"`
	DefaultUnitPrice *decimal.Decimal `json:"default_unit_price"`
}

// ProductResponse represents a product template in API responses
type ProductResponse struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	DefaultUnitPrice decimal.Decimal `json:"default_unit_price"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toProductResponse(p *invoicing.Product) *ProductResponse {
	return &ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		DefaultUnitPrice: p.DefaultUnitPrice,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ===================== Invoices =====================

// CreateInvoiceItemRequest is one line item in an invoice create/update
type CreateInvoiceItemRequest struct {
	Type        string          `json:"type" binding:"required,oneof=service expense mileage"`
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description" binding:"max=1000"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ApplyVAT    *bool           `json:"apply_vat"`
	NumPeople   *int            `json:"num_people" binding:"omitempty,min=1"`
}

// CreateInvoiceRequest represents a request to create an invoice. Without a
// project the invoice stays an unnumbered draft.
type CreateInvoiceRequest struct {
	ProjectID *uuid.UUID                 `json:"project_id"`
	Date      time.Time                  `json:"date" binding:"required"`
	DueDate   time.Time                  `json:"due_date" binding:"required"`
	Language  string                     `json:"language" binding:"omitempty,oneof=de en"`
	VATRate   *decimal.Decimal           `json:"vat_rate"`
	VATLabel  string                     `json:"vat_label" binding:"omitempty,oneof=mwst vat"`
	Notes     string                     `json:"notes" binding:"max=2000"`
	Items     []CreateInvoiceItemRequest `json:"items" binding:"dive"`
}

// UpdateInvoiceRequest represents a request to update a draft invoice
type UpdateInvoiceRequest struct {
	Date         *time.Time       `json:"date"`
	DueDate      *time.Time       `json:"due_date"`
	Language     *string          `json:"language" binding:"omitempty,oneof=de en"`
	VATRate      *decimal.Decimal `json:"vat_rate"`
	VATLabel     *string          `json:"vat_label" binding:"omitempty,oneof=mwst vat"`
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
	PaymentNotes *string          `json:"payment_notes" binding:"omitempty,max=2000"`
}

// ListInvoicesRequest represents invoice list filters
type ListInvoicesRequest struct {
	Status    string     `form:"status" binding:"omitempty,oneof=draft sent paid cancelled"`
	ClientID  *uuid.UUID `form:"client_id"`
	ProjectID *uuid.UUID `form:"project_id"`
	FromDate  *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"to_date" time_format:"2006-01-02"`
	Search    string     `form:"search" binding:"max=100"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// InvoiceItemResponse represents a line item with its computed totals
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	Total       decimal.Decimal `json:"total"`
	ApplyVAT    bool            `json:"apply_vat"`
	NumPeople   int             `json:"num_people"`
	SortOrder   int             `json:"sort_order"`
}

// InvoiceResponse represents an invoice with computed totals. DisplayNumber
// falls back to a draft placeholder when no number is assigned yet.
type InvoiceResponse struct {
	ID              uuid.UUID             `json:"id"`
	ProjectID       *uuid.UUID            `json:"project_id,omitempty"`
	Number          string                `json:"number"`
	DisplayNumber   string                `json:"display_number"`
	GlobalSequence  *int                  `json:"global_sequence,omitempty"`
	ClientSequence  *int                  `json:"client_sequence,omitempty"`
	ProjectSequence *int                  `json:"project_sequence,omitempty"`
	Date            time.Time             `json:"date"`
	DueDate         time.Time             `json:"due_date"`
	Status          string                `json:"status"`
	Language        string                `json:"language"`
	VATRate         decimal.Decimal       `json:"vat_rate"`
	VATLabel        string                `json:"vat_label"`
	Notes           string                `json:"notes"`
	PaymentNotes    string                `json:"payment_notes"`
	Items           []InvoiceItemResponse `json:"items"`
	NetTotal        decimal.Decimal       `json:"net_total"`
	VATAmount       decimal.Decimal       `json:"vat_amount"`
	GrossTotal      decimal.Decimal       `json:"gross_total"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// InvoiceListResponse is a paginated invoice list
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func toInvoiceResponse(inv *invoicing.Invoice, rates invoicing.MileageRates) *InvoiceResponse {
	displayNumber := inv.Number
	if displayNumber == "" {
		displayNumber = invoicing.DraftPlaceholder(inv.ID)
	}

	items := make([]InvoiceItemResponse, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			Type:        item.Type.String(),
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			UnitRate:    item.UnitRate(rates),
			Total:       item.Total(rates),
			ApplyVAT:    item.ApplyVAT,
			NumPeople:   item.NumPeople,
			SortOrder:   item.SortOrder,
		}
	}

	return &InvoiceResponse{
		ID:              inv.ID,
		ProjectID:       inv.ProjectID,
		Number:          inv.Number,
		DisplayNumber:   displayNumber,
		GlobalSequence:  inv.GlobalSequence,
		ClientSequence:  inv.ClientSequence,
		ProjectSequence: inv.ProjectSequence,
		Date:            inv.Date,
		DueDate:         inv.DueDate,
		Status:          string(inv.Status),
		Language:        string(inv.Language),
		VATRate:         inv.VATRate,
		VATLabel:        string(inv.VATLabel),
		Notes:           inv.Notes,
		PaymentNotes:    inv.PaymentNotes,
		Items:           items,
		NetTotal:        inv.NetTotal(rates),
		VATAmount:       inv.VATAmount(rates),
		GrossTotal:      inv.GrossTotal(rates),
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}
