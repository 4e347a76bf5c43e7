package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
)

// CompanyProfileModel is the persistence model for the CompanyProfile domain
// entity. The unique index on tenant_id enforces the one-profile-per-tenant
// invariant at the database level.
type CompanyProfileModel struct {
	AggregateModel
	TenantID               uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CompanyName            string          `gorm:"type:varchar(200);not null"`
	Address                string          `gorm:"type:text"`
	Email                  string          `gorm:"type:varchar(200)"`
	Phone                  string          `gorm:"type:varchar(50)"`
	UID                    string          `gorm:"type:varchar(50)"`
	IBAN                   string          `gorm:"type:varchar(50)"`
	PaymentTerms           string          `gorm:"type:text"`
	MileageBaseRate        decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	MileageExtraPersonRate decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (CompanyProfileModel) TableName() string {
	return "company_profiles"
}

// ToDomain converts the persistence model to a domain CompanyProfile entity.
func (m *CompanyProfileModel) ToDomain() *invoicing.CompanyProfile {
	return &invoicing.CompanyProfile{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID: m.TenantID,
		},
		CompanyName:            m.CompanyName,
		Address:                m.Address,
		Email:                  m.Email,
		Phone:                  m.Phone,
		UID:                    m.UID,
		IBAN:                   m.IBAN,
		PaymentTerms:           m.PaymentTerms,
		MileageBaseRate:        m.MileageBaseRate,
		MileageExtraPersonRate: m.MileageExtraPersonRate,
	}
}

// FromDomain populates the persistence model from a domain CompanyProfile entity.
func (m *CompanyProfileModel) FromDomain(p *invoicing.CompanyProfile) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.TenantID = p.TenantID
	m.CompanyName = p.CompanyName
	m.Address = p.Address
	m.Email = p.Email
	m.Phone = p.Phone
	m.UID = p.UID
	m.IBAN = p.IBAN
	m.PaymentTerms = p.PaymentTerms
	m.MileageBaseRate = p.MileageBaseRate
	m.MileageExtraPersonRate = p.MileageExtraPersonRate
}

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	TenantAggregateModel
	Name     string `gorm:"type:varchar(200);not null"`
	Initials string `gorm:"type:varchar(2);not null"`
	Email    string `gorm:"type:varchar(200)"`
	Address  string `gorm:"type:text"`
	Phone    string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *invoicing.Client {
	c := &invoicing.Client{
		Name:     m.Name,
		Initials: m.Initials,
		Email:    m.Email,
		Address:  m.Address,
		Phone:    m.Phone,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *invoicing.Client) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Initials = c.Initials
	m.Email = c.Email
	m.Address = c.Address
	m.Phone = c.Phone
}

// ProjectModel is the persistence model for the Project domain entity.
// Project names are unique within a client.
type ProjectModel struct {
	TenantAggregateModel
	ClientID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_projects_client_name,priority:1"`
	Name         string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_projects_client_name,priority:2"`
	Abbreviation string    `gorm:"type:varchar(5);not null"`
	Slug         string    `gorm:"type:varchar(220);not null;index"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
func (m *ProjectModel) ToDomain() *invoicing.Project {
	p := &invoicing.Project{
		ClientID:     m.ClientID,
		Name:         m.Name,
		Abbreviation: m.Abbreviation,
		Slug:         m.Slug,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Project entity.
func (m *ProjectModel) FromDomain(p *invoicing.Project) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.ClientID = p.ClientID
	m.Name = p.Name
	m.Abbreviation = p.Abbreviation
	m.Slug = p.Slug
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	TenantAggregateModel
	Name             string          `gorm:"type:varchar(200);not null"`
	Description      string          `gorm:"type:text"`
	DefaultUnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *invoicing.Product {
	p := &invoicing.Product{
		Name:             m.Name,
		Description:      m.Description,
		DefaultUnitPrice: m.DefaultUnitPrice,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *invoicing.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.DefaultUnitPrice = p.DefaultUnitPrice
}

// InvoiceModel is the persistence model for the Invoice domain entity.
// The migrations add a partial unique index on number and composite unique
// indexes on the per-scope sequence columns, so concurrent allocation
// collisions surface as constraint violations rather than duplicate numbers.
type InvoiceModel struct {
	TenantAggregateModel
	ProjectID       *uuid.UUID              `gorm:"type:uuid;index"`
	Number          string                  `gorm:"type:varchar(50);index"`
	GlobalSequence  *int                    `gorm:""`
	ClientSequence  *int                    `gorm:""`
	ProjectSequence *int                    `gorm:""`
	Date            time.Time               `gorm:"not null;index"`
	DueDate         time.Time               `gorm:"not null"`
	Status          invoicing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Language        invoicing.Language      `gorm:"type:varchar(5);not null;default:'de'"`
	VATRate         decimal.Decimal         `gorm:"type:decimal(5,2);not null;default:20"`
	VATLabel        invoicing.VATLabel      `gorm:"type:varchar(10);not null;default:'mwst'"`
	Notes           string                  `gorm:"type:text"`
	PaymentNotes    string                  `gorm:"type:text"`
	Items           []InvoiceItemModel      `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	inv := &invoicing.Invoice{
		ProjectID:       m.ProjectID,
		Number:          m.Number,
		GlobalSequence:  m.GlobalSequence,
		ClientSequence:  m.ClientSequence,
		ProjectSequence: m.ProjectSequence,
		Date:            m.Date,
		DueDate:         m.DueDate,
		Status:          m.Status,
		Language:        m.Language,
		VATRate:         m.VATRate,
		VATLabel:        m.VATLabel,
		Notes:           m.Notes,
		PaymentNotes:    m.PaymentNotes,
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)

	inv.Items = make([]invoicing.InvoiceItem, len(m.Items))
	for i := range m.Items {
		inv.Items[i] = *m.Items[i].ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.ProjectID = inv.ProjectID
	m.Number = inv.Number
	m.GlobalSequence = inv.GlobalSequence
	m.ClientSequence = inv.ClientSequence
	m.ProjectSequence = inv.ProjectSequence
	m.Date = inv.Date
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.Language = inv.Language
	m.VATRate = inv.VATRate
	m.VATLabel = inv.VATLabel
	m.Notes = inv.Notes
	m.PaymentNotes = inv.PaymentNotes

	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i := range inv.Items {
		m.Items[i].FromDomain(&inv.Items[i])
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for the InvoiceItem domain entity.
type InvoiceItemModel struct {
	BaseModel
	InvoiceID   uuid.UUID          `gorm:"type:uuid;not null;index"`
	Type        invoicing.ItemType `gorm:"type:varchar(20);not null"`
	ProductID   *uuid.UUID         `gorm:"type:uuid"`
	Description string             `gorm:"type:text;not null"`
	Quantity    decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	ApplyVAT    bool               `gorm:"not null;default:true"`
	NumPeople   int                `gorm:"not null;default:1"`
	SortOrder   int                `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem entity.
func (m *InvoiceItemModel) ToDomain() *invoicing.InvoiceItem {
	return &invoicing.InvoiceItem{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		InvoiceID:   m.InvoiceID,
		Type:        m.Type,
		ProductID:   m.ProductID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		ApplyVAT:    m.ApplyVAT,
		NumPeople:   m.NumPeople,
		SortOrder:   m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain InvoiceItem entity.
func (m *InvoiceItemModel) FromDomain(item *invoicing.InvoiceItem) {
	m.FromDomainBaseEntity(item.BaseEntity)
	m.InvoiceID = item.InvoiceID
	m.Type = item.Type
	m.ProductID = item.ProductID
	m.Description = item.Description
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice
	m.ApplyVAT = item.ApplyVAT
	m.NumPeople = item.NumPeople
	m.SortOrder = item.SortOrder
}
