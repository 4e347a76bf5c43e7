package invoicing

import (
	"strings"

	"github.com/faktura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a reusable line-item template. Selecting a product on an invoice
// item copies its description and default unit price; later edits to the
// product do not affect existing invoices.
type Product struct {
	shared.TenantAggregateRoot
	Name             string
	Description      string
	DefaultUnitPrice decimal.Decimal
}

// NewProduct creates a product template for the given tenant
func NewProduct(tenantID uuid.UUID, name, description string, defaultUnitPrice decimal.Decimal) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product name is required")
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
		DefaultUnitPrice:    defaultUnitPrice,
	}, nil
}

// Rename updates the product name
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "product name is required")
	}
	p.Name = name
	p.Touch()
	return nil
}
