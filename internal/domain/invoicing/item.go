package invoicing

import (
	"github.com/faktura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType classifies a line item and selects its pricing rule
type ItemType string

const (
	ItemTypeService ItemType = "service" // quantity x unit price
	ItemTypeExpense ItemType = "expense" // quantity x unit price
	ItemTypeMileage ItemType = "mileage" // quantity x tenant mileage rate
)

// IsValid checks if the item type is a known ItemType
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeService, ItemTypeExpense, ItemTypeMileage:
		return true
	}
	return false
}

// String returns the string representation of ItemType
func (t ItemType) String() string {
	return string(t)
}

// InvoiceItem is a line item owned by exactly one invoice. Quantity supports
// fractional values (1.5 hours, 300 km). For mileage items the unit price is
// inert: the effective rate comes from the tenant's rate configuration.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID
	Type        ItemType
	ProductID   *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal

	// ApplyVAT marks the item as contributing to the VAT base. Items with
	// ApplyVAT=false still count toward the net total.
	ApplyVAT bool

	// NumPeople is the passenger count for mileage items; ignored otherwise.
	NumPeople int

	// SortOrder controls display order within the invoice.
	SortOrder int
}

// NewInvoiceItem creates a line item of the given type
func NewInvoiceItem(invoiceID uuid.UUID, itemType ItemType, description string, quantity, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "invoice is required")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown item type: "+string(itemType))
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "item description is required")
	}
	return &InvoiceItem{
		BaseEntity:  shared.NewBaseEntity(),
		InvoiceID:   invoiceID,
		Type:        itemType,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		ApplyVAT:    itemType != ItemTypeMileage,
		NumPeople:   1,
	}, nil
}

// Total computes the line total under the item's pricing rule. All arithmetic
// stays in exact decimals; rounding is left to display formatting. Negative
// quantities and prices propagate through unchanged.
func (i *InvoiceItem) Total(rates MileageRates) decimal.Decimal {
	if i.Type == ItemTypeMileage {
		return i.Quantity.Mul(rates.RateForPeople(i.NumPeople))
	}
	return i.Quantity.Mul(i.UnitPrice)
}

// UnitRate returns the effective per-unit rate, for display. For mileage items
// this is the configured rate including extra passengers, not the unit price.
func (i *InvoiceItem) UnitRate(rates MileageRates) decimal.Decimal {
	if i.Type == ItemTypeMileage {
		return rates.RateForPeople(i.NumPeople)
	}
	return i.UnitPrice
}
