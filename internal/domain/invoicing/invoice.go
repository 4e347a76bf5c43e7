package invoicing

import (
	"time"

	"github.com/faktura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is a known InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// Language is the invoice rendering language
type Language string

const (
	LanguageGerman  Language = "de"
	LanguageEnglish Language = "en"
)

// VATLabel selects the tax terminology printed on the invoice
type VATLabel string

const (
	VATLabelMwSt VATLabel = "mwst" // Mehrwertsteuer
	VATLabelVAT  VATLabel = "vat"
)

// Invoice is the central aggregate. Its number and sequence fields are
// assigned exactly once, at first successful save, and survive cancellation:
// sequence numbers are never reclaimed, so gaps are expected.
type Invoice struct {
	shared.TenantAggregateRoot
	ProjectID *uuid.UUID

	// Number is the canonical display identifier, unique within a tenant
	// and immutable once assigned. Two tenants can both hold a #001.
	Number string

	// Sequence numbers the display identifier was derived from. They are kept
	// for audit and per-scope display ("invoice #14 for this client") and are
	// never re-read for computation after assignment.
	GlobalSequence  *int
	ClientSequence  *int
	ProjectSequence *int

	Date    time.Time
	DueDate time.Time
	Status  InvoiceStatus

	Language Language
	VATRate  decimal.Decimal
	VATLabel VATLabel

	Notes string

	// PaymentNotes overrides the company profile's default payment terms.
	PaymentNotes string

	Items []InvoiceItem
}

// NewInvoice creates a draft invoice for the given tenant
func NewInvoice(tenantID uuid.UUID, projectID *uuid.UUID, date, dueDate time.Time) (*Invoice, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant is required")
	}
	if dueDate.Before(date) {
		return nil, shared.NewDomainError("INVALID_INPUT", "due date must not precede invoice date")
	}
	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Date:                date,
		DueDate:             dueDate,
		Status:              InvoiceStatusDraft,
		Language:            LanguageGerman,
		VATRate:             DefaultVATRate,
		VATLabel:            VATLabelMwSt,
	}, nil
}

// ===================== Sequence and number assignment =====================

// HasNumber reports whether the display number has been assigned
func (inv *Invoice) HasNumber() bool {
	return inv.Number != ""
}

// AssignSequences records the allocated sequence numbers. Assignment happens
// exactly once; a second call is a programming error and is rejected.
func (inv *Invoice) AssignSequences(global, client, project int) error {
	if inv.GlobalSequence != nil || inv.ClientSequence != nil || inv.ProjectSequence != nil {
		return shared.NewDomainError("INVALID_STATE", "invoice sequences are already assigned")
	}
	inv.GlobalSequence = &global
	inv.ClientSequence = &client
	inv.ProjectSequence = &project
	return nil
}

// AssignNumber sets the immutable display number
func (inv *Invoice) AssignNumber(number string) error {
	if inv.Number != "" {
		return shared.NewDomainError("INVALID_STATE", "invoice number is already assigned")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_INPUT", "invoice number must not be empty")
	}
	inv.Number = number
	return nil
}

// ===================== Status transitions =====================

// MarkSent transitions draft -> sent
func (inv *Invoice) MarkSent() error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "only draft invoices can be sent")
	}
	inv.Status = InvoiceStatusSent
	inv.Touch()
	return nil
}

// MarkPaid transitions sent -> paid
func (inv *Invoice) MarkPaid() error {
	if inv.Status != InvoiceStatusSent {
		return shared.NewDomainError("INVALID_STATE", "only sent invoices can be marked paid")
	}
	inv.Status = InvoiceStatusPaid
	inv.Touch()
	return nil
}

// Cancel voids the invoice from any non-cancelled state. The assigned number
// and sequences are kept; cancellation never frees them for reuse.
func (inv *Invoice) Cancel() error {
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "invoice is already cancelled")
	}
	inv.Status = InvoiceStatusCancelled
	inv.Touch()
	return nil
}

// Reopen returns a cancelled invoice to draft. The original number and
// sequences remain assigned.
func (inv *Invoice) Reopen() error {
	if inv.Status != InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "only cancelled invoices can be reopened")
	}
	inv.Status = InvoiceStatusDraft
	inv.Touch()
	return nil
}

// IsEditable reports whether items may still be modified
func (inv *Invoice) IsEditable() bool {
	return inv.Status == InvoiceStatusDraft
}

// ===================== Totals =====================

// NetTotal sums all line-item totals, regardless of the VAT flag.
// An invoice with no items has a zero net total.
func (inv *Invoice) NetTotal(rates MileageRates) decimal.Decimal {
	total := decimal.Zero
	for i := range inv.Items {
		total = total.Add(inv.Items[i].Total(rates))
	}
	return total
}

// VATAmount computes VAT on the VAT-applicable items only. Items with
// ApplyVAT=false (mileage, by default) contribute nothing here even though
// they count toward the net total.
func (inv *Invoice) VATAmount(rates MileageRates) decimal.Decimal {
	vatable := decimal.Zero
	for i := range inv.Items {
		if inv.Items[i].ApplyVAT {
			vatable = vatable.Add(inv.Items[i].Total(rates))
		}
	}
	return vatable.Mul(inv.VATRate.Div(decimal.NewFromInt(100)))
}

// GrossTotal is net plus VAT
func (inv *Invoice) GrossTotal(rates MileageRates) decimal.Decimal {
	return inv.NetTotal(rates).Add(inv.VATAmount(rates))
}

// AddItem appends a line item. Items can only be modified while the invoice
// is a draft.
func (inv *Invoice) AddItem(item *InvoiceItem) error {
	if !inv.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "items can only be added to draft invoices")
	}
	item.InvoiceID = inv.ID
	// Max+1 rather than len: removals leave holes, and len would collide
	// with the sort order of a surviving item.
	item.SortOrder = 0
	for i := range inv.Items {
		if inv.Items[i].SortOrder >= item.SortOrder {
			item.SortOrder = inv.Items[i].SortOrder + 1
		}
	}
	inv.Items = append(inv.Items, *item)
	inv.Touch()
	return nil
}

// RemoveItem deletes a line item by ID
func (inv *Invoice) RemoveItem(itemID uuid.UUID) error {
	if !inv.IsEditable() {
		return shared.NewDomainError("INVALID_STATE", "items can only be removed from draft invoices")
	}
	for i := range inv.Items {
		if inv.Items[i].ID == itemID {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			inv.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}
