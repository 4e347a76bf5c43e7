package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VATSummaryRequest selects the year to summarize
type VATSummaryRequest struct {
	Year int `form:"year" binding:"required,min=1900,max=2200"`
}

// VATPeriodLine aggregates one calendar month of issued invoices
type VATPeriodLine struct {
	Period     string          `json:"period"` // YYYY-MM
	Invoices   int             `json:"invoices"`
	NetTotal   decimal.Decimal `json:"net_total"`
	VATAmount  decimal.Decimal `json:"vat_amount"`
	GrossTotal decimal.Decimal `json:"gross_total"`
}

// VATSummaryResponse is the per-month VAT breakdown for a year. Draft and
// cancelled invoices are excluded.
type VATSummaryResponse struct {
	Year       int             `json:"year"`
	Lines      []VATPeriodLine `json:"lines"`
	NetTotal   decimal.Decimal `json:"net_total"`
	VATAmount  decimal.Decimal `json:"vat_amount"`
	GrossTotal decimal.Decimal `json:"gross_total"`
}

// ArchiveInvoice is one invoice entry in the archive tree
type ArchiveInvoice struct {
	ID         uuid.UUID       `json:"id"`
	Number     string          `json:"number"`
	Date       time.Time       `json:"date"`
	Status     string          `json:"status"`
	GrossTotal decimal.Decimal `json:"gross_total"`
}

// ArchiveProject groups a project's invoices
type ArchiveProject struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Invoices []ArchiveInvoice `json:"invoices"`
}

// ArchiveClient groups a client's projects
type ArchiveClient struct {
	ID       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Projects []ArchiveProject `json:"projects"`
}

// ArchiveResponse is the client -> project -> invoices listing
type ArchiveResponse struct {
	Clients []ArchiveClient `json:"clients"`
}
