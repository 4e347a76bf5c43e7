package taxation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/faktura/backend/internal/domain/taxation"
)

// BracketRequest is one bracket in a tax year create or replace request.
// A nil upper limit marks the unbounded top bracket.
type BracketRequest struct {
	Lower       decimal.Decimal  `json:"lower"`
	Upper       *decimal.Decimal `json:"upper"`
	Rate        decimal.Decimal  `json:"rate"`
	Description string           `json:"description" binding:"max=200"`
}

// CreateTaxYearRequest represents a request to configure a tax year
type CreateTaxYearRequest struct {
	Year     int              `json:"year" binding:"required,min=1900,max=2200"`
	Brackets []BracketRequest `json:"brackets" binding:"required,min=1,dive"`
}

// ReplaceBracketsRequest swaps a tax year's bracket set and optionally
// toggles whether the configuration is consulted by the calculator
type ReplaceBracketsRequest struct {
	Active   *bool            `json:"active"`
	Brackets []BracketRequest `json:"brackets" binding:"required,min=1,dive"`
}

// CalculateRequest represents a tax calculation query
type CalculateRequest struct {
	Year   int             `form:"year" binding:"required,min=1900,max=2200"`
	Income decimal.Decimal `form:"income"`
}

// BracketResponse represents a bracket in API responses
type BracketResponse struct {
	ID          uuid.UUID        `json:"id"`
	Lower       decimal.Decimal  `json:"lower"`
	Upper       *decimal.Decimal `json:"upper,omitempty"`
	Rate        decimal.Decimal  `json:"rate"`
	Description string           `json:"description"`
}

// TaxYearResponse represents a tax year configuration in API responses
type TaxYearResponse struct {
	ID        uuid.UUID         `json:"id"`
	Year      int               `json:"year"`
	Active    bool              `json:"active"`
	Brackets  []BracketResponse `json:"brackets"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// OverviewResponse summarizes a calendar year: revenue from paid invoices
// and the estimated income tax on it. Tax.Configured is false when the year
// has no active bracket configuration.
type OverviewResponse struct {
	Year         int                `json:"year"`
	InvoiceCount int                `json:"invoice_count"`
	Revenue      decimal.Decimal    `json:"revenue"`
	Tax          taxation.TaxResult `json:"tax"`
}

func toTaxYearResponse(year *taxation.TaxYear) *TaxYearResponse {
	brackets := year.SortedBrackets()
	responses := make([]BracketResponse, len(brackets))
	for i, b := range brackets {
		responses[i] = BracketResponse{
			ID:          b.ID,
			Lower:       b.Lower,
			Upper:       b.Upper,
			Rate:        b.Rate,
			Description: b.Description,
		}
	}
	return &TaxYearResponse{
		ID:        year.ID,
		Year:      year.Year,
		Active:    year.Active,
		Brackets:  responses,
		UpdatedAt: year.UpdatedAt,
	}
}
