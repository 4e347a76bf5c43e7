package taxation

import (
	"context"
	"sort"

	"github.com/faktura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxYear holds a tenant's progressive tax configuration for one year.
// Only one active configuration per year is consulted by the calculator.
type TaxYear struct {
	shared.TenantAggregateRoot
	Year     int
	Active   bool
	Brackets []TaxBracket
}

// NewTaxYear creates an active tax year for the given tenant
func NewTaxYear(tenantID uuid.UUID, year int) (*TaxYear, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant is required")
	}
	if year < 1900 || year > 2200 {
		return nil, shared.NewDomainError("INVALID_INPUT", "implausible tax year")
	}
	return &TaxYear{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Year:                year,
		Active:              true,
	}, nil
}

// TaxBracket defines a half-open income range [Lower, Upper) taxed at a flat
// marginal rate. A nil Upper marks the unbounded top bracket.
type TaxBracket struct {
	shared.BaseEntity
	TaxYearID   uuid.UUID
	Lower       decimal.Decimal
	Upper       *decimal.Decimal
	Rate        decimal.Decimal // percentage, e.g. 20 for 20%
	Description string
}

// NewTaxBracket creates a bracket for the given tax year
func NewTaxBracket(taxYearID uuid.UUID, lower decimal.Decimal, upper *decimal.Decimal, rate decimal.Decimal, description string) (*TaxBracket, error) {
	if taxYearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "tax year is required")
	}
	if lower.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "bracket lower limit must not be negative")
	}
	if upper != nil && !upper.GreaterThan(lower) {
		return nil, shared.NewDomainError("INVALID_INPUT", "bracket upper limit must exceed lower limit")
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "bracket rate must be between 0 and 100")
	}
	return &TaxBracket{
		BaseEntity:  shared.NewBaseEntity(),
		TaxYearID:   taxYearID,
		Lower:       lower,
		Upper:       upper,
		Rate:        rate,
		Description: description,
	}, nil
}

// SortedBrackets returns the brackets ordered by lower limit ascending
func (y *TaxYear) SortedBrackets() []TaxBracket {
	brackets := make([]TaxBracket, len(y.Brackets))
	copy(brackets, y.Brackets)
	sort.Slice(brackets, func(i, j int) bool {
		return brackets[i].Lower.LessThan(brackets[j].Lower)
	})
	return brackets
}

// ValidateBrackets checks the configured bracket set: ordered by lower limit,
// the brackets must be contiguous and non-overlapping, start at zero, and end
// with exactly one unbounded bracket.
func (y *TaxYear) ValidateBrackets() error {
	if len(y.Brackets) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "tax year has no brackets")
	}
	brackets := y.SortedBrackets()
	if !brackets[0].Lower.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "first bracket must start at zero")
	}
	for i, b := range brackets {
		last := i == len(brackets)-1
		if last {
			if b.Upper != nil {
				return shared.NewDomainError("INVALID_INPUT", "top bracket must be unbounded")
			}
			continue
		}
		if b.Upper == nil {
			return shared.NewDomainError("INVALID_INPUT", "only the top bracket may be unbounded")
		}
		if !brackets[i+1].Lower.Equal(*b.Upper) {
			return shared.NewDomainError("INVALID_INPUT", "brackets must be contiguous and non-overlapping")
		}
	}
	return nil
}

// TaxYearRepository defines persistence operations for tax configuration
type TaxYearRepository interface {
	Save(ctx context.Context, year *TaxYear) error
	FindByYear(ctx context.Context, tenantID uuid.UUID, year int) (*TaxYear, error)
	FindActiveByYear(ctx context.Context, tenantID uuid.UUID, year int) (*TaxYear, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]TaxYear, error)
	ReplaceBrackets(ctx context.Context, year *TaxYear) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
