package taxation

import (
	"github.com/shopspring/decimal"
)

// BracketContribution records one bracket's share of the total tax
type BracketContribution struct {
	Lower         decimal.Decimal  `json:"lower"`
	Upper         *decimal.Decimal `json:"upper,omitempty"`
	Rate          decimal.Decimal  `json:"rate"`
	TaxableAmount decimal.Decimal  `json:"taxable_amount"`
	TaxAmount     decimal.Decimal  `json:"tax_amount"`
}

// TaxResult is the outcome of a progressive tax calculation. Configured is
// false when no active tax year exists for the requested year; callers render
// that as "not available" rather than treating it as an error.
type TaxResult struct {
	TotalTax      decimal.Decimal       `json:"total_tax"`
	Breakdown     []BracketContribution `json:"breakdown"`
	EffectiveRate decimal.Decimal       `json:"effective_rate"`
	Configured    bool                  `json:"configured"`
}

// UnconfiguredResult is returned when the requested tax year has no active
// bracket configuration: zero tax, empty breakdown, explicit flag.
func UnconfiguredResult() TaxResult {
	return TaxResult{
		TotalTax:      decimal.Zero,
		Breakdown:     []BracketContribution{},
		EffectiveRate: decimal.Zero,
		Configured:    false,
	}
}

// Calculate walks the year's brackets from lowest to highest and taxes the
// slice of income falling into each at that bracket's flat rate. Income at a
// bracket boundary is not taxed in the higher bracket: ranges are half-open
// [lower, upper). The function is pure; the bracket table is the only input
// state.
func Calculate(income decimal.Decimal, year *TaxYear) TaxResult {
	if year == nil || !year.Active || len(year.Brackets) == 0 {
		return UnconfiguredResult()
	}

	hundred := decimal.NewFromInt(100)
	totalTax := decimal.Zero
	breakdown := make([]BracketContribution, 0, len(year.Brackets))

	for _, bracket := range year.SortedBrackets() {
		if income.LessThanOrEqual(bracket.Lower) {
			break
		}

		ceiling := income
		if bracket.Upper != nil && income.GreaterThan(*bracket.Upper) {
			ceiling = *bracket.Upper
		}
		taxable := ceiling.Sub(bracket.Lower)
		tax := taxable.Mul(bracket.Rate.Div(hundred))
		totalTax = totalTax.Add(tax)

		breakdown = append(breakdown, BracketContribution{
			Lower:         bracket.Lower,
			Upper:         bracket.Upper,
			Rate:          bracket.Rate,
			TaxableAmount: taxable,
			TaxAmount:     tax,
		})
	}

	effectiveRate := decimal.Zero
	if income.IsPositive() {
		effectiveRate = totalTax.Div(income).Mul(hundred)
	}

	return TaxResult{
		TotalTax:      totalTax,
		Breakdown:     breakdown,
		EffectiveRate: effectiveRate,
		Configured:    true,
	}
}
