package taxation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// austrianBrackets mirrors the production 2025/2026 configuration.
func austrianTaxYear(t *testing.T) *TaxYear {
	t.Helper()
	year, err := NewTaxYear(uuid.New(), 2026)
	require.NoError(t, err)

	brackets := []struct {
		lower string
		upper string // "" = unbounded
		rate  string
	}{
		{"0", "13308", "0"},
		{"13308", "20818", "20"},
		{"20818", "34513", "30"},
		{"34513", "66612", "40"},
		{"66612", "99266", "48"},
		{"99266", "1000000", "50"},
		{"1000000", "", "55"},
	}

	for _, b := range brackets {
		var upper *decimal.Decimal
		if b.upper != "" {
			u := decimal.RequireFromString(b.upper)
			upper = &u
		}
		bracket, err := NewTaxBracket(year.ID, decimal.RequireFromString(b.lower), upper,
			decimal.RequireFromString(b.rate), "")
		require.NoError(t, err)
		year.Brackets = append(year.Brackets, *bracket)
	}
	return year
}

func TestCalculate(t *testing.T) {
	year := austrianTaxYear(t)

	t.Run("zero income", func(t *testing.T) {
		result := Calculate(decimal.Zero, year)
		assert.True(t, result.Configured)
		assert.True(t, result.TotalTax.IsZero())
		assert.True(t, result.EffectiveRate.IsZero())
		assert.Empty(t, result.Breakdown)
	})

	t.Run("income exactly at first boundary is untaxed", func(t *testing.T) {
		result := Calculate(decimal.NewFromInt(13308), year)
		assert.True(t, result.TotalTax.IsZero(), "got %s", result.TotalTax)
		// only the zero-rate bracket is touched
		assert.Len(t, result.Breakdown, 1)
	})

	t.Run("income in second bracket", func(t *testing.T) {
		// (14000 - 13308) x 20% = 138.40
		result := Calculate(decimal.NewFromInt(14000), year)
		assert.True(t, result.TotalTax.Equal(decimal.RequireFromString("138.40")),
			"got %s", result.TotalTax)
		assert.Len(t, result.Breakdown, 2)
	})

	t.Run("income spanning three brackets", func(t *testing.T) {
		// 7510 x 20% + 182 x 30% = 1502.00 + 54.60 = 1556.60
		result := Calculate(decimal.NewFromInt(21000), year)
		assert.True(t, result.TotalTax.Equal(decimal.RequireFromString("1556.60")),
			"got %s", result.TotalTax)
		assert.Len(t, result.Breakdown, 3)
		assert.True(t, result.Breakdown[1].TaxAmount.Equal(decimal.RequireFromString("1502.00")))
		assert.True(t, result.Breakdown[2].TaxableAmount.Equal(decimal.NewFromInt(182)))
	})

	t.Run("high income reaches unbounded top bracket", func(t *testing.T) {
		result := Calculate(decimal.NewFromInt(2000000), year)
		assert.True(t, result.TotalTax.IsPositive())
		assert.Len(t, result.Breakdown, 7)
		top := result.Breakdown[6]
		assert.Nil(t, top.Upper)
		assert.True(t, top.TaxableAmount.Equal(decimal.NewFromInt(1000000)))
	})

	t.Run("effective rate", func(t *testing.T) {
		// 1556.60 / 21000 x 100
		result := Calculate(decimal.NewFromInt(21000), year)
		expected := decimal.RequireFromString("1556.60").
			Div(decimal.NewFromInt(21000)).
			Mul(decimal.NewFromInt(100))
		assert.True(t, result.EffectiveRate.Equal(expected))
	})

	t.Run("nil year reports unconfigured", func(t *testing.T) {
		result := Calculate(decimal.NewFromInt(50000), nil)
		assert.False(t, result.Configured)
		assert.True(t, result.TotalTax.IsZero())
		assert.Empty(t, result.Breakdown)
	})

	t.Run("inactive year reports unconfigured", func(t *testing.T) {
		inactive := austrianTaxYear(t)
		inactive.Active = false
		result := Calculate(decimal.NewFromInt(50000), inactive)
		assert.False(t, result.Configured)
	})

	t.Run("breakdown sums to total", func(t *testing.T) {
		result := Calculate(decimal.NewFromInt(123456), year)
		sum := decimal.Zero
		for _, c := range result.Breakdown {
			sum = sum.Add(c.TaxAmount)
		}
		assert.True(t, sum.Equal(result.TotalTax))
	})
}

func TestCalculate_UnsortedBrackets(t *testing.T) {
	// Brackets stored out of order must still be walked lowest-first.
	year, err := NewTaxYear(uuid.New(), 2026)
	require.NoError(t, err)

	upper := decimal.NewFromInt(13308)
	second, err := NewTaxBracket(year.ID, upper, nil, decimal.NewFromInt(20), "")
	require.NoError(t, err)
	first, err := NewTaxBracket(year.ID, decimal.Zero, &upper, decimal.Zero, "")
	require.NoError(t, err)
	year.Brackets = []TaxBracket{*second, *first}

	result := Calculate(decimal.NewFromInt(14000), year)
	assert.True(t, result.TotalTax.Equal(decimal.RequireFromString("138.40")),
		"got %s", result.TotalTax)
}
