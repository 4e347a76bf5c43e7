package taxation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bracket(t *testing.T, yearID uuid.UUID, lower string, upper string, rate string) TaxBracket {
	t.Helper()
	var up *decimal.Decimal
	if upper != "" {
		u := decimal.RequireFromString(upper)
		up = &u
	}
	b, err := NewTaxBracket(yearID, decimal.RequireFromString(lower), up, decimal.RequireFromString(rate), "")
	require.NoError(t, err)
	return *b
}

func TestNewTaxBracket(t *testing.T) {
	yearID := uuid.New()

	t.Run("rejects negative lower limit", func(t *testing.T) {
		_, err := NewTaxBracket(yearID, decimal.NewFromInt(-1), nil, decimal.NewFromInt(20), "")
		assert.Error(t, err)
	})

	t.Run("rejects upper not above lower", func(t *testing.T) {
		upper := decimal.NewFromInt(100)
		_, err := NewTaxBracket(yearID, decimal.NewFromInt(100), &upper, decimal.NewFromInt(20), "")
		assert.Error(t, err)
	})

	t.Run("rejects rate above 100", func(t *testing.T) {
		_, err := NewTaxBracket(yearID, decimal.Zero, nil, decimal.NewFromInt(101), "")
		assert.Error(t, err)
	})
}

func TestTaxYear_ValidateBrackets(t *testing.T) {
	newYear := func(t *testing.T) *TaxYear {
		year, err := NewTaxYear(uuid.New(), 2026)
		require.NoError(t, err)
		return year
	}

	t.Run("valid contiguous set", func(t *testing.T) {
		year := newYear(t)
		year.Brackets = []TaxBracket{
			bracket(t, year.ID, "0", "13308", "0"),
			bracket(t, year.ID, "13308", "20818", "20"),
			bracket(t, year.ID, "20818", "", "30"),
		}
		assert.NoError(t, year.ValidateBrackets())
	})

	t.Run("empty set rejected", func(t *testing.T) {
		year := newYear(t)
		assert.Error(t, year.ValidateBrackets())
	})

	t.Run("must start at zero", func(t *testing.T) {
		year := newYear(t)
		year.Brackets = []TaxBracket{
			bracket(t, year.ID, "100", "", "20"),
		}
		assert.Error(t, year.ValidateBrackets())
	})

	t.Run("gap between brackets rejected", func(t *testing.T) {
		year := newYear(t)
		year.Brackets = []TaxBracket{
			bracket(t, year.ID, "0", "10000", "0"),
			bracket(t, year.ID, "15000", "", "20"),
		}
		assert.Error(t, year.ValidateBrackets())
	})

	t.Run("overlap rejected", func(t *testing.T) {
		year := newYear(t)
		year.Brackets = []TaxBracket{
			bracket(t, year.ID, "0", "20000", "0"),
			bracket(t, year.ID, "15000", "", "20"),
		}
		assert.Error(t, year.ValidateBrackets())
	})

	t.Run("bounded top bracket rejected", func(t *testing.T) {
		year := newYear(t)
		year.Brackets = []TaxBracket{
			bracket(t, year.ID, "0", "10000", "0"),
			bracket(t, year.ID, "10000", "20000", "20"),
		}
		assert.Error(t, year.ValidateBrackets())
	})

	t.Run("unbounded bracket below top rejected", func(t *testing.T) {
		year := newYear(t)
		year.Brackets = []TaxBracket{
			bracket(t, year.ID, "0", "", "0"),
			bracket(t, year.ID, "10000", "", "20"),
		}
		assert.Error(t, year.ValidateBrackets())
	})
}
