package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/faktura/backend/internal/domain/shared"
	"github.com/faktura/backend/internal/domain/taxation"
)

// TaxYearModel is the persistence model for the TaxYear domain entity.
type TaxYearModel struct {
	TenantAggregateModel
	Year     int               `gorm:"not null;uniqueIndex:idx_tax_years_tenant_year,priority:2"`
	Active   bool              `gorm:"not null;default:true"`
	Brackets []TaxBracketModel `gorm:"foreignKey:TaxYearID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (TaxYearModel) TableName() string {
	return "tax_years"
}

// ToDomain converts the persistence model to a domain TaxYear entity.
func (m *TaxYearModel) ToDomain() *taxation.TaxYear {
	y := &taxation.TaxYear{
		Year:   m.Year,
		Active: m.Active,
	}
	m.PopulateTenantAggregateRoot(&y.TenantAggregateRoot)

	y.Brackets = make([]taxation.TaxBracket, len(m.Brackets))
	for i := range m.Brackets {
		y.Brackets[i] = *m.Brackets[i].ToDomain()
	}
	return y
}

// FromDomain populates the persistence model from a domain TaxYear entity.
func (m *TaxYearModel) FromDomain(y *taxation.TaxYear) {
	m.FromDomainTenantAggregateRoot(y.TenantAggregateRoot)
	m.Year = y.Year
	m.Active = y.Active

	m.Brackets = make([]TaxBracketModel, len(y.Brackets))
	for i := range y.Brackets {
		m.Brackets[i].FromDomain(&y.Brackets[i])
	}
}

// TaxBracketModel is the persistence model for the TaxBracket domain entity.
// A NULL upper limit marks the unbounded top bracket.
type TaxBracketModel struct {
	BaseModel
	TaxYearID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Lower       decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Upper       *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Rate        decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	Description string           `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (TaxBracketModel) TableName() string {
	return "tax_brackets"
}

// ToDomain converts the persistence model to a domain TaxBracket entity.
func (m *TaxBracketModel) ToDomain() *taxation.TaxBracket {
	return &taxation.TaxBracket{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TaxYearID:   m.TaxYearID,
		Lower:       m.Lower,
		Upper:       m.Upper,
		Rate:        m.Rate,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain TaxBracket entity.
func (m *TaxBracketModel) FromDomain(b *taxation.TaxBracket) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.TaxYearID = b.TaxYearID
	m.Lower = b.Lower
	m.Upper = b.Upper
	m.Rate = b.Rate
	m.Description = b.Description
}
