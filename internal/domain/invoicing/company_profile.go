package invoicing

import (
	"strings"

	"github.com/faktura/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default mileage rates applied when a profile is created lazily.
var (
	DefaultMileageBaseRate        = decimal.RequireFromString("0.42")
	DefaultMileageExtraPersonRate = decimal.RequireFromString("0.05")
)

// DefaultVATRate is the standard Austrian VAT percentage
var DefaultVATRate = decimal.RequireFromString("20.00")

// CompanyProfile holds a tenant's company information and rate configuration.
// At most one profile exists per tenant; the repository enforces this with a
// unique constraint on tenant_id and a pre-check on create.
type CompanyProfile struct {
	shared.TenantAggregateRoot
	CompanyName string
	Address     string
	Email       string
	Phone       string

	// UID is the Umsatzsteuer-Identifikationsnummer (Austrian VAT ID)
	UID  string
	IBAN string

	// PaymentTerms is the default payment note printed on invoices unless an
	// invoice overrides it.
	PaymentTerms string

	// MileageBaseRate is the per-kilometre rate for mileage items.
	// MileageExtraPersonRate is added per additional passenger.
	MileageBaseRate        decimal.Decimal
	MileageExtraPersonRate decimal.Decimal
}

// NewCompanyProfile creates a profile with default mileage rates
func NewCompanyProfile(tenantID uuid.UUID, companyName string) (*CompanyProfile, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant is required")
	}
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		companyName = "Your Company Name"
	}
	return &CompanyProfile{
		TenantAggregateRoot:    shared.NewTenantAggregateRoot(tenantID),
		CompanyName:            companyName,
		MileageBaseRate:        DefaultMileageBaseRate,
		MileageExtraPersonRate: DefaultMileageExtraPersonRate,
	}, nil
}

// MileageRates returns the rate configuration used by mileage pricing
func (p *CompanyProfile) MileageRates() MileageRates {
	return MileageRates{
		BaseRate:        p.MileageBaseRate,
		ExtraPersonRate: p.MileageExtraPersonRate,
	}
}

// UpdateRates replaces the mileage rate configuration. Negative rates are
// rejected; zero is allowed (a tenant may choose not to bill mileage).
func (p *CompanyProfile) UpdateRates(baseRate, extraPersonRate decimal.Decimal) error {
	if baseRate.IsNegative() || extraPersonRate.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "mileage rates must not be negative")
	}
	p.MileageBaseRate = baseRate
	p.MileageExtraPersonRate = extraPersonRate
	p.Touch()
	return nil
}

// MileageRates is the tenant rate configuration consumed by mileage pricing.
// It is a value snapshot; pricing never reads the profile record directly.
type MileageRates struct {
	BaseRate        decimal.Decimal
	ExtraPersonRate decimal.Decimal
}

// RateForPeople returns the effective per-unit rate for the given head count:
// base rate plus one extra-person rate for each passenger beyond the first.
func (r MileageRates) RateForPeople(numPeople int) decimal.Decimal {
	extra := numPeople - 1
	if extra < 0 {
		extra = 0
	}
	return r.BaseRate.Add(decimal.NewFromInt(int64(extra)).Mul(r.ExtraPersonRate))
}
