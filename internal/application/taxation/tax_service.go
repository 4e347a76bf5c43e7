package taxation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
	"github.com/faktura/backend/internal/domain/taxation"
)

// TaxService manages progressive tax configuration and calculations
type TaxService struct {
	taxRepo     taxation.TaxYearRepository
	invoiceRepo invoicing.InvoiceRepository
	profileRepo invoicing.CompanyProfileRepository
	logger      *zap.Logger
}

// NewTaxService creates a new TaxService
func NewTaxService(
	taxRepo taxation.TaxYearRepository,
	invoiceRepo invoicing.InvoiceRepository,
	profileRepo invoicing.CompanyProfileRepository,
	logger *zap.Logger,
) *TaxService {
	return &TaxService{
		taxRepo:     taxRepo,
		invoiceRepo: invoiceRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// CreateYear configures a new tax year with a validated bracket set
func (s *TaxService) CreateYear(ctx context.Context, tenantID uuid.UUID, req CreateTaxYearRequest) (*TaxYearResponse, error) {
	year, err := taxation.NewTaxYear(tenantID, req.Year)
	if err != nil {
		return nil, err
	}
	if err := s.applyBrackets(year, req.Brackets); err != nil {
		return nil, err
	}

	if err := s.taxRepo.Save(ctx, year); err != nil {
		return nil, err
	}

	s.logger.Info("Tax year configured",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("year", req.Year),
		zap.Int("brackets", len(req.Brackets)))

	return toTaxYearResponse(year), nil
}

// applyBrackets replaces the year's brackets from the request and validates
// the resulting set before anything is persisted
func (s *TaxService) applyBrackets(year *taxation.TaxYear, reqs []BracketRequest) error {
	brackets := make([]taxation.TaxBracket, 0, len(reqs))
	for _, req := range reqs {
		bracket, err := taxation.NewTaxBracket(year.ID, req.Lower, req.Upper, req.Rate, req.Description)
		if err != nil {
			return err
		}
		brackets = append(brackets, *bracket)
	}
	year.Brackets = brackets
	return year.ValidateBrackets()
}

// GetYear returns the configuration for a calendar year
func (s *TaxService) GetYear(ctx context.Context, tenantID uuid.UUID, year int) (*TaxYearResponse, error) {
	taxYear, err := s.taxRepo.FindByYear(ctx, tenantID, year)
	if err != nil {
		return nil, err
	}
	return toTaxYearResponse(taxYear), nil
}

// ListYears returns all configured tax years, newest first
func (s *TaxService) ListYears(ctx context.Context, tenantID uuid.UUID) ([]TaxYearResponse, error) {
	years, err := s.taxRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	responses := make([]TaxYearResponse, len(years))
	for i := range years {
		responses[i] = *toTaxYearResponse(&years[i])
	}
	return responses, nil
}

// ReplaceBrackets swaps a year's bracket set and optionally toggles whether
// the configuration is active
func (s *TaxService) ReplaceBrackets(ctx context.Context, tenantID uuid.UUID, year int, req ReplaceBracketsRequest) (*TaxYearResponse, error) {
	taxYear, err := s.taxRepo.FindByYear(ctx, tenantID, year)
	if err != nil {
		return nil, err
	}

	if req.Active != nil {
		taxYear.Active = *req.Active
	}
	if err := s.applyBrackets(taxYear, req.Brackets); err != nil {
		return nil, err
	}

	if err := s.taxRepo.ReplaceBrackets(ctx, taxYear); err != nil {
		return nil, err
	}
	return toTaxYearResponse(taxYear), nil
}

// DeleteYear removes a tax year and its brackets
func (s *TaxService) DeleteYear(ctx context.Context, tenantID uuid.UUID, year int) error {
	taxYear, err := s.taxRepo.FindByYear(ctx, tenantID, year)
	if err != nil {
		return err
	}
	return s.taxRepo.Delete(ctx, tenantID, taxYear.ID)
}

// Calculate computes the progressive tax on an income for a calendar year. A
// year without an active configuration yields the unconfigured result, not an
// error.
func (s *TaxService) Calculate(ctx context.Context, tenantID uuid.UUID, year int, income decimal.Decimal) (taxation.TaxResult, error) {
	taxYear, err := s.taxRepo.FindActiveByYear(ctx, tenantID, year)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return taxation.UnconfiguredResult(), nil
		}
		return taxation.TaxResult{}, err
	}
	return taxation.Calculate(income, taxYear), nil
}

// Overview sums the net totals of a year's paid invoices and estimates the
// income tax on that revenue
func (s *TaxService) Overview(ctx context.Context, tenantID uuid.UUID, year int) (*OverviewResponse, error) {
	invoices, err := s.invoiceRepo.FindByYearAndStatus(ctx, tenantID, year, invoicing.InvoiceStatusPaid)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetOrCreate(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rates := profile.MileageRates()

	revenue := decimal.Zero
	for i := range invoices {
		revenue = revenue.Add(invoices[i].NetTotal(rates))
	}

	tax, err := s.Calculate(ctx, tenantID, year, revenue)
	if err != nil {
		return nil, err
	}

	return &OverviewResponse{
		Year:         year,
		InvoiceCount: len(invoices),
		Revenue:      revenue,
		Tax:          tax,
	}, nil
}
