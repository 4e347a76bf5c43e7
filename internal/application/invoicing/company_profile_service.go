package invoicing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/faktura/backend/internal/domain/invoicing"
)

// CompanyProfileService handles the tenant's company profile. The profile is
// a singleton per tenant, provisioned lazily with default rates on first
// read, so there is no explicit create operation.
type CompanyProfileService struct {
	profileRepo invoicing.CompanyProfileRepository
	logger      *zap.Logger
}

// NewCompanyProfileService creates a new CompanyProfileService
func NewCompanyProfileService(profileRepo invoicing.CompanyProfileRepository, logger *zap.Logger) *CompanyProfileService {
	return &CompanyProfileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Get returns the tenant's profile, provisioning it on first access
func (s *CompanyProfileService) Get(ctx context.Context, tenantID uuid.UUID) (*CompanyProfileResponse, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toCompanyProfileResponse(profile), nil
}

// Update applies a partial update to the tenant's profile
func (s *CompanyProfileService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateCompanyProfileRequest) (*CompanyProfileResponse, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		profile.CompanyName = *req.CompanyName
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.Email != nil {
		profile.Email = *req.Email
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.UID != nil {
		profile.UID = *req.UID
	}
	if req.IBAN != nil {
		profile.IBAN = *req.IBAN
	}
	if req.PaymentTerms != nil {
		profile.PaymentTerms = *req.PaymentTerms
	}
	if req.MileageBaseRate != nil || req.MileageExtraPersonRate != nil {
		baseRate := profile.MileageBaseRate
		extraRate := profile.MileageExtraPersonRate
		if req.MileageBaseRate != nil {
			baseRate = *req.MileageBaseRate
		}
		if req.MileageExtraPersonRate != nil {
			extraRate = *req.MileageExtraPersonRate
		}
		if err := profile.UpdateRates(baseRate, extraRate); err != nil {
			return nil, err
		}
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Company profile updated",
		zap.String("tenant_id", tenantID.String()))

	return toCompanyProfileResponse(profile), nil
}

// MileageRates returns the tenant's current mileage rate configuration
func (s *CompanyProfileService) MileageRates(ctx context.Context, tenantID uuid.UUID) (invoicing.MileageRates, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, tenantID)
	if err != nil {
		return invoicing.MileageRates{}, err
	}
	return profile.MileageRates(), nil
}
