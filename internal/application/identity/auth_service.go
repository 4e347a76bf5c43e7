package identity

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/faktura/backend/internal/domain/identity"
	"github.com/faktura/backend/internal/domain/shared"
	"github.com/faktura/backend/internal/infrastructure/auth"
)

// AuthService handles registration and authentication. A registration
// provisions the user and the tenant they own in one step; every later
// request carries the tenant in its token claims.
type AuthService struct {
	userRepo   identity.UserRepository
	tenantRepo identity.TenantRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a user and their tenant and returns a logged-in session
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_EMAIL", "a user with this email already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(req.Email, req.Name, req.Password)
	if err != nil {
		return nil, err
	}

	tenantName := strings.TrimSpace(req.CompanyName)
	if tenantName == "" {
		tenantName = user.Email
	}
	tenant, err := identity.NewTenant(tenantName, user.ID)
	if err != nil {
		return nil, err
	}

	// Both rows are written in one transaction: a user without a tenant
	// would be locked out of login forever.
	if err := s.userRepo.CreateWithTenant(ctx, user, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenant.ID.String()))

	return s.issueSession(user, tenant)
}

// Login authenticates a user and returns a session token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email", zap.String("email", req.Email))
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "invalid email or password")
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "invalid email or password")
	}

	tenant, err := s.tenantRepo.FindByOwner(ctx, user.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_TENANT", "no tenant is associated with this account")
		}
		return nil, err
	}
	if !tenant.Active {
		return nil, shared.NewDomainError("TENANT_INACTIVE", "this account's tenant has been deactivated")
	}

	return s.issueSession(user, tenant)
}

func (s *AuthService) issueSession(user *identity.User, tenant *identity.Tenant) (*AuthResult, error) {
	token, err := s.jwtService.GenerateToken(auth.GenerateTokenInput{
		TenantID: tenant.ID,
		UserID:   user.ID,
		Email:    user.Email,
	})
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token:  token,
		User:   toUserResponse(user),
		Tenant: toTenantResponse(tenant),
	}, nil
}
