package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/faktura/backend/internal/domain/identity"
	"github.com/faktura/backend/internal/infrastructure/auth"
)

// RegisterRequest represents a signup request. Registration provisions the
// user together with the tenant they own.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=200"`
	Name        string `json:"name" binding:"max=200"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	CompanyName string `json:"company_name" binding:"max=200"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Superuser bool      `json:"superuser"`
	CreatedAt time.Time `json:"created_at"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Active bool      `json:"active"`
}

// AuthResult is returned from login and registration
type AuthResult struct {
	Token  *auth.Token    `json:"token"`
	User   UserResponse   `json:"user"`
	Tenant TenantResponse `json:"tenant"`
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Superuser: u.Superuser,
		CreatedAt: u.CreatedAt,
	}
}

func toTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:     t.ID,
		Name:   t.Name,
		Active: t.Active,
	}
}
