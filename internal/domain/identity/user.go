package identity

import (
	"context"
	"strings"

	"github.com/faktura/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// User is an account holder. Each user owns exactly one tenant, created at
// registration time.
type User struct {
	shared.BaseEntity
	Email        string
	Name         string
	PasswordHash string
	Superuser    bool
}

// NewUser creates a user with a bcrypt-hashed password
func NewUser(email, name, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "email is required")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_INPUT", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	// CreateWithTenant persists a new user and the tenant they own
	// atomically. A user without a tenant cannot log in, so registration
	// must write both rows or neither.
	CreateWithTenant(ctx context.Context, user *User, tenant *Tenant) error
	FindByEmail(ctx context.Context, email string) (*User, error)
}
