package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/faktura/backend/internal/domain/identity"
	"github.com/faktura/backend/internal/domain/shared"
)

func setupIdentityTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE tenants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			owner_id TEXT NOT NULL UNIQUE,
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			superuser INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

func TestGormTenantRepository_SaveAndFind(t *testing.T) {
	db := setupIdentityTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	ownerID := uuid.New()
	tenant, err := identity.NewTenant("Peter Kraus e.U.", ownerID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tenant))

	byID, err := repo.FindByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Peter Kraus e.U.", byID.Name)
	assert.True(t, byID.Active)

	byOwner, err := repo.FindByOwner(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, byOwner.ID)

	_, err = repo.FindByOwner(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_SaveAndFindByEmail(t *testing.T) {
	db := setupIdentityTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("Peter@Example.com", "Peter Kraus", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	// Emails are normalized on write and matched case-insensitively on read.
	found, err := repo.FindByEmail(ctx, "PETER@example.COM")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "peter@example.com", found.Email)
	assert.True(t, found.CheckPassword("s3cret-pass"))

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_CreateWithTenant(t *testing.T) {
	db := setupIdentityTestDB(t)
	userRepo := NewGormUserRepository(db)
	tenantRepo := NewGormTenantRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("peter@example.com", "Peter", "s3cret-pass")
	require.NoError(t, err)
	tenant, err := identity.NewTenant("Peter Kraus e.U.", user.ID)
	require.NoError(t, err)

	require.NoError(t, userRepo.CreateWithTenant(ctx, user, tenant))

	found, err := userRepo.FindByEmail(ctx, "peter@example.com")
	require.NoError(t, err)
	byOwner, err := tenantRepo.FindByOwner(ctx, found.ID)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, byOwner.ID)
}

func TestGormUserRepository_CreateWithTenantRollsBackOnTenantFailure(t *testing.T) {
	db := setupIdentityTestDB(t)
	userRepo := NewGormUserRepository(db)
	tenantRepo := NewGormTenantRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("peter@example.com", "Peter", "s3cret-pass")
	require.NoError(t, err)

	// Occupy the owner slot so the tenant insert hits the unique index.
	blocker, err := identity.NewTenant("Existing", user.ID)
	require.NoError(t, err)
	require.NoError(t, tenantRepo.Save(ctx, blocker))

	tenant, err := identity.NewTenant("Peter Kraus e.U.", user.ID)
	require.NoError(t, err)
	require.Error(t, userRepo.CreateWithTenant(ctx, user, tenant))

	// The user row must roll back with the tenant: a half-registered
	// account could never log in.
	_, err = userRepo.FindByEmail(ctx, "peter@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_SaveRejectsDuplicateEmail(t *testing.T) {
	db := setupIdentityTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	first, err := identity.NewUser("peter@example.com", "Peter", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := identity.NewUser("peter@example.com", "Impostor", "other-pass")
	require.NoError(t, err)
	err = repo.Save(ctx, second)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_EMAIL", domainErr.Code)
}
