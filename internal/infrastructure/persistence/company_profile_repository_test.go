package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
)

func setupProfileTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE company_profiles (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL UNIQUE,
			company_name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			uid TEXT NOT NULL DEFAULT '',
			iban TEXT NOT NULL DEFAULT '',
			payment_terms TEXT NOT NULL DEFAULT '',
			mileage_base_rate TEXT NOT NULL DEFAULT '0',
			mileage_extra_person_rate TEXT NOT NULL DEFAULT '0',
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func TestGormCompanyProfileRepository_CreateAndFind(t *testing.T) {
	db := setupProfileTestDB(t)
	repo := NewGormCompanyProfileRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	profile, err := invoicing.NewCompanyProfile(tenantID, "Acme Consulting")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, profile))

	found, err := repo.Find(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Consulting", found.CompanyName)
	assert.True(t, found.MileageBaseRate.Equal(invoicing.DefaultMileageBaseRate))
	assert.True(t, found.MileageExtraPersonRate.Equal(invoicing.DefaultMileageExtraPersonRate))
}

func TestGormCompanyProfileRepository_CreateRejectsSecondProfile(t *testing.T) {
	db := setupProfileTestDB(t)
	repo := NewGormCompanyProfileRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	first, err := invoicing.NewCompanyProfile(tenantID, "First")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := invoicing.NewCompanyProfile(tenantID, "Second")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, second), shared.ErrProfileExists)

	// A different tenant is unaffected.
	other, err := invoicing.NewCompanyProfile(uuid.New(), "Other")
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, other))
}

func TestGormCompanyProfileRepository_FindMissing(t *testing.T) {
	db := setupProfileTestDB(t)
	repo := NewGormCompanyProfileRepository(db)

	_, err := repo.Find(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCompanyProfileRepository_GetOrCreateProvisionsDefaults(t *testing.T) {
	db := setupProfileTestDB(t)
	repo := NewGormCompanyProfileRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	profile, err := repo.GetOrCreate(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, tenantID, profile.TenantID)
	assert.True(t, profile.MileageBaseRate.Equal(decimal.RequireFromString("0.42")))
	assert.True(t, profile.MileageExtraPersonRate.Equal(decimal.RequireFromString("0.05")))

	// A second call returns the stored profile instead of provisioning again.
	again, err := repo.GetOrCreate(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)

	var count int64
	require.NoError(t, db.Table("company_profiles").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGormCompanyProfileRepository_Update(t *testing.T) {
	db := setupProfileTestDB(t)
	repo := NewGormCompanyProfileRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	profile, err := repo.GetOrCreate(ctx, tenantID)
	require.NoError(t, err)

	require.NoError(t, profile.UpdateRates(
		decimal.RequireFromString("0.50"),
		decimal.RequireFromString("0.10"),
	))
	profile.IBAN = "AT61 1904 3002 3457 3201"
	require.NoError(t, repo.Update(ctx, profile))

	found, err := repo.Find(ctx, tenantID)
	require.NoError(t, err)
	assert.True(t, found.MileageBaseRate.Equal(decimal.RequireFromString("0.50")))
	assert.Equal(t, "AT61 1904 3002 3457 3201", found.IBAN)
}

func TestGormCompanyProfileRepository_UpdateDetectsConflict(t *testing.T) {
	db := setupProfileTestDB(t)
	repo := NewGormCompanyProfileRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	profile, err := repo.GetOrCreate(ctx, tenantID)
	require.NoError(t, err)

	stale, err := repo.Find(ctx, tenantID)
	require.NoError(t, err)

	profile.CompanyName = "First Writer"
	require.NoError(t, repo.Update(ctx, profile))

	stale.CompanyName = "Second Writer"
	assert.ErrorIs(t, repo.Update(ctx, stale), shared.ErrConcurrencyConflict)
}
