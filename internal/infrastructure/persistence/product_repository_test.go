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

func setupProductTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE products (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			default_unit_price TEXT NOT NULL DEFAULT '0',
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func TestGormProductRepository_SaveAndFindByID(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	product, err := invoicing.NewProduct(tenantID, "Consulting Day",
		"One day of consulting", decimal.RequireFromString("960.00"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, tenantID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Consulting Day", found.Name)
	assert.True(t, found.DefaultUnitPrice.Equal(decimal.RequireFromString("960.00")))
}

func TestGormProductRepository_FindAllScopedToTenant(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	mine, err := invoicing.NewProduct(tenantID, "Hosting", "", decimal.NewFromInt(25))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, mine))

	theirs, err := invoicing.NewProduct(uuid.New(), "Hosting", "", decimal.NewFromInt(25))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, theirs))

	products, err := repo.FindAll(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, mine.ID, products[0].ID)
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := setupProductTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	product, err := invoicing.NewProduct(tenantID, "Hosting", "", decimal.NewFromInt(25))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, product))

	require.NoError(t, repo.Delete(ctx, tenantID, product.ID))
	_, err = repo.FindByID(ctx, tenantID, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
