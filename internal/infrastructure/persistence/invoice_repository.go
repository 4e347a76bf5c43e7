package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/faktura/backend/internal/domain/invoicing"
	"github.com/faktura/backend/internal/domain/shared"
	"github.com/faktura/backend/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create persists a draft invoice without allocating sequence numbers.
// Drafts keep an empty number until they are finalized through
// CreateNumbered; callers display a placeholder derived from the ID.
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	return r.db.WithContext(ctx).Create(model).Error
}

// CreateNumbered allocates the global, client and project sequences, formats
// the display number and persists the invoice, all in one transaction. The
// current maximum row of each scope is read under FOR UPDATE so two
// concurrent creations serialize on the same rows; the empty-scope race
// (no row to lock yet) is caught by the unique sequence indexes and retried
// once with fresh allocations.
func (r *GormInvoiceRepository) CreateNumbered(ctx context.Context, inv *invoicing.Invoice, meta invoicing.NumberMeta) error {
	if inv.HasNumber() {
		return shared.NewDomainError("INVALID_STATE", "invoice already has a number")
	}
	if inv.ProjectID == nil {
		return shared.NewDomainError("INVALID_INPUT", "numbered invoices require a project")
	}

	err := r.allocateAndCreate(ctx, inv, meta)
	if isUniqueViolation(err) {
		err = r.allocateAndCreate(ctx, inv, meta)
	}
	return err
}

func (r *GormInvoiceRepository) allocateAndCreate(ctx context.Context, inv *invoicing.Invoice, meta invoicing.NumberMeta) error {
	var (
		global, client, project int
		number                  string
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if global, err = r.nextGlobalSequence(tx, inv.TenantID); err != nil {
			return err
		}
		if client, err = r.nextClientSequence(tx, inv.TenantID, meta.ClientID); err != nil {
			return err
		}
		if project, err = r.nextProjectSequence(tx, inv.TenantID, *inv.ProjectID); err != nil {
			return err
		}

		number = invoicing.FormatNumber(meta.Scheme, invoicing.NumberInput{
			GlobalSequence:  global,
			ClientSequence:  client,
			ProjectSequence: project,
			Date:            inv.Date,
			ClientInitials:  meta.ClientInitials,
			ProjectAbbr:     meta.ProjectAbbr,
		})

		model := models.InvoiceModelFromDomain(inv)
		model.GlobalSequence = &global
		model.ClientSequence = &client
		model.ProjectSequence = &project
		model.Number = number
		return tx.Create(model).Error
	})
	if err != nil {
		return err
	}

	// The transaction committed; reflect the allocation on the aggregate.
	if err := inv.AssignSequences(global, client, project); err != nil {
		return err
	}
	return inv.AssignNumber(number)
}

// nextGlobalSequence returns max(global_sequence)+1 for the tenant. The row
// holding the current maximum is locked until the transaction commits.
func (r *GormInvoiceRepository) nextGlobalSequence(tx *gorm.DB, tenantID uuid.UUID) (int, error) {
	var last models.InvoiceModel
	err := lockForUpdate(tx).
		Where("tenant_id = ? AND global_sequence IS NOT NULL", tenantID).
		Order("global_sequence DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return *last.GlobalSequence + 1, nil
}

// nextClientSequence counts across all projects of the client.
func (r *GormInvoiceRepository) nextClientSequence(tx *gorm.DB, tenantID, clientID uuid.UUID) (int, error) {
	projectIDs := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.ProjectModel{}).
		Select("id").
		Where("tenant_id = ? AND client_id = ?", tenantID, clientID)

	var last models.InvoiceModel
	err := lockForUpdate(tx).
		Where("tenant_id = ? AND client_sequence IS NOT NULL", tenantID).
		Where("project_id IN (?)", projectIDs).
		Order("client_sequence DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return *last.ClientSequence + 1, nil
}

func (r *GormInvoiceRepository) nextProjectSequence(tx *gorm.DB, tenantID, projectID uuid.UUID) (int, error) {
	var last models.InvoiceModel
	err := lockForUpdate(tx).
		Where("tenant_id = ? AND project_id = ? AND project_sequence IS NOT NULL", tenantID, projectID).
		Order("project_sequence DESC").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return *last.ProjectSequence + 1, nil
}

// lockForUpdate adds FOR UPDATE on dialects with row locks. SQLite has a
// database-level write lock, so the clause is unnecessary there and not
// part of its SQL grammar.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// isUniqueViolation reports whether err is a uniqueness constraint failure.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// Update persists changes to an invoice with optimistic locking and replaces
// its items. Returns shared.ErrConcurrencyConflict when the stored version no
// longer matches.
func (r *GormInvoiceRepository) Update(ctx context.Context, inv *invoicing.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	model.Version = inv.Version + 1

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.InvoiceModel{}).
			Where("tenant_id = ? AND id = ? AND version = ?", inv.TenantID, inv.ID, inv.Version).
			Select("*").
			Omit("id", "tenant_id", "created_at", "Items").
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		// Items are replaced wholesale; the set is small per invoice.
		if err := tx.Where("invoice_id = ?", inv.ID).
			Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
	if err != nil {
		return err
	}
	inv.IncrementVersion()
	return nil
}

// FindByID finds an invoice with its items by ID within a tenant
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its display number within a tenant
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds invoices matching the filter, newest first
func (r *GormInvoiceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter invoicing.InvoiceFilter) ([]invoicing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("invoices.tenant_id = ?", tenantID),
		filter,
	).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Order("invoices.date DESC, invoices.created_at DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]invoicing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// FindByProject finds all invoices of a project, newest first
func (r *GormInvoiceRepository) FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]invoicing.Invoice, error) {
	projID := projectID
	return r.FindAll(ctx, tenantID, invoicing.InvoiceFilter{ProjectID: &projID})
}

// FindByYearAndStatus finds invoices issued in the given year with the given status
func (r *GormInvoiceRepository) FindByYearAndStatus(ctx context.Context, tenantID uuid.UUID, year int, status invoicing.InvoiceStatus) ([]invoicing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Where("date >= ? AND date < ?", yearStart(year), yearStart(year+1)).
		Order("date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]invoicing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, tenantID uuid.UUID, filter invoicing.InvoiceFilter) (int64, error) {
	var count int64
	err := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("invoices.tenant_id = ?", tenantID),
		filter,
	).Count(&count).Error
	return count, err
}

// Delete removes an invoice and its items. Allocated sequence numbers are
// not reclaimed; the next allocation continues past them.
func (r *GormInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).
			Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).
			Delete(&models.InvoiceModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter invoicing.InvoiceFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("invoices.status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		query = query.Where("invoices.project_id = ?", *filter.ProjectID)
	}
	if filter.ClientID != nil {
		query = query.Where("invoices.project_id IN (?)",
			r.db.Session(&gorm.Session{NewDB: true}).
				Model(&models.ProjectModel{}).
				Select("id").
				Where("client_id = ?", *filter.ClientID))
	}
	if filter.FromDate != nil {
		query = query.Where("invoices.date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("invoices.date <= ?", *filter.ToDate)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(invoices.number) LIKE ? OR LOWER(invoices.notes) LIKE ?", pattern, pattern)
	}
	return query
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}
