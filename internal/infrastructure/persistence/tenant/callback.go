package tenant

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/faktura/backend/internal/infrastructure/logger"
)

// Callback provides GORM callback hooks for automatic tenant filtering.
// Registering the callbacks makes every query, update and delete carry
// the tenant condition even when a repository forgets to go through
// TenantDB.
type Callback struct {
	tenantColumn string
	required     bool
}

// NewCallback creates a new tenant callback handler
func NewCallback(tenantColumn string, required bool) *Callback {
	if tenantColumn == "" {
		tenantColumn = "tenant_id"
	}
	return &Callback{
		tenantColumn: tenantColumn,
		required:     required,
	}
}

// Register registers tenant callbacks with GORM
func (tc *Callback) Register(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.addTenantFilter)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.addTenantFilter)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.addTenantFilter)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.addTenantFilter)

	// Create is not hooked: tenant_id is set explicitly when entities
	// are constructed, never inferred at insert time.
}

func (tc *Callback) addTenantFilter(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}

	// Unscoped is the explicit bypass
	if db.Statement.Unscoped {
		return
	}

	if tc.hasTenantCondition(db) {
		return
	}

	// Identity tables (users, tenants) are not tenant-scoped and must
	// stay reachable before authentication establishes a tenant.
	if db.Statement.Schema == nil || db.Statement.Schema.LookUpField(tc.tenantColumn) == nil {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == "" {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}

	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// hasTenantCondition checks if a tenant_id condition is already present
func (tc *Callback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}

	sql := db.Statement.SQL.String()
	return sql != "" && strings.Contains(sql, tc.tenantColumn)
}

func (tc *Callback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Expr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoTenantFilter registers callbacks that automatically add
// tenant_id filtering to all queries on the given GORM DB instance.
func EnableAutoTenantFilter(db *gorm.DB, required bool) {
	NewCallback("tenant_id", required).Register(db)
}

// DisableAutoTenantFilter removes the tenant callbacks. Mainly for tests.
func DisableAutoTenantFilter(db *gorm.DB) {
	_ = db.Callback().Query().Remove("tenant:before_query")
	_ = db.Callback().Update().Remove("tenant:before_update")
	_ = db.Callback().Delete().Remove("tenant:before_delete")
	_ = db.Callback().Row().Remove("tenant:before_row")
}
