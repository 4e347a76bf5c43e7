package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceFilter defines filtering options for invoice list queries
type InvoiceFilter struct {
	Status    *InvoiceStatus
	ProjectID *uuid.UUID
	ClientID  *uuid.UUID
	FromDate  *time.Time
	ToDate    *time.Time
	Search    string
	Page      int
	PageSize  int
}

// NumberMeta carries the formatting metadata for sequence allocation. The
// repository allocates sequences and renders the number in one transaction so
// that concurrent creations cannot observe the same "next" value.
type NumberMeta struct {
	Scheme         NumberScheme
	ClientID       uuid.UUID
	ClientInitials string
	ProjectAbbr    string
}

// InvoiceRepository defines persistence operations for invoices.
//
// CreateNumbered is the single entry point for numbered invoice creation: it
// must allocate the global, client and project sequences under a per-scope
// lock, format the display number, and persist the invoice atomically. On a
// uniqueness collision it retries once with fresh allocations before failing.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	CreateNumbered(ctx context.Context, inv *Invoice, meta NumberMeta) error
	Update(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)
	FindByProject(ctx context.Context, tenantID, projectID uuid.UUID) ([]Invoice, error)
	FindByYearAndStatus(ctx context.Context, tenantID uuid.UUID, year int, status InvoiceStatus) ([]Invoice, error)
	Count(ctx context.Context, tenantID uuid.UUID, filter InvoiceFilter) (int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CompanyProfileRepository defines persistence operations for company
// profiles. The singleton invariant (one profile per tenant) is enforced
// here: Create fails with shared.ErrProfileExists when a profile is present,
// and GetOrCreate provisions one lazily with default rates.
type CompanyProfileRepository interface {
	Create(ctx context.Context, profile *CompanyProfile) error
	Update(ctx context.Context, profile *CompanyProfile) error
	Find(ctx context.Context, tenantID uuid.UUID) (*CompanyProfile, error)
	GetOrCreate(ctx context.Context, tenantID uuid.UUID) (*CompanyProfile, error)
}

// ClientRepository defines persistence operations for clients
type ClientRepository interface {
	Save(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Client, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ProjectRepository defines persistence operations for projects
type ProjectRepository interface {
	Save(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Project, error)
	FindByClient(ctx context.Context, tenantID, clientID uuid.UUID) ([]Project, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Project, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ProductRepository defines persistence operations for product templates
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Product, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
