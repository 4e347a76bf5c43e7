package invoicing

import (
	"regexp"
	"strings"

	"github.com/faktura/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var initialsPattern = regexp.MustCompile(`^[A-Za-z]{2}$`)

// Client is an invoice recipient. Initials feed the composite invoice number
// scheme (e.g. "PK" in #001-PK-01-NI01).
type Client struct {
	shared.TenantAggregateRoot
	Name     string
	Initials string
	Email    string
	Address  string
	Phone    string
}

// NewClient creates a client for the given tenant
func NewClient(tenantID uuid.UUID, name, initials string) (*Client, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "client name is required")
	}
	initials = strings.ToUpper(strings.TrimSpace(initials))
	if !initialsPattern.MatchString(initials) {
		return nil, shared.NewDomainError("INVALID_INPUT", "client initials must be exactly two letters")
	}
	return &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Initials:            initials,
	}, nil
}

// Rename updates the client's display name
func (c *Client) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "client name is required")
	}
	c.Name = name
	c.Touch()
	return nil
}

// SetInitials updates the initials used in future invoice numbers. Numbers
// already assigned keep the initials they were rendered with.
func (c *Client) SetInitials(initials string) error {
	initials = strings.ToUpper(strings.TrimSpace(initials))
	if !initialsPattern.MatchString(initials) {
		return shared.NewDomainError("INVALID_INPUT", "client initials must be exactly two letters")
	}
	c.Initials = initials
	c.Touch()
	return nil
}
