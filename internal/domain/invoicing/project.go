package invoicing

import (
	"regexp"
	"strings"

	"github.com/faktura/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	abbreviationPattern = regexp.MustCompile(`^[A-Za-z]{1,5}$`)
	slugStripPattern    = regexp.MustCompile(`[^a-z0-9]+`)
)

// Project groups invoices under a client. The abbreviation feeds the
// composite invoice number scheme (e.g. "NI" in #001-PK-01-NI01).
// Project names are unique within a client.
type Project struct {
	shared.TenantAggregateRoot
	ClientID     uuid.UUID
	Name         string
	Abbreviation string
	Slug         string
}

// NewProject creates a project under the given client
func NewProject(tenantID, clientID uuid.UUID, name, abbreviation string) (*Project, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "tenant is required")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "client is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "project name is required")
	}
	abbreviation = strings.ToUpper(strings.TrimSpace(abbreviation))
	if !abbreviationPattern.MatchString(abbreviation) {
		return nil, shared.NewDomainError("INVALID_INPUT", "project abbreviation must be 1-5 letters")
	}
	return &Project{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            clientID,
		Name:                name,
		Abbreviation:        abbreviation,
		Slug:                Slugify(name),
	}, nil
}

// Rename updates the project name and its derived slug
func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "project name is required")
	}
	p.Name = name
	p.Slug = Slugify(name)
	p.Touch()
	return nil
}

// SetAbbreviation updates the abbreviation used in future invoice numbers
func (p *Project) SetAbbreviation(abbreviation string) error {
	abbreviation = strings.ToUpper(strings.TrimSpace(abbreviation))
	if !abbreviationPattern.MatchString(abbreviation) {
		return shared.NewDomainError("INVALID_INPUT", "project abbreviation must be 1-5 letters")
	}
	p.Abbreviation = abbreviation
	p.Touch()
	return nil
}

// Slugify derives a URL-safe slug from a project name
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
