package invoicing

import (
	"fmt"
	"strings"
	"time"
)

// NumberScheme selects how invoice numbers are rendered. Both schemes consume
// sequences allocated by the repository; formatting itself is pure and is
// invoked exactly once per invoice, right after allocation.
type NumberScheme string

const (
	// NumberSchemeComposite renders #{global}-{INITIALS}-{client}-{ABBR}{project},
	// e.g. #001-PK-01-NI01.
	NumberSchemeComposite NumberScheme = "composite"
	// NumberSchemeDate renders #{YYYYMMDD}-{global}, e.g. #20260201-001.
	NumberSchemeDate NumberScheme = "date"
)

// IsValid checks if the scheme is known
func (s NumberScheme) IsValid() bool {
	return s == NumberSchemeComposite || s == NumberSchemeDate
}

// NumberInput carries everything the formatter needs. All fields are plain
// values; the formatter touches no state and is safe to call repeatedly with
// the persisted sequences (it always reproduces the stored number).
type NumberInput struct {
	GlobalSequence  int
	ClientSequence  int
	ProjectSequence int
	Date            time.Time
	ClientInitials  string
	ProjectAbbr     string
}

// FormatCompositeNumber renders the composite scheme:
// #{global:03d}-{INITIALS}-{client:02d}-{ABBR}{project:02d}.
// Sequences beyond the padding width print at natural width.
func FormatCompositeNumber(in NumberInput) string {
	return fmt.Sprintf("#%03d-%s-%02d-%s%02d",
		in.GlobalSequence,
		strings.ToUpper(in.ClientInitials),
		in.ClientSequence,
		strings.ToUpper(in.ProjectAbbr),
		in.ProjectSequence,
	)
}

// FormatDateNumber renders the date scheme: #{YYYYMMDD}-{global:03d}.
// Client and project metadata are ignored.
func FormatDateNumber(in NumberInput) string {
	return fmt.Sprintf("#%s-%03d", in.Date.Format("20060102"), in.GlobalSequence)
}

// FormatNumber dispatches on the configured scheme
func FormatNumber(scheme NumberScheme, in NumberInput) string {
	if scheme == NumberSchemeDate {
		return FormatDateNumber(in)
	}
	return FormatCompositeNumber(in)
}

// DraftPlaceholder is the number used for invoices without a project under
// the composite scheme. It references the invoice's own identifier so the
// draft is addressable before a real number exists.
func DraftPlaceholder(id fmt.Stringer) string {
	return "DRAFT-" + id.String()
}
