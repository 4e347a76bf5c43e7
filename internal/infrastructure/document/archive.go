package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Archive stores rendered invoice PDFs on disk, one directory per tenant
type Archive struct {
	outputDir string
}

// NewArchive creates an Archive rooted at outputDir
func NewArchive(outputDir string) *Archive {
	return &Archive{outputDir: outputDir}
}

// fileName turns an invoice number into a safe file name. The composite
// scheme's '#' and any path separators are stripped.
func fileName(number string) string {
	name := strings.NewReplacer("#", "", "/", "-", "\\", "-", " ", "_").Replace(number)
	return name + ".pdf"
}

// Store writes the rendered PDF for an invoice number and returns its path
func (a *Archive) Store(tenantDir, number string, data []byte) (string, error) {
	if number == "" {
		return "", fmt.Errorf("cannot archive a document without a number")
	}
	dir := filepath.Join(a.outputDir, tenantDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	path := filepath.Join(dir, fileName(number))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write archived document: %w", err)
	}
	return path, nil
}

// List returns the archived document file names for a tenant, sorted
func (a *Archive) List(tenantDir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.outputDir, tenantDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".pdf") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the bytes of an archived document
func (a *Archive) Read(tenantDir, name string) ([]byte, error) {
	if filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid document name %q", name)
	}
	return os.ReadFile(filepath.Join(a.outputDir, tenantDir, name))
}
