// Package document renders invoices into PDF files. The renderer consumes
// fully computed values (formatted number, line totals, net/VAT/gross) and
// never recalculates them.
package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"github.com/faktura/backend/internal/domain/invoicing"
)

// InvoiceLine is one printed line item with its computed total
type InvoiceLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitRate    decimal.Decimal
	Total       decimal.Decimal
	ApplyVAT    bool
}

// InvoiceDocument carries everything the renderer prints
type InvoiceDocument struct {
	Number       string
	Date         time.Time
	DueDate      time.Time
	Language     invoicing.Language
	VATLabel     invoicing.VATLabel
	VATRate      decimal.Decimal
	CompanyName  string
	CompanyLines []string
	ClientName   string
	ClientLines  []string
	ProjectName  string
	Lines        []InvoiceLine
	NetTotal     decimal.Decimal
	VATAmount    decimal.Decimal
	GrossTotal   decimal.Decimal
	Notes        string
	PaymentNotes string
}

// Renderer produces invoice PDFs
type Renderer struct {
	pageSize string
}

// NewRenderer creates a Renderer for the given page size (e.g. "A4")
func NewRenderer(pageSize string) *Renderer {
	if pageSize == "" {
		pageSize = "A4"
	}
	return &Renderer{pageSize: pageSize}
}

type labels struct {
	invoice, date, dueDate, project   string
	description, qty, rate, amount    string
	net, gross, notes, paymentDetails string
}

func labelsFor(lang invoicing.Language) labels {
	if lang == invoicing.LanguageGerman {
		return labels{
			invoice: "Rechnung", date: "Datum", dueDate: "Fällig am", project: "Projekt",
			description: "Beschreibung", qty: "Menge", rate: "Satz", amount: "Betrag",
			net: "Netto", gross: "Gesamt", notes: "Anmerkungen", paymentDetails: "Zahlungsinformationen",
		}
	}
	return labels{
		invoice: "Invoice", date: "Date", dueDate: "Due date", project: "Project",
		description: "Description", qty: "Qty", rate: "Rate", amount: "Amount",
		net: "Net", gross: "Total", notes: "Notes", paymentDetails: "Payment details",
	}
}

func vatLabelText(label invoicing.VATLabel, rate decimal.Decimal) string {
	name := "VAT"
	if label == invoicing.VATLabelMwSt {
		name = "MwSt."
	}
	return fmt.Sprintf("%s %s%%", name, rate.StringFixed(0))
}

// Render produces the PDF bytes for an invoice document
func (r *Renderer) Render(doc InvoiceDocument) ([]byte, error) {
	l := labelsFor(doc.Language)

	pdf := gofpdf.New("P", "mm", r.pageSize, "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	// Sender block
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(170, 7, translate(doc.CompanyName), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range doc.CompanyLines {
		pdf.CellFormat(170, 4.5, translate(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Recipient block
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(170, 5, translate(doc.ClientName), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, line := range doc.ClientLines {
		pdf.CellFormat(170, 4.5, translate(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Title and metadata
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(170, 8, translate(fmt.Sprintf("%s %s", l.invoice, doc.Number)), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(170, 4.5, fmt.Sprintf("%s: %s", l.date, doc.Date.Format("02.01.2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(170, 4.5, translate(fmt.Sprintf("%s: %s", l.dueDate, doc.DueDate.Format("02.01.2006"))), "", 1, "L", false, 0, "")
	if doc.ProjectName != "" {
		pdf.CellFormat(170, 4.5, translate(fmt.Sprintf("%s: %s", l.project, doc.ProjectName)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Line item table
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(85, 7, translate(l.description), "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, translate(l.qty), "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, translate(l.rate), "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, translate(l.amount), "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, line := range doc.Lines {
		pdf.CellFormat(85, 6, translate(line.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, line.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, line.UnitRate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, line.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(140, 6, translate(l.net), "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, doc.NetTotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(140, 6, translate(vatLabelText(doc.VATLabel, doc.VATRate)), "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, doc.VATAmount.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(140, 7, translate(l.gross), "T", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, doc.GrossTotal.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 9)
	if doc.Notes != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(170, 5, translate(l.notes), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(170, 4.5, translate(doc.Notes), "", "L", false)
		pdf.Ln(3)
	}
	if doc.PaymentNotes != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(170, 5, translate(l.paymentDetails), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(170, 4.5, translate(doc.PaymentNotes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
