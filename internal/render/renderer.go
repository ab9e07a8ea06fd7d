// Package render projects an invoice document into the fixed-width,
// variable-height visual document used by both the live preview and
// the export pipeline. Rendering is a pure function of the document
// and its totals: no I/O, no mutation, deterministic output.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/ridwanfathin/invoice-builder-service/internal/domain"
)

// PageWidthPx is the visual document's fixed width: an A4 page at
// 96 dpi. Height is content-driven.
const PageWidthPx = 794

//go:embed templates/invoice.html
var invoiceTemplate string

// VisualDocument is the rendered invoice: fixed pixel width, HTML body
// whose laid-out height depends on content.
type VisualDocument struct {
	HTML        string
	PageWidthPx int
}

// Renderer renders invoice documents to HTML
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded invoice template
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("invoice").Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// templateRow is one pre-formatted line-item row
type templateRow struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// templateData carries only pre-formatted strings so the template does
// no arithmetic or fallback logic of its own
type templateData struct {
	Sender    domain.Sender
	Recipient domain.Recipient

	InvoiceNumber string
	IssueDate     string
	DueDate       string
	DueText       string
	Notes         string

	Rows    []templateRow
	HasRows bool

	Subtotal        string
	ShowDiscount    bool
	DiscountPercent string
	DiscountAmount  string
	ShowTax         bool
	TaxRatePercent  string
	TaxAmount       string
	GrandTotal      string

	PageWidthPx int
}

// Render produces the visual document for a document and its totals.
// The document is resolved against the documented defaults first, so
// rendering is total over partially-populated input. Both arguments
// must describe the same document state; callers derive totals from
// the same snapshot they pass here.
func (r *Renderer) Render(doc *domain.InvoiceDocument, totals domain.Totals) (*VisualDocument, error) {
	resolved := domain.ResolveWithDefaults(doc)

	data := templateData{
		Sender:        resolved.Sender,
		Recipient:     resolved.Recipient,
		InvoiceNumber: resolved.Metadata.InvoiceNumber,
		IssueDate:     formatLongDate(resolved.Metadata.IssueDate),
		Notes:         resolved.Metadata.Notes,

		Subtotal:        domain.FormatMoney(totals.Subtotal),
		ShowDiscount:    resolved.DiscountPercent > 0,
		DiscountPercent: domain.FormatRate(resolved.DiscountPercent),
		DiscountAmount:  domain.FormatMoney(totals.DiscountAmount),
		ShowTax:         resolved.TaxRatePercent > 0,
		TaxRatePercent:  domain.FormatRate(resolved.TaxRatePercent),
		TaxAmount:       domain.FormatMoney(totals.TaxAmount),
		GrandTotal:      domain.FormatMoney(totals.GrandTotal),

		PageWidthPx: PageWidthPx,
	}

	if resolved.Metadata.DueDate.IsZero() {
		data.DueText = "Due upon receipt"
	} else {
		data.DueDate = formatLongDate(resolved.Metadata.DueDate)
		data.DueText = "Due by " + data.DueDate
	}

	for _, item := range resolved.LineItems {
		description := item.Description
		if description == "" {
			description = "Item description"
		}
		data.Rows = append(data.Rows, templateRow{
			Description: description,
			Quantity:    domain.FormatRate(item.Quantity),
			UnitPrice:   domain.FormatMoney(domain.MoneyFromFloat(item.UnitPrice)),
			Amount:      domain.FormatMoney(domain.LineAmount(item)),
		})
	}
	data.HasRows = len(data.Rows) > 0

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	return &VisualDocument{
		HTML:        buf.String(),
		PageWidthPx: PageWidthPx,
	}, nil
}

// formatLongDate renders a date in long form, e.g. "January 2, 2006"
func formatLongDate(d domain.DateOnly) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("January 2, 2006")
}
