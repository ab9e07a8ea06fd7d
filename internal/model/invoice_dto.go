package model

import (
	"github.com/ridwanfathin/invoice-builder-service/internal/domain"
)

// LineItemDTO represents a single line item for data transfer. Amount
// is the presentation-rounded quantity * unit price.
type LineItemDTO struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      string  `json:"amount"`
}

// SenderDTO represents the issuing party for data transfer
type SenderDTO struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

// RecipientDTO represents the billed party for data transfer
type RecipientDTO struct {
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientAddress string `json:"client_address"`
	ClientPhone   string `json:"client_phone"`
}

// MetadataDTO represents invoice-level details for data transfer.
// Dates use YYYY-MM-DD; an empty due date means "due upon receipt".
type MetadataDTO struct {
	InvoiceNumber string `json:"invoice_number"`
	IssueDate     string `json:"issue_date"`
	DueDate       string `json:"due_date"`
	Notes         string `json:"notes"`
}

// InvoiceDTO represents the full invoice document for data transfer
type InvoiceDTO struct {
	Sender          SenderDTO     `json:"sender"`
	Recipient       RecipientDTO  `json:"recipient"`
	Metadata        MetadataDTO   `json:"metadata"`
	Items           []LineItemDTO `json:"items"`
	TaxRatePercent  float64       `json:"tax_rate_percent"`
	DiscountPercent float64       `json:"discount_percent"`
}

// TotalsDTO represents the derived money breakdown, rounded to two
// decimal places for presentation
type TotalsDTO struct {
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discount_amount"`
	TaxableAmount  string `json:"taxable_amount"`
	TaxAmount      string `json:"tax_amount"`
	GrandTotal     string `json:"grand_total"`
}

// DocumentResponse bundles the current document with its fresh totals
type DocumentResponse struct {
	Invoice InvoiceDTO `json:"invoice"`
	Totals  TotalsDTO  `json:"totals"`
}

// FromDomain converts a domain InvoiceDocument to an InvoiceDTO
func (dto *InvoiceDTO) FromDomain(doc *domain.InvoiceDocument) {
	dto.Sender = SenderDTO{
		CompanyName: doc.Sender.CompanyName,
		Email:       doc.Sender.Email,
		Address:     doc.Sender.Address,
		Phone:       doc.Sender.Phone,
	}
	dto.Recipient = RecipientDTO{
		ClientName:    doc.Recipient.ClientName,
		ClientEmail:   doc.Recipient.ClientEmail,
		ClientAddress: doc.Recipient.ClientAddress,
		ClientPhone:   doc.Recipient.ClientPhone,
	}
	dto.Metadata = MetadataDTO{
		InvoiceNumber: doc.Metadata.InvoiceNumber,
		Notes:         doc.Metadata.Notes,
	}
	if !doc.Metadata.IssueDate.IsZero() {
		dto.Metadata.IssueDate = doc.Metadata.IssueDate.Format("2006-01-02")
	}
	if !doc.Metadata.DueDate.IsZero() {
		dto.Metadata.DueDate = doc.Metadata.DueDate.Format("2006-01-02")
	}

	dto.TaxRatePercent = doc.TaxRatePercent
	dto.DiscountPercent = doc.DiscountPercent

	dto.Items = make([]LineItemDTO, len(doc.LineItems))
	for i, item := range doc.LineItems {
		dto.Items[i] = LineItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      domain.LineAmount(item).StringFixed(2),
		}
	}
}

// FromDomain converts domain Totals to a TotalsDTO
func (dto *TotalsDTO) FromDomain(totals domain.Totals) {
	dto.Subtotal = totals.Subtotal.StringFixed(2)
	dto.DiscountAmount = totals.DiscountAmount.StringFixed(2)
	dto.TaxableAmount = totals.TaxableAmount.StringFixed(2)
	dto.TaxAmount = totals.TaxAmount.StringFixed(2)
	dto.GrandTotal = totals.GrandTotal.StringFixed(2)
}

// UpdateFieldRequest carries one field-level edit event: replace the
// named field of a section (or of one line item) with the given value
type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// ImageGenerationRequest represents a text-to-image request for the
// optional image generation integration
type ImageGenerationRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// ExportListResponse lists stored export artifacts
type ExportListResponse struct {
	Data []ExportInfoDTO `json:"data"`
}

// ExportInfoDTO represents one stored export artifact
type ExportInfoDTO struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	PageCount   int    `json:"page_count"`
	SizeBytes   int64  `json:"size_bytes"`
	GeneratedAt string `json:"generated_at"`
}

// ErrorDetail represents a single field-level error detail
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}
