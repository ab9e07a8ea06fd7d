package domain

import (
	"crypto/rand"
	"encoding/json"
	"time"
)

// DateOnly is a custom type for handling date-only strings from JSON
type DateOnly struct {
	time.Time
}

// UnmarshalJSON implements custom unmarshaling for date-only strings
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	// Handle null/empty dates
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	// Parse date-only format
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements custom marshaling for date-only strings
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format("2006-01-02"))
}

// Sender holds the issuing party's contact details
type Sender struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

// Recipient holds the billed party's contact details
type Recipient struct {
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientAddress string `json:"client_address"`
	ClientPhone   string `json:"client_phone"`
}

// Metadata holds invoice-level details: number, dates and free-form
// notes. A zero DueDate means the invoice is due upon receipt.
type Metadata struct {
	InvoiceNumber string   `json:"invoice_number"`
	IssueDate     DateOnly `json:"issue_date"`
	DueDate       DateOnly `json:"due_date"`
	Notes         string   `json:"notes"`
}

// LineItem represents a single billable row in an invoice
type LineItem struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// InvoiceDocument is the root aggregate for one editing session. It is
// owned exclusively by the session controller; everything else reads
// snapshots of it.
type InvoiceDocument struct {
	Sender          Sender     `json:"sender"`
	Recipient       Recipient  `json:"recipient"`
	Metadata        Metadata   `json:"metadata"`
	LineItems       []LineItem `json:"line_items"`
	TaxRatePercent  float64    `json:"tax_rate_percent"`
	DiscountPercent float64    `json:"discount_percent"`
}

// Default placeholder values used whenever a document field is empty.
// Rendering must never fail on a partially-populated document, so every
// fallback lives here and nowhere else.
var (
	DefaultSender = Sender{
		CompanyName: "Your Company Name",
		Email:       "your.email@example.com",
		Address:     "123 Main St, City, Country",
		Phone:       "+1 (555) 123-4567",
	}
	DefaultRecipient = Recipient{
		ClientName:    "Client Name",
		ClientEmail:   "client.email@example.com",
		ClientAddress: "456 Client Ave, Town, Country",
		ClientPhone:   "+1 (555) 987-6543",
	}
	DefaultNotes = "Thank you for your business! Payment is due within 15 days."
)

const invoiceNumberCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateInvoiceNumber returns a random alphanumeric token prefixed
// with "#INV-", e.g. "#INV-K3QX07ZB1".
func GenerateInvoiceNumber() string {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		// rand.Read only fails when the system entropy source is broken
		return "#INV-000000000"
	}
	for i, b := range buf {
		buf[i] = invoiceNumberCharset[int(b)%len(invoiceNumberCharset)]
	}
	return "#INV-" + string(buf)
}

// NewDocument creates the session's initial invoice with sample content
// so the preview is never empty.
func NewDocument() *InvoiceDocument {
	return &InvoiceDocument{
		Sender:    DefaultSender,
		Recipient: DefaultRecipient,
		Metadata: Metadata{
			InvoiceNumber: GenerateInvoiceNumber(),
			IssueDate:     DateOnly{Time: time.Now().Truncate(24 * time.Hour)},
			Notes:         DefaultNotes,
		},
		LineItems: []LineItem{
			{ID: 1, Description: "Web Design Services", Quantity: 1, UnitPrice: 750},
			{ID: 2, Description: "Hosting (1 Year)", Quantity: 1, UnitPrice: 120},
		},
		TaxRatePercent:  10,
		DiscountPercent: 0,
	}
}

// Clone returns a deep copy of the document
func (d *InvoiceDocument) Clone() *InvoiceDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.LineItems = make([]LineItem, len(d.LineItems))
	copy(out.LineItems, d.LineItems)
	return &out
}

// ResolveWithDefaults returns a deep copy of the document with every
// empty field replaced by its documented default. This is the single
// fallback resolution point; renderers and exporters receive fully
// populated documents and never apply fallbacks of their own.
func ResolveWithDefaults(d *InvoiceDocument) *InvoiceDocument {
	if d == nil {
		d = &InvoiceDocument{}
	}
	out := d.Clone()

	if out.Sender.CompanyName == "" {
		out.Sender.CompanyName = DefaultSender.CompanyName
	}
	if out.Sender.Email == "" {
		out.Sender.Email = DefaultSender.Email
	}
	if out.Sender.Address == "" {
		out.Sender.Address = DefaultSender.Address
	}
	if out.Sender.Phone == "" {
		out.Sender.Phone = DefaultSender.Phone
	}

	if out.Recipient.ClientName == "" {
		out.Recipient.ClientName = DefaultRecipient.ClientName
	}
	if out.Recipient.ClientEmail == "" {
		out.Recipient.ClientEmail = DefaultRecipient.ClientEmail
	}
	if out.Recipient.ClientAddress == "" {
		out.Recipient.ClientAddress = DefaultRecipient.ClientAddress
	}
	if out.Recipient.ClientPhone == "" {
		out.Recipient.ClientPhone = DefaultRecipient.ClientPhone
	}

	if out.Metadata.InvoiceNumber == "" {
		out.Metadata.InvoiceNumber = "#INV-0001"
	}
	if out.Metadata.IssueDate.IsZero() {
		out.Metadata.IssueDate = DateOnly{Time: time.Now().Truncate(24 * time.Hour)}
	}
	// DueDate stays zero when absent: "due upon receipt"

	if out.LineItems == nil {
		out.LineItems = []LineItem{}
	}

	return out
}
