package session

import (
	"fmt"

	"github.com/ridwanfathin/invoice-builder-service/internal/domain"
)

// SessionError represents an error that occurred while applying an
// update operation to the session document
type SessionError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *SessionError) Unwrap() error {
	return e.Err
}

// ErrItemNotFound reports a line-item operation against an unknown id
var ErrItemNotFound = fmt.Errorf("line item not found")

// ErrUnknownField reports an update against a field the section does
// not have
var ErrUnknownField = fmt.Errorf("unknown field")

// Op is one update operation over the invoice document. The set of
// implementations is closed: UpdateSender, UpdateRecipient,
// UpdateMetadata, UpdateRates, AddItem, RemoveItem and UpdateItem.
// Each replaces exactly one leaf value (or one row) and leaves sibling
// fields untouched.
type Op interface {
	apply(doc *domain.InvoiceDocument, ids *idSequence) error
}

// UpdateSender replaces one field of the sender block
type UpdateSender struct {
	Field string
	Value string
}

func (op UpdateSender) apply(doc *domain.InvoiceDocument, _ *idSequence) error {
	sender := doc.Sender
	switch op.Field {
	case "company_name":
		sender.CompanyName = op.Value
	case "email":
		sender.Email = op.Value
	case "address":
		sender.Address = op.Value
	case "phone":
		sender.Phone = op.Value
	default:
		return &SessionError{Op: "update_sender", Err: fmt.Errorf("%w: %q", ErrUnknownField, op.Field)}
	}
	doc.Sender = sender
	return nil
}

// UpdateRecipient replaces one field of the "Bill To" block
type UpdateRecipient struct {
	Field string
	Value string
}

func (op UpdateRecipient) apply(doc *domain.InvoiceDocument, _ *idSequence) error {
	recipient := doc.Recipient
	switch op.Field {
	case "client_name":
		recipient.ClientName = op.Value
	case "client_email":
		recipient.ClientEmail = op.Value
	case "client_address":
		recipient.ClientAddress = op.Value
	case "client_phone":
		recipient.ClientPhone = op.Value
	default:
		return &SessionError{Op: "update_recipient", Err: fmt.Errorf("%w: %q", ErrUnknownField, op.Field)}
	}
	doc.Recipient = recipient
	return nil
}

// UpdateMetadata replaces one field of the invoice metadata block.
// Dates arrive as YYYY-MM-DD strings; an empty due date means "due
// upon receipt".
type UpdateMetadata struct {
	Field string
	Value string
}

func (op UpdateMetadata) apply(doc *domain.InvoiceDocument, _ *idSequence) error {
	meta := doc.Metadata
	switch op.Field {
	case "invoice_number":
		meta.InvoiceNumber = op.Value
	case "issue_date":
		date, err := parseDateValue(op.Value)
		if err != nil {
			return &SessionError{Op: "update_metadata", Err: err}
		}
		meta.IssueDate = date
	case "due_date":
		date, err := parseDateValue(op.Value)
		if err != nil {
			return &SessionError{Op: "update_metadata", Err: err}
		}
		meta.DueDate = date
	case "notes":
		meta.Notes = op.Value
	default:
		return &SessionError{Op: "update_metadata", Err: fmt.Errorf("%w: %q", ErrUnknownField, op.Field)}
	}
	doc.Metadata = meta
	return nil
}

// UpdateRates replaces one of the document-level rate fields. Values
// go through the numeric coercion rule: empty or invalid input becomes
// 0, never NaN.
type UpdateRates struct {
	Field string
	Value string
}

func (op UpdateRates) apply(doc *domain.InvoiceDocument, _ *idSequence) error {
	switch op.Field {
	case "tax_rate_percent":
		doc.TaxRatePercent = domain.CoerceNumber(op.Value)
	case "discount_percent":
		doc.DiscountPercent = domain.CoerceNumber(op.Value)
	default:
		return &SessionError{Op: "update_rates", Err: fmt.Errorf("%w: %q", ErrUnknownField, op.Field)}
	}
	return nil
}

// AddItem appends a new line item with a freshly generated id, empty
// description, quantity 1 and price 0
type AddItem struct{}

func (op AddItem) apply(doc *domain.InvoiceDocument, ids *idSequence) error {
	item := domain.LineItem{
		ID:       ids.next(),
		Quantity: 1,
	}
	items := make([]domain.LineItem, len(doc.LineItems), len(doc.LineItems)+1)
	copy(items, doc.LineItems)
	doc.LineItems = append(items, item)
	return nil
}

// RemoveItem removes the line item with the matching id. Removing the
// last remaining item is allowed at the model level; keeping at least
// one visible row is a UI concern.
type RemoveItem struct {
	ID int64
}

func (op RemoveItem) apply(doc *domain.InvoiceDocument, _ *idSequence) error {
	items := make([]domain.LineItem, 0, len(doc.LineItems))
	found := false
	for _, item := range doc.LineItems {
		if item.ID == op.ID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return &SessionError{Op: "remove_item", Err: fmt.Errorf("%w: id %d", ErrItemNotFound, op.ID)}
	}
	doc.LineItems = items
	return nil
}

// UpdateItem replaces one field of one line item. Quantity and unit
// price go through numeric coercion.
type UpdateItem struct {
	ID    int64
	Field string
	Value string
}

func (op UpdateItem) apply(doc *domain.InvoiceDocument, _ *idSequence) error {
	items := make([]domain.LineItem, len(doc.LineItems))
	copy(items, doc.LineItems)

	for i := range items {
		if items[i].ID != op.ID {
			continue
		}
		switch op.Field {
		case "description":
			items[i].Description = op.Value
		case "quantity":
			items[i].Quantity = domain.CoerceNumber(op.Value)
		case "unit_price":
			items[i].UnitPrice = domain.CoerceNumber(op.Value)
		default:
			return &SessionError{Op: "update_item", Err: fmt.Errorf("%w: %q", ErrUnknownField, op.Field)}
		}
		doc.LineItems = items
		return nil
	}
	return &SessionError{Op: "update_item", Err: fmt.Errorf("%w: id %d", ErrItemNotFound, op.ID)}
}

func parseDateValue(value string) (domain.DateOnly, error) {
	var date domain.DateOnly
	if value == "" {
		return date, nil
	}
	if err := date.UnmarshalJSON([]byte(`"` + value + `"`)); err != nil {
		return date, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return date, nil
}
