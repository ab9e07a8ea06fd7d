package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateInvoiceNumber verifies the "#INV-" prefix and token shape
func TestGenerateInvoiceNumber(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		num := GenerateInvoiceNumber()

		assert.True(t, strings.HasPrefix(num, "#INV-"), "number %q should have #INV- prefix", num)
		assert.Len(t, num, len("#INV-")+9)

		for _, r := range num[len("#INV-"):] {
			assert.Contains(t, invoiceNumberCharset, string(r))
		}
		seen[num] = true
	}

	// 50 draws from a 36^9 space colliding down to a handful would mean
	// the generator is broken
	assert.Greater(t, len(seen), 40, "generated numbers should be distinct")
}

// TestNewDocument verifies the sample document the session starts with
func TestNewDocument(t *testing.T) {
	doc := NewDocument()

	assert.Equal(t, DefaultSender, doc.Sender)
	assert.Equal(t, DefaultRecipient, doc.Recipient)
	assert.True(t, strings.HasPrefix(doc.Metadata.InvoiceNumber, "#INV-"))
	assert.False(t, doc.Metadata.IssueDate.IsZero())
	assert.True(t, doc.Metadata.DueDate.IsZero(), "sample document is due upon receipt")
	assert.Equal(t, DefaultNotes, doc.Metadata.Notes)

	require.Len(t, doc.LineItems, 2)
	assert.Equal(t, "Web Design Services", doc.LineItems[0].Description)
	assert.Equal(t, float64(750), doc.LineItems[0].UnitPrice)
	assert.Equal(t, "Hosting (1 Year)", doc.LineItems[1].Description)
	assert.Equal(t, float64(120), doc.LineItems[1].UnitPrice)

	assert.Equal(t, float64(10), doc.TaxRatePercent)
	assert.Equal(t, float64(0), doc.DiscountPercent)
}

// TestCloneIsolation verifies mutating a clone never touches the source
func TestCloneIsolation(t *testing.T) {
	doc := NewDocument()
	clone := doc.Clone()

	clone.Sender.CompanyName = "Changed Co"
	clone.LineItems[0].UnitPrice = 999
	clone.LineItems = append(clone.LineItems, LineItem{ID: 99, Description: "Extra"})

	assert.Equal(t, DefaultSender.CompanyName, doc.Sender.CompanyName)
	assert.Equal(t, float64(750), doc.LineItems[0].UnitPrice)
	assert.Len(t, doc.LineItems, 2)
}

// TestResolveWithDefaults verifies empty fields fall back to their
// documented defaults while populated fields survive untouched.
func TestResolveWithDefaults(t *testing.T) {
	doc := &InvoiceDocument{
		Sender: Sender{CompanyName: "Acme Corp"},
		Metadata: Metadata{
			Notes: "Net 30",
		},
	}

	resolved := ResolveWithDefaults(doc)

	// Populated fields stay
	assert.Equal(t, "Acme Corp", resolved.Sender.CompanyName)
	assert.Equal(t, "Net 30", resolved.Metadata.Notes)

	// Empty fields fall back
	assert.Equal(t, DefaultSender.Email, resolved.Sender.Email)
	assert.Equal(t, DefaultRecipient.ClientName, resolved.Recipient.ClientName)
	assert.Equal(t, "#INV-0001", resolved.Metadata.InvoiceNumber)
	assert.False(t, resolved.Metadata.IssueDate.IsZero())
	assert.True(t, resolved.Metadata.DueDate.IsZero(), "absent due date stays zero: due upon receipt")
	assert.NotNil(t, resolved.LineItems)
	assert.Empty(t, resolved.LineItems)

	// The source document is untouched
	assert.Equal(t, "", doc.Sender.Email)
	assert.Nil(t, doc.LineItems)
}

// TestResolveWithDefaultsNil verifies a nil document resolves to a fully
// defaulted one instead of panicking.
func TestResolveWithDefaultsNil(t *testing.T) {
	resolved := ResolveWithDefaults(nil)

	require.NotNil(t, resolved)
	assert.Equal(t, DefaultSender, resolved.Sender)
	assert.Equal(t, DefaultRecipient, resolved.Recipient)
	assert.NotNil(t, resolved.LineItems)
}

// TestDateOnlyJSON checks round-tripping of the date-only JSON format
func TestDateOnlyJSON(t *testing.T) {
	var d DateOnly
	require.NoError(t, json.Unmarshal([]byte(`"2026-08-28"`), &d))
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), d.Time)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-28"`, string(out))

	// Empty and null inputs become the zero date
	var empty DateOnly
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	assert.True(t, empty.IsZero())

	out, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	// Malformed dates are rejected
	var bad DateOnly
	assert.Error(t, json.Unmarshal([]byte(`"28/08/2026"`), &bad))
}
