package session

import (
	"sync"
	"time"

	"github.com/ridwanfathin/invoice-builder-service/internal/domain"
)

// idSequence hands out line-item ids. Ids are monotonic within a
// session and are never reused after deletion.
type idSequence struct {
	next func() int64
}

func newIDSequence(start int64) *idSequence {
	current := start
	return &idSequence{
		next: func() int64 {
			current++
			return current
		},
	}
}

// Controller owns the single mutable invoice document for a session.
// All mutations go through Apply, which serializes access; readers get
// deep-copy snapshots so in-flight exports never observe a torn frame.
type Controller struct {
	mu  sync.Mutex
	doc *domain.InvoiceDocument
	ids *idSequence
}

// NewController creates a controller seeded with the session's sample
// document
func NewController() *Controller {
	return NewControllerWithDocument(domain.NewDocument())
}

// NewControllerWithDocument creates a controller around an existing
// document. The id sequence starts past both the highest existing item
// id and the session start time, so generated ids never collide with
// seeded ones.
func NewControllerWithDocument(doc *domain.InvoiceDocument) *Controller {
	if doc == nil {
		doc = domain.NewDocument()
	}
	doc = doc.Clone()
	if doc.LineItems == nil {
		doc.LineItems = []domain.LineItem{}
	}

	start := time.Now().UnixMilli()
	for _, item := range doc.LineItems {
		if item.ID > start {
			start = item.ID
		}
	}

	return &Controller{
		doc: doc,
		ids: newIDSequence(start),
	}
}

// Apply executes one update operation against the document
func (c *Controller) Apply(op Op) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return op.apply(c.doc, c.ids)
}

// Snapshot returns a deep copy of the current document
func (c *Controller) Snapshot() *domain.InvoiceDocument {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

// Totals recomputes the money breakdown from the current document.
// Nothing is cached across mutations; every call derives fresh figures.
func (c *Controller) Totals() domain.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.ComputeTotals(c.doc.LineItems, c.doc.TaxRatePercent, c.doc.DiscountPercent)
}
