package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLineItem represents a line item in API responses
type TestLineItem struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      string  `json:"amount"`
}

// TestTotals represents the derived money breakdown in API responses
type TestTotals struct {
	Subtotal       string `json:"subtotal"`
	DiscountAmount string `json:"discount_amount"`
	TaxableAmount  string `json:"taxable_amount"`
	TaxAmount      string `json:"tax_amount"`
	GrandTotal     string `json:"grand_total"`
}

// TestDocumentResponse represents the combined document + totals payload
type TestDocumentResponse struct {
	Invoice struct {
		Sender struct {
			CompanyName string `json:"company_name"`
		} `json:"sender"`
		Metadata struct {
			InvoiceNumber string `json:"invoice_number"`
		} `json:"metadata"`
		Items []TestLineItem `json:"items"`
	} `json:"invoice"`
	Totals TestTotals `json:"totals"`
}

// TestInvoiceAPI exercises the invoice builder endpoints against a
// running server. Requires a live instance; set API_BASE_URL or run
// the server locally on port 8080. The export test additionally needs
// a working headless Chrome, so it is gated behind RUN_EXPORT_TESTS.
func TestInvoiceAPI(t *testing.T) {
	// Configure base URL - use environment variable or default
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/v1"
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	// Skip the whole suite when no server is reachable
	if _, err := client.Get(strings.TrimSuffix(baseURL, "/v1") + "/health"); err != nil {
		t.Skipf("Skipping integration tests: no server at %s (%v)", baseURL, err)
	}

	getDocument := func(t *testing.T) TestDocumentResponse {
		t.Helper()
		resp, err := client.Get(fmt.Sprintf("%s/invoice", baseURL))
		require.NoError(t, err, "Failed to fetch invoice")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var doc TestDocumentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		return doc
	}

	putField := func(t *testing.T, path, field, value string) *http.Response {
		t.Helper()
		payload, err := json.Marshal(map[string]string{"field": field, "value": value})
		require.NoError(t, err)

		req, err := http.NewRequest(http.MethodPut, baseURL+path, bytes.NewBuffer(payload))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		require.NoError(t, err, "Failed to execute request")
		return resp
	}

	// 1. Test fetching the initial document
	t.Run("GetInvoice", func(t *testing.T) {
		doc := getDocument(t)

		assert.True(t, strings.HasPrefix(doc.Invoice.Metadata.InvoiceNumber, "#INV-"),
			"Invoice number should carry the #INV- prefix")
		assert.NotEmpty(t, doc.Invoice.Items, "Initial document should ship with sample items")
		assert.NotEmpty(t, doc.Totals.GrandTotal, "Totals should always be present")
	})

	// 2. Test updating a sender field
	t.Run("UpdateSender", func(t *testing.T) {
		resp := putField(t, "/invoice/sender", "company_name", "Integration Test Co")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		doc := getDocument(t)
		assert.Equal(t, "Integration Test Co", doc.Invoice.Sender.CompanyName)
	})

	// 3. Test unknown fields are rejected
	t.Run("UpdateUnknownField", func(t *testing.T) {
		resp := putField(t, "/invoice/sender", "no_such_field", "x")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// 4. Test the line item lifecycle
	t.Run("ItemLifecycle", func(t *testing.T) {
		before := getDocument(t)

		// Add an item
		resp, err := client.Post(fmt.Sprintf("%s/invoice/items", baseURL), "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var doc TestDocumentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		require.Len(t, doc.Invoice.Items, len(before.Invoice.Items)+1)

		added := doc.Invoice.Items[len(doc.Invoice.Items)-1]
		assert.Equal(t, float64(1), added.Quantity, "New items start with quantity 1")

		// Give it a price and check the totals move
		resp = putField(t, fmt.Sprintf("/invoice/items/%d", added.ID), "unit_price", "50")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		assert.NotEqual(t, before.Totals.Subtotal, doc.Totals.Subtotal)

		// Remove it again
		req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/invoice/items/%d", baseURL, added.ID), nil)
		require.NoError(t, err)
		delResp, err := client.Do(req)
		require.NoError(t, err)
		defer delResp.Body.Close()
		require.Equal(t, http.StatusOK, delResp.StatusCode)

		after := getDocument(t)
		assert.Len(t, after.Invoice.Items, len(before.Invoice.Items))
		assert.Equal(t, before.Totals.Subtotal, after.Totals.Subtotal)
	})

	// 5. Test removing an unknown item returns 404
	t.Run("RemoveUnknownItem", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/invoice/items/424242", baseURL), nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	// 6. Test the HTML preview
	t.Run("GetPreview", func(t *testing.T) {
		resp, err := client.Get(fmt.Sprintf("%s/invoice/preview", baseURL))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "INVOICE")
	})

	// 7. Test exporting the invoice as PDF
	t.Run("ExportInvoice", func(t *testing.T) {
		// Skip unless explicitly enabled: the export pipeline needs a
		// working headless Chrome on the server host
		if os.Getenv("RUN_EXPORT_TESTS") == "" {
			t.Skip("Skipping export test as RUN_EXPORT_TESTS is not set")
		}

		resp, err := client.Post(fmt.Sprintf("%s/invoice/export", baseURL), "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Greater(t, len(body), 4)
		assert.Equal(t, "%PDF", string(body[:4]))

		// The finished export should now appear in the staging list
		listResp, err := client.Get(fmt.Sprintf("%s/exports", baseURL))
		require.NoError(t, err)
		defer listResp.Body.Close()
		require.Equal(t, http.StatusOK, listResp.StatusCode)

		var list struct {
			Data []struct {
				ID        string `json:"id"`
				PageCount int    `json:"page_count"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
		assert.NotEmpty(t, list.Data, "Export should be staged for re-download")
	})
}
