package domain

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Totals is the derived money breakdown for a document. It is computed
// on demand and never stored; callers that need current figures call
// ComputeTotals again.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

var hundred = decimal.NewFromInt(100)

// CoerceNumber converts free-text numeric input to a float64. Empty or
// non-numeric input becomes 0; NaN and infinities never survive. This
// is the model invariant that keeps invalid input out of the
// calculator, not a UI convenience.
func CoerceNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// safeAmount brings a stored float into decimal space, clamping
// negatives to zero and mapping NaN/Inf to zero.
func safeAmount(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// MoneyFromFloat brings a single stored amount into decimal space with
// the same clamping rules the calculator uses
func MoneyFromFloat(f float64) decimal.Decimal {
	return safeAmount(f)
}

// LineAmount returns quantity * unit price for one item, with negative
// inputs clamped to zero. A line item cannot produce negative revenue.
func LineAmount(item LineItem) decimal.Decimal {
	return safeAmount(item.Quantity).Mul(safeAmount(item.UnitPrice))
}

// ComputeTotals turns line items plus tax and discount rates into the
// full money breakdown:
//
//	subtotal       = sum of line amounts
//	discountAmount = subtotal * discount%/100
//	taxableAmount  = subtotal - discountAmount
//	taxAmount      = taxableAmount * tax%/100
//	grandTotal     = taxableAmount + taxAmount
//
// The function is pure and total over all numeric inputs. Rounding to
// two decimals happens only at presentation time; intermediate values
// keep full precision so discount and tax stages do not compound
// rounding error.
func ComputeTotals(items []LineItem, taxRatePercent, discountPercent float64) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineAmount(item))
	}

	discountAmount := subtotal.Mul(safeAmount(discountPercent)).Div(hundred)
	taxableAmount := subtotal.Sub(discountAmount)
	taxAmount := taxableAmount.Mul(safeAmount(taxRatePercent)).Div(hundred)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxableAmount,
		TaxAmount:      taxAmount,
		GrandTotal:     taxableAmount.Add(taxAmount),
	}
}

// FormatMoney renders a monetary value for display: "$"-prefixed with
// exactly two decimal places. The two-decimal precision is a hard
// display contract.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatRate renders a percent rate without trailing zeros, e.g. 10
// -> "10", 7.5 -> "7.5".
func FormatRate(f float64) string {
	return safeAmount(f).String()
}
