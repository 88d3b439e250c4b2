package domain

import "math"

// QuoteTotals holds the three monetary aggregates of a quote.
// Each is rounded half-up at the cent boundary; line items are not rounded.
type QuoteTotals struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// CalculateQuoteTotals computes subtotal, tax and total for a set of line
// items. Tax applies only to taxable items. Rounding happens once per
// aggregate, so the result is independent of item ordering.
func CalculateQuoteTotals(items []QuoteLineItem, taxRate, discountAmount float64) QuoteTotals {
	var subtotal, taxable float64
	for _, item := range items {
		line := item.Quantity * item.UnitPrice
		subtotal += line
		if item.Taxable {
			taxable += line
		}
	}

	taxAmount := taxable * taxRate

	return QuoteTotals{
		Subtotal:  RoundCents(subtotal),
		TaxAmount: RoundCents(taxAmount),
		Total:     RoundCents(subtotal + taxAmount - discountAmount),
	}
}

// RoundCents rounds a monetary amount to 2 decimal places, half-up.
// The epsilon compensates for binary representation of decimal inputs
// (1.005 is stored as 1.00499...), which would otherwise round down.
func RoundCents(v float64) float64 {
	return math.Floor(v*100+0.5+1e-9) / 100
}
