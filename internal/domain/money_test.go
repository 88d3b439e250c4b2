package domain

import (
	"math"
	"testing"
)

func TestCalculateQuoteTotals_MixedTaxability(t *testing.T) {
	t.Parallel()

	// 4 x $50 taxable + 1 x $25 non-taxable at 8.25% tax.
	items := []QuoteLineItem{
		{Name: "Labor", Quantity: 4, UnitPrice: 50, Taxable: true},
		{Name: "Disposal fee", Quantity: 1, UnitPrice: 25, Taxable: false},
	}

	got := CalculateQuoteTotals(items, 0.0825, 0)

	if got.Subtotal != 225.00 {
		t.Errorf("Subtotal = %v, want 225.00", got.Subtotal)
	}
	if got.TaxAmount != 16.50 {
		t.Errorf("TaxAmount = %v, want 16.50", got.TaxAmount)
	}
	if got.Total != 241.50 {
		t.Errorf("Total = %v, want 241.50", got.Total)
	}
}

func TestCalculateQuoteTotals_Discount(t *testing.T) {
	t.Parallel()

	items := []QuoteLineItem{
		{Quantity: 2, UnitPrice: 100, Taxable: true},
	}

	got := CalculateQuoteTotals(items, 0.10, 30)

	if got.Subtotal != 200.00 {
		t.Errorf("Subtotal = %v, want 200.00", got.Subtotal)
	}
	if got.TaxAmount != 20.00 {
		t.Errorf("TaxAmount = %v, want 20.00", got.TaxAmount)
	}
	if got.Total != 190.00 {
		t.Errorf("Total = %v, want 190.00", got.Total)
	}
}

func TestCalculateQuoteTotals_Empty(t *testing.T) {
	t.Parallel()

	got := CalculateQuoteTotals(nil, 0.0825, 0)

	if got.Subtotal != 0 || got.TaxAmount != 0 || got.Total != 0 {
		t.Errorf("expected all-zero totals, got %+v", got)
	}
}

// Rounding is applied once per aggregate, so shuffling line items must not
// change the result.
func TestCalculateQuoteTotals_OrderIndependent(t *testing.T) {
	t.Parallel()

	items := []QuoteLineItem{
		{Quantity: 3, UnitPrice: 19.99, Taxable: true},
		{Quantity: 1.5, UnitPrice: 33.33, Taxable: true},
		{Quantity: 7, UnitPrice: 0.07, Taxable: false},
	}
	reversed := []QuoteLineItem{items[2], items[1], items[0]}

	a := CalculateQuoteTotals(items, 0.0725, 5)
	b := CalculateQuoteTotals(reversed, 0.0725, 5)

	if a != b {
		t.Errorf("totals depend on item order: %+v vs %+v", a, b)
	}
}

func TestCalculateQuoteTotals_RoundsAggregatesOnly(t *testing.T) {
	t.Parallel()

	// Each line is 1/3 of a cent; three of them sum to a full cent before
	// rounding. Per-line rounding would lose it.
	items := []QuoteLineItem{
		{Quantity: 1, UnitPrice: 0.00333333, Taxable: false},
		{Quantity: 1, UnitPrice: 0.00333333, Taxable: false},
		{Quantity: 1, UnitPrice: 0.00333334, Taxable: false},
	}

	got := CalculateQuoteTotals(items, 0, 0)

	if got.Subtotal != 0.01 {
		t.Errorf("Subtotal = %v, want 0.01", got.Subtotal)
	}
}

func TestRoundCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.004, 1.00},
		{1.005, 1.01}, // half rounds up
		{1.0049999, 1.00},
		{16.499999999999996, 16.50},
		{241.49999999999997, 241.50},
		{2.675, 2.68},
	}
	for _, tt := range tests {
		if got := RoundCents(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RoundCents(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
