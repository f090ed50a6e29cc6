package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCalculateStandardRate(t *testing.T) {
	totals := Calculate([]Line{{Quantity: dec("10"), UnitPrice: dec("100")}}, dec("19"))
	if totals.Subtotal.String() != "1000" {
		t.Fatalf("subtotal = %s, want 1000", totals.Subtotal)
	}
	if totals.VATAmount.String() != "190" {
		t.Fatalf("vat = %s, want 190", totals.VATAmount)
	}
	if totals.Total.String() != "1190" {
		t.Fatalf("total = %s, want 1190", totals.Total)
	}
}

func TestCalculateMultipleLines(t *testing.T) {
	lines := []Line{
		{Quantity: dec("1.5"), UnitPrice: dec("80")},
		{Quantity: dec("3"), UnitPrice: dec("25.50")},
	}
	totals := Calculate(lines, dec("19"))
	// 120 + 76.50 = 196.50; VAT 37.335 rounds half-up to 37.34
	if totals.Subtotal.String() != "196.5" {
		t.Fatalf("subtotal = %s, want 196.5", totals.Subtotal)
	}
	if totals.VATAmount.String() != "37.34" {
		t.Fatalf("vat = %s, want 37.34", totals.VATAmount)
	}
	if totals.Total.String() != "233.84" {
		t.Fatalf("total = %s, want 233.84", totals.Total)
	}
}

func TestCalculateZeroRate(t *testing.T) {
	totals := Calculate([]Line{{Quantity: dec("2"), UnitPrice: dec("49.99")}}, dec("0"))
	if totals.VATAmount.String() != "0" {
		t.Fatalf("vat = %s, want 0", totals.VATAmount)
	}
	if !totals.Total.Equal(totals.Subtotal) {
		t.Fatalf("total %s should equal subtotal %s at 0%%", totals.Total, totals.Subtotal)
	}
}

func TestCalculateNoLines(t *testing.T) {
	totals := Calculate(nil, dec("19"))
	if !totals.Subtotal.IsZero() || !totals.VATAmount.IsZero() || !totals.Total.IsZero() {
		t.Fatalf("empty item set must yield zero totals, got %+v", totals)
	}
}

func TestTotalIdentity(t *testing.T) {
	rates := []string{"0", "7", "16", "19", "100"}
	lines := []Line{
		{Quantity: dec("0.25"), UnitPrice: dec("99.95")},
		{Quantity: dec("13"), UnitPrice: dec("3.33")},
	}
	for _, r := range rates {
		rate := dec(r)
		totals := Calculate(lines, rate)
		want := totals.Subtotal.Add(totals.Subtotal.Mul(rate).Div(decimal.NewFromInt(100))).Round(2)
		if !totals.Total.Equal(want) {
			t.Fatalf("rate %s: total = %s, want %s", r, totals.Total, want)
		}
	}
}

func TestLineVATNotAggregated(t *testing.T) {
	// Each line carries 7% but the invoice-level rate stays 19%: the totals
	// must follow the invoice rate, the per-line figure is display only.
	lines := []Line{{Quantity: dec("10"), UnitPrice: dec("100")}}
	totals := Calculate(lines, dec("19"))
	perLine := LineVAT(lines[0], dec("7"))
	if perLine.String() != "70" {
		t.Fatalf("line vat = %s, want 70", perLine)
	}
	if totals.VATAmount.String() != "190" {
		t.Fatalf("invoice vat = %s, want 190 (blended rate wins)", totals.VATAmount)
	}
}

func TestRound2HalfUp(t *testing.T) {
	if got := Round2(dec("2.005")).String(); got != "2.01" {
		t.Fatalf("Round2(2.005) = %s, want 2.01", got)
	}
	if got := Round2(dec("2.004")).String(); got != "2" {
		t.Fatalf("Round2(2.004) = %s, want 2", got)
	}
}
