package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Line is the minimal slice of a billable position needed for totals.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Totals holds the computed money fields of an invoice, rounded to two
// fraction digits half-up.
type Totals struct {
	Subtotal  decimal.Decimal
	VATAmount decimal.Decimal
	Total     decimal.Decimal
}

// Calculate computes subtotal, VAT amount and gross total for a set of line
// items and a single invoice-level VAT rate (percentage, 0-100).
//
// Line items may carry their own vat_rate for display and export, but the
// invoice total is always derived from the one blended rate passed here,
// never from summing per-line VAT. Mixed rates across items are therefore
// not supported end to end; see LineVAT.
func Calculate(lines []Line, vatRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Quantity.Mul(l.UnitPrice))
	}
	subtotal = round2(subtotal)
	vat := round2(subtotal.Mul(vatRate).Div(hundred))
	return Totals{
		Subtotal:  subtotal,
		VATAmount: vat,
		Total:     subtotal.Add(vat),
	}
}

// LineVAT computes the VAT share of a single line at its own rate. Used for
// per-position display and export only; invoice totals ignore it.
func LineVAT(l Line, vatRate decimal.Decimal) decimal.Decimal {
	return round2(l.Quantity.Mul(l.UnitPrice).Mul(vatRate).Div(hundred))
}

// Round2 applies the persistence rounding policy: two fraction digits,
// half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return round2(d)
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
