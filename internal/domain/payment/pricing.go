package payment

import "github.com/shopspring/decimal"

// PricedLine is anything sold at a unit price times a quantity
type PricedLine interface {
	LinePrice() decimal.Decimal
	LineQuantity() int
}

// TaxRegime is the VAT treatment applied at checkout
type TaxRegime string

const (
	TaxNone TaxRegime = "sin_iva"
	TaxHalf TaxRegime = "medio_iva"
	TaxFull TaxRegime = "con_iva"
)

var taxRates = map[TaxRegime]decimal.Decimal{
	TaxNone: decimal.Zero,
	TaxHalf: decimal.RequireFromString("0.105"),
	TaxFull: decimal.RequireFromString("0.21"),
}

// IsValid checks if the regime is known
func (r TaxRegime) IsValid() bool {
	_, ok := taxRates[r]
	return ok
}

// Rate returns the VAT rate for the regime; unknown regimes are untaxed
func (r TaxRegime) Rate() decimal.Decimal {
	if rate, ok := taxRates[r]; ok {
		return rate
	}
	return decimal.Zero
}

// Next returns the regime the cashier's tax toggle moves to
func (r TaxRegime) Next() TaxRegime {
	switch r {
	case TaxNone:
		return TaxHalf
	case TaxHalf:
		return TaxFull
	default:
		return TaxNone
	}
}

// String returns the string representation of TaxRegime
func (r TaxRegime) String() string {
	return string(r)
}

// ComputeSubtotal sums unit price times quantity over all lines
func ComputeSubtotal[L PricedLine](lines []L) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LinePrice().Mul(decimal.NewFromInt(int64(line.LineQuantity()))))
	}
	return subtotal
}

// ComputeTax applies rate to subtotal without rounding
func ComputeTax(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate)
}

// ComputeTotal returns subtotal - discount + tax
func ComputeTotal(subtotal, discount, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(tax)
}

// Totals is the price breakdown of a cart
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals prices lines under a tax regime and discount
func ComputeTotals[L PricedLine](lines []L, discount decimal.Decimal, regime TaxRegime) Totals {
	subtotal := ComputeSubtotal(lines)
	tax := ComputeTax(subtotal, regime.Rate())
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    ComputeTotal(subtotal, discount, tax),
	}
}
