package payment

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SumPayments adds up all payment amounts
func SumPayments(payments []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// IsSufficient reports whether the payments cover total. Overpayment counts as sufficient.
func IsSufficient(payments []Payment, total decimal.Decimal) bool {
	return SumPayments(payments).GreaterThanOrEqual(total)
}

// RemainingBalance returns total minus the sum of payments.
// The result is negative under overpayment; callers decide whether to clamp.
func RemainingBalance(payments []Payment, total decimal.Decimal) decimal.Decimal {
	return total.Sub(SumPayments(payments))
}

// ParseAmount coerces a textual amount to a decimal.
// Empty or non-numeric input yields zero so a malformed stored value never blocks the counter.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// AmountOrZero unwraps a nullable amount, treating NULL as zero
func AmountOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
