package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pay(method Method, amount string) Payment {
	return Payment{Method: method, Amount: decimal.RequireFromString(amount)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============================================
// Reconciliation Tests
// ============================================

func TestSumPayments(t *testing.T) {
	tests := []struct {
		name     string
		payments []Payment
		want     string
	}{
		{"empty", nil, "0"},
		{"single", []Payment{pay(MethodCash, "400")}, "400"},
		{"mixed instruments", []Payment{pay(MethodCash, "400"), pay(MethodCard, "250.50"), pay(MethodUala, "0.1")}, "650.6"},
		{"zero amounts", []Payment{pay(MethodTransfer, "0"), pay(MethodBrubank, "0")}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, dec(tt.want).Equal(SumPayments(tt.payments)), "got %s", SumPayments(tt.payments))
		})
	}
}

func TestSumPayments_NoDriftOnRepeatedCents(t *testing.T) {
	payments := make([]Payment, 0, 10)
	for i := 0; i < 10; i++ {
		payments = append(payments, pay(MethodCash, "0.1"))
	}
	assert.True(t, dec("1").Equal(SumPayments(payments)))
}

func TestPartialPaymentScenario(t *testing.T) {
	payments := []Payment{pay(MethodCash, "400")}
	total := dec("1000")

	assert.True(t, dec("600").Equal(RemainingBalance(payments, total)))
	assert.False(t, IsSufficient(payments, total))
}

func TestIsSufficient(t *testing.T) {
	tests := []struct {
		name     string
		payments []Payment
		total    string
		want     bool
	}{
		{"exact", []Payment{pay(MethodCash, "100")}, "100", true},
		{"overpaid", []Payment{pay(MethodCash, "150")}, "100", true},
		{"short by a cent", []Payment{pay(MethodCard, "99.99")}, "100", false},
		{"nothing paid on zero total", nil, "0", true},
		{"nothing paid", nil, "10", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSufficient(tt.payments, dec(tt.total)))
		})
	}
}

func TestRemainingBalance_Properties(t *testing.T) {
	sets := [][]Payment{
		{pay(MethodCash, "400")},
		{pay(MethodCash, "400"), pay(MethodTransfer, "700")},
		{pay(MethodCard, "0.01"), pay(MethodUala, "12.345")},
		{pay(MethodBrubank, "1000")},
	}
	totals := []string{"0", "1000", "1100", "12.355", "999.999"}

	for _, payments := range sets {
		for _, raw := range totals {
			total := dec(raw)
			remaining := RemainingBalance(payments, total)

			assert.True(t, total.Equal(remaining.Add(SumPayments(payments))), "identity for total %s", raw)
			assert.Equal(t, remaining.LessThanOrEqual(decimal.Zero), IsSufficient(payments, total), "sufficiency for total %s", raw)
		}
	}
}

func TestRemainingBalance_NegativeOnOverpayment(t *testing.T) {
	remaining := RemainingBalance([]Payment{pay(MethodCash, "1200")}, dec("1000"))
	assert.True(t, dec("-200").Equal(remaining))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "0"},
		{"   ", "0"},
		{"abc", "0"},
		{"12.50", "12.5"},
		{" 7 ", "7"},
		{"-3", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.True(t, dec(tt.want).Equal(ParseAmount(tt.raw)))
		})
	}
}

func TestAmountOrZero(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(AmountOrZero(decimal.NullDecimal{})))
	assert.True(t, dec("5").Equal(AmountOrZero(decimal.NewNullDecimal(dec("5")))))
}

// ============================================
// Payment Tests
// ============================================

func TestNewPayment(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p, err := NewPayment(MethodTransfer, dec("10"))
		require.NoError(t, err)
		assert.Equal(t, MethodTransfer, p.Method)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := NewPayment(Method("cheque"), dec("10"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cheque")
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := NewPayment(MethodCash, dec("-1"))
		require.Error(t, err)
	})
}

func TestTotalsByMethod(t *testing.T) {
	totals := TotalsByMethod([]Payment{
		pay(MethodCash, "100"),
		pay(MethodCard, "50"),
		pay(MethodCash, "25"),
	})

	assert.Len(t, totals, 2)
	assert.True(t, dec("125").Equal(totals[MethodCash]))
	assert.True(t, dec("50").Equal(totals[MethodCard]))
}

func TestMethod_IsValid(t *testing.T) {
	for _, m := range AllMethods() {
		assert.True(t, m.IsValid(), m.String())
	}
	assert.False(t, Method("").IsValid())
	assert.True(t, MethodCash.IsCash())
	assert.False(t, MethodCard.IsCash())
}
