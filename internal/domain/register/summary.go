package register

import (
	"time"

	"github.com/pos/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// Activity is what happened during a session, as read from the sales ledger
type Activity struct {
	PaymentsByMethod map[payment.Method]decimal.Decimal
	SalesByStatus    map[string]int
}

// Summary is the closing report of a session
type Summary struct {
	SessionID        int64
	OpeningAmount    decimal.Decimal
	PaymentsByMethod map[payment.Method]decimal.Decimal
	SalesByStatus    map[string]int
	Expected         decimal.Decimal
	Counted          *decimal.Decimal
	Difference       *decimal.Decimal
	Start            time.Time
	End              time.Time
}

// NewSummary builds the report. Expected is the opening amount plus every
// payment taken; Difference is counted minus expected and only informs.
// counted overrides the session's recorded amount when given.
func NewSummary(s *Session, activity Activity, counted *decimal.Decimal, now time.Time) Summary {
	expected := s.OpeningAmount
	byMethod := make(map[payment.Method]decimal.Decimal, len(activity.PaymentsByMethod))
	for method, amount := range activity.PaymentsByMethod {
		byMethod[method] = amount
		expected = expected.Add(amount)
	}
	byStatus := make(map[string]int, len(activity.SalesByStatus))
	for status, n := range activity.SalesByStatus {
		byStatus[status] = n
	}

	if counted == nil {
		counted = s.CountedAmount
	}
	end := now
	if s.ClosedAt != nil {
		end = *s.ClosedAt
	}

	summary := Summary{
		SessionID:        s.ID,
		OpeningAmount:    s.OpeningAmount,
		PaymentsByMethod: byMethod,
		SalesByStatus:    byStatus,
		Expected:         expected,
		Counted:          counted,
		Start:            s.OpenedAt,
		End:              end,
	}
	if counted != nil {
		diff := counted.Sub(expected)
		summary.Difference = &diff
	}
	return summary
}
