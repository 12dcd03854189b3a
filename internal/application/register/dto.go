package register

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/register"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest opens the operator's drawer
type OpenSessionRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount" binding:"required"`
}

// CloseSessionRequest records the counted cash
type CloseSessionRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount"`
	Version       int             `json:"version" binding:"min=0"`
}

// SessionResponse is a register session
type SessionResponse struct {
	ID            int64            `json:"id"`
	OperatorID    uuid.UUID        `json:"operator_id"`
	OpeningAmount decimal.Decimal  `json:"opening_amount"`
	CountedAmount *decimal.Decimal `json:"counted_amount,omitempty"`
	Open          bool             `json:"open"`
	OpenedAt      time.Time        `json:"opened_at"`
	ClosedAt      *time.Time       `json:"closed_at,omitempty"`
	Version       int              `json:"version"`
}

// SummaryResponse is the closing report of a session
type SummaryResponse struct {
	Session          SessionResponse            `json:"session"`
	OpeningAmount    decimal.Decimal            `json:"opening_amount"`
	PaymentsByMethod map[string]decimal.Decimal `json:"payments_by_method"`
	SalesByStatus    map[string]int             `json:"sales_by_status"`
	Expected         decimal.Decimal            `json:"expected"`
	Counted          *decimal.Decimal           `json:"counted,omitempty"`
	Difference       *decimal.Decimal           `json:"difference,omitempty"`
	Start            time.Time                  `json:"start"`
	End              time.Time                  `json:"end"`
}

// ToSessionResponse converts a domain session
func ToSessionResponse(s *register.Session) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		OperatorID:    s.OperatorID,
		OpeningAmount: s.OpeningAmount,
		CountedAmount: s.CountedAmount,
		Open:          s.IsOpen(),
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
		Version:       s.Version,
	}
}

func toSummaryResponse(s *register.Session, summary register.Summary) SummaryResponse {
	byMethod := make(map[string]decimal.Decimal, len(summary.PaymentsByMethod))
	for method, amount := range summary.PaymentsByMethod {
		byMethod[method.String()] = amount
	}
	return SummaryResponse{
		Session:          ToSessionResponse(s),
		OpeningAmount:    summary.OpeningAmount,
		PaymentsByMethod: byMethod,
		SalesByStatus:    summary.SalesByStatus,
		Expected:         summary.Expected,
		Counted:          summary.Counted,
		Difference:       summary.Difference,
		Start:            summary.Start,
		End:              summary.End,
	}
}
