package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/fulfillment"
	appidentity "github.com/pos/backend/internal/application/identity"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// SaleItemInput is a line of a sale being registered or modified
type SaleItemInput struct {
	SKU       string          `json:"sku" binding:"required,max=50"`
	Name      string          `json:"name" binding:"max=200"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"decimal_gte0"`
}

// RegisterSaleRequest registers a sale at the counter
type RegisterSaleRequest struct {
	CustomerID   *int64                     `json:"customer_id"`
	Origin       string                     `json:"origin" binding:"required,oneof=Puerta Web Redes Mercado_libre"`
	ConsumerType string                     `json:"consumer_type" binding:"required,oneof=minorista mayorista consumidor_final monotributo"`
	TaxRegime    string                     `json:"tax_regime" binding:"omitempty,oneof=sin_iva medio_iva con_iva"`
	Discount     *decimal.Decimal           `json:"discount"`
	Notes        string                     `json:"notes" binding:"max=500"`
	Consignment  bool                       `json:"consignment"`
	Items        []SaleItemInput            `json:"items" binding:"required,min=1,dive"`
	Payments     []fulfillment.PaymentInput `json:"payments" binding:"omitempty,dive"`
	// Override holds supervisor credentials, required for layaway sales
	Override *appidentity.OverrideCredentials `json:"override"`
}

// SalePaymentInput is a payment in a modification. ID refers to a recorded
// payment; zero adds a new one.
type SalePaymentInput struct {
	ID int64 `json:"id" binding:"min=0"`
	fulfillment.PaymentInput
}

// ModifySaleRequest replaces the lines and payments of a registered sale
type ModifySaleRequest struct {
	Items    []SaleItemInput                 `json:"items" binding:"required,min=1,dive"`
	Payments []SalePaymentInput              `json:"payments" binding:"omitempty,dive"`
	Discount *decimal.Decimal                `json:"discount"`
	Reason   string                          `json:"reason" binding:"required,max=500"`
	Version  int                             `json:"version" binding:"min=0"`
	Override appidentity.OverrideCredentials `json:"override" binding:"required"`
}

// ReturnLineInput is a quantity of one SKU brought back
type ReturnLineInput struct {
	SKU      string `json:"sku" binding:"required,max=50"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// RegisterReturnRequest takes goods back and refunds money
type RegisterReturnRequest struct {
	Lines    []ReturnLineInput               `json:"lines" binding:"required,min=1,dive"`
	Refunds  []fulfillment.PaymentInput      `json:"refunds" binding:"omitempty,dive"`
	Reason   string                          `json:"reason" binding:"required,max=500"`
	Version  int                             `json:"version" binding:"min=0"`
	Override appidentity.OverrideCredentials `json:"override" binding:"required"`
}

// AddPaymentRequest records a layaway payment. Amount is a decimal string;
// anything unparseable counts as zero and is rejected.
type AddPaymentRequest struct {
	Method         string `json:"method" binding:"required"`
	Amount         string `json:"amount" binding:"required"`
	Version        int    `json:"version" binding:"min=0"`
	IdempotencyKey string `json:"-"`
}

// SaleItemResponse is a sold line
type SaleItemResponse struct {
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Amount           decimal.Decimal `json:"amount"`
	ReturnedQuantity int             `json:"returned_quantity"`
}

// ReturnResponse is a registered return
type ReturnResponse struct {
	ID        int64                         `json:"id"`
	Lines     []ReturnLineInput             `json:"lines"`
	Refunds   []fulfillment.PaymentResponse `json:"refunds"`
	Reason    string                        `json:"reason"`
	Total     decimal.Decimal               `json:"total"`
	Full      bool                          `json:"full"`
	CreatedBy uuid.UUID                     `json:"created_by"`
	CreatedAt time.Time                     `json:"created_at"`
}

// ModificationResponse is an edit made to a sale
type ModificationResponse struct {
	Reason        string          `json:"reason"`
	PreviousTotal decimal.Decimal `json:"previous_total"`
	NewTotal      decimal.Decimal `json:"new_total"`
	CreatedBy     uuid.UUID       `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SaleResponse is the full view of a sale
type SaleResponse struct {
	ID            int64                         `json:"id"`
	SessionID     int64                         `json:"session_id"`
	CustomerID    *int64                        `json:"customer_id,omitempty"`
	Origin        string                        `json:"origin"`
	ConsumerType  string                        `json:"consumer_type"`
	TaxRegime     string                        `json:"tax_regime"`
	Status        string                        `json:"status"`
	Items         []SaleItemResponse            `json:"items"`
	Payments      []fulfillment.PaymentResponse `json:"payments"`
	Subtotal      decimal.Decimal               `json:"subtotal"`
	Discount      decimal.Decimal               `json:"discount"`
	Tax           decimal.Decimal               `json:"tax"`
	Total         decimal.Decimal               `json:"total"`
	AmountPaid    decimal.Decimal               `json:"amount_paid"`
	Remaining     decimal.Decimal               `json:"remaining"`
	Notes         string                        `json:"notes,omitempty"`
	Returns       []ReturnResponse              `json:"returns,omitempty"`
	Modifications []ModificationResponse        `json:"modifications,omitempty"`
	CreatedBy     uuid.UUID                     `json:"created_by"`
	CreatedAt     time.Time                     `json:"created_at"`
	Version       int                           `json:"version"`
}

// ConsignmentResponse is a layaway sale with its settlement state
type ConsignmentResponse struct {
	SaleResponse
	SuggestedAmount decimal.Decimal `json:"suggested_amount"`
}

// PaymentResultResponse is the outcome of a layaway payment
type PaymentResultResponse struct {
	Sale      ConsignmentResponse `json:"sale"`
	Applied   decimal.Decimal     `json:"applied"`
	Requested decimal.Decimal     `json:"requested"`
	Truncated bool                `json:"truncated"`
	FullyPaid bool                `json:"fully_paid"`
	Replayed  bool                `json:"replayed"`
}

// ToSaleResponse converts a domain sale
func ToSaleResponse(s *sale.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			SKU:              item.SKU,
			Name:             item.Name,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			Amount:           item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
			ReturnedQuantity: item.ReturnedQuantity,
		}
	}

	var returns []ReturnResponse
	for _, r := range s.Returns {
		lines := make([]ReturnLineInput, len(r.Lines))
		for i, l := range r.Lines {
			lines[i] = ReturnLineInput{SKU: l.SKU, Quantity: l.Quantity}
		}
		returns = append(returns, ReturnResponse{
			ID:        r.ID,
			Lines:     lines,
			Refunds:   paymentResponses(r.Refunds),
			Reason:    r.Reason,
			Total:     r.Total,
			Full:      r.Full,
			CreatedBy: r.CreatedBy,
			CreatedAt: r.CreatedAt,
		})
	}

	var mods []ModificationResponse
	for _, m := range s.Modifications {
		mods = append(mods, ModificationResponse{
			Reason:        m.Reason,
			PreviousTotal: m.PreviousTotal,
			NewTotal:      m.NewTotal,
			CreatedBy:     m.CreatedBy,
			CreatedAt:     m.CreatedAt,
		})
	}

	return SaleResponse{
		ID:            s.ID,
		SessionID:     s.SessionID,
		CustomerID:    s.CustomerID,
		Origin:        string(s.Origin),
		ConsumerType:  string(s.ConsumerType),
		TaxRegime:     string(s.TaxRegime),
		Status:        s.Status.String(),
		Items:         items,
		Payments:      paymentResponses(s.Payments),
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Tax:           s.Tax,
		Total:         s.Total,
		AmountPaid:    s.AmountPaid(),
		Remaining:     s.RemainingBalance(),
		Notes:         s.Notes,
		Returns:       returns,
		Modifications: mods,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		Version:       s.Version,
	}
}

// ToConsignmentResponse converts a layaway sale
func ToConsignmentResponse(s *sale.Sale) ConsignmentResponse {
	return ConsignmentResponse{
		SaleResponse:    ToSaleResponse(s),
		SuggestedAmount: s.SuggestedAmount(),
	}
}

func paymentResponses(payments []payment.Payment) []fulfillment.PaymentResponse {
	out := make([]fulfillment.PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = fulfillment.PaymentResponse{ID: p.ID, Method: p.Method.String(), Amount: p.Amount, SessionID: p.SessionID, CreatedAt: p.CreatedAt}
	}
	return out
}
