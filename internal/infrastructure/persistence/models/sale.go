package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/pos/backend/internal/domain/sale"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	OperatedAggregateModel
	CustomerID    *int64                  `gorm:"index"`
	Origin        sale.Origin             `gorm:"type:varchar(20);not null"`
	ConsumerType  sale.ConsumerType       `gorm:"type:varchar(20);not null"`
	TaxRegime     payment.TaxRegime       `gorm:"type:varchar(20);not null"`
	Notes         string                  `gorm:"type:text"`
	Status        sale.Status             `gorm:"type:varchar(20);not null;index"`
	SessionID     int64                   `gorm:"not null;index"`
	Subtotal      decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Discount      decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Tax           decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Total         decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Items         []SaleItemModel         `gorm:"foreignKey:SaleID;references:ID"`
	Payments      []SalePaymentModel      `gorm:"foreignKey:SaleID;references:ID"`
	Returns       []SaleReturnModel       `gorm:"foreignKey:SaleID;references:ID"`
	Modifications []SaleModificationModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale.
func (m *SaleModel) ToDomain() *sale.Sale {
	s := &sale.Sale{
		OperatedAggregateRoot: m.ToOperatedAggregateRoot(),
		CustomerID:            m.CustomerID,
		Origin:                m.Origin,
		ConsumerType:          m.ConsumerType,
		TaxRegime:             m.TaxRegime,
		Notes:                 m.Notes,
		Status:                m.Status,
		SessionID:             m.SessionID,
		Subtotal:              m.Subtotal,
		Discount:              m.Discount,
		Tax:                   m.Tax,
		Total:                 m.Total,
		Items:                 make([]sale.Item, len(m.Items)),
		Payments:              make([]payment.Payment, len(m.Payments)),
		Returns:               make([]sale.Return, len(m.Returns)),
		Modifications:         make([]sale.Modification, len(m.Modifications)),
	}
	for i, item := range m.Items {
		s.Items[i] = item.ToDomain()
	}
	for i, p := range m.Payments {
		s.Payments[i] = p.ToDomain()
	}
	for i, r := range m.Returns {
		s.Returns[i] = r.ToDomain()
	}
	for i, mod := range m.Modifications {
		s.Modifications[i] = mod.ToDomain()
	}
	return s
}

// FromDomain populates the sale header and its items. Payments, returns and
// modifications are appended by the store as separate rows.
func (m *SaleModel) FromDomain(s *sale.Sale) {
	m.FromDomainOperatedAggregateRoot(s.OperatedAggregateRoot)
	m.CustomerID = s.CustomerID
	m.Origin = s.Origin
	m.ConsumerType = s.ConsumerType
	m.TaxRegime = s.TaxRegime
	m.Notes = s.Notes
	m.Status = s.Status
	m.SessionID = s.SessionID
	m.Subtotal = s.Subtotal
	m.Discount = s.Discount
	m.Tax = s.Tax
	m.Total = s.Total
	m.Items = make([]SaleItemModel, len(s.Items))
	for i, item := range s.Items {
		m.Items[i] = SaleItemModelFromDomain(s.ID, i, item)
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale.
func SaleModelFromDomain(s *sale.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleItemModel is one sold line.
type SaleItemModel struct {
	ID               int64           `gorm:"primaryKey;autoIncrement"`
	SaleID           int64           `gorm:"not null;index"`
	Position         int             `gorm:"not null;default:0"`
	SKU              string          `gorm:"column:sku;type:varchar(64);not null"`
	Name             string          `gorm:"type:varchar(200);not null;default:''"`
	Quantity         int             `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReturnedQuantity int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain Item.
func (m *SaleItemModel) ToDomain() sale.Item {
	return sale.Item{
		ID:               m.ID,
		SKU:              m.SKU,
		Name:             m.Name,
		Quantity:         m.Quantity,
		UnitPrice:        m.UnitPrice,
		ReturnedQuantity: m.ReturnedQuantity,
	}
}

// SaleItemModelFromDomain creates a persistence model for the item at position.
func SaleItemModelFromDomain(saleID int64, position int, item sale.Item) SaleItemModel {
	return SaleItemModel{
		ID:               item.ID,
		SaleID:           saleID,
		Position:         position,
		SKU:              item.SKU,
		Name:             item.Name,
		Quantity:         item.Quantity,
		UnitPrice:        item.UnitPrice,
		ReturnedQuantity: item.ReturnedQuantity,
	}
}

// SalePaymentModel is money taken for a sale. SessionID is the register session
// that received it, which is not necessarily the session the sale was made in.
type SalePaymentModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	SaleID    int64           `gorm:"not null;index"`
	SessionID int64           `gorm:"not null;index"`
	Method    payment.Method  `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SalePaymentModel) TableName() string {
	return "sale_payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *SalePaymentModel) ToDomain() payment.Payment {
	return payment.Payment{
		ID:        m.ID,
		Method:    m.Method,
		Amount:    m.Amount,
		SessionID: m.SessionID,
		CreatedAt: m.CreatedAt,
	}
}

// SalePaymentModelFromDomain creates a persistence model for a sale payment.
func SalePaymentModelFromDomain(saleID int64, p payment.Payment) SalePaymentModel {
	return SalePaymentModel{
		ID:        p.ID,
		SaleID:    saleID,
		SessionID: p.SessionID,
		Method:    p.Method,
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
	}
}

// SaleReturnModel records goods taken back from a sale.
type SaleReturnModel struct {
	ID        int64             `gorm:"primaryKey;autoIncrement"`
	SaleID    int64             `gorm:"not null;index"`
	Reason    string            `gorm:"type:varchar(500);not null"`
	Total     decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Full      bool              `gorm:"not null;default:false"`
	CreatedBy uuid.UUID         `gorm:"type:uuid;not null"`
	CreatedAt time.Time         `gorm:"not null"`
	Lines     []ReturnLineModel `gorm:"foreignKey:ReturnID;references:ID"`
	Refunds   []SaleRefundModel `gorm:"foreignKey:ReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleReturnModel) TableName() string {
	return "sale_returns"
}

// ToDomain converts the persistence model to a domain Return.
func (m *SaleReturnModel) ToDomain() sale.Return {
	r := sale.Return{
		ID:        m.ID,
		SaleID:    m.SaleID,
		Reason:    m.Reason,
		Total:     m.Total,
		Full:      m.Full,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		Lines:     make([]sale.ReturnLine, len(m.Lines)),
		Refunds:   make([]payment.Payment, len(m.Refunds)),
	}
	for i, l := range m.Lines {
		r.Lines[i] = sale.ReturnLine{SKU: l.SKU, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	for i, f := range m.Refunds {
		r.Refunds[i] = payment.Payment{
			ID:        f.ID,
			Method:    f.Method,
			Amount:    f.Amount,
			SessionID: f.SessionID,
			CreatedAt: f.CreatedAt,
		}
	}
	return r
}

// SaleReturnModelFromDomain creates a persistence model for a return with its lines and refunds.
func SaleReturnModelFromDomain(saleID int64, r *sale.Return) *SaleReturnModel {
	m := &SaleReturnModel{
		ID:        r.ID,
		SaleID:    saleID,
		Reason:    r.Reason,
		Total:     r.Total,
		Full:      r.Full,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		Lines:     make([]ReturnLineModel, len(r.Lines)),
		Refunds:   make([]SaleRefundModel, len(r.Refunds)),
	}
	for i, l := range r.Lines {
		m.Lines[i] = ReturnLineModel{SKU: l.SKU, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	for i, f := range r.Refunds {
		m.Refunds[i] = SaleRefundModel{
			SaleID:    saleID,
			SessionID: f.SessionID,
			Method:    f.Method,
			Amount:    f.Amount,
			CreatedAt: r.CreatedAt,
		}
	}
	return m
}

// ReturnLineModel is one returned SKU, priced at the original unit price.
type ReturnLineModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	ReturnID  int64           `gorm:"not null;index"`
	SKU       string          `gorm:"column:sku;type:varchar(64);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (ReturnLineModel) TableName() string {
	return "return_lines"
}

// SaleRefundModel is money handed back during a return.
type SaleRefundModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	ReturnID  int64           `gorm:"not null;index"`
	SaleID    int64           `gorm:"not null;index"`
	SessionID int64           `gorm:"not null;index"`
	Method    payment.Method  `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleRefundModel) TableName() string {
	return "sale_refunds"
}

// SaleModificationModel keeps the audit trail of supervised sale edits.
type SaleModificationModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	SaleID        int64           `gorm:"not null;index"`
	Reason        string          `gorm:"type:varchar(500);not null"`
	PreviousTotal decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	NewTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleModificationModel) TableName() string {
	return "sale_modifications"
}

// ToDomain converts the persistence model to a domain Modification.
func (m *SaleModificationModel) ToDomain() sale.Modification {
	return sale.Modification{
		ID:            m.ID,
		Reason:        m.Reason,
		PreviousTotal: m.PreviousTotal,
		NewTotal:      m.NewTotal,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
