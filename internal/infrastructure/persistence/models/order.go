package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/fulfillment"
	"github.com/pos/backend/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the fulfillment Order aggregate root.
type OrderModel struct {
	OperatedAggregateModel
	CustomerID        *int64                  `gorm:"index"`
	CustomerName      string                  `gorm:"type:varchar(200);not null;default:''"`
	Total             decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Status            fulfillment.DraftStatus `gorm:"type:varchar(40);not null;index"`
	Phase             fulfillment.Phase       `gorm:"type:varchar(20);not null;default:''"`
	Notes             string                  `gorm:"type:text"`
	SearchKey         string                  `gorm:"type:text;not null;default:''"`
	UpdatedBy         uuid.UUID               `gorm:"type:uuid"`
	SeenAt            *time.Time
	PackingStartedAt  *time.Time
	PackingFinishedAt *time.Time
	ReceivedAt        *time.Time
	DeliveredAt       *time.Time
	Items             []OrderItemModel    `gorm:"foreignKey:OrderID;references:ID"`
	Payments          []OrderPaymentModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *fulfillment.Order {
	order := &fulfillment.Order{
		OperatedAggregateRoot: m.ToOperatedAggregateRoot(),
		Customer:              fulfillment.Customer{ID: m.CustomerID, Name: m.CustomerName},
		Total:                 m.Total,
		Status:                m.Status,
		Phase:                 m.Phase,
		Notes:                 m.Notes,
		UpdatedBy:             m.UpdatedBy,
		SeenAt:                m.SeenAt,
		PackingStartedAt:      m.PackingStartedAt,
		PackingFinishedAt:     m.PackingFinishedAt,
		ReceivedAt:            m.ReceivedAt,
		DeliveredAt:           m.DeliveredAt,
		Items:                 make([]fulfillment.LineItem, len(m.Items)),
		Payments:              make([]payment.Payment, len(m.Payments)),
	}
	for i, item := range m.Items {
		order.Items[i] = item.ToDomain()
	}
	for i, p := range m.Payments {
		order.Payments[i] = p.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order.
func (m *OrderModel) FromDomain(o *fulfillment.Order) {
	m.FromDomainOperatedAggregateRoot(o.OperatedAggregateRoot)
	m.CustomerID = o.Customer.ID
	m.CustomerName = o.Customer.Name
	m.Total = o.Total
	m.Status = o.Status
	m.Phase = o.Phase
	m.Notes = o.Notes
	m.UpdatedBy = o.UpdatedBy
	m.SeenAt = o.SeenAt
	m.PackingStartedAt = o.PackingStartedAt
	m.PackingFinishedAt = o.PackingFinishedAt
	m.ReceivedAt = o.ReceivedAt
	m.DeliveredAt = o.DeliveredAt
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.ID, i, item)
	}
	m.Payments = make([]OrderPaymentModel, len(o.Payments))
	for i, p := range o.Payments {
		m.Payments[i] = OrderPaymentModel{
			ID:        p.ID,
			OrderID:   o.ID,
			Method:    p.Method,
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt,
		}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *fulfillment.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is one line of an order. Position keeps the order the lines were entered in.
type OrderItemModel struct {
	ID        int64                 `gorm:"primaryKey;autoIncrement"`
	OrderID   int64                 `gorm:"not null;index"`
	Position  int                   `gorm:"not null;default:0"`
	SKU       string                `gorm:"column:sku;type:varchar(64);not null"`
	Name      string                `gorm:"type:varchar(200);not null;default:''"`
	Quantity  int                   `gorm:"not null"`
	UnitPrice decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	State     fulfillment.ItemState `gorm:"type:varchar(20);not null;default:'pendiente'"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain LineItem.
func (m *OrderItemModel) ToDomain() fulfillment.LineItem {
	return fulfillment.LineItem{
		ID:        m.ID,
		SKU:       m.SKU,
		Name:      m.Name,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		State:     m.State,
	}
}

// OrderItemModelFromDomain creates a persistence model for the item at position.
func OrderItemModelFromDomain(orderID int64, position int, item fulfillment.LineItem) OrderItemModel {
	return OrderItemModel{
		ID:        item.ID,
		OrderID:   orderID,
		Position:  position,
		SKU:       item.SKU,
		Name:      item.Name,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		State:     item.State,
	}
}

// OrderPaymentModel is a payment announced with an order before checkout.
type OrderPaymentModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"not null;index"`
	Method    payment.Method  `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderPaymentModel) TableName() string {
	return "order_payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *OrderPaymentModel) ToDomain() payment.Payment {
	return payment.Payment{
		ID:        m.ID,
		Method:    m.Method,
		Amount:    m.Amount,
		CreatedAt: m.CreatedAt,
	}
}
