package models

import "time"

// StockItemModel holds the on-hand quantity of a SKU. SKUs without a row are
// not stock-tracked and never block a sale.
type StockItemModel struct {
	SKU       string    `gorm:"column:sku;type:varchar(64);primaryKey"`
	Quantity  int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}
