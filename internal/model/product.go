package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. StockQty is real-valued: bulk goods are sold
// in fractional units (0.5 kg of flour), so quantities use decimal, not int.
// StockQty must never be negative after a committed operation.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"index;not null"`
	SKU          string    `gorm:"column:sku;uniqueIndex;not null"`
	Unit         string    `gorm:"not null;default:'unit'"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockQty     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	ReorderLevel decimal.Decimal `gorm:"type:decimal(12,3);not null;default:5"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	PurchaseItems []PurchaseItem `gorm:"foreignKey:ProductID"`
	SaleItems     []SaleItem     `gorm:"foreignKey:ProductID"`
}
