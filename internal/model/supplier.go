package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is the counterparty of stock-in purchases.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Purchases []Purchase `gorm:"foreignKey:SupplierID"`
}
