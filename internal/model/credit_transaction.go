package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Credit transaction types. Amount is always positive; the sign comes
// from the type when the balance is derived.
const (
	CreditCharge  = "charge"
	CreditPayment = "payment"
)

// CreditTransaction is an immutable entry in the employee credit ledger.
// The ledger is append-only and is the system of record: an employee's
// outstanding balance is always recomputed from it, never cached.
type CreditTransaction struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type       string          `gorm:"type:varchar(10);not null"` // charge | payment
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// SaleID links a charge to the credit sale that created it.
	SaleID    *uuid.UUID `gorm:"type:uuid"`
	Note      *string
	CreatedAt time.Time

	Employee *Employee `gorm:"foreignKey:EmployeeID"`
}
