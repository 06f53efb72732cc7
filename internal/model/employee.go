package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee can take goods on store credit; their outstanding balance is
// derived from CreditTransactions, never stored here.
type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	Sales      []Sale              `gorm:"foreignKey:EmployeeID"`
	CreditTxns []CreditTransaction `gorm:"foreignKey:EmployeeID"`
}
