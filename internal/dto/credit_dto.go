package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreditPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Note   *string         `json:"note"   validate:"omitempty,max=250"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CreditBalanceResponse struct {
	EmployeeID string          `json:"employee_id"`
	Balance    decimal.Decimal `json:"balance"`
}

type CreditPaymentResponse struct {
	ID        string          `json:"id"`
	Applied   decimal.Decimal `json:"applied"`
	Remaining decimal.Decimal `json:"remaining"`
}

// CreditItemDetail is one product acquired through a credit-financed sale.
type CreditItemDetail struct {
	Product   string          `json:"product"`
	Qty       decimal.Decimal `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	SoldAt    string          `json:"sold_at"`
}

type CreditSummaryItem struct {
	EmployeeID   string             `json:"employee_id"`
	EmployeeName string             `json:"employee_name"`
	Balance      decimal.Decimal    `json:"balance"`
	Items        []CreditItemDetail `json:"items"`
}

type PaymentHistoryItem struct {
	EmployeeID   string             `json:"employee_id"`
	EmployeeName string             `json:"employee_name"`
	TotalPaid    decimal.Decimal    `json:"total_paid"`
	Items        []CreditItemDetail `json:"items"`
}
