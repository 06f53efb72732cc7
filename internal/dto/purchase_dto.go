package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PurchaseItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Qty       decimal.Decimal `json:"qty"        validate:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"  validate:"min=0"`
}

type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required,uuid"`
	Items      []PurchaseItemRequest `json:"items"       validate:"required,min=1,dive"`
}

// UpdatePurchaseRequest: nil fields are untouched. When Items is present the
// recorded item list is replaced wholesale and stock deltas are reconciled.
type UpdatePurchaseRequest struct {
	SupplierID *string                `json:"supplier_id" validate:"omitempty,uuid"`
	Items      *[]PurchaseItemRequest `json:"items"       validate:"omitempty,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PurchaseItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Qty       decimal.Decimal `json:"qty"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type PurchaseResponse struct {
	ID         string                 `json:"id"`
	SupplierID string                 `json:"supplier_id"`
	Total      decimal.Decimal        `json:"total"`
	Items      []PurchaseItemResponse `json:"items"`
	CreatedAt  string                 `json:"created_at"`
}

// PurchaseListItem is the compact row for GET /v1/purchases.
type PurchaseListItem struct {
	ID           string          `json:"id"`
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Total        decimal.Decimal `json:"total"`
	ItemCount    int             `json:"item_count"`
	CreatedAt    string          `json:"created_at"`
}
