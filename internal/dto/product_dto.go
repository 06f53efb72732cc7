package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name         string          `json:"name"          validate:"required,min=2,max=120"`
	SKU          string          `json:"sku"           validate:"required,min=2,max=40"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"         validate:"min=0"`
	CostPrice    decimal.Decimal `json:"cost_price"    validate:"min=0"`
	StockQty     decimal.Decimal `json:"stock_qty"     validate:"min=0"`
	ReorderLevel decimal.Decimal `json:"reorder_level" validate:"min=0"`
}

// UpdateProductRequest enumerates every updatable field explicitly;
// nil fields are left untouched. An SKU change re-checks uniqueness.
type UpdateProductRequest struct {
	Name         *string          `json:"name"          validate:"omitempty,min=2,max=120"`
	SKU          *string          `json:"sku"           validate:"omitempty,min=2,max=40"`
	Unit         *string          `json:"unit"`
	Price        *decimal.Decimal `json:"price"         validate:"omitempty,min=0"`
	CostPrice    *decimal.Decimal `json:"cost_price"    validate:"omitempty,min=0"`
	StockQty     *decimal.Decimal `json:"stock_qty"     validate:"omitempty,min=0"`
	ReorderLevel *decimal.Decimal `json:"reorder_level" validate:"omitempty,min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name  string `form:"name"`
	SKU   string `form:"sku"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	StockQty     decimal.Decimal `json:"stock_qty"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceCheckResponse is returned by the public price check endpoint.
type PriceCheckResponse struct {
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Unit           string          `json:"unit"`
	StockAvailable decimal.Decimal `json:"stock_available"`
}
