package dto

import "github.com/shopspring/decimal"

// TopSoldItem aggregates cumulative quantity across cash sales only —
// credit sales are financing, not demand, and are excluded.
type TopSoldItem struct {
	Name      string          `json:"name"`
	TotalSold decimal.Decimal `json:"total_sold"`
}

type DashboardSummaryResponse struct {
	TotalProducts     int64           `json:"total_products"`
	TotalStockValue   decimal.Decimal `json:"total_stock_value"`
	LowStockCount     int64           `json:"low_stock_count"`
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`
	TopSoldProducts   []TopSoldItem   `json:"top_sold_products"`
}
