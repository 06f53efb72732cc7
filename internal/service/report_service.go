package service

import (
	"context"
	"fmt"

	"stockctl/internal/dto"
	"stockctl/internal/repository"

	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	DashboardSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error)
	// InventoryWorkbook renders the full product list as an XLSX workbook.
	InventoryWorkbook(ctx context.Context) (*excelize.File, error)
}

type reportService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	credit      CreditService
}

func NewReportService(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	credit CreditService,
) ReportService {
	return &reportService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		credit:      credit,
	}
}

func (s *reportService) DashboardSummary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	totalProducts, err := s.productRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	stockValue, err := s.productRepo.TotalStockValue(ctx)
	if err != nil {
		return nil, err
	}
	lowStockCount, err := s.productRepo.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}
	outstanding, err := s.credit.OutstandingCreditSum(ctx)
	if err != nil {
		return nil, err
	}
	topRows, err := s.saleRepo.TopSoldCash(ctx, 5)
	if err != nil {
		return nil, err
	}

	top := make([]dto.TopSoldItem, 0, len(topRows))
	for _, r := range topRows {
		top = append(top, dto.TopSoldItem{Name: r.Name, TotalSold: r.TotalSold})
	}

	return &dto.DashboardSummaryResponse{
		TotalProducts:     totalProducts,
		TotalStockValue:   stockValue.Round(2),
		LowStockCount:     lowStockCount,
		OutstandingCredit: outstanding,
		TopSoldProducts:   top,
	}, nil
}

var inventoryHeaders = []string{"SKU", "Name", "Unit", "Price", "Cost Price", "Stock Qty", "Reorder Level", "Stock Value", "Low Stock"}

func (s *reportService) InventoryWorkbook(ctx context.Context) (*excelize.File, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Inventory"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDDDDD"}},
	})
	if err != nil {
		return nil, err
	}
	for i, h := range inventoryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", headerStyle); err != nil {
		return nil, err
	}

	for i := range products {
		p := &products[i]
		row := i + 2
		value := p.CostPrice.Mul(p.StockQty).Round(2)
		lowStock := ""
		if p.StockQty.LessThanOrEqual(p.ReorderLevel) {
			lowStock = "LOW"
		}
		cells := []interface{}{
			p.SKU,
			p.Name,
			p.Unit,
			p.Price.InexactFloat64(),
			p.CostPrice.InexactFloat64(),
			p.StockQty.InexactFloat64(),
			p.ReorderLevel.InexactFloat64(),
			value.InexactFloat64(),
			lowStock,
		}
		for col, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "I", 16); err != nil {
		return nil, err
	}
	if err := f.AutoFilter(sheet, fmt.Sprintf("A1:I%d", len(products)+1), nil); err != nil {
		return nil, err
	}
	return f, nil
}
