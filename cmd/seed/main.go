// cmd/seed/main.go — loads demo data for local development.
// Usage: go run cmd/seed/main.go
// Safe to re-run: the seeder is a no-op once any product exists.
package main

import (
	"context"
	"os"
	"time"

	"stockctl/internal/config"
	"stockctl/internal/dto"
	"stockctl/internal/infra"
	"stockctl/internal/repository"
	"stockctl/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	creditRepo := repository.NewCreditRepository(db)

	productSvc := service.NewProductService(productRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	employeeSvc := service.NewEmployeeService(employeeRepo)
	inventorySvc := service.NewInventoryService(purchaseRepo, productRepo, supplierRepo)
	creditSvc := service.NewCreditService(creditRepo, employeeRepo, saleRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, employeeRepo, creditRepo, cfg.ReceiptStoragePath)

	ctx := context.Background()

	if n, err := productRepo.CountAll(ctx); err != nil {
		log.Fatal().Err(err).Msg("count products")
	} else if n > 0 {
		log.Info().Int64("products", n).Msg("database already seeded, nothing to do")
		return
	}

	// ── Suppliers ─────────────────────────────────────────────────────────────
	supplierIDs := map[string]string{}
	for _, s := range []dto.CreateSupplierRequest{
		{Name: "ABC Wholesale", Phone: ptr("+264 61 201 4455")},
		{Name: "Namibia Foods Ltd", Phone: ptr("+264 61 305 7788")},
		{Name: "Namib Mills", Phone: ptr("+264 61 290 1000")},
	} {
		resp, err := supplierSvc.CreateSupplier(ctx, s)
		if err != nil {
			log.Fatal().Err(err).Str("supplier", s.Name).Msg("seed supplier")
		}
		supplierIDs[s.Name] = resp.ID
	}

	// ── Employees ─────────────────────────────────────────────────────────────
	employeeIDs := map[string]string{}
	for _, e := range []dto.CreateEmployeeRequest{
		{Name: "Petrus Shilongo", Phone: ptr("+264 81 233 9001")},
		{Name: "Maria Andreas", Phone: ptr("+264 81 456 2210")},
		{Name: "John Smith", Phone: ptr("+264 81 700 8844")},
	} {
		resp, err := employeeSvc.CreateEmployee(ctx, e)
		if err != nil {
			log.Fatal().Err(err).Str("employee", e.Name).Msg("seed employee")
		}
		employeeIDs[e.Name] = resp.ID
	}

	// ── Products ──────────────────────────────────────────────────────────────
	type seedProduct struct {
		name, sku, unit                     string
		price, cost, stockQty, reorderLevel string
	}
	productIDs := map[string]string{}
	for _, p := range []seedProduct{
		{"Rice 1kg", "RICE-1KG", "bag", "35.00", "25.00", "100", "20"},
		{"Sugar 1kg", "SUGAR-1KG", "bag", "28.00", "20.00", "80", "15"},
		{"Cooking Oil 2L", "OIL-2L", "bottle", "75.00", "58.00", "40", "10"},
		{"Flour 2kg", "FLOUR-2KG", "bag", "42.00", "31.00", "8", "10"},
		{"Salt 500g", "SALT-500G", "pack", "9.50", "6.00", "5", "12"},
		{"Tea Bags 100pk", "TEA-100PK", "box", "55.00", "39.00", "6", "8"},
		{"Coffee 500g", "COFFEE-500G", "tin", "120.00", "89.00", "2", "5"},
		{"Baking Powder 100g", "BAKPWD-100G", "tin", "18.00", "12.50", "0", "6"},
	} {
		resp, err := productSvc.CreateProduct(ctx, dto.CreateProductRequest{
			Name:         p.name,
			SKU:          p.sku,
			Unit:         p.unit,
			Price:        decimal.RequireFromString(p.price),
			CostPrice:    decimal.RequireFromString(p.cost),
			StockQty:     decimal.RequireFromString(p.stockQty),
			ReorderLevel: decimal.RequireFromString(p.reorderLevel),
		})
		if err != nil {
			log.Fatal().Err(err).Str("product", p.name).Msg("seed product")
		}
		productIDs[p.sku] = resp.ID
	}

	// ── A restock purchase ────────────────────────────────────────────────────
	_, err = inventorySvc.CreatePurchase(ctx, dto.CreatePurchaseRequest{
		SupplierID: supplierIDs["Namib Mills"],
		Items: []dto.PurchaseItemRequest{
			{ProductID: productIDs["FLOUR-2KG"], Qty: decimal.RequireFromString("20"), UnitCost: decimal.RequireFromString("30.00")},
			{ProductID: productIDs["BAKPWD-100G"], Qty: decimal.RequireFromString("24"), UnitCost: decimal.RequireFromString("12.00")},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed purchase")
	}

	// ── Sales ─────────────────────────────────────────────────────────────────
	// Cash sale: 10 bags of rice
	if _, err := saleSvc.CreateSale(ctx, dto.CreateSaleRequest{
		PaymentMethod: "cash",
		Items: []dto.SaleItemRequest{
			{ProductID: productIDs["RICE-1KG"], Qty: decimal.RequireFromString("10"), UnitPrice: decimal.RequireFromString("35.00")},
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("seed cash sale")
	}

	// Credit sale: Maria takes 5 bags of rice on store credit
	maria := employeeIDs["Maria Andreas"]
	if _, err := saleSvc.CreateSale(ctx, dto.CreateSaleRequest{
		EmployeeID:    &maria,
		PaymentMethod: "credit",
		DueDate:       ptr(time.Now().AddDate(0, 1, 0).Format("2006-01-02")),
		Items: []dto.SaleItemRequest{
			{ProductID: productIDs["RICE-1KG"], Qty: decimal.RequireFromString("5"), UnitPrice: decimal.RequireFromString("35.00")},
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("seed credit sale")
	}

	// Credit sale: Petrus takes oil and tea on store credit
	petrus := employeeIDs["Petrus Shilongo"]
	if _, err := saleSvc.CreateSale(ctx, dto.CreateSaleRequest{
		EmployeeID:    &petrus,
		PaymentMethod: "credit",
		Items: []dto.SaleItemRequest{
			{ProductID: productIDs["OIL-2L"], Qty: decimal.RequireFromString("2"), UnitPrice: decimal.RequireFromString("75.00")},
			{ProductID: productIDs["TEA-100PK"], Qty: decimal.RequireFromString("1"), UnitPrice: decimal.RequireFromString("55.00")},
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("seed credit sale")
	}

	// Maria pays off part of her balance
	if _, err := creditSvc.RecordPayment(ctx, uuid.MustParse(maria), dto.CreditPaymentRequest{
		Amount: decimal.RequireFromString("100.00"),
		Note:   ptr("Partial payment, payday"),
	}); err != nil {
		log.Fatal().Err(err).Msg("seed credit payment")
	}

	log.Info().Msg("demo data loaded")
}

func ptr[T any](v T) *T { return &v }
