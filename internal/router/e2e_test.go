//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockctl/internal/config"
	"stockctl/internal/infra"
	"stockctl/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("stockctl_test"),
		tcPostgres.WithUsername("stockctl"),
		tcPostgres.WithPassword("stockctl"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		RateLimitPerMin:    10000,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		ReceiptStoragePath: t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	srv := httptest.NewServer(router.New(cfg, db, rdb))
	t.Cleanup(srv.Close)
	return srv
}

func createProduct(t *testing.T, srv *httptest.Server, name, sku string, price float64, stock int) string {
	t.Helper()
	resp := do(t, srv, "POST", "/api/products",
		jsonBody(t, map[string]any{
			"name":       name,
			"sku":        sku,
			"unit":       "bag",
			"price":      price,
			"cost_price": price * 0.7,
			"stock_qty":  stock,
		}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func createEmployee(t *testing.T, srv *httptest.Server, name string) string {
	t.Helper()
	resp := do(t, srv, "POST", "/api/employees",
		jsonBody(t, map[string]any{"name": name, "phone": "081 000 0000"}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var emp struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &emp)
	return emp.ID
}

func TestE2E_CashSaleCycle(t *testing.T) {
	srv := setupTestServer(t)
	prodID := createProduct(t, srv, "Rice 1kg", "RICE-1KG", 35.00, 100)

	saleResp := do(t, srv, "POST", "/api/sales",
		jsonBody(t, map[string]any{
			"payment_method": "cash",
			"items": []map[string]any{
				{"product_id": prodID, "qty": 10, "unit_price": 35.00},
			},
		}))
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID    string `json:"id"`
		Total string `json:"total"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "350", sale.Total[:3])

	prodResp := do(t, srv, "GET", "/api/products/"+prodID, nil)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		StockQty string `json:"stock_qty"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, "90", prod.StockQty)

	listResp := do(t, srv, "GET", "/api/sales?payment_method=cash", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	receiptResp := do(t, srv, "GET", fmt.Sprintf("/api/sales/%s/receipt", sale.ID), nil)
	require.Equal(t, http.StatusOK, receiptResp.StatusCode)
	assert.Equal(t, "application/pdf", receiptResp.Header.Get("Content-Type"))
	receiptResp.Body.Close()
}

func TestE2E_InsufficientStockRejected(t *testing.T) {
	srv := setupTestServer(t)
	prodID := createProduct(t, srv, "Sugar 1kg", "SUGAR-1KG", 28.00, 3)

	saleResp := do(t, srv, "POST", "/api/sales",
		jsonBody(t, map[string]any{
			"payment_method": "cash",
			"items": []map[string]any{
				{"product_id": prodID, "qty": 5, "unit_price": 28.00},
			},
		}))
	defer saleResp.Body.Close()
	require.Equal(t, http.StatusConflict, saleResp.StatusCode)

	prodResp := do(t, srv, "GET", "/api/products/"+prodID, nil)
	var prod struct {
		StockQty string `json:"stock_qty"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, "3", prod.StockQty)
}

func TestE2E_CreditSaleAndPayment(t *testing.T) {
	srv := setupTestServer(t)
	prodID := createProduct(t, srv, "Cooking Oil 750ml", "OIL-750", 75.00, 40)
	empID := createEmployee(t, srv, "Maria Andreas")

	saleResp := do(t, srv, "POST", "/api/sales",
		jsonBody(t, map[string]any{
			"payment_method": "credit",
			"employee_id":    empID,
			"items": []map[string]any{
				{"product_id": prodID, "qty": 2, "unit_price": 75.00},
			},
		}))
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	saleResp.Body.Close()

	balResp := do(t, srv, "GET", fmt.Sprintf("/api/credits/%s/balance", empID), nil)
	require.Equal(t, http.StatusOK, balResp.StatusCode)
	var bal struct {
		Balance string `json:"balance"`
	}
	decodeJSON(t, balResp, &bal)
	assert.Equal(t, "150", bal.Balance[:3])

	payResp := do(t, srv, "POST", fmt.Sprintf("/api/credits/%s/payments", empID),
		jsonBody(t, map[string]any{"amount": 100.00}))
	require.Equal(t, http.StatusCreated, payResp.StatusCode)
	var pay struct {
		Remaining string `json:"remaining"`
	}
	decodeJSON(t, payResp, &pay)
	assert.Equal(t, "50", pay.Remaining[:2])

	// Overpayment is rejected and leaves the balance alone
	overResp := do(t, srv, "POST", fmt.Sprintf("/api/credits/%s/payments", empID),
		jsonBody(t, map[string]any{"amount": 500.00}))
	defer overResp.Body.Close()
	require.Equal(t, http.StatusConflict, overResp.StatusCode)

	sumResp := do(t, srv, "GET", "/api/credits/summary", nil)
	require.Equal(t, http.StatusOK, sumResp.StatusCode)
	var summary []struct {
		EmployeeID string `json:"employee_id"`
		Balance    string `json:"balance"`
	}
	decodeJSON(t, sumResp, &summary)
	require.Len(t, summary, 1)
	assert.Equal(t, empID, summary[0].EmployeeID)
}

func TestE2E_PriceCheckCached(t *testing.T) {
	srv := setupTestServer(t)
	createProduct(t, srv, "Tea 250g", "TEA-250", 55.00, 12)

	first := do(t, srv, "GET", "/api/price/TEA-250", nil)
	require.Equal(t, http.StatusOK, first.StatusCode)
	var price struct {
		Name  string `json:"name"`
		Price string `json:"price"`
	}
	decodeJSON(t, first, &price)
	assert.Equal(t, "Tea 250g", price.Name)

	// Second hit is served from the cache and must agree
	second := do(t, srv, "GET", "/api/price/tea-250", nil)
	require.Equal(t, http.StatusOK, second.StatusCode)
	var cached struct {
		Name string `json:"name"`
	}
	decodeJSON(t, second, &cached)
	assert.Equal(t, price.Name, cached.Name)

	missing := do(t, srv, "GET", "/api/price/NOPE", nil)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestE2E_PurchaseRestocks(t *testing.T) {
	srv := setupTestServer(t)
	prodID := createProduct(t, srv, "Flour 2kg", "FLOUR-2KG", 42.00, 0)

	supResp := do(t, srv, "POST", "/api/suppliers",
		jsonBody(t, map[string]any{"name": "Namib Mills", "phone": "061 000 0000"}))
	require.Equal(t, http.StatusCreated, supResp.StatusCode)
	var sup struct {
		ID string `json:"id"`
	}
	decodeJSON(t, supResp, &sup)

	purResp := do(t, srv, "POST", "/api/purchases",
		jsonBody(t, map[string]any{
			"supplier_id": sup.ID,
			"items": []map[string]any{
				{"product_id": prodID, "qty": 24, "unit_cost": 30.00},
			},
		}))
	require.Equal(t, http.StatusCreated, purResp.StatusCode)
	purResp.Body.Close()

	prodResp := do(t, srv, "GET", "/api/products/"+prodID, nil)
	var prod struct {
		StockQty string `json:"stock_qty"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, "24", prod.StockQty)
}
