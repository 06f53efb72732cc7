package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"stockctl/internal/dto"
	"stockctl/internal/model"
	"stockctl/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// ── Product stub ──────────────────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
	history  map[uuid.UUID]bool
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		history:  make(map[uuid.UUID]bool),
	}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		if filter.SKU != "" && p.SKU != filter.SKU {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return errNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) HasHistory(_ context.Context, id uuid.UUID) (bool, error) {
	return r.history[id], nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubProductRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.StockQty = p.StockQty.Add(delta)
	return nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) LowStock(_ context.Context, limit int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.StockQty.LessThanOrEqual(p.ReorderLevel) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockQty.LessThan(out[j].StockQty) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubProductRepo) LowStockCount(_ context.Context) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.StockQty.LessThanOrEqual(p.ReorderLevel) {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) TotalStockValue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, p := range r.products {
		total = total.Add(p.CostPrice.Mul(p.StockQty))
	}
	return total, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Supplier stub ─────────────────────────────────────────────────────────────

type stubSupplierRepo struct {
	suppliers    map[uuid.UUID]*model.Supplier
	hasPurchases map[uuid.UUID]bool
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{
		suppliers:    make(map[uuid.UUID]*model.Supplier),
		hasPurchases: make(map[uuid.UUID]bool),
	}
}

func (r *stubSupplierRepo) add(s *model.Supplier) *model.Supplier {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = s
	return s
}

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	r.add(s)
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubSupplierRepo) Update(_ context.Context, s *model.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *stubSupplierRepo) HasPurchases(_ context.Context, id uuid.UUID) (bool, error) {
	return r.hasPurchases[id], nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// ── Employee stub ─────────────────────────────────────────────────────────────

type stubEmployeeRepo struct {
	employees  map[uuid.UUID]*model.Employee
	hasHistory map[uuid.UUID]bool
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{
		employees:  make(map[uuid.UUID]*model.Employee),
		hasHistory: make(map[uuid.UUID]bool),
	}
}

func (r *stubEmployeeRepo) add(e *model.Employee) *model.Employee {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.employees[e.ID] = e
	return e
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	r.add(e)
	return nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, errNotFound
	}
	return e, nil
}

func (r *stubEmployeeRepo) List(_ context.Context) ([]model.Employee, error) {
	var out []model.Employee
	for _, e := range r.employees {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, e *model.Employee) error {
	r.employees[e.ID] = e
	return nil
}

func (r *stubEmployeeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.employees, id)
	return nil
}

func (r *stubEmployeeRepo) HasHistory(_ context.Context, id uuid.UUID) (bool, error) {
	return r.hasHistory[id], nil
}

var _ repository.EmployeeRepository = (*stubEmployeeRepo)(nil)

// ── Purchase stub ─────────────────────────────────────────────────────────────

type stubPurchaseRepo struct {
	purchases map[uuid.UUID]*model.Purchase
	suppliers *stubSupplierRepo
}

func newStubPurchaseRepo(suppliers *stubSupplierRepo) *stubPurchaseRepo {
	return &stubPurchaseRepo{
		purchases: make(map[uuid.UUID]*model.Purchase),
		suppliers: suppliers,
	}
}

func (r *stubPurchaseRepo) CreateTx(_ context.Context, _ *gorm.DB, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PurchaseID = p.ID
	}
	p.CreatedAt = time.Now()
	r.purchases[p.ID] = p
	return nil
}

func (r *stubPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Purchase, error) {
	p, ok := r.purchases[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	cp.Items = append([]model.PurchaseItem(nil), p.Items...)
	return &cp, nil
}

func (r *stubPurchaseRepo) List(_ context.Context, limit int) ([]repository.PurchaseRow, error) {
	var rows []repository.PurchaseRow
	for _, p := range r.purchases {
		name := ""
		if s, ok := r.suppliers.suppliers[p.SupplierID]; ok {
			name = s.Name
		}
		rows = append(rows, repository.PurchaseRow{
			ID:           p.ID,
			SupplierID:   p.SupplierID,
			SupplierName: name,
			Total:        p.Total,
			ItemCount:    len(p.Items),
			CreatedAt:    p.CreatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *stubPurchaseRepo) SaveTx(_ *gorm.DB, p *model.Purchase) error {
	existing, ok := r.purchases[p.ID]
	if !ok {
		return errNotFound
	}
	existing.SupplierID = p.SupplierID
	existing.Total = p.Total
	return nil
}

func (r *stubPurchaseRepo) ReplaceItemsTx(_ *gorm.DB, purchaseID uuid.UUID, items []model.PurchaseItem) error {
	p, ok := r.purchases[purchaseID]
	if !ok {
		return errNotFound
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].PurchaseID = purchaseID
	}
	p.Items = items
	return nil
}

func (r *stubPurchaseRepo) DeleteTx(_ *gorm.DB, purchaseID uuid.UUID) error {
	delete(r.purchases, purchaseID)
	return nil
}

func (r *stubPurchaseRepo) DB() *gorm.DB { return nil }

var _ repository.PurchaseRepository = (*stubPurchaseRepo)(nil)

// ── Sale stub ─────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	mu       sync.Mutex
	sales    []*model.Sale
	products *stubProductRepo
}

func newStubSaleRepo(products *stubProductRepo) *stubSaleRepo {
	return &stubSaleRepo{products: products}
}

func (r *stubSaleRepo) CreateTx(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	for i := range s.Items {
		if s.Items[i].ID == uuid.Nil {
			s.Items[i].ID = uuid.New()
		}
		s.Items[i].SaleID = s.ID
	}
	s.CreatedAt = time.Now()
	r.sales = append(r.sales, s)
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errNotFound
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		if filter.PaymentMethod != "" && s.PaymentMethod != filter.PaymentMethod {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) TopSoldCash(_ context.Context, limit int) ([]repository.TopSoldRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, s := range r.sales {
		if s.PaymentMethod != model.PaymentCash {
			continue
		}
		for _, it := range s.Items {
			sums[it.ProductID] = sums[it.ProductID].Add(it.Qty)
		}
	}
	var rows []repository.TopSoldRow
	for pid, qty := range sums {
		name := ""
		if p, ok := r.products.products[pid]; ok {
			name = p.Name
		}
		rows = append(rows, repository.TopSoldRow{Name: name, TotalSold: qty})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TotalSold.GreaterThan(rows[j].TotalSold) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *stubSaleRepo) CreditItemsByEmployee(_ context.Context, employeeID uuid.UUID) ([]repository.CreditItemRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []repository.CreditItemRow
	for i := len(r.sales) - 1; i >= 0; i-- {
		s := r.sales[i]
		if s.PaymentMethod != model.PaymentCredit || s.EmployeeID == nil || *s.EmployeeID != employeeID {
			continue
		}
		for _, it := range s.Items {
			name := ""
			if p, ok := r.products.products[it.ProductID]; ok {
				name = p.Name
			}
			rows = append(rows, repository.CreditItemRow{
				ProductName: name,
				Qty:         it.Qty,
				UnitPrice:   it.UnitPrice,
				Subtotal:    it.Subtotal,
				SoldAt:      s.CreatedAt,
			})
		}
	}
	return rows, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Credit stub ───────────────────────────────────────────────────────────────

type stubCreditRepo struct {
	mu   sync.Mutex
	txns []model.CreditTransaction
}

func newStubCreditRepo() *stubCreditRepo { return &stubCreditRepo{} }

func (r *stubCreditRepo) CreateTx(_ context.Context, _ *gorm.DB, t *model.CreditTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.txns = append(r.txns, *t)
	return nil
}

func (r *stubCreditRepo) ListByEmployee(_ context.Context, employeeID uuid.UUID) ([]model.CreditTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CreditTransaction
	for _, t := range r.txns {
		if t.EmployeeID == employeeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubCreditRepo) ListAll(_ context.Context) ([]model.CreditTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.CreditTransaction(nil), r.txns...), nil
}

func (r *stubCreditRepo) ListByEmployeeTx(_ *gorm.DB, employeeID uuid.UUID) ([]model.CreditTransaction, error) {
	return r.ListByEmployee(context.Background(), employeeID)
}

func (r *stubCreditRepo) DB() *gorm.DB { return nil }

var _ repository.CreditRepository = (*stubCreditRepo)(nil)
