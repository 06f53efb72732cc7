package repository

import (
	"context"
	"time"

	"stockctl/internal/dto"
	"stockctl/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TopSoldRow aggregates cumulative sold quantity per product.
type TopSoldRow struct {
	Name      string
	TotalSold decimal.Decimal
}

// CreditItemRow is one sale line from a credit-financed sale, joined with
// its product name and the sale timestamp.
type CreditItemRow struct {
	ProductName string
	Qty         decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	SoldAt      time.Time
}

type SaleRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)

	// TopSoldCash ranks products by cumulative quantity across cash sales only.
	TopSoldCash(ctx context.Context, limit int) ([]TopSoldRow, error)
	// CreditItemsByEmployee returns the line items of all credit sales made
	// by one employee, newest first.
	CreditItemsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]CreditItemRow, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Employee").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Product").Preload("Employee").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) TopSoldCash(ctx context.Context, limit int) ([]TopSoldRow, error) {
	var rows []TopSoldRow
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select("products.name, SUM(sale_items.qty) AS total_sold").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.payment_method = ?", model.PaymentCash).
		Group("products.id, products.name").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) CreditItemsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]CreditItemRow, error) {
	var rows []CreditItemRow
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).
		Select(`products.name AS product_name, sale_items.qty, sale_items.unit_price,
			sale_items.subtotal, sales.created_at AS sold_at`).
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.payment_method = ? AND sales.employee_id = ?", model.PaymentCredit, employeeID).
		Order("sales.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
