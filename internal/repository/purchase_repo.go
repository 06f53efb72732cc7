package repository

import (
	"context"
	"time"

	"stockctl/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseRow is the compact shape for purchase listings: the supplier name
// and item count come from joins, not preloads.
type PurchaseRow struct {
	ID           uuid.UUID
	SupplierID   uuid.UUID
	SupplierName string
	Total        decimal.Decimal
	ItemCount    int
	CreatedAt    time.Time
}

type PurchaseRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, limit int) ([]PurchaseRow, error)

	// Used inside transactions — callers must pass the tx instance
	SaveTx(tx *gorm.DB, p *model.Purchase) error
	ReplaceItemsTx(tx *gorm.DB, purchaseID uuid.UUID, items []model.PurchaseItem) error
	DeleteTx(tx *gorm.DB, purchaseID uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) CreateTx(ctx context.Context, tx *gorm.DB, p *model.Purchase) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Supplier").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *purchaseRepo) List(ctx context.Context, limit int) ([]PurchaseRow, error) {
	var rows []PurchaseRow
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select(`purchases.id, purchases.supplier_id, suppliers.name AS supplier_name,
			purchases.total, purchases.created_at, COUNT(purchase_items.id) AS item_count`).
		Joins("JOIN suppliers ON suppliers.id = purchases.supplier_id").
		Joins("LEFT JOIN purchase_items ON purchase_items.purchase_id = purchases.id").
		Group("purchases.id, suppliers.name").
		Order("purchases.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *purchaseRepo) SaveTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Omit("Items", "Supplier").Save(p).Error
}

func (r *purchaseRepo) ReplaceItemsTx(tx *gorm.DB, purchaseID uuid.UUID, items []model.PurchaseItem) error {
	if err := tx.Delete(&model.PurchaseItem{}, "purchase_id = ?", purchaseID).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].PurchaseID = purchaseID
	}
	return tx.Create(&items).Error
}

func (r *purchaseRepo) DeleteTx(tx *gorm.DB, purchaseID uuid.UUID) error {
	if err := tx.Delete(&model.PurchaseItem{}, "purchase_id = ?", purchaseID).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Purchase{}, "id = ?", purchaseID).Error
}
