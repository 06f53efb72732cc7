package repository

import (
	"context"

	"stockctl/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditRepository stores the append-only employee credit ledger.
// Transactions are immutable: there is no Update or Delete.
type CreditRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, t *model.CreditTransaction) error
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.CreditTransaction, error)
	ListAll(ctx context.Context) ([]model.CreditTransaction, error)

	// ListByEmployeeTx reads the ledger inside an open transaction, so the
	// outstanding-balance check and the payment insert see the same state.
	ListByEmployeeTx(tx *gorm.DB, employeeID uuid.UUID) ([]model.CreditTransaction, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type creditRepo struct{ db *gorm.DB }

func NewCreditRepository(db *gorm.DB) CreditRepository { return &creditRepo{db: db} }

func (r *creditRepo) DB() *gorm.DB { return r.db }

func (r *creditRepo) CreateTx(ctx context.Context, tx *gorm.DB, t *model.CreditTransaction) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *creditRepo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]model.CreditTransaction, error) {
	var txns []model.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&txns).Error
	return txns, err
}

func (r *creditRepo) ListAll(ctx context.Context) ([]model.CreditTransaction, error) {
	var txns []model.CreditTransaction
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&txns).Error
	return txns, err
}

func (r *creditRepo) ListByEmployeeTx(tx *gorm.DB, employeeID uuid.UUID) ([]model.CreditTransaction, error) {
	var txns []model.CreditTransaction
	err := tx.Where("employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&txns).Error
	return txns, err
}
