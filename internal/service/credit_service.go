package service

import (
	"context"
	"sort"
	"sync"

	"stockctl/internal/apierror"
	"stockctl/internal/dto"
	"stockctl/internal/model"
	"stockctl/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditService is the employee store-credit ledger. The transaction log is
// the system of record: balances are recomputed from it on every read, never
// cached or stored.
type CreditService interface {
	BalanceForEmployee(ctx context.Context, employeeID uuid.UUID) (decimal.Decimal, error)
	RecordPayment(ctx context.Context, employeeID uuid.UUID, req dto.CreditPaymentRequest) (*dto.CreditPaymentResponse, error)
	Summary(ctx context.Context) ([]dto.CreditSummaryItem, error)
	PaymentHistory(ctx context.Context) ([]dto.PaymentHistoryItem, error)
	// OutstandingCreditSum is the sum of all positive per-employee balances.
	OutstandingCreditSum(ctx context.Context) (decimal.Decimal, error)
}

type creditService struct {
	repo         repository.CreditRepository
	employeeRepo repository.EmployeeRepository
	saleRepo     repository.SaleRepository

	// locks serializes credit mutations per employee. The outstanding-balance
	// check and the payment insert are two steps; without serialization two
	// concurrent payments could both pass the check and jointly overpay.
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewCreditService(
	repo repository.CreditRepository,
	employeeRepo repository.EmployeeRepository,
	saleRepo repository.SaleRepository,
) CreditService {
	return &creditService{
		repo:         repo,
		employeeRepo: employeeRepo,
		saleRepo:     saleRepo,
		locks:        make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *creditService) employeeLock(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// signedSum derives a balance from the ledger: +amount for a charge,
// −amount for a payment.
func signedSum(txns []model.CreditTransaction) decimal.Decimal {
	bal := decimal.Zero
	for _, t := range txns {
		if t.Type == model.CreditCharge {
			bal = bal.Add(t.Amount)
		} else {
			bal = bal.Sub(t.Amount)
		}
	}
	return bal
}

func (s *creditService) BalanceForEmployee(ctx context.Context, employeeID uuid.UUID) (decimal.Decimal, error) {
	txns, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}
	return signedSum(txns).Round(2), nil
}

// ── RecordPayment ─────────────────────────────────────────────────────────────
// Check-then-insert under a per-employee lock and inside one transaction, so
// two concurrent payments against the same outstanding balance cannot both
// pass the check (a cumulative-overpayment race otherwise).

func (s *creditService) RecordPayment(ctx context.Context, employeeID uuid.UUID, req dto.CreditPaymentRequest) (*dto.CreditPaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, apierror.Validationf("Payment must be positive")
	}
	if _, err := s.employeeRepo.FindByID(ctx, employeeID); err != nil {
		return nil, apierror.NotFoundf("Employee %s not found", employeeID)
	}

	lock := s.employeeLock(employeeID)
	lock.Lock()
	defer lock.Unlock()

	var txn model.CreditTransaction
	var remaining decimal.Decimal

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		txns, err := s.repo.ListByEmployeeTx(tx, employeeID)
		if err != nil {
			return err
		}
		outstanding := signedSum(txns).Round(2)
		if !outstanding.IsPositive() {
			return apierror.Conflictf("No outstanding balance for this employee.")
		}
		if req.Amount.GreaterThan(outstanding) {
			return apierror.Conflictf("Payment exceeds outstanding balance. Remaining: %s", outstanding.StringFixed(2))
		}

		txn = model.CreditTransaction{
			EmployeeID: employeeID,
			Type:       model.CreditPayment,
			Amount:     req.Amount.Round(2),
			Note:       req.Note,
		}
		if err := s.repo.CreateTx(ctx, tx, &txn); err != nil {
			return err
		}
		remaining = outstanding.Sub(txn.Amount).Round(2)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.CreditPaymentResponse{
		ID:        txn.ID.String(),
		Applied:   txn.Amount,
		Remaining: remaining,
	}, nil
}

// ── Summary ───────────────────────────────────────────────────────────────────
// One row per employee with an outstanding balance, annotated with the products
// acquired through credit-financed sales. Sorted by balance descending.

func (s *creditService) Summary(ctx context.Context) ([]dto.CreditSummaryItem, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CreditSummaryItem, 0)
	for _, e := range employees {
		bal, err := s.BalanceForEmployee(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if !bal.IsPositive() {
			continue
		}
		items, err := s.creditItemsFor(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.CreditSummaryItem{
			EmployeeID:   e.ID.String(),
			EmployeeName: e.Name,
			Balance:      bal,
			Items:        items,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Balance.GreaterThan(out[j].Balance)
	})
	return out, nil
}

// ── PaymentHistory ────────────────────────────────────────────────────────────
// One row per employee with at least one payment: total paid plus the same
// credit-financed item listing. Sorted by total paid descending.

func (s *creditService) PaymentHistory(ctx context.Context) ([]dto.PaymentHistoryItem, error) {
	txns, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	paid := make(map[uuid.UUID]decimal.Decimal)
	for _, t := range txns {
		if t.Type == model.CreditPayment {
			paid[t.EmployeeID] = paid[t.EmployeeID].Add(t.Amount)
		}
	}
	if len(paid) == 0 {
		return []dto.PaymentHistoryItem{}, nil
	}

	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PaymentHistoryItem, 0, len(paid))
	for _, e := range employees {
		total, ok := paid[e.ID]
		if !ok {
			continue
		}
		items, err := s.creditItemsFor(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.PaymentHistoryItem{
			EmployeeID:   e.ID.String(),
			EmployeeName: e.Name,
			TotalPaid:    total.Round(2),
			Items:        items,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TotalPaid.GreaterThan(out[j].TotalPaid)
	})
	return out, nil
}

func (s *creditService) OutstandingCreditSum(ctx context.Context) (decimal.Decimal, error) {
	txns, err := s.repo.ListAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	perEmployee := make(map[uuid.UUID]decimal.Decimal)
	for _, t := range txns {
		if t.Type == model.CreditCharge {
			perEmployee[t.EmployeeID] = perEmployee[t.EmployeeID].Add(t.Amount)
		} else {
			perEmployee[t.EmployeeID] = perEmployee[t.EmployeeID].Sub(t.Amount)
		}
	}
	total := decimal.Zero
	for _, bal := range perEmployee {
		if bal.IsPositive() {
			total = total.Add(bal)
		}
	}
	return total.Round(2), nil
}

func (s *creditService) creditItemsFor(ctx context.Context, employeeID uuid.UUID) ([]dto.CreditItemDetail, error) {
	rows, err := s.saleRepo.CreditItemsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CreditItemDetail, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.CreditItemDetail{
			Product:   r.ProductName,
			Qty:       r.Qty,
			UnitPrice: r.UnitPrice,
			Subtotal:  r.Subtotal,
			SoldAt:    r.SoldAt.Format(timeLayout),
		})
	}
	return items, nil
}
