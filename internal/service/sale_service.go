package service

import (
	"context"
	"time"

	"stockctl/internal/apierror"
	"stockctl/internal/dto"
	"stockctl/internal/infra"
	"stockctl/internal/model"
	"stockctl/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	// GenerateReceipt renders the sale's PDF receipt and returns its path.
	GenerateReceipt(ctx context.Context, id uuid.UUID) (string, error)
}

type saleService struct {
	repo         repository.SaleRepository
	productRepo  repository.ProductRepository
	employeeRepo repository.EmployeeRepository
	creditRepo   repository.CreditRepository
	receiptPath  string
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	employeeRepo repository.EmployeeRepository,
	creditRepo repository.CreditRepository,
	receiptPath string,
) SaleService {
	return &saleService{
		repo:         repo,
		productRepo:  productRepo,
		employeeRepo: employeeRepo,
		creditRepo:   creditRepo,
		receiptPath:  receiptPath,
	}
}

// ── CreateSale ────────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. Resolve every product and validate stock (grouped per product, so a
//      sale listing the same product twice cannot sneak past the check)
//   2. Decrement stock per product
//   3. Create the sale with its items
//   4. For a credit sale, create the linked charge transaction
// Either everything commits or nothing does — a credit sale can never exist
// without its charge entry.

func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, apierror.Validationf("No items provided")
	}

	var employeeID *uuid.UUID
	if req.EmployeeID != nil {
		eid, err := uuid.Parse(*req.EmployeeID)
		if err != nil {
			return nil, apierror.Validationf("invalid employee_id: %s", *req.EmployeeID)
		}
		if _, err := s.employeeRepo.FindByID(ctx, eid); err != nil {
			return nil, apierror.NotFoundf("Employee %s not found", *req.EmployeeID)
		}
		employeeID = &eid
	}
	if req.PaymentMethod == model.PaymentCredit && employeeID == nil {
		return nil, apierror.Validationf("Credit sale requires employee")
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, apierror.Validationf("invalid due_date: %s", *req.DueDate)
		}
		dueDate = &d
	}

	type resolvedItem struct {
		productID uuid.UUID
		name      string
		qty       decimal.Decimal
		unitPrice decimal.Decimal
		subtotal  decimal.Decimal
	}

	var sale model.Sale
	var resolved []resolvedItem

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		resolved = resolved[:0]
		total := decimal.Zero
		demand := make(map[uuid.UUID]decimal.Decimal)
		var order []uuid.UUID

		for _, it := range req.Items {
			pid, err := uuid.Parse(it.ProductID)
			if err != nil {
				return apierror.Validationf("invalid product_id: %s", it.ProductID)
			}
			if _, seen := demand[pid]; !seen {
				order = append(order, pid)
			}
			demand[pid] = demand[pid].Add(it.Qty)
		}

		// Phase 1: resolve products, validate cumulative stock — no mutation yet.
		names := make(map[uuid.UUID]string, len(order))
		for _, pid := range order {
			p, err := s.productRepo.FindByIDTx(tx, pid)
			if err != nil {
				return apierror.NotFoundf("Product %s not found", pid)
			}
			names[pid] = p.Name
			if p.StockQty.Sub(demand[pid]).IsNegative() {
				return apierror.InsufficientStockf("Insufficient stock for %s", p.Name)
			}
		}

		// Phase 2: decrement stock and build the document.
		for _, pid := range order {
			if err := s.productRepo.UpdateStockTx(tx, pid, demand[pid].Neg()); err != nil {
				return err
			}
		}

		sale = model.Sale{
			EmployeeID:    employeeID,
			PaymentMethod: req.PaymentMethod,
			DueDate:       dueDate,
		}
		for _, it := range req.Items {
			pid, _ := uuid.Parse(it.ProductID)
			subtotal := it.Qty.Mul(it.UnitPrice).Round(2)
			total = total.Add(subtotal)
			resolved = append(resolved, resolvedItem{
				productID: pid,
				name:      names[pid],
				qty:       it.Qty,
				unitPrice: it.UnitPrice,
				subtotal:  subtotal,
			})
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: pid,
				Qty:       it.Qty,
				UnitPrice: it.UnitPrice,
				Subtotal:  subtotal,
			})
		}
		sale.Total = total.Round(2)

		if err := s.repo.CreateTx(ctx, tx, &sale); err != nil {
			return err
		}

		// The charge entry commits with the sale or not at all.
		if req.PaymentMethod == model.PaymentCredit {
			saleID := sale.ID
			charge := &model.CreditTransaction{
				EmployeeID: *employeeID,
				Type:       model.CreditCharge,
				Amount:     sale.Total,
				SaleID:     &saleID,
			}
			if err := s.creditRepo.CreateTx(ctx, tx, charge); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.SaleResponse{
		ID:            sale.ID.String(),
		PaymentMethod: sale.PaymentMethod,
		Total:         sale.Total,
		CreatedAt:     sale.CreatedAt.Format(timeLayout),
	}
	if employeeID != nil {
		eid := employeeID.String()
		resp.EmployeeID = &eid
	}
	if dueDate != nil {
		d := dueDate.Format("2006-01-02")
		resp.DueDate = &d
	}
	for _, r := range resolved {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ProductID: r.productID.String(),
			Product:   r.name,
			Qty:       r.qty,
			UnitPrice: r.unitPrice,
			Subtotal:  r.subtotal,
		})
	}
	return resp, nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("Sale %s not found", id)
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *saleService) GenerateReceipt(ctx context.Context, id uuid.UUID) (string, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", apierror.NotFoundf("Sale %s not found", id)
	}
	return infra.GenerateReceiptPDF(sale, s.receiptPath)
}

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            v.ID.String(),
		PaymentMethod: v.PaymentMethod,
		Total:         v.Total,
		CreatedAt:     v.CreatedAt.Format(timeLayout),
	}
	if v.EmployeeID != nil {
		eid := v.EmployeeID.String()
		resp.EmployeeID = &eid
	}
	if v.DueDate != nil {
		d := v.DueDate.Format("2006-01-02")
		resp.DueDate = &d
	}
	for _, it := range v.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ProductID: it.ProductID.String(),
			Product:   name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return resp
}
