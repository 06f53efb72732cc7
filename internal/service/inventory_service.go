package service

import (
	"context"

	"stockctl/internal/apierror"
	"stockctl/internal/dto"
	"stockctl/internal/model"
	"stockctl/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryService is the stock-in side of the inventory ledger: purchases
// increment product stock, purchase updates reconcile per-product deltas,
// and cancellations reverse the whole document or nothing.
type InventoryService interface {
	CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	UpdatePurchase(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error)
	CancelPurchase(ctx context.Context, id uuid.UUID) error
	GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	ListPurchases(ctx context.Context) ([]dto.PurchaseListItem, error)

	LowStock(ctx context.Context, limit int) ([]dto.ProductResponse, error)
	TotalStockValue(ctx context.Context) (decimal.Decimal, error)
}

type inventoryService struct {
	repo         repository.PurchaseRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

func NewInventoryService(
	repo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
) InventoryService {
	return &inventoryService{repo: repo, productRepo: productRepo, supplierRepo: supplierRepo}
}

// ── CreatePurchase ────────────────────────────────────────────────────────────
// One ACID transaction: resolve every product first, then increment stock and
// create the purchase with its items. A missing product aborts before any
// stock is touched.

func (s *inventoryService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if len(req.Items) == 0 {
		return nil, apierror.Validationf("No items provided")
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.Validationf("invalid supplier_id: %s", req.SupplierID)
	}
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return nil, apierror.NotFoundf("Supplier %s not found", req.SupplierID)
	}

	type resolvedItem struct {
		productID uuid.UUID
		name      string
		qty       decimal.Decimal
		unitCost  decimal.Decimal
		subtotal  decimal.Decimal
	}

	var purchase model.Purchase
	var resolved []resolvedItem

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		resolved = resolved[:0]
		total := decimal.Zero

		// Phase 1: resolve products and compute subtotals — no mutation yet.
		for _, it := range req.Items {
			pid, err := uuid.Parse(it.ProductID)
			if err != nil {
				return apierror.Validationf("invalid product_id: %s", it.ProductID)
			}
			p, err := s.productRepo.FindByIDTx(tx, pid)
			if err != nil {
				return apierror.NotFoundf("Product %s not found", it.ProductID)
			}
			subtotal := it.Qty.Mul(it.UnitCost).Round(2)
			total = total.Add(subtotal)
			resolved = append(resolved, resolvedItem{
				productID: pid,
				name:      p.Name,
				qty:       it.Qty,
				unitCost:  it.UnitCost,
				subtotal:  subtotal,
			})
		}

		// Phase 2: apply stock increments and persist the document.
		purchase = model.Purchase{
			SupplierID: supplierID,
			Total:      total.Round(2),
		}
		for _, r := range resolved {
			if err := s.productRepo.UpdateStockTx(tx, r.productID, r.qty); err != nil {
				return err
			}
			purchase.Items = append(purchase.Items, model.PurchaseItem{
				ProductID: r.productID,
				Qty:       r.qty,
				UnitCost:  r.unitCost,
				Subtotal:  r.subtotal,
			})
		}
		return s.repo.CreateTx(ctx, tx, &purchase)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.PurchaseResponse{
		ID:         purchase.ID.String(),
		SupplierID: supplierID.String(),
		Total:      purchase.Total,
		CreatedAt:  purchase.CreatedAt.Format(timeLayout),
	}
	for _, r := range resolved {
		resp.Items = append(resp.Items, dto.PurchaseItemResponse{
			ProductID: r.productID.String(),
			Product:   r.name,
			Qty:       r.qty,
			UnitCost:  r.unitCost,
			Subtotal:  r.subtotal,
		})
	}
	return resp, nil
}

// ── UpdatePurchase ────────────────────────────────────────────────────────────
// Item replacement with stock delta reconciliation. Quantities are grouped by
// product on both sides, then every touched product gets
// stock_qty += desired − current. All deltas are validated against current
// stock before any is applied, so an update that shrinks one product and
// grows another can never leave partial state behind.

func (s *inventoryService) UpdatePurchase(ctx context.Context, id uuid.UUID, req dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("Purchase %s not found", id)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.SupplierID != nil {
			supplierID, err := uuid.Parse(*req.SupplierID)
			if err != nil {
				return apierror.Validationf("invalid supplier_id: %s", *req.SupplierID)
			}
			if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
				return apierror.NotFoundf("Supplier %s not found", *req.SupplierID)
			}
			purchase.SupplierID = supplierID
		}

		if req.Items != nil {
			if len(*req.Items) == 0 {
				return apierror.Validationf("No items provided")
			}

			// Desired quantities, grouped by product.
			desired := make(map[uuid.UUID]decimal.Decimal)
			var order []uuid.UUID
			for _, it := range *req.Items {
				pid, err := uuid.Parse(it.ProductID)
				if err != nil {
					return apierror.Validationf("invalid product_id: %s", it.ProductID)
				}
				if _, seen := desired[pid]; !seen {
					order = append(order, pid)
				}
				desired[pid] = desired[pid].Add(it.Qty)
			}

			// Current quantities, grouped by product.
			current := make(map[uuid.UUID]decimal.Decimal)
			for _, it := range purchase.Items {
				if _, seen := desired[it.ProductID]; !seen {
					if _, tracked := current[it.ProductID]; !tracked {
						order = append(order, it.ProductID)
					}
				}
				current[it.ProductID] = current[it.ProductID].Add(it.Qty)
			}

			// Phase 1: validate every delta against current stock.
			deltas := make(map[uuid.UUID]decimal.Decimal, len(order))
			names := make(map[uuid.UUID]string, len(order))
			for _, pid := range order {
				p, err := s.productRepo.FindByIDTx(tx, pid)
				if err != nil {
					return apierror.NotFoundf("Product %s not found", pid)
				}
				delta := desired[pid].Sub(current[pid])
				if p.StockQty.Add(delta).IsNegative() {
					return apierror.Conflictf("Update would make stock negative for %s", p.Name)
				}
				deltas[pid] = delta
				names[pid] = p.Name
			}

			// Phase 2: apply deltas, replace items, recompute total.
			for _, pid := range order {
				if deltas[pid].IsZero() {
					continue
				}
				if err := s.productRepo.UpdateStockTx(tx, pid, deltas[pid]); err != nil {
					return err
				}
			}

			total := decimal.Zero
			newItems := make([]model.PurchaseItem, 0, len(*req.Items))
			for _, it := range *req.Items {
				pid, _ := uuid.Parse(it.ProductID)
				subtotal := it.Qty.Mul(it.UnitCost).Round(2)
				total = total.Add(subtotal)
				newItems = append(newItems, model.PurchaseItem{
					ProductID: pid,
					Qty:       it.Qty,
					UnitCost:  it.UnitCost,
					Subtotal:  subtotal,
				})
			}
			if err := s.repo.ReplaceItemsTx(tx, purchase.ID, newItems); err != nil {
				return err
			}
			purchase.Total = total.Round(2)
		}

		return s.repo.SaveTx(tx, purchase)
	})
	if txErr != nil {
		return nil, txErr
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return purchaseToResponse(updated), nil
}

// ── CancelPurchase ────────────────────────────────────────────────────────────
// Full reversal: every item's stock increment is undone, then items and the
// purchase row are deleted. If an intervening sale consumed the stock so that
// reversal would go negative, the whole cancellation is rejected.

func (s *inventoryService) CancelPurchase(ctx context.Context, id uuid.UUID) error {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFoundf("Purchase %s not found", id)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Reversal quantities, grouped by product.
		reversal := make(map[uuid.UUID]decimal.Decimal)
		var order []uuid.UUID
		for _, it := range purchase.Items {
			if _, seen := reversal[it.ProductID]; !seen {
				order = append(order, it.ProductID)
			}
			reversal[it.ProductID] = reversal[it.ProductID].Add(it.Qty)
		}

		// Phase 1: validate full reversal.
		for _, pid := range order {
			p, err := s.productRepo.FindByIDTx(tx, pid)
			if err != nil {
				return apierror.NotFoundf("Product %s not found", pid)
			}
			if p.StockQty.Sub(reversal[pid]).IsNegative() {
				return apierror.Conflictf("Cannot cancel: stock would go negative for %s", p.Name)
			}
		}

		// Phase 2: decrement stock and delete the document.
		for _, pid := range order {
			if err := s.productRepo.UpdateStockTx(tx, pid, reversal[pid].Neg()); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, purchase.ID)
	})
}

// ── Read-only views ───────────────────────────────────────────────────────────

func (s *inventoryService) GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("Purchase %s not found", id)
	}
	return purchaseToResponse(purchase), nil
}

func (s *inventoryService) ListPurchases(ctx context.Context) ([]dto.PurchaseListItem, error) {
	rows, err := s.repo.List(ctx, 100)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.PurchaseListItem{
			ID:           r.ID.String(),
			SupplierID:   r.SupplierID.String(),
			SupplierName: r.SupplierName,
			Total:        r.Total,
			ItemCount:    r.ItemCount,
			CreatedAt:    r.CreatedAt.Format(timeLayout),
		})
	}
	return items, nil
}

func (s *inventoryService) LowStock(ctx context.Context, limit int) ([]dto.ProductResponse, error) {
	if limit < 1 {
		limit = 10
	}
	products, err := s.productRepo.LowStock(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productToResponse(&p))
	}
	return out, nil
}

func (s *inventoryService) TotalStockValue(ctx context.Context) (decimal.Decimal, error) {
	value, err := s.productRepo.TotalStockValue(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return value.Round(2), nil
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	resp := &dto.PurchaseResponse{
		ID:         p.ID.String(),
		SupplierID: p.SupplierID.String(),
		Total:      p.Total,
		CreatedAt:  p.CreatedAt.Format(timeLayout),
	}
	for _, it := range p.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		resp.Items = append(resp.Items, dto.PurchaseItemResponse{
			ProductID: it.ProductID.String(),
			Product:   name,
			Qty:       it.Qty,
			UnitCost:  it.UnitCost,
			Subtotal:  it.Subtotal,
		})
	}
	return resp
}
