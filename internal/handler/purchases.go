package handler

import (
	"net/http"
	"strconv"

	"stockctl/internal/dto"
	"stockctl/internal/service"

	"github.com/gin-gonic/gin"
)

type PurchasesHandler struct{ svc service.InventoryService }

func NewPurchasesHandler(svc service.InventoryService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

// Create godoc
// @Summary      Record a supplier purchase
// @Description  Registers a purchase and increments stock for every line, atomically.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body body dto.CreatePurchaseRequest true "Purchase detail"
// @Success      201  {object} dto.PurchaseResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/purchases [post]
func (h *PurchasesHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PurchasesHandler) List(c *gin.Context) {
	resp, err := h.svc.ListPurchases(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PurchasesHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetPurchase(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Correct a purchase
// @Description  Replaces the line set and re-derives stock from the difference between old and new lines.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        id   path string                    true "Purchase UUID"
// @Param        body body dto.UpdatePurchaseRequest true "Corrected detail"
// @Success      200  {object} dto.PurchaseResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/purchases/{id} [put]
func (h *PurchasesHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePurchase(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Cancel a purchase
// @Description  Removes the purchase and reverses its stock increments.
// @Tags         purchases
// @Param        id path string true "Purchase UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /api/purchases/{id} [delete]
func (h *PurchasesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.CancelPurchase(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LowStock lists products at or below their reorder level.
func (h *PurchasesHandler) LowStock(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	resp, err := h.svc.LowStock(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
