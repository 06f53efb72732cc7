package handler

import (
	"net/http"

	"stockctl/internal/dto"
	"stockctl/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreditsHandler struct{ svc service.CreditService }

func NewCreditsHandler(svc service.CreditService) *CreditsHandler {
	return &CreditsHandler{svc: svc}
}

// Balance godoc
// @Summary      Employee credit balance
// @Description  Returns the outstanding balance derived from the ledger. Never negative: historical over-payments show as zero.
// @Tags         credits
// @Produce      json
// @Param        id path string true "Employee UUID"
// @Success      200 {object} dto.CreditBalanceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/credits/{id}/balance [get]
func (h *CreditsHandler) Balance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	balance, err := h.svc.BalanceForEmployee(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CreditBalanceResponse{
		EmployeeID: id.String(),
		Balance:    clampNonNegative(balance),
	})
}

// RecordPayment godoc
// @Summary      Record a credit payment
// @Description  Applies a payment against the employee's outstanding balance. Rejected when nothing is owed or the amount exceeds the balance.
// @Tags         credits
// @Accept       json
// @Produce      json
// @Param        id   path string                   true "Employee UUID"
// @Param        body body dto.CreditPaymentRequest true "Payment"
// @Success      201  {object} dto.CreditPaymentResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/credits/{id}/payments [post]
func (h *CreditsHandler) RecordPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CreditPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CreditsHandler) Summary(c *gin.Context) {
	items, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CreditsHandler) PaymentHistory(c *gin.Context) {
	items, err := h.svc.PaymentHistory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// clampNonNegative hides historical over-payment artifacts from clients; the
// ledger itself stays untouched.
func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
