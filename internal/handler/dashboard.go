package handler

import (
	"net/http"

	"stockctl/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.ReportService }

func NewDashboardHandler(svc service.ReportService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary godoc
// @Summary      Dashboard summary
// @Description  Product count, total stock value at cost, low-stock count, outstanding credit, and the five best-selling products by quantity across cash sales.
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.DashboardSummaryResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	resp, err := h.svc.DashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
