package handler

import (
	"stockctl/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// InventoryXLSX streams the full product list as an Excel workbook.
func (h *ReportsHandler) InventoryXLSX(c *gin.Context) {
	f, err := h.svc.InventoryWorkbook(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
