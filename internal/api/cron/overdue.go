package cron

import (
	"net/http"
	"time"

	"github.com/flexprice/gstbill/internal/logger"
	"github.com/flexprice/gstbill/internal/service"
	"github.com/gin-gonic/gin"
)

// OverdueHandler lets an external scheduler trigger the overdue scan
type OverdueHandler struct {
	overdueService service.OverdueService
	logger         *logger.Logger
}

func NewOverdueHandler(overdueService service.OverdueService, logger *logger.Logger) *OverdueHandler {
	return &OverdueHandler{
		overdueService: overdueService,
		logger:         logger,
	}
}

// @Summary Scan for overdue invoices
// @Description Mark every past due invoice with an open balance as overdue, across all tenants
// @Tags Cron
// @Produce json
// @Param X-Cron-Secret header string true "Cron secret"
// @Success 200 {object} dto.OverdueScanResponse
// @Failure 401 {object} ierr.ErrorResponse
// @Router /cron/invoices/overdue [post]
func (h *OverdueHandler) ScanOverdue(c *gin.Context) {
	h.logger.Infow("overdue scan triggered by cron")

	resp, err := h.overdueService.ScanOverdue(c.Request.Context(), time.Now().UTC())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
