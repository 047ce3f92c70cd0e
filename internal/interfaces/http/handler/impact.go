package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/medishare/backend/internal/application/report"
)

// ImpactHandler serves redistribution impact figures
type ImpactHandler struct {
	BaseHandler
	reportService *report.ReportService
}

// NewImpactHandler creates a new ImpactHandler
func NewImpactHandler(reportService *report.ReportService) *ImpactHandler {
	return &ImpactHandler{reportService: reportService}
}

// Get summarizes completed transfers, network-wide or for one clinic
func (h *ImpactHandler) Get(c *gin.Context) {
	var q matchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	impact, err := h.reportService.Impact(c.Request.Context(), optionalUUID(q.ClinicID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, impact)
}
