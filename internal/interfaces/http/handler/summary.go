package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/medishare/backend/internal/application/report"
)

// SummaryHandler serves the per-clinic dashboard overview
type SummaryHandler struct {
	BaseHandler
	summaryService *report.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *report.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// Get godoc
//
//	@Summary		Overview of one clinic
//	@Description	Batch counts by stock status, available surplus, open requests
//	@Description	and the transfers the clinic sent or received.
//	@Tags			clinics
//	@Produce		json
//	@Param			id	path		string	true	"Clinic ID"	format(uuid)
//	@Success		200	{object}	dto.Response{data=report.ClinicSummary}
//	@Failure		404	{object}	dto.Response	"Clinic not found"
//	@Router			/clinics/{id}/summary [get]
func (h *SummaryHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "clinic")
	if !ok {
		return
	}

	summary, err := h.summaryService.Summarize(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
