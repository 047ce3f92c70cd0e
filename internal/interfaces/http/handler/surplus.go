package handler

import (
	"github.com/gin-gonic/gin"

	redistributionapp "github.com/medishare/backend/internal/application/redistribution"
)

// SurplusHandler handles surplus posting endpoints
type SurplusHandler struct {
	BaseHandler
	surplusService *redistributionapp.SurplusService
}

// NewSurplusHandler creates a new SurplusHandler
func NewSurplusHandler(surplusService *redistributionapp.SurplusService) *SurplusHandler {
	return &SurplusHandler{surplusService: surplusService}
}

// Post godoc
//
//	@Summary		Offer surplus stock from an inventory batch
//	@Description	The quantity may not exceed what the batch holds and the batch
//	@Description	must not be expired.
//	@Tags			surplus
//	@Accept			json
//	@Produce		json
//	@Param			request	body		redistributionapp.PostSurplusRequest	true	"Posting details"
//	@Success		201		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Failure		422		{object}	dto.Response	"Batch expired or too small"
//	@Router			/surplus [post]
func (h *SurplusHandler) Post(c *gin.Context) {
	var req redistributionapp.PostSurplusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	posting, err := h.surplusService.Post(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, posting)
}

// GetByID returns one surplus posting
func (h *SurplusHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "surplus posting")
	if !ok {
		return
	}

	posting, err := h.surplusService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, posting)
}

// Cancel withdraws an available posting
func (h *SurplusHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "surplus posting")
	if !ok {
		return
	}

	posting, err := h.surplusService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, posting)
}

func (h *SurplusHandler) List(c *gin.Context) {
	var q ListQuery
	if !h.bindList(c, &q, &q.ListRequest) {
		return
	}

	postings, err := h.surplusService.List(c.Request.Context(), redistributionapp.SurplusListFilter{
		ClinicID: optionalUUID(q.ClinicID),
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, postings, len(postings), q.ListRequest)
}
