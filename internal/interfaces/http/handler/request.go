package handler

import (
	"github.com/gin-gonic/gin"

	redistributionapp "github.com/medishare/backend/internal/application/redistribution"
)

// RequestHandler handles medicine request endpoints
type RequestHandler struct {
	BaseHandler
	requestService *redistributionapp.RequestService
}

// NewRequestHandler creates a new RequestHandler
func NewRequestHandler(requestService *redistributionapp.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

type requestListQuery struct {
	ListQuery
	MedicineID string `form:"medicine_id" binding:"omitempty,uuid"`
}

// Create godoc
//
//	@Summary	Declare a medicine shortage
//	@Tags		requests
//	@Accept		json
//	@Produce	json
//	@Param		request	body		redistributionapp.CreateRequestRequest	true	"Shortage details"
//	@Success	201		{object}	dto.Response
//	@Failure	400		{object}	dto.Response
//	@Failure	404		{object}	dto.Response	"Clinic or medicine not found"
//	@Router		/requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var req redistributionapp.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	request, err := h.requestService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// GetByID returns one request
func (h *RequestHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "request")
	if !ok {
		return
	}

	request, err := h.requestService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Cancel withdraws an open request
func (h *RequestHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "request")
	if !ok {
		return
	}

	request, err := h.requestService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

func (h *RequestHandler) List(c *gin.Context) {
	var q requestListQuery
	if !h.bindList(c, &q, &q.ListRequest) {
		return
	}

	requests, err := h.requestService.List(c.Request.Context(), redistributionapp.RequestListFilter{
		ClinicID:   optionalUUID(q.ClinicID),
		MedicineID: optionalUUID(q.MedicineID),
		Status:     q.Status,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, requests, len(requests), q.ListRequest)
}
