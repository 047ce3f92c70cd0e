package handler

import (
	"github.com/gin-gonic/gin"

	clinicapp "github.com/medishare/backend/internal/application/clinic"
	"github.com/medishare/backend/internal/interfaces/http/dto"
)

// ClinicHandler handles clinic registry endpoints
type ClinicHandler struct {
	BaseHandler
	clinicService *clinicapp.ClinicService
}

// NewClinicHandler creates a new ClinicHandler
func NewClinicHandler(clinicService *clinicapp.ClinicService) *ClinicHandler {
	return &ClinicHandler{clinicService: clinicService}
}

type clinicListQuery struct {
	dto.ListRequest
	State    string `form:"state" binding:"omitempty,max=100"`
	District string `form:"district" binding:"omitempty,max=100"`
}

// Register godoc
//
//	@Summary	Register a clinic
//	@Tags		clinics
//	@Accept		json
//	@Produce	json
//	@Param		request	body		clinicapp.RegisterClinicRequest	true	"Clinic details"
//	@Success	201		{object}	dto.Response
//	@Failure	400		{object}	dto.Response
//	@Router		/clinics [post]
func (h *ClinicHandler) Register(c *gin.Context) {
	var req clinicapp.RegisterClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	clinic, err := h.clinicService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, clinic)
}

// GetByID returns one clinic
func (h *ClinicHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "clinic")
	if !ok {
		return
	}

	clinic, err := h.clinicService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, clinic)
}

// List returns clinics, optionally narrowed to a state or district
func (h *ClinicHandler) List(c *gin.Context) {
	var q clinicListQuery
	if !h.bindList(c, &q, &q.ListRequest) {
		return
	}

	clinics, err := h.clinicService.List(c.Request.Context(), clinicapp.ClinicListFilter{
		State:    q.State,
		District: q.District,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, clinics, len(clinics), q.ListRequest)
}
