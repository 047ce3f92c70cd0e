package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/medishare/backend/internal/application/catalog"
	"github.com/medishare/backend/internal/interfaces/http/dto"
)

// MedicineHandler handles medicine catalog endpoints
type MedicineHandler struct {
	BaseHandler
	medicineService *catalogapp.MedicineService
}

// NewMedicineHandler creates a new MedicineHandler
func NewMedicineHandler(medicineService *catalogapp.MedicineService) *MedicineHandler {
	return &MedicineHandler{medicineService: medicineService}
}

type medicineListQuery struct {
	dto.ListRequest
	Search   string `form:"search" binding:"omitempty,max=100"`
	Category string `form:"category" binding:"omitempty,max=50"`
}

// Create godoc
//
//	@Summary	Add a medicine to the catalog
//	@Tags		medicines
//	@Accept		json
//	@Produce	json
//	@Param		request	body		catalogapp.CreateMedicineRequest	true	"Medicine details"
//	@Success	201		{object}	dto.Response
//	@Failure	409		{object}	dto.Response	"Same name and strength already listed"
//	@Router		/medicines [post]
func (h *MedicineHandler) Create(c *gin.Context) {
	var req catalogapp.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	medicine, err := h.medicineService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, medicine)
}

// GetByID returns one catalog entry
func (h *MedicineHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "medicine")
	if !ok {
		return
	}

	medicine, err := h.medicineService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, medicine)
}

func (h *MedicineHandler) List(c *gin.Context) {
	var q medicineListQuery
	if !h.bindList(c, &q, &q.ListRequest) {
		return
	}

	medicines, err := h.medicineService.List(c.Request.Context(), catalogapp.MedicineListFilter{
		Search:   q.Search,
		Category: q.Category,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, medicines, len(medicines), q.ListRequest)
}
