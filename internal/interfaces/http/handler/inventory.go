package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	inventoryapp "github.com/medishare/backend/internal/application/inventory"
	"github.com/medishare/backend/internal/infrastructure/scheduler"
	"github.com/medishare/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles clinic stock endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
	refresher        *scheduler.RefreshScheduler
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

type inventoryListQuery struct {
	ListQuery
	MedicineID string `form:"medicine_id" binding:"omitempty,uuid"`
}

// Add godoc
//
//	@Summary		Record a batch of stock at a clinic
//	@Description	Either medicine_id or an inline medicine must be given. An inline
//	@Description	medicine is matched by name and strength and created when missing.
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			request	body		inventoryapp.AddInventoryRequest	true	"Batch details"
//	@Success		201		{object}	dto.Response
//	@Failure		400		{object}	dto.Response
//	@Failure		404		{object}	dto.Response	"Clinic or medicine not found"
//	@Router			/inventory [post]
func (h *InventoryHandler) Add(c *gin.Context) {
	var req inventoryapp.AddInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.inventoryService.Add(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID returns one batch
func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "inventory item")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List returns batches filtered by clinic, medicine and stock status
func (h *InventoryHandler) List(c *gin.Context) {
	var q inventoryListQuery
	if !h.bindList(c, &q, &q.ListRequest) {
		return
	}

	items, err := h.inventoryService.List(c.Request.Context(), inventoryapp.InventoryListFilter{
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
	h.SuccessList(c, items, len(items), q.ListRequest)
}

// SetRefreshScheduler attaches the status refresh loop behind /inventory/refresh
func (h *InventoryHandler) SetRefreshScheduler(refresher *scheduler.RefreshScheduler) {
	h.refresher = refresher
}

// RefreshStatusResponse reports the state of the status refresh loop
type RefreshStatusResponse struct {
	Running bool                       `json:"running"`
	Runs    int64                      `json:"runs"`
	LastRun *inventoryapp.RefreshStats `json:"last_run,omitempty"`
}

// RefreshStatus godoc
//
//	@Summary	Status refresh loop state
//	@Tags		inventory
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=RefreshStatusResponse}
//	@Router		/inventory/refresh [get]
func (h *InventoryHandler) RefreshStatus(c *gin.Context) {
	if h.refresher == nil {
		h.Success(c, RefreshStatusResponse{})
		return
	}
	h.Success(c, RefreshStatusResponse{
		Running: h.refresher.IsRunning(),
		Runs:    h.refresher.Runs(),
		LastRun: h.refresher.LastRun(),
	})
}

// Refresh godoc
//
//	@Summary		Reclassify inventory now
//	@Description	Runs one status refresh pass outside the schedule.
//	@Tags			inventory
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=inventoryapp.RefreshStats}
//	@Failure		422	{object}	dto.Response	"Refresh loop disabled"
//	@Failure		503	{object}	dto.Response	"A pass is already running"
//	@Router			/inventory/refresh [post]
func (h *InventoryHandler) Refresh(c *gin.Context) {
	if h.refresher == nil {
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Inventory refresh is disabled")
		return
	}

	stats, err := h.refresher.RunNow(c.Request.Context())
	switch {
	case errors.Is(err, scheduler.ErrSchedulerNotRunning):
		h.Error(c, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Inventory refresh is disabled")
	case errors.Is(err, scheduler.ErrRunInProgress):
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeBusy, "Inventory refresh already in progress, retry later")
	case err != nil:
		h.HandleError(c, err)
	default:
		h.Success(c, stats)
	}
}
