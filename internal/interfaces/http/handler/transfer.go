package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	redistributionapp "github.com/medishare/backend/internal/application/redistribution"
)

// TransferHandler handles the transfer lifecycle endpoints
type TransferHandler struct {
	BaseHandler
	transferService *redistributionapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *redistributionapp.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

type transferListQuery struct {
	ListQuery
	Direction string `form:"direction" binding:"omitempty,oneof=all incoming outgoing"`
}

// Propose godoc
//
//	@Summary		Propose a transfer from a surplus posting to a request
//	@Description	Reserves the surplus and marks the request matched. The quantity is
//	@Description	the smaller of the two sides.
//	@Tags			transfers
//	@Accept			json
//	@Produce		json
//	@Param			request	body		redistributionapp.ProposeTransferRequest	true	"Surplus and request to pair"
//	@Success		201		{object}	dto.Response
//	@Failure		409		{object}	dto.Response	"Records changed concurrently"
//	@Failure		422		{object}	dto.Response	"Surplus or request no longer open"
//	@Failure		503		{object}	dto.Response	"Records locked, retry"
//	@Router			/transfers [post]
func (h *TransferHandler) Propose(c *gin.Context) {
	var req redistributionapp.ProposeTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.transferService.Propose(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Approve godoc
//
//	@Summary	Approve a pending transfer
//	@Tags		transfers
//	@Produce	json
//	@Param		id	path		string	true	"Transfer ID"	format(uuid)
//	@Success	200	{object}	dto.Response
//	@Failure	422	{object}	dto.Response	"Transfer not pending"
//	@Router		/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *gin.Context) {
	h.advance(c, h.transferService.Approve)
}

// Reject godoc
//
//	@Summary		Reject a pending or approved transfer
//	@Description	Returns the surplus to available and reopens the request.
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path		string	true	"Transfer ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Router			/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *gin.Context) {
	h.advance(c, h.transferService.Reject)
}

// Ship godoc
//
//	@Summary	Mark an approved transfer as in transit
//	@Tags		transfers
//	@Produce	json
//	@Param		id	path		string	true	"Transfer ID"	format(uuid)
//	@Success	200	{object}	dto.Response
//	@Router		/transfers/{id}/ship [post]
func (h *TransferHandler) Ship(c *gin.Context) {
	h.advance(c, h.transferService.MarkInTransit)
}

// Complete godoc
//
//	@Summary		Complete a delivered transfer
//	@Description	Deducts the quantity from the source batch and fulfils the request.
//	@Tags			transfers
//	@Produce		json
//	@Param			id	path		string	true	"Transfer ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		422	{object}	dto.Response	"Source batch short or linked records missing"
//	@Router			/transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *gin.Context) {
	h.advance(c, h.transferService.Complete)
}

type transition func(ctx context.Context, transferID uuid.UUID) (*redistributionapp.TransferResult, error)

func (h *TransferHandler) advance(c *gin.Context, step transition) {
	id, ok := h.pathID(c, "transfer")
	if !ok {
		return
	}

	result, err := step(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetByID godoc
//
//	@Summary	Get a transfer by ID
//	@Tags		transfers
//	@Produce	json
//	@Param		id	path		string	true	"Transfer ID"	format(uuid)
//	@Success	200	{object}	dto.Response
//	@Failure	400	{object}	dto.Response	"Malformed ID"
//	@Failure	404	{object}	dto.Response	"Transfer not found"
//	@Router		/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "transfer")
	if !ok {
		return
	}

	transfer, err := h.transferService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// List returns transfers touching a clinic. direction narrows to the
// receiving (incoming) or donating (outgoing) side.
func (h *TransferHandler) List(c *gin.Context) {
	var q transferListQuery
	if !h.bindList(c, &q, &q.ListRequest) {
		return
	}

	transfers, err := h.transferService.List(c.Request.Context(), redistributionapp.TransferListFilter{
		ClinicID:  optionalUUID(q.ClinicID),
		Direction: redistributionapp.TransferDirection(q.Direction),
		Status:    q.Status,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, transfers, len(transfers), q.ListRequest)
}
