package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medishare/backend/internal/domain/shared"
	"github.com/medishare/backend/internal/infrastructure/logger"
	"github.com/medishare/backend/internal/interfaces/http/dto"
	"github.com/medishare/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessList sends a page of results with its meta block
func (h *BaseHandler) SuccessList(c *gin.Context, data any, count int, page dto.ListRequest) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, count, page.Page, page.PageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindError answers a failed JSON or query bind
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError converts a service error into the response envelope.
// Domain errors keep their message; a lock that could not be acquired in
// time is reported as busy; anything else is logged and hidden behind a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeBusy, "The record is busy, retry shortly")
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("Unhandled request error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// pathID parses the :id path parameter, answering 400 when it is malformed
func (h *BaseHandler) pathID(c *gin.Context, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid "+entity+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// ListQuery is the query string shared by clinic-scoped list endpoints
type ListQuery struct {
	dto.ListRequest
	ClinicID string `form:"clinic_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,max=20"`
}

// bindList binds a list query and fills in paging defaults
func (h *BaseHandler) bindList(c *gin.Context, q any, page *dto.ListRequest) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		h.BindError(c, err)
		return false
	}
	defaults := dto.DefaultListRequest()
	if page.Page <= 0 {
		page.Page = defaults.Page
	}
	if page.PageSize <= 0 {
		page.PageSize = defaults.PageSize
	}
	return true
}

// optionalUUID turns an already validated query value into a filter pointer
func optionalUUID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
