// Package handler holds the gin handlers of the POS HTTP API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

var errNoOperator = errors.New("operator ID not found in context")

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// getOperatorID returns the operator authenticated by the JWT middleware
func getOperatorID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetOperatorID(c)
	if raw == "" {
		return uuid.Nil, errNoOperator
	}
	return uuid.Parse(raw)
}

// pathID parses a numeric path parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessList sends one page of results
func (h *BaseHandler) SuccessList(c *gin.Context, data any, count, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, count, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// BindError sends a 400 VALIDATION_ERROR response for a failed bind
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError converts an error returned by a service into a response.
// Domain errors keep their code; anything else is logged and hidden behind
// INTERNAL_ERROR.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, dto.GetHTTPStatus(domainErr.Code), domainErr.Code, domainErr.Message)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("request failed", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// operator resolves the acting operator or answers 401 and returns false
func (h *BaseHandler) operator(c *gin.Context) (uuid.UUID, bool) {
	id, err := getOperatorID(c)
	if err != nil {
		h.Unauthorized(c, "Operator not identified")
		return uuid.Nil, false
	}
	return id, true
}

// id resolves a numeric path parameter or answers 400 and returns false
func (h *BaseHandler) id(c *gin.Context, name string) (int64, bool) {
	id, ok := pathID(c, name)
	if !ok {
		h.BadRequest(c, "Invalid "+name)
	}
	return id, ok
}
