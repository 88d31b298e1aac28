package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/ordering"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// integrationErrorStatus maps integration sentinel errors to API responses
func integrationErrorStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, integration.ErrProviderNotFound),
		errors.Is(err, integration.ErrStoreNotFound),
		errors.Is(err, integration.ErrExternalOrderNotFound):
		return http.StatusNotFound, dto.ErrCodeNotFound, true
	case errors.Is(err, integration.ErrStoreNotMapped):
		return http.StatusBadRequest, dto.ErrCodeStoreNotMapped, true
	case errors.Is(err, integration.ErrProviderNotConfigured),
		errors.Is(err, integration.ErrProviderDisabled),
		errors.Is(err, integration.ErrSigningSecretMissing):
		return http.StatusBadRequest, dto.ErrCodeProviderNotConfigured, true
	case errors.Is(err, integration.ErrDuplicateExternalOrder),
		errors.Is(err, integration.ErrPosOrderAlreadyBound):
		return http.StatusConflict, dto.ErrCodeConflict, true
	case errors.Is(err, integration.ErrMarketplaceUnavailable),
		errors.Is(err, integration.ErrMarketplaceRequestFailed),
		errors.Is(err, integration.ErrMarketplaceAuthFailed):
		return http.StatusBadGateway, dto.ErrCodeMarketplaceFailure, true
	}
	return 0, "", false
}

// HandleError converts domain and integration errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	if status, code, ok := integrationErrorStatus(err); ok {
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, err.Error(), requestID))
		return
	}

	if errors.Is(err, ordering.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Order not found", requestID))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
