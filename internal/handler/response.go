package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mandado/internal/repository"
	"mandado/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRequesterID),
		errors.Is(err, service.ErrInvalidRequestID),
		errors.Is(err, service.ErrInvalidProviderID),
		errors.Is(err, service.ErrInvalidOrigin),
		errors.Is(err, service.ErrInvalidDestination),
		errors.Is(err, service.ErrInvalidDescription),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPixKey),
		errors.Is(err, service.ErrInvalidAccountType),
		errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest

	// Auth errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized

	// Conflict errors
	case errors.Is(err, service.ErrRequestNotPending),
		errors.Is(err, service.ErrRequestAlreadyCancelled),
		errors.Is(err, service.ErrRequestCannotBeCancelled),
		errors.Is(err, service.ErrRequestNotInProgress),
		errors.Is(err, service.ErrRequestAlreadyPaid),
		errors.Is(err, service.ErrChargeNotPending),
		errors.Is(err, service.ErrProviderBusy),
		errors.Is(err, service.ErrEmailInUse):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrProviderNotAssigned):
		return http.StatusForbidden

	// Payment refused
	case errors.Is(err, repository.ErrInsufficientBalance):
		return http.StatusPaymentRequired

	// Service unavailable
	case errors.Is(err, service.ErrNoProviderAvailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
