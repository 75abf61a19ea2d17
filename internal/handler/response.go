package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvsper/junkos-backend/internal/repository"
	"github.com/cvsper/junkos-backend/internal/service"
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

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidAddress),
		errors.Is(err, service.ErrInvalidStars),
		errors.Is(err, service.ErrDriverRequired),
		errors.Is(err, service.ErrInvalidMultiplier),
		errors.Is(err, service.ErrInvalidBoundary),
		errors.Is(err, service.ErrInvalidBasePrice),
		errors.Is(err, service.ErrCancellationReasonRequired):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrDriverNotAssignedToJob),
		errors.Is(err, service.ErrNotJobParticipant),
		errors.Is(err, service.ErrContractorNotApproved),
		errors.Is(err, service.ErrAccountSuspended):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrDuplicateTransition),
		errors.Is(err, service.ErrConcurrentModification),
		errors.Is(err, service.ErrCandidateUnavailable),
		errors.Is(err, service.ErrJobNotCompleted),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Unprocessable: the request is well formed but references an item type
	// no active rule covers.
	case errors.Is(err, service.ErrUnknownItemType):
		return http.StatusUnprocessableEntity

	// Service unavailable
	case errors.Is(err, service.ErrNoCandidatesFound):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
