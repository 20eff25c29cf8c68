package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carbontrack/internal/geo"
	"carbontrack/internal/repository"
	"carbontrack/internal/service"
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
	case errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidOwnerID),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidRecordID),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidEmissionType),
		errors.Is(err, service.ErrMissingYear),
		errors.Is(err, service.ErrMissingOwner),
		errors.Is(err, service.ErrInvalidReportID),
		errors.Is(err, service.ErrInvalidReportKey),
		errors.Is(err, geo.ErrInvalidCoordinate):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrDuplicateKey):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// resolveOwner resolves the owner scope for a request: an explicit value
// wins, otherwise the authenticated caller identity from the X-Owner-ID
// header. Empty means unresolved.
func resolveOwner(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return c.GetHeader("X-Owner-ID")
}
