package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carbontrack/internal/service"
)

// EmissionTypeHandler handles HTTP requests for the emission-type catalog.
type EmissionTypeHandler struct {
	factorService *service.EmissionFactorService
}

// NewEmissionTypeHandler creates a new EmissionTypeHandler.
func NewEmissionTypeHandler(factorService *service.EmissionFactorService) *EmissionTypeHandler {
	return &EmissionTypeHandler{factorService: factorService}
}

// CreateEmissionTypeRequest is the HTTP request body for adding a catalog
// entry.
type CreateEmissionTypeRequest struct {
	Name             string  `json:"name"`
	ConversionFactor float64 `json:"conversion_factor"`
}

// EmissionTypeResponse is the HTTP response for emission type operations.
type EmissionTypeResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	ConversionFactor float64 `json:"conversion_factor"`
}

// Create handles POST /v1/emission-types
func (h *EmissionTypeHandler) Create(c *gin.Context) {
	var req CreateEmissionTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	et, err := h.factorService.CreateEmissionType(c.Request.Context(), req.Name, req.ConversionFactor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, EmissionTypeResponse{
		ID:               et.ID,
		Name:             et.Name,
		ConversionFactor: et.ConversionFactor,
	})
}

// GetAll handles GET /v1/emission-types
func (h *EmissionTypeHandler) GetAll(c *gin.Context) {
	types, err := h.factorService.GetAllEmissionTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]EmissionTypeResponse, 0, len(types))
	for _, et := range types {
		response = append(response, EmissionTypeResponse{
			ID:               et.ID,
			Name:             et.Name,
			ConversionFactor: et.ConversionFactor,
		})
	}

	respondJSON(c, http.StatusOK, response)
}
