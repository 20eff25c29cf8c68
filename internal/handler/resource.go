package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carbontrack/internal/domain"
	"carbontrack/internal/service"
)

// ResourceHandler handles HTTP requests for resource emission records.
type ResourceHandler struct {
	resourceService *service.ResourceService
}

// NewResourceHandler creates a new ResourceHandler.
func NewResourceHandler(resourceService *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// ResourceEntryPayload is one consumption line in the HTTP API.
type ResourceEntryPayload struct {
	EmissionTypeID string  `json:"emission_type_id,omitempty"`
	Quantity       float64 `json:"quantity"`
	CO2Factor      float64 `json:"co2_factor,omitempty"`
	CO2Kg          float64 `json:"co2_kg,omitempty"`
}

// CreateResourceRequest is the HTTP request body for creating a resource
// record. Entries may be supplied structured, or raw_entries may carry a
// pre-encoded payload (including the legacy string-encoded form).
type CreateResourceRequest struct {
	OwnerID    string                 `json:"owner_id,omitempty"`
	Date       string                 `json:"date"`
	Category   string                 `json:"category"`
	Entries    []ResourceEntryPayload `json:"entries,omitempty"`
	RawEntries json.RawMessage        `json:"raw_entries,omitempty"`
}

// ResourceResponse is the HTTP response for resource record operations.
type ResourceResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Date      string          `json:"date"`
	Category  string          `json:"category"`
	Entries   json.RawMessage `json:"entries"`
	TotalCO2  float64         `json:"total_co2_kg"`
	CreatedAt string          `json:"created_at"`
}

func toResourceResponse(record *domain.ResourceRecord) ResourceResponse {
	return ResourceResponse{
		ID:        record.ID,
		OwnerID:   record.OwnerID,
		Date:      record.Date.Format(dateLayout),
		Category:  record.Category,
		Entries:   record.Entries,
		TotalCO2:  service.NormalizeRecord(record),
		CreatedAt: record.CreatedAt.Format(time.RFC3339),
	}
}

// CreateResource handles POST /v1/resources
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var req CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			respondError(c, service.ErrInvalidDate)
			return
		}
		date = parsed
	}

	entries := make([]service.ResourceEntryInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, service.ResourceEntryInput{
			EmissionTypeID: e.EmissionTypeID,
			Quantity:       e.Quantity,
			CO2Factor:      e.CO2Factor,
			CO2Kg:          e.CO2Kg,
		})
	}

	record, err := h.resourceService.CreateResource(c.Request.Context(), service.ResourceInput{
		OwnerID:    resolveOwner(c, req.OwnerID),
		Date:       date,
		Category:   req.Category,
		Entries:    entries,
		RawEntries: req.RawEntries,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toResourceResponse(record))
}

// GetResource handles GET /v1/resources/:id
func (h *ResourceHandler) GetResource(c *gin.Context) {
	record, err := h.resourceService.GetResource(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toResourceResponse(record))
}

// GetAll handles GET /v1/resources
func (h *ResourceHandler) GetAll(c *gin.Context) {
	ownerID := resolveOwner(c, c.Query("owner_id"))

	records, err := h.resourceService.GetAllResources(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ResourceResponse, 0, len(records))
	for _, record := range records {
		response = append(response, toResourceResponse(record))
	}

	respondJSON(c, http.StatusOK, response)
}

// DeleteResource handles DELETE /v1/resources/:id
func (h *ResourceHandler) DeleteResource(c *gin.Context) {
	if err := h.resourceService.DeleteResource(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
