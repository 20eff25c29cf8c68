package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carbontrack/internal/domain"
	"carbontrack/internal/service"
)

// dateLayout is the calendar-day format used for record dates. Dates are
// calendar days, not instants; no timezone conversion is applied.
const dateLayout = "2006-01-02"

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// LocationPayload is a trip endpoint in the HTTP API. Coordinates may be
// omitted when an address is supplied; the address is then geocoded.
type LocationPayload struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// TripRequest is the HTTP request body for creating or updating a trip.
type TripRequest struct {
	OwnerID string          `json:"owner_id,omitempty"`
	Date    string          `json:"date"`
	Start   LocationPayload `json:"start_location"`
	End     LocationPayload `json:"end_location"`
	Mode    string          `json:"transportation_mode"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID           string  `json:"id"`
	OwnerID      string  `json:"owner_id"`
	Date         string  `json:"date"`
	StartAddress string  `json:"start_address"`
	StartLat     float64 `json:"start_lat"`
	StartLng     float64 `json:"start_lng"`
	EndAddress   string  `json:"end_address"`
	EndLat       float64 `json:"end_lat"`
	EndLng       float64 `json:"end_lng"`
	Mode         string  `json:"transportation_mode"`
	DistanceKm   float64 `json:"distance_km"`
	CO2Kg        float64 `json:"co2_kg"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toTripResponse(trip *domain.Trip) TripResponse {
	return TripResponse{
		ID:           trip.ID,
		OwnerID:      trip.OwnerID,
		Date:         trip.Date.Format(dateLayout),
		StartAddress: trip.Start.Address,
		StartLat:     trip.Start.Latitude,
		StartLng:     trip.Start.Longitude,
		EndAddress:   trip.End.Address,
		EndLat:       trip.End.Latitude,
		EndLng:       trip.End.Longitude,
		Mode:         string(trip.Mode),
		DistanceKm:   trip.DistanceKm,
		CO2Kg:        trip.CO2Kg,
		CreatedAt:    trip.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    trip.UpdatedAt.Format(time.RFC3339),
	}
}

func (r TripRequest) toInput(c *gin.Context) (service.TripInput, error) {
	var date time.Time
	if r.Date != "" {
		parsed, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return service.TripInput{}, service.ErrInvalidDate
		}
		date = parsed
	}

	return service.TripInput{
		OwnerID: resolveOwner(c, r.OwnerID),
		Date:    date,
		Start: service.LocationInput{
			Address:   r.Start.Address,
			Latitude:  r.Start.Lat,
			Longitude: r.Start.Lng,
		},
		End: service.LocationInput{
			Address:   r.End.Address,
			Latitude:  r.End.Lat,
			Longitude: r.End.Lng,
		},
		Mode: domain.TransportMode(r.Mode),
	}, nil
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	input, err := req.toInput(c)
	if err != nil {
		respondError(c, err)
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// UpdateTrip handles PUT /v1/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	tripID := c.Param("id")

	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	input, err := req.toInput(c)
	if err != nil {
		respondError(c, err)
		return
	}

	trip, err := h.tripService.UpdateTrip(c.Request.Context(), tripID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	ownerID := resolveOwner(c, c.Query("owner_id"))

	trips, err := h.tripService.GetAllTrips(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}

// DeleteTrip handles DELETE /v1/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	if err := h.tripService.DeleteTrip(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
