package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carbontrack/internal/service"
)

// DashboardHandler handles HTTP requests for dashboard views.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// ownerScope resolves the optional scope filter for dashboard views. The
// `scope=global` query parameter forces global scope even when a caller
// identity is present.
func ownerScope(c *gin.Context) string {
	if c.Query("scope") == "global" {
		return ""
	}
	return resolveOwner(c, c.Query("owner_id"))
}

// OverTime handles GET /v1/dashboard/over-time
func (h *DashboardHandler) OverTime(c *gin.Context) {
	buckets, err := h.dashboardService.ReductionOverTime(c.Request.Context(), ownerScope(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, buckets)
}

// ByDate handles GET /v1/dashboard/by-date
func (h *DashboardHandler) ByDate(c *gin.Context) {
	buckets, err := h.dashboardService.EmissionsByDate(c.Request.Context(), ownerScope(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, buckets)
}

// ByCategory handles GET /v1/dashboard/by-category
func (h *DashboardHandler) ByCategory(c *gin.Context) {
	buckets, err := h.dashboardService.EmissionsByCategory(c.Request.Context(), ownerScope(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, buckets)
}

// Trend handles GET /v1/dashboard/trend
func (h *DashboardHandler) Trend(c *gin.Context) {
	buckets, err := h.dashboardService.EmissionsTrend(c.Request.Context(), ownerScope(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, buckets)
}
