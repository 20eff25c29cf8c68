package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carbontrack/internal/domain"
	"carbontrack/internal/service"
)

// ReportHandler handles HTTP requests for yearly reports.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReportRequest is the HTTP request body for generating a report.
type GenerateReportRequest struct {
	Year    int    `json:"year"`
	OwnerID string `json:"owner_id,omitempty"`
}

// ReportResponse is the HTTP response for report operations.
type ReportResponse struct {
	ID             string             `json:"id"`
	Year           int                `json:"year"`
	ReportKey      string             `json:"report_key"`
	OwnerID        string             `json:"owner_id"`
	TotalCO2Kg     float64            `json:"total_co2_kg"`
	MonthlyTotals  []float64          `json:"monthly_totals"`
	CategoryTotals map[string]float64 `json:"category_totals"`
	CreatedAt      string             `json:"created_at"`
}

func toReportResponse(report *domain.YearlyReport) ReportResponse {
	monthly := make([]float64, domain.MonthsPerYear)
	copy(monthly, report.MonthlyTotals[:])

	return ReportResponse{
		ID:             report.ID,
		Year:           report.Year,
		ReportKey:      report.ReportKey,
		OwnerID:        report.OwnerID,
		TotalCO2Kg:     report.TotalCO2Kg,
		MonthlyTotals:  monthly,
		CategoryTotals: report.CategoryTotals,
		CreatedAt:      report.CreatedAt.Format(time.RFC3339),
	}
}

// Generate handles POST /v1/reports
func (h *ReportHandler) Generate(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), req.Year, resolveOwner(c, req.OwnerID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toReportResponse(report))
}

// GetReport handles GET /v1/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	report, err := h.reportService.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toReportResponse(report))
}

// GetByYearAndOwner handles GET /v1/reports?year=&owner_id=
func (h *ReportHandler) GetByYearAndOwner(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	ownerID := resolveOwner(c, c.Query("owner_id"))

	report, err := h.reportService.GetReportByYearAndOwner(c.Request.Context(), year, ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toReportResponse(report))
}

// DeleteReport handles DELETE /v1/reports/:id
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	if err := h.reportService.DeleteReport(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteReportByKey handles DELETE /v1/reports/key/:key
func (h *ReportHandler) DeleteReportByKey(c *gin.Context) {
	if err := h.reportService.DeleteReportByKey(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
