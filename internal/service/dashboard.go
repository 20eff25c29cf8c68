package service

import (
	"context"
	"sort"

	"carbontrack/internal/repository"
)

// DashboardService derives presentation-level rollups directly from the
// raw trip records. All views are pure reductions; nothing is persisted.
type DashboardService struct {
	tripRepo repository.TripRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(tripRepo repository.TripRepository) *DashboardService {
	return &DashboardService{tripRepo: tripRepo}
}

// MonthBucket is a per-month total, Date formatted as "YYYY-MM".
type MonthBucket struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// DayBucket is a per-day total, Date formatted as "YYYY-MM-DD".
type DayBucket struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// CategoryBucket is a per-mode total. TotalEmissions is a record count,
// not summed CO2 mass; see EmissionsByCategory.
type CategoryBucket struct {
	Category       string  `json:"category"`
	TotalEmissions float64 `json:"total_emissions"`
}

// YearBucket is a per-year total. TotalEmissions is a record count, not
// summed CO2 mass; see EmissionsTrend.
type YearBucket struct {
	Year           int     `json:"year"`
	TotalEmissions float64 `json:"total_emissions"`
}

// ReductionOverTime sums trip CO2 per (year, month), ascending
// chronologically. An empty ownerID means global scope.
func (s *DashboardService) ReductionOverTime(ctx context.Context, ownerID string) ([]MonthBucket, error) {
	trips, err := s.tripRepo.GetAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, trip := range trips {
		totals[trip.Date.Format("2006-01")] += trip.CO2Kg
	}

	buckets := make([]MonthBucket, 0, len(totals))
	for date, total := range totals {
		buckets = append(buckets, MonthBucket{Date: date, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })

	return buckets, nil
}

// EmissionsByDate sums trip CO2 per calendar day, ascending.
func (s *DashboardService) EmissionsByDate(ctx context.Context, ownerID string) ([]DayBucket, error) {
	trips, err := s.tripRepo.GetAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, trip := range trips {
		totals[trip.Date.Format("2006-01-02")] += trip.CO2Kg
	}

	buckets := make([]DayBucket, 0, len(totals))
	for date, total := range totals {
		buckets = append(buckets, DayBucket{Date: date, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date < buckets[j].Date })

	return buckets, nil
}

// EmissionsByCategory groups trips by transportation mode, descending by
// total. The total is an occurrence count rather than summed CO2 mass;
// this mirrors the long-standing behavior the dashboards were built on and
// is kept deliberately.
func (s *DashboardService) EmissionsByCategory(ctx context.Context, ownerID string) ([]CategoryBucket, error) {
	trips, err := s.tripRepo.GetAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]float64)
	for _, trip := range trips {
		counts[string(trip.Mode)]++
	}

	buckets := make([]CategoryBucket, 0, len(counts))
	for category, count := range counts {
		buckets = append(buckets, CategoryBucket{Category: category, TotalEmissions: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].TotalEmissions != buckets[j].TotalEmissions {
			return buckets[i].TotalEmissions > buckets[j].TotalEmissions
		}
		return buckets[i].Category < buckets[j].Category
	})

	return buckets, nil
}

// EmissionsTrend groups trips by year, ascending. Count-based for the same
// reason as EmissionsByCategory.
func (s *DashboardService) EmissionsTrend(ctx context.Context, ownerID string) ([]YearBucket, error) {
	trips, err := s.tripRepo.GetAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]float64)
	for _, trip := range trips {
		counts[trip.Date.Year()]++
	}

	buckets := make([]YearBucket, 0, len(counts))
	for year, count := range counts {
		buckets = append(buckets, YearBucket{Year: year, TotalEmissions: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Year < buckets[j].Year })

	return buckets, nil
}
