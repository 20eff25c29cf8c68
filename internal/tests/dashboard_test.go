package tests

import (
	"context"
	"math"
	"testing"
	"time"

	"carbontrack/internal/domain"
	"carbontrack/internal/service"
)

// ──────────────────────────────────────────────
// 6. DASHBOARD ROLLUPS
// ──────────────────────────────────────────────

func seedDashboardTrips(tripRepo *MockTripRepository) {
	trips := []*domain.Trip{
		{ID: "t1", OwnerID: "owner-1", Date: testDate(2024, time.January, 5), Mode: domain.ModeCar, CO2Kg: 2.0},
		{ID: "t2", OwnerID: "owner-1", Date: testDate(2024, time.January, 5), Mode: domain.ModeCar, CO2Kg: 1.0},
		{ID: "t3", OwnerID: "owner-1", Date: testDate(2024, time.January, 20), Mode: domain.ModeCar, CO2Kg: 0.5},
		{ID: "t4", OwnerID: "owner-1", Date: testDate(2024, time.March, 1), Mode: domain.ModeBus, CO2Kg: 0.3},
		{ID: "t5", OwnerID: "owner-1", Date: testDate(2023, time.December, 31), Mode: domain.ModeTrain, CO2Kg: 0.1},
		{ID: "t6", OwnerID: "owner-2", Date: testDate(2024, time.January, 5), Mode: domain.ModeCar, CO2Kg: 9.0},
	}
	for _, trip := range trips {
		tripRepo.AddTrip(trip)
	}
}

func TestReductionOverTime_SumsPerMonthAscending(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	seedDashboardTrips(tripRepo)
	dashboard := service.NewDashboardService(tripRepo)

	buckets, err := dashboard.ReductionOverTime(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(buckets) != 3 {
		t.Fatalf("expected 3 month buckets, got %d", len(buckets))
	}
	if buckets[0].Date != "2023-12" || buckets[1].Date != "2024-01" || buckets[2].Date != "2024-03" {
		t.Errorf("expected chronological order, got %+v", buckets)
	}
	if math.Abs(buckets[1].Total-3.5) > 1e-9 {
		t.Errorf("expected January 2024 total 3.5, got %f", buckets[1].Total)
	}
}

func TestEmissionsByDate_SumsPerDay(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	seedDashboardTrips(tripRepo)
	dashboard := service.NewDashboardService(tripRepo)

	buckets, err := dashboard.EmissionsByDate(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(buckets) != 4 {
		t.Fatalf("expected 4 day buckets, got %d", len(buckets))
	}
	if buckets[1].Date != "2024-01-05" {
		t.Errorf("expected 2024-01-05 second, got %s", buckets[1].Date)
	}
	if math.Abs(buckets[1].Total-3.0) > 1e-9 {
		t.Errorf("expected 2024-01-05 total 3.0, got %f", buckets[1].Total)
	}
}

func TestEmissionsByCategory_CountsPerMode(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	seedDashboardTrips(tripRepo)
	dashboard := service.NewDashboardService(tripRepo)

	buckets, err := dashboard.EmissionsByCategory(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// Counts, not summed CO2: 3 car trips, 1 bus, 1 train, descending.
	if len(buckets) != 3 {
		t.Fatalf("expected 3 category buckets, got %d", len(buckets))
	}
	if buckets[0].Category != string(domain.ModeCar) || buckets[0].TotalEmissions != 3 {
		t.Errorf("expected car count 3 first, got %+v", buckets[0])
	}
	if buckets[1].TotalEmissions != 1 || buckets[2].TotalEmissions != 1 {
		t.Errorf("expected trailing counts of 1, got %+v", buckets)
	}
	// Ties break alphabetically.
	if buckets[1].Category != string(domain.ModeBus) || buckets[2].Category != string(domain.ModeTrain) {
		t.Errorf("expected bus before train, got %+v", buckets)
	}
}

func TestEmissionsTrend_CountsPerYearAscending(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	seedDashboardTrips(tripRepo)
	dashboard := service.NewDashboardService(tripRepo)

	buckets, err := dashboard.EmissionsTrend(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(buckets) != 2 {
		t.Fatalf("expected 2 year buckets, got %d", len(buckets))
	}
	if buckets[0].Year != 2023 || buckets[0].TotalEmissions != 1 {
		t.Errorf("expected 2023 count 1 first, got %+v", buckets[0])
	}
	if buckets[1].Year != 2024 || buckets[1].TotalEmissions != 4 {
		t.Errorf("expected 2024 count 4, got %+v", buckets[1])
	}
}

func TestDashboard_GlobalScopeIncludesAllOwners(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	seedDashboardTrips(tripRepo)
	dashboard := service.NewDashboardService(tripRepo)

	buckets, err := dashboard.ReductionOverTime(context.Background(), "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	var total float64
	for _, b := range buckets {
		total += b.Total
	}
	if math.Abs(total-12.9) > 1e-9 {
		t.Errorf("expected global total 12.9, got %f", total)
	}
}

func TestDashboard_NoTrips_YieldsEmptySlices(t *testing.T) {
	t.Parallel()

	dashboard := service.NewDashboardService(NewMockTripRepository())

	overTime, err := dashboard.ReductionOverTime(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if overTime == nil || len(overTime) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", overTime)
	}

	byCategory, err := dashboard.EmissionsByCategory(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if byCategory == nil || len(byCategory) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", byCategory)
	}
}

func TestDashboard_RepositoryFailure_Propagates(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	tripRepo.GetAllError = ErrMockDBFailure
	dashboard := service.NewDashboardService(tripRepo)

	if _, err := dashboard.EmissionsTrend(context.Background(), "owner-1"); err == nil {
		t.Error("expected repository failure to propagate, got nil")
	}
}
