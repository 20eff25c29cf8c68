package tests

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"carbontrack/internal/domain"
	"carbontrack/internal/repository"
	"carbontrack/internal/service"
)

// ──────────────────────────────────────────────
// 4. MONTHLY AGGREGATION
// ──────────────────────────────────────────────

func TestAggregateByMonth_BucketsByCalendarMonth(t *testing.T) {
	t.Parallel()

	contributions := []service.Contribution{
		{Date: testDate(2024, time.January, 1), Category: domain.CategoryTransportation, CO2Kg: 1},
		{Date: testDate(2024, time.January, 31), Category: domain.CategoryEnergy, CO2Kg: 2},
		{Date: testDate(2024, time.December, 31), Category: domain.CategoryOther, CO2Kg: 3},
		{Date: testDate(2023, time.June, 15), Category: domain.CategoryEnergy, CO2Kg: 100}, // wrong year, ignored
		{Date: testDate(2025, time.June, 15), Category: domain.CategoryEnergy, CO2Kg: 100}, // wrong year, ignored
	}

	monthly, categories := service.AggregateByMonth(contributions, 2024)

	if monthly[0] != 3 {
		t.Errorf("expected January total 3, got %f", monthly[0])
	}
	if monthly[11] != 3 {
		t.Errorf("expected December total 3, got %f", monthly[11])
	}
	for i := 1; i < 11; i++ {
		if monthly[i] != 0 {
			t.Errorf("expected month %d to be 0, got %f", i+1, monthly[i])
		}
	}

	if categories[domain.CategoryEnergy] != 2 {
		t.Errorf("expected Energy total 2, got %f", categories[domain.CategoryEnergy])
	}
}

func TestAggregateByMonth_Empty(t *testing.T) {
	t.Parallel()

	monthly, categories := service.AggregateByMonth(nil, 2024)
	for i, m := range monthly {
		if m != 0 {
			t.Errorf("expected month %d to be 0, got %f", i+1, m)
		}
	}
	if len(categories) != 0 {
		t.Errorf("expected no categories, got %v", categories)
	}
}

// ──────────────────────────────────────────────
// 5. YEARLY REPORT GENERATION
// ──────────────────────────────────────────────

func entriesJSON(t *testing.T, entries []domain.ResourceEntry) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("failed to encode entries: %v", err)
	}
	return raw
}

// seedYear populates the mocks with the canonical scenario: two March
// trips (10 km by car, 5 km by bus) and one February energy record of
// 100 units at factor 0.01.
func seedYear(t *testing.T, tripRepo *MockTripRepository, resourceRepo *MockResourceRepository, year int, ownerID string) {
	t.Helper()

	tripRepo.AddTrip(&domain.Trip{
		ID: "trip-car", OwnerID: ownerID,
		Date: testDate(year, time.March, 3),
		Mode: domain.ModeCar, DistanceKm: 10, CO2Kg: 2.0,
	})
	tripRepo.AddTrip(&domain.Trip{
		ID: "trip-bus", OwnerID: ownerID,
		Date: testDate(year, time.March, 12),
		Mode: domain.ModeBus, DistanceKm: 5, CO2Kg: 0.5,
	})
	resourceRepo.AddRecord(&domain.ResourceRecord{
		ID: "rec-energy", OwnerID: ownerID,
		Date:     testDate(year, time.February, 20),
		Category: domain.CategoryEnergy,
		Entries:  entriesJSON(t, []domain.ResourceEntry{{Quantity: 100, CO2Factor: 0.01}}),
	})
}

func TestReportGeneration_AggregatesAllSources(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	resourceRepo := NewMockResourceRepository()
	reportRepo := NewMockReportRepository()
	seedYear(t, tripRepo, resourceRepo, 2024, "owner-1")

	reportService := service.NewReportService(reportRepo, tripRepo, resourceRepo, nil, nil)

	report, err := reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if report.Year != 2024 || report.OwnerID != "owner-1" {
		t.Errorf("unexpected report identity: year=%d owner=%s", report.Year, report.OwnerID)
	}
	if !strings.HasPrefix(report.ReportKey, "REP-2024-") {
		t.Errorf("unexpected report key: %s", report.ReportKey)
	}

	// February: 100 * 0.01 = 1.0; March: 2.0 + 0.5 = 2.5.
	if math.Abs(report.MonthlyTotals[1]-1.0) > 1e-6 {
		t.Errorf("expected February total 1.0, got %f", report.MonthlyTotals[1])
	}
	if math.Abs(report.MonthlyTotals[2]-2.5) > 1e-6 {
		t.Errorf("expected March total 2.5, got %f", report.MonthlyTotals[2])
	}

	if math.Abs(report.CategoryTotals[domain.CategoryTransportation]-2.5) > 1e-6 {
		t.Errorf("expected Transportation 2.5, got %f", report.CategoryTotals[domain.CategoryTransportation])
	}
	if math.Abs(report.CategoryTotals[domain.CategoryEnergy]-1.0) > 1e-6 {
		t.Errorf("expected Energy 1.0, got %f", report.CategoryTotals[domain.CategoryEnergy])
	}
	if other, ok := report.CategoryTotals[domain.CategoryOther]; !ok || other != 0 {
		t.Errorf("expected Other present and 0, got %f (present=%t)", other, ok)
	}

	if math.Abs(report.TotalCO2Kg-3.5) > 1e-6 {
		t.Errorf("expected total 3.5, got %f", report.TotalCO2Kg)
	}
}

func TestReportGeneration_TotalEqualsSumOfMonths(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	resourceRepo := NewMockResourceRepository()
	reportRepo := NewMockReportRepository()
	seedYear(t, tripRepo, resourceRepo, 2024, "owner-1")

	reportService := service.NewReportService(reportRepo, tripRepo, resourceRepo, nil, nil)

	report, err := reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	var sum float64
	for _, m := range report.MonthlyTotals {
		sum += m
	}
	if math.Abs(report.TotalCO2Kg-sum) > 1e-6 {
		t.Errorf("expected total %f to equal monthly sum %f", report.TotalCO2Kg, sum)
	}
}

func TestReportGeneration_IsIdempotent(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	resourceRepo := NewMockResourceRepository()
	reportRepo := NewMockReportRepository()
	seedYear(t, tripRepo, resourceRepo, 2024, "owner-1")

	reportService := service.NewReportService(reportRepo, tripRepo, resourceRepo, nil, nil)

	first, err := reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// More data arrives after the first generation; the persisted report
	// must not change.
	tripRepo.AddTrip(&domain.Trip{
		ID: "trip-late", OwnerID: "owner-1",
		Date: testDate(2024, time.April, 1),
		Mode: domain.ModeCar, DistanceKm: 100, CO2Kg: 20,
	})

	second, err := reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if second.ID != first.ID || second.ReportKey != first.ReportKey {
		t.Errorf("expected the same report back, got %s vs %s", second.ID, first.ID)
	}
	if second.TotalCO2Kg != first.TotalCO2Kg {
		t.Errorf("expected unchanged total, got %f vs %f", second.TotalCO2Kg, first.TotalCO2Kg)
	}
	if reportRepo.CountReports() != 1 {
		t.Errorf("expected exactly 1 persisted report, got %d", reportRepo.CountReports())
	}
}

func TestReportGeneration_EmptyYear_YieldsZeroReport(t *testing.T) {
	t.Parallel()

	reportService := service.NewReportService(
		NewMockReportRepository(), NewMockTripRepository(), NewMockResourceRepository(), nil, nil)

	report, err := reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected an all-zero report, got error: %v", err)
	}

	if report.TotalCO2Kg != 0 {
		t.Errorf("expected total 0, got %f", report.TotalCO2Kg)
	}
	for i, m := range report.MonthlyTotals {
		if m != 0 {
			t.Errorf("expected month %d to be 0, got %f", i+1, m)
		}
	}
	if len(report.CategoryTotals) != 3 {
		t.Errorf("expected the 3 fixed categories, got %v", report.CategoryTotals)
	}
}

func TestReportGeneration_MissingParameters(t *testing.T) {
	t.Parallel()

	reportService := service.NewReportService(
		NewMockReportRepository(), NewMockTripRepository(), NewMockResourceRepository(), nil, nil)

	if _, err := reportService.Generate(context.Background(), 0, "owner-1"); !errors.Is(err, service.ErrMissingYear) {
		t.Errorf("expected ErrMissingYear, got: %v", err)
	}
	if _, err := reportService.Generate(context.Background(), 2024, ""); !errors.Is(err, service.ErrMissingOwner) {
		t.Errorf("expected ErrMissingOwner, got: %v", err)
	}
}

func TestReportGeneration_ConcurrentConflict_ReturnsWinner(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	resourceRepo := NewMockResourceRepository()
	reportRepo := NewMockReportRepository()
	seedYear(t, tripRepo, resourceRepo, 2024, "owner-1")

	// Simulate a concurrent generator winning the insert race: the first
	// lookup misses, Create hits the unique index, and the re-read finds
	// the winner's report.
	winner := &domain.YearlyReport{
		ID: "winner", Year: 2024, ReportKey: "REP-2024-1", OwnerID: "owner-1",
		TotalCO2Kg:     3.5,
		CategoryTotals: map[string]float64{},
	}
	reportRepo.AddReport(winner)
	reportRepo.FailLookupsRemaining = 1

	reportService := service.NewReportService(reportRepo, tripRepo, resourceRepo, nil, nil)

	report, err := reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected the winner's report, got error: %v", err)
	}
	if report.ID != "winner" {
		t.Errorf("expected report id winner, got %s", report.ID)
	}
}

func TestReportGeneration_LockContention_StillGenerates(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	resourceRepo := NewMockResourceRepository()
	reportRepo := NewMockReportRepository()
	seedYear(t, tripRepo, resourceRepo, 2024, "owner-1")

	lockStore := NewMockLockStore()
	lockStore.ForceAcquireFailure = true

	reportService := service.NewReportService(reportRepo, tripRepo, resourceRepo, nil, lockStore)

	report, err := reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected generation despite lock contention, got: %v", err)
	}
	if report == nil || report.TotalCO2Kg != 3.5 {
		t.Errorf("expected a full report, got %+v", report)
	}
	if lockStore.AcquireCallCount != 1 {
		t.Errorf("expected 1 acquire attempt, got %d", lockStore.AcquireCallCount)
	}
	if lockStore.ReleaseCallCount != 0 {
		t.Errorf("expected no release without acquisition, got %d", lockStore.ReleaseCallCount)
	}
}

func TestReportGeneration_LockReleasedAfterSuccess(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	resourceRepo := NewMockResourceRepository()
	reportRepo := NewMockReportRepository()
	seedYear(t, tripRepo, resourceRepo, 2024, "owner-1")

	lockStore := NewMockLockStore()
	reportService := service.NewReportService(reportRepo, tripRepo, resourceRepo, nil, lockStore)

	if _, err := reportService.Generate(context.Background(), 2024, "owner-1"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if lockStore.ReleaseCallCount != 1 {
		t.Errorf("expected 1 release, got %d", lockStore.ReleaseCallCount)
	}
	if lockStore.IsLocked(2024, "owner-1") {
		t.Error("expected lock to be released")
	}
}

func TestReportGeneration_MalformedResourceEntries_NonFatal(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	resourceRepo := NewMockResourceRepository()
	resourceRepo.AddRecord(&domain.ResourceRecord{
		ID: "rec-bad", OwnerID: "owner-1",
		Date:     testDate(2024, time.February, 20),
		Category: domain.CategoryEnergy,
		Entries:  json.RawMessage(`[{"quantity":100,"co2_factor":0.01},{"quantity":"bad"}]`),
	})

	reportService := service.NewReportService(
		NewMockReportRepository(), tripRepo, resourceRepo, nil, nil)

	report, err := reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected malformed entries to be non-fatal, got: %v", err)
	}
	if math.Abs(report.TotalCO2Kg-1.0) > 1e-6 {
		t.Errorf("expected surviving entry total 1.0, got %f", report.TotalCO2Kg)
	}
}

func TestReportGeneration_UnknownCategory_LandsInOther(t *testing.T) {
	t.Parallel()

	resourceRepo := NewMockResourceRepository()
	resourceRepo.AddRecord(&domain.ResourceRecord{
		ID: "rec-waste", OwnerID: "owner-1",
		Date:     testDate(2024, time.May, 2),
		Category: "waste disposal",
		Entries:  entriesJSON(t, []domain.ResourceEntry{{CO2Kg: 7}}),
	})

	reportService := service.NewReportService(
		NewMockReportRepository(), NewMockTripRepository(), resourceRepo, nil, nil)

	report, err := reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if math.Abs(report.CategoryTotals[domain.CategoryOther]-7.0) > 1e-6 {
		t.Errorf("expected Other 7.0, got %f", report.CategoryTotals[domain.CategoryOther])
	}
}

func TestReportDeletion_ByIDAndByKey(t *testing.T) {
	t.Parallel()

	tripRepo := NewMockTripRepository()
	resourceRepo := NewMockResourceRepository()
	reportRepo := NewMockReportRepository()
	seedYear(t, tripRepo, resourceRepo, 2024, "owner-1")

	reportService := service.NewReportService(reportRepo, tripRepo, resourceRepo, nil, nil)

	report, err := reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if err := reportService.DeleteReport(context.Background(), report.ID); err != nil {
		t.Fatalf("expected delete to succeed, got: %v", err)
	}
	if reportRepo.CountReports() != 0 {
		t.Errorf("expected no reports left, got %d", reportRepo.CountReports())
	}

	// Regenerate and delete by key.
	report, err = reportService.Generate(context.Background(), 2024, "owner-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := reportService.DeleteReportByKey(context.Background(), report.ReportKey); err != nil {
		t.Fatalf("expected delete by key to succeed, got: %v", err)
	}
	if err := reportService.DeleteReportByKey(context.Background(), report.ReportKey); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got: %v", err)
	}
}

func TestGetReportByYearAndOwner_AbsentIsNotFound(t *testing.T) {
	t.Parallel()

	reportService := service.NewReportService(
		NewMockReportRepository(), NewMockTripRepository(), NewMockResourceRepository(), nil, nil)

	if _, err := reportService.GetReportByYearAndOwner(context.Background(), 2024, "owner-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}
