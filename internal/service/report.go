package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"carbontrack/internal/domain"
	internalredis "carbontrack/internal/redis"
	"carbontrack/internal/repository"
)

// reportLockTTL bounds the Redis lock held while a report is generated.
// The lock only avoids duplicate work between instances; correctness comes
// from the (year, owner) unique index in the reports table.
const reportLockTTL = 30 * time.Second

// ReportService generates and serves yearly reports. Generation is
// create-once per (year, owner): a second request returns the persisted
// report unchanged.
type ReportService struct {
	reportRepo   repository.ReportRepository
	tripRepo     repository.TripRepository
	resourceRepo repository.ResourceRepository
	cacheStore   *internalredis.ReportCache
	lockStore    internalredis.LockStoreInterface
}

// NewReportService creates a new ReportService. cacheStore and lockStore
// may be nil; both are optimizations.
func NewReportService(
	reportRepo repository.ReportRepository,
	tripRepo repository.TripRepository,
	resourceRepo repository.ResourceRepository,
	cacheStore *internalredis.ReportCache,
	lockStore internalredis.LockStoreInterface,
) *ReportService {
	return &ReportService{
		reportRepo:   reportRepo,
		tripRepo:     tripRepo,
		resourceRepo: resourceRepo,
		cacheStore:   cacheStore,
		lockStore:    lockStore,
	}
}

// Generate returns the yearly report for (year, owner), creating it if it
// does not exist yet. A year with no records yields an all-zero report,
// not an error.
func (s *ReportService) Generate(ctx context.Context, year int, ownerID string) (*domain.YearlyReport, error) {
	if year == 0 {
		return nil, ErrMissingYear
	}
	if ownerID == "" {
		return nil, ErrMissingOwner
	}

	// Idempotent short-circuit: an existing report is returned unchanged.
	if report, err := s.lookupExisting(ctx, year, ownerID); err != nil {
		return nil, err
	} else if report != nil {
		return report, nil
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireReportLock(ctx, year, ownerID, reportLockTTL)
		if err == nil && locked {
			defer func() { _ = s.lockStore.ReleaseReportLock(ctx, year, ownerID) }()
		}
		// Lock contention or Redis failure: continue anyway, the unique
		// index resolves the race below.
	}

	report, err := s.buildReport(ctx, year, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// A concurrent generator won; return its report.
			return s.reportRepo.GetByYearAndOwner(ctx, year, ownerID)
		}
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetReport(ctx, report)
	}

	return report, nil
}

// lookupExisting checks the cache and then the store for an existing
// report. Returns (nil, nil) when none exists.
func (s *ReportService) lookupExisting(ctx context.Context, year int, ownerID string) (*domain.YearlyReport, error) {
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetReport(ctx, year, ownerID); err == nil && cached != nil {
			return cached, nil
		}
	}

	report, err := s.reportRepo.GetByYearAndOwner(ctx, year, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetReport(ctx, report)
	}

	return report, nil
}

// buildReport aggregates all emission sources for (year, owner) into a new
// report document.
func (s *ReportService) buildReport(ctx context.Context, year int, ownerID string) (*domain.YearlyReport, error) {
	trips, err := s.tripRepo.GetByYearAndOwner(ctx, year, ownerID)
	if err != nil {
		return nil, err
	}

	records, err := s.resourceRepo.GetByYearAndOwner(ctx, year, ownerID)
	if err != nil {
		return nil, err
	}

	contributions := make([]Contribution, 0, len(trips)+len(records))
	for _, trip := range trips {
		contributions = append(contributions, Contribution{
			Date:     trip.Date,
			Category: domain.CategoryTransportation,
			CO2Kg:    trip.CO2Kg,
		})
	}
	for _, record := range records {
		contributions = append(contributions, Contribution{
			Date:     record.Date,
			Category: classifyCategory(record.Category),
			CO2Kg:    NormalizeRecord(record),
		})
	}

	monthly, categories := AggregateByMonth(contributions, year)

	// The report carries exactly the three fixed categories; absent ones
	// are zero, never missing.
	categoryTotals := map[string]float64{
		domain.CategoryTransportation: categories[domain.CategoryTransportation],
		domain.CategoryEnergy:         categories[domain.CategoryEnergy],
		domain.CategoryOther:          categories[domain.CategoryOther],
	}

	var total float64
	for _, m := range monthly {
		total += m
	}

	return &domain.YearlyReport{
		ID:             uuid.New().String(),
		Year:           year,
		ReportKey:      newReportKey(year),
		OwnerID:        ownerID,
		TotalCO2Kg:     total,
		MonthlyTotals:  monthly,
		CategoryTotals: categoryTotals,
		CreatedAt:      time.Now(),
	}, nil
}

// classifyCategory maps a source category onto the fixed report buckets.
// Everything that is not Transportation or Energy lands in Other.
func classifyCategory(category string) string {
	switch strings.ToLower(category) {
	case strings.ToLower(domain.CategoryTransportation):
		return domain.CategoryTransportation
	case strings.ToLower(domain.CategoryEnergy):
		return domain.CategoryEnergy
	default:
		return domain.CategoryOther
	}
}

// newReportKey builds a human-readable report key. Key collisions are a
// cosmetic risk only; uniqueness is enforced on (year, owner).
func newReportKey(year int) string {
	return fmt.Sprintf("REP-%d-%d", year, rand.Intn(10000))
}

// GetReport retrieves a report by ID.
func (s *ReportService) GetReport(ctx context.Context, id string) (*domain.YearlyReport, error) {
	if id == "" {
		return nil, ErrInvalidReportID
	}
	return s.reportRepo.GetByID(ctx, id)
}

// GetReportByYearAndOwner retrieves the report for a (year, owner) pair
// without creating one.
func (s *ReportService) GetReportByYearAndOwner(ctx context.Context, year int, ownerID string) (*domain.YearlyReport, error) {
	if year == 0 {
		return nil, ErrMissingYear
	}
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	report, err := s.lookupExisting(ctx, year, ownerID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, repository.ErrNotFound
	}
	return report, nil
}

// DeleteReport removes a report by ID and invalidates its cache entry.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidReportID
	}

	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateReport(ctx, report.Year, report.OwnerID)
	}

	return nil
}

// DeleteReportByKey removes a report by its report key and invalidates
// its cache entry.
func (s *ReportService) DeleteReportByKey(ctx context.Context, reportKey string) error {
	if reportKey == "" {
		return ErrInvalidReportKey
	}

	report, err := s.reportRepo.GetByKey(ctx, reportKey)
	if err != nil {
		return err
	}

	if err := s.reportRepo.DeleteByKey(ctx, reportKey); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateReport(ctx, report.Year, report.OwnerID)
	}

	return nil
}
