package repository

import (
	"context"

	"carbontrack/internal/domain"
)

// ReportRepository defines the persistence operations for yearly reports.
// Implementations must enforce uniqueness on (year, owner): Create returns
// ErrDuplicateKey when a report already exists for the pair.
type ReportRepository interface {
	// Create persists a new report.
	Create(ctx context.Context, report *domain.YearlyReport) error

	// GetByID retrieves a report by ID.
	GetByID(ctx context.Context, id string) (*domain.YearlyReport, error)

	// GetByYearAndOwner retrieves the report for a (year, owner) pair.
	GetByYearAndOwner(ctx context.Context, year int, ownerID string) (*domain.YearlyReport, error)

	// GetByKey retrieves a report by its report key.
	GetByKey(ctx context.Context, reportKey string) (*domain.YearlyReport, error)

	// Delete removes a report by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByKey removes a report by its report key.
	DeleteByKey(ctx context.Context, reportKey string) error
}
