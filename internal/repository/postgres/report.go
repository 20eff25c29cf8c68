package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"carbontrack/internal/domain"
	"carbontrack/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// ReportRepository is a PostgreSQL implementation of
// repository.ReportRepository. The reports table carries a unique index
// on (year, owner_id); Create maps its violation to ErrDuplicateKey so
// concurrent generators can fall back to the winner's row.
type ReportRepository struct {
	q Querier
}

// NewReportRepository creates a new PostgreSQL report repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{q: db}
}

const reportColumns = `id, year, report_key, owner_id, total_co2_kg, monthly_totals, category_totals, created_at`

// Create persists a new report. Returns repository.ErrDuplicateKey when a
// report already exists for the same (year, owner).
func (r *ReportRepository) Create(ctx context.Context, report *domain.YearlyReport) error {
	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	monthly, err := json.Marshal(report.MonthlyTotals)
	if err != nil {
		return err
	}
	categories, err := json.Marshal(report.CategoryTotals)
	if err != nil {
		return err
	}

	_, err = r.q.ExecContext(ctx, query,
		report.ID,
		report.Year,
		report.ReportKey,
		report.OwnerID,
		report.TotalCO2Kg,
		monthly,
		categories,
		report.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicateKey
		}
		return err
	}

	return nil
}

func scanReport(scan func(dest ...any) error) (*domain.YearlyReport, error) {
	var report domain.YearlyReport
	var monthly, categories []byte

	err := scan(
		&report.ID,
		&report.Year,
		&report.ReportKey,
		&report.OwnerID,
		&report.TotalCO2Kg,
		&monthly,
		&categories,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(monthly, &report.MonthlyTotals); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(categories, &report.CategoryTotals); err != nil {
		return nil, err
	}

	return &report, nil
}

// GetByID retrieves a report by ID.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.YearlyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	row := r.q.QueryRowContext(ctx, query, id)
	report, err := scanReport(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

// GetByYearAndOwner retrieves the report for a (year, owner) pair.
func (r *ReportRepository) GetByYearAndOwner(ctx context.Context, year int, ownerID string) (*domain.YearlyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE year = $1 AND owner_id = $2`

	row := r.q.QueryRowContext(ctx, query, year, ownerID)
	report, err := scanReport(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

// GetByKey retrieves a report by its report key.
func (r *ReportRepository) GetByKey(ctx context.Context, reportKey string) (*domain.YearlyReport, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE report_key = $1`

	row := r.q.QueryRowContext(ctx, query, reportKey)
	report, err := scanReport(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

// Delete removes a report by ID.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	return r.deleteWhere(ctx, `DELETE FROM reports WHERE id = $1`, id)
}

// DeleteByKey removes a report by its report key.
func (r *ReportRepository) DeleteByKey(ctx context.Context, reportKey string) error {
	return r.deleteWhere(ctx, `DELETE FROM reports WHERE report_key = $1`, reportKey)
}

func (r *ReportRepository) deleteWhere(ctx context.Context, query string, arg string) error {
	result, err := r.q.ExecContext(ctx, query, arg)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Ensure ReportRepository implements repository.ReportRepository.
var _ repository.ReportRepository = (*ReportRepository)(nil)
