package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"carbontrack/internal/domain"
	"carbontrack/internal/repository"
)

// ResourceRepository is a PostgreSQL implementation of
// repository.ResourceRepository. Entries are stored as jsonb; legacy rows
// may hold a string-encoded array, which is passed through untouched for
// the normalizer to resolve.
type ResourceRepository struct {
	q Querier
}

// NewResourceRepository creates a new PostgreSQL resource repository.
func NewResourceRepository(db *sql.DB) *ResourceRepository {
	return &ResourceRepository{q: db}
}

const resourceColumns = `id, owner_id, date, category, entries, created_at`

// Create persists a new resource record.
func (r *ResourceRepository) Create(ctx context.Context, record *domain.ResourceRecord) error {
	query := `
		INSERT INTO resource_records (` + resourceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	entries := record.Entries
	if entries == nil {
		entries = json.RawMessage("[]")
	}

	_, err := r.q.ExecContext(ctx, query,
		record.ID,
		record.OwnerID,
		record.Date,
		record.Category,
		[]byte(entries),
		record.CreatedAt,
	)

	return err
}

func scanResource(scan func(dest ...any) error) (*domain.ResourceRecord, error) {
	var record domain.ResourceRecord
	var entries []byte
	err := scan(
		&record.ID,
		&record.OwnerID,
		&record.Date,
		&record.Category,
		&entries,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Entries = json.RawMessage(entries)
	return &record, nil
}

// GetByID retrieves a resource record by ID.
func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*domain.ResourceRecord, error) {
	query := `SELECT ` + resourceColumns + ` FROM resource_records WHERE id = $1`

	row := r.q.QueryRowContext(ctx, query, id)
	record, err := scanResource(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// GetAll retrieves resource records, optionally filtered by owner.
func (r *ResourceRepository) GetAll(ctx context.Context, ownerID string) ([]*domain.ResourceRecord, error) {
	query := `SELECT ` + resourceColumns + ` FROM resource_records ORDER BY date ASC`
	args := []any{}
	if ownerID != "" {
		query = `SELECT ` + resourceColumns + ` FROM resource_records WHERE owner_id = $1 ORDER BY date ASC`
		args = append(args, ownerID)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.ResourceRecord
	for rows.Next() {
		record, err := scanResource(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// GetByYearAndOwner retrieves the owner's records dated within the given year.
func (r *ResourceRepository) GetByYearAndOwner(ctx context.Context, year int, ownerID string) ([]*domain.ResourceRecord, error) {
	query := `
		SELECT ` + resourceColumns + `
		FROM resource_records
		WHERE owner_id = $1 AND date >= make_date($2, 1, 1) AND date < make_date($2 + 1, 1, 1)
		ORDER BY date ASC
	`

	rows, err := r.q.QueryContext(ctx, query, ownerID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.ResourceRecord
	for rows.Next() {
		record, err := scanResource(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Delete removes a resource record by ID.
func (r *ResourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM resource_records WHERE id = $1`, id)
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

// Ensure ResourceRepository implements repository.ResourceRepository.
var _ repository.ResourceRepository = (*ResourceRepository)(nil)
