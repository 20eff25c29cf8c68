package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carbontrack/internal/domain"
	"carbontrack/internal/repository"
)

// EmissionTypeRepository is a PostgreSQL implementation of
// repository.EmissionTypeRepository.
type EmissionTypeRepository struct {
	q Querier
}

// NewEmissionTypeRepository creates a new PostgreSQL emission type repository.
func NewEmissionTypeRepository(db *sql.DB) *EmissionTypeRepository {
	return &EmissionTypeRepository{q: db}
}

// Create persists a new emission type.
func (r *EmissionTypeRepository) Create(ctx context.Context, et *domain.EmissionType) error {
	query := `
		INSERT INTO emission_types (id, name, conversion_factor, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.ExecContext(ctx, query, et.ID, et.Name, et.ConversionFactor, et.CreatedAt)
	return err
}

// GetByID retrieves an emission type by ID.
func (r *EmissionTypeRepository) GetByID(ctx context.Context, id string) (*domain.EmissionType, error) {
	query := `SELECT id, name, conversion_factor, created_at FROM emission_types WHERE id = $1`

	var et domain.EmissionType
	err := r.q.QueryRowContext(ctx, query, id).Scan(&et.ID, &et.Name, &et.ConversionFactor, &et.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &et, nil
}

// GetAll retrieves all emission types.
func (r *EmissionTypeRepository) GetAll(ctx context.Context) ([]*domain.EmissionType, error) {
	query := `SELECT id, name, conversion_factor, created_at FROM emission_types ORDER BY name ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []*domain.EmissionType
	for rows.Next() {
		var et domain.EmissionType
		if err := rows.Scan(&et.ID, &et.Name, &et.ConversionFactor, &et.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, &et)
	}

	return types, rows.Err()
}

// Ensure EmissionTypeRepository implements repository.EmissionTypeRepository.
var _ repository.EmissionTypeRepository = (*EmissionTypeRepository)(nil)
