package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carbontrack/internal/domain"
	"carbontrack/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, owner_id, date, start_address, start_lat, start_lng,
		end_address, end_lat, end_lng, mode, distance_km, co2_kg, created_at, updated_at`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.OwnerID,
		trip.Date,
		trip.Start.Address,
		trip.Start.Latitude,
		trip.Start.Longitude,
		trip.End.Address,
		trip.End.Latitude,
		trip.End.Longitude,
		trip.Mode,
		trip.DistanceKm,
		trip.CO2Kg,
		trip.CreatedAt,
		trip.UpdatedAt,
	)

	return err
}

func scanTrip(scan func(dest ...any) error) (*domain.Trip, error) {
	var trip domain.Trip
	err := scan(
		&trip.ID,
		&trip.OwnerID,
		&trip.Date,
		&trip.Start.Address,
		&trip.Start.Latitude,
		&trip.Start.Longitude,
		&trip.End.Address,
		&trip.End.Latitude,
		&trip.End.Longitude,
		&trip.Mode,
		&trip.DistanceKm,
		&trip.CO2Kg,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	row := r.q.QueryRowContext(ctx, query, id)
	trip, err := scanTrip(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

// GetAll retrieves trips, optionally filtered by owner.
func (r *TripRepository) GetAll(ctx context.Context, ownerID string) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY date ASC`
	args := []any{}
	if ownerID != "" {
		query = `SELECT ` + tripColumns + ` FROM trips WHERE owner_id = $1 ORDER BY date ASC`
		args = append(args, ownerID)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows.Scan)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// GetByYearAndOwner retrieves the owner's trips dated within the given year.
func (r *TripRepository) GetByYearAndOwner(ctx context.Context, year int, ownerID string) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = $1 AND date >= make_date($2, 1, 1) AND date < make_date($2 + 1, 1, 1)
		ORDER BY date ASC
	`

	rows, err := r.q.QueryContext(ctx, query, ownerID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows.Scan)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET owner_id = $1, date = $2, start_address = $3, start_lat = $4, start_lng = $5,
			end_address = $6, end_lat = $7, end_lng = $8, mode = $9,
			distance_km = $10, co2_kg = $11, updated_at = $12
		WHERE id = $13
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.OwnerID,
		trip.Date,
		trip.Start.Address,
		trip.Start.Latitude,
		trip.Start.Longitude,
		trip.End.Address,
		trip.End.Latitude,
		trip.End.Longitude,
		trip.Mode,
		trip.DistanceKm,
		trip.CO2Kg,
		trip.UpdatedAt,
		trip.ID,
	)
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

// Delete removes a trip by ID.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
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

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
