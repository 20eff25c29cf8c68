package repository

import (
	"context"

	"carbontrack/internal/domain"
)

// EmissionTypeRepository defines the persistence operations for the
// emission-type catalog.
type EmissionTypeRepository interface {
	// Create persists a new emission type.
	Create(ctx context.Context, et *domain.EmissionType) error

	// GetByID retrieves an emission type by ID.
	GetByID(ctx context.Context, id string) (*domain.EmissionType, error)

	// GetAll retrieves all emission types.
	GetAll(ctx context.Context) ([]*domain.EmissionType, error)
}
