package repository

import (
	"context"

	"carbontrack/internal/domain"
)

// ResourceRepository defines the persistence operations for resource
// emission records (energy and other consumption events).
type ResourceRepository interface {
	// Create persists a new resource record.
	Create(ctx context.Context, record *domain.ResourceRecord) error

	// GetByID retrieves a resource record by ID.
	GetByID(ctx context.Context, id string) (*domain.ResourceRecord, error)

	// GetAll retrieves resource records, optionally filtered by owner.
	GetAll(ctx context.Context, ownerID string) ([]*domain.ResourceRecord, error)

	// GetByYearAndOwner retrieves the owner's records dated within the
	// given calendar year.
	GetByYearAndOwner(ctx context.Context, year int, ownerID string) ([]*domain.ResourceRecord, error)

	// Delete removes a resource record by ID.
	Delete(ctx context.Context, id string) error
}
