package repository

import (
	"context"

	"carbontrack/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetAll retrieves trips, optionally filtered by owner.
	// An empty ownerID means global scope.
	GetAll(ctx context.Context, ownerID string) ([]*domain.Trip, error)

	// GetByYearAndOwner retrieves the owner's trips dated within the
	// given calendar year.
	GetByYearAndOwner(ctx context.Context, year int, ownerID string) ([]*domain.Trip, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// Delete removes a trip by ID.
	Delete(ctx context.Context, id string) error
}
