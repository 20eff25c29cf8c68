package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carbontrack/internal/domain"
	"carbontrack/internal/geo"
	"carbontrack/internal/repository"
)

// Geocoder resolves a free-text address to coordinates. It is an external
// collaborator consumed as a black box.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Coordinate, error)
}

// TripService handles trip writes and reads. Every create and update runs
// the emission calculator so the derived distance and CO2 figures never
// drift from the stored locations and mode.
type TripService struct {
	tripRepo repository.TripRepository
	geocoder Geocoder // optional; nil disables address resolution
}

// NewTripService creates a new TripService.
func NewTripService(tripRepo repository.TripRepository, geocoder Geocoder) *TripService {
	return &TripService{
		tripRepo: tripRepo,
		geocoder: geocoder,
	}
}

// LocationInput is a trip endpoint as supplied by the caller. Coordinates
// are pointers so an omitted pair can fall back to address geocoding.
type LocationInput struct {
	Address   string
	Latitude  *float64
	Longitude *float64
}

// TripInput contains the caller-supplied fields of a trip. Derived fields
// are never accepted from outside.
type TripInput struct {
	OwnerID string
	Date    time.Time
	Start   LocationInput
	End     LocationInput
	Mode    domain.TransportMode
}

// CreateTrip validates, derives distance and CO2, and persists a new trip.
func (s *TripService) CreateTrip(ctx context.Context, input TripInput) (*domain.Trip, error) {
	if input.OwnerID == "" {
		return nil, ErrInvalidOwnerID
	}
	if input.Date.IsZero() {
		return nil, ErrInvalidDate
	}

	start, err := s.resolveLocation(ctx, input.Start)
	if err != nil {
		return nil, err
	}
	end, err := s.resolveLocation(ctx, input.End)
	if err != nil {
		return nil, err
	}

	distanceKm, co2Kg, err := computeEmissions(start, end, input.Mode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	trip := &domain.Trip{
		ID:         uuid.New().String(),
		OwnerID:    input.OwnerID,
		Date:       input.Date,
		Start:      start,
		End:        end,
		Mode:       input.Mode,
		DistanceKm: distanceKm,
		CO2Kg:      co2Kg,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// UpdateTrip replaces a trip's locations, mode and date, and recomputes the
// derived fields from scratch. Derived fields are never patched
// incrementally.
func (s *TripService) UpdateTrip(ctx context.Context, tripID string, input TripInput) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	start, err := s.resolveLocation(ctx, input.Start)
	if err != nil {
		return nil, err
	}
	end, err := s.resolveLocation(ctx, input.End)
	if err != nil {
		return nil, err
	}

	distanceKm, co2Kg, err := computeEmissions(start, end, input.Mode)
	if err != nil {
		return nil, err
	}

	if input.OwnerID != "" {
		trip.OwnerID = input.OwnerID
	}
	if !input.Date.IsZero() {
		trip.Date = input.Date
	}
	trip.Start = start
	trip.End = end
	trip.Mode = input.Mode
	trip.DistanceKm = distanceKm
	trip.CO2Kg = co2Kg
	trip.UpdatedAt = time.Now()

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	return s.tripRepo.GetByID(ctx, tripID)
}

// GetAllTrips retrieves trips, optionally scoped to an owner.
func (s *TripService) GetAllTrips(ctx context.Context, ownerID string) ([]*domain.Trip, error) {
	return s.tripRepo.GetAll(ctx, ownerID)
}

// DeleteTrip removes a trip by ID.
func (s *TripService) DeleteTrip(ctx context.Context, tripID string) error {
	if tripID == "" {
		return ErrInvalidTripID
	}
	return s.tripRepo.Delete(ctx, tripID)
}

// resolveLocation turns a location input into a stored location. Explicit
// coordinates win; an address alone is resolved through the geocoder.
// Anything else is a validation failure that blocks the write.
func (s *TripService) resolveLocation(ctx context.Context, input LocationInput) (domain.Location, error) {
	if input.Latitude != nil && input.Longitude != nil {
		coord := geo.Coordinate{Latitude: *input.Latitude, Longitude: *input.Longitude}
		if !coord.Valid() {
			return domain.Location{}, ErrInvalidLocation
		}
		return domain.Location{
			Address:   input.Address,
			Latitude:  coord.Latitude,
			Longitude: coord.Longitude,
		}, nil
	}

	if input.Address != "" && s.geocoder != nil {
		coord, err := s.geocoder.Geocode(ctx, input.Address)
		if err != nil {
			return domain.Location{}, ErrInvalidLocation
		}
		return domain.Location{
			Address:   input.Address,
			Latitude:  coord.Latitude,
			Longitude: coord.Longitude,
		}, nil
	}

	return domain.Location{}, ErrInvalidLocation
}

// computeEmissions derives a trip's distance and CO2 from its endpoints and
// mode. Both figures are always computed together.
func computeEmissions(start, end domain.Location, mode domain.TransportMode) (float64, float64, error) {
	distanceKm, err := geo.DistanceKm(
		geo.Coordinate{Latitude: start.Latitude, Longitude: start.Longitude},
		geo.Coordinate{Latitude: end.Latitude, Longitude: end.Longitude},
	)
	if err != nil {
		return 0, 0, ErrInvalidLocation
	}

	return distanceKm, distanceKm * FactorForMode(mode), nil
}
