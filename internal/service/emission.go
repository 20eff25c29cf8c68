package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"carbontrack/internal/domain"
	"carbontrack/internal/repository"
)

// modeFactors maps a transportation mode to kg CO2e emitted per kilometer.
var modeFactors = map[domain.TransportMode]float64{
	domain.ModeCar:        0.2,
	domain.ModeBus:        0.1,
	domain.ModeTrain:      0.05,
	domain.ModeTram:       0.04,
	domain.ModeMotorcycle: 0.15,
	domain.ModeBicycle:    0,
	domain.ModeWalk:       0,
}

// FactorForMode returns the CO2 conversion factor for a transportation
// mode. Unknown modes resolve to 0 rather than failing, so trip creation
// stays resilient to catalog drift; the trip is saved with zero emissions.
func FactorForMode(mode domain.TransportMode) float64 {
	return modeFactors[mode]
}

// EmissionFactorService resolves CO2 conversion factors. Mode factors come
// from the fixed table above; arbitrary resource kinds resolve through the
// emission-type catalog.
type EmissionFactorService struct {
	typeRepo repository.EmissionTypeRepository
}

// NewEmissionFactorService creates a new EmissionFactorService.
func NewEmissionFactorService(typeRepo repository.EmissionTypeRepository) *EmissionFactorService {
	return &EmissionFactorService{typeRepo: typeRepo}
}

// FactorForType resolves an emission-type id to its conversion factor.
func (s *EmissionFactorService) FactorForType(ctx context.Context, typeID string) (float64, error) {
	et, err := s.typeRepo.GetByID(ctx, typeID)
	if err != nil {
		return 0, err
	}
	return et.ConversionFactor, nil
}

// CreateEmissionType adds a new entry to the catalog.
func (s *EmissionFactorService) CreateEmissionType(ctx context.Context, name string, factor float64) (*domain.EmissionType, error) {
	if name == "" || factor < 0 {
		return nil, ErrInvalidEmissionType
	}

	et := &domain.EmissionType{
		ID:               uuid.New().String(),
		Name:             name,
		ConversionFactor: factor,
		CreatedAt:        time.Now(),
	}

	if err := s.typeRepo.Create(ctx, et); err != nil {
		return nil, err
	}

	return et, nil
}

// GetAllEmissionTypes lists the catalog.
func (s *EmissionFactorService) GetAllEmissionTypes(ctx context.Context) ([]*domain.EmissionType, error) {
	return s.typeRepo.GetAll(ctx)
}
