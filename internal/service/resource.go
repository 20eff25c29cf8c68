package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"carbontrack/internal/domain"
	"carbontrack/internal/repository"
)

// ResourceService handles energy and other-resource record writes and reads.
type ResourceService struct {
	resourceRepo repository.ResourceRepository
	factors      *EmissionFactorService
}

// NewResourceService creates a new ResourceService.
func NewResourceService(resourceRepo repository.ResourceRepository, factors *EmissionFactorService) *ResourceService {
	return &ResourceService{
		resourceRepo: resourceRepo,
		factors:      factors,
	}
}

// ResourceEntryInput is one consumption line as supplied by the caller.
// The factor may be given directly or resolved from the emission-type
// catalog by ID; a precomputed CO2Kg takes precedence over both.
type ResourceEntryInput struct {
	EmissionTypeID string
	Quantity       float64
	CO2Factor      float64
	CO2Kg          float64
}

// ResourceInput contains the caller-supplied fields of a resource record.
// RawEntries carries a pre-encoded entries payload (structured array or
// legacy string encoding) and is stored verbatim when present.
type ResourceInput struct {
	OwnerID    string
	Date       time.Time
	Category   string
	Entries    []ResourceEntryInput
	RawEntries json.RawMessage
}

// CreateResource persists a new resource record. Structured entries get
// their contribution derived at write time; raw payloads are stored as-is
// and resolved by the normalizer at aggregation time.
func (s *ResourceService) CreateResource(ctx context.Context, input ResourceInput) (*domain.ResourceRecord, error) {
	if input.OwnerID == "" {
		return nil, ErrInvalidOwnerID
	}
	if input.Date.IsZero() {
		return nil, ErrInvalidDate
	}
	if input.Category == "" {
		return nil, ErrInvalidCategory
	}

	entries := input.RawEntries
	if entries == nil {
		resolved := make([]domain.ResourceEntry, 0, len(input.Entries))
		for _, in := range input.Entries {
			entry, err := s.resolveEntry(ctx, in)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, entry)
		}

		var err error
		entries, err = json.Marshal(resolved)
		if err != nil {
			return nil, err
		}
	}

	record := &domain.ResourceRecord{
		ID:        uuid.New().String(),
		OwnerID:   input.OwnerID,
		Date:      input.Date,
		Category:  input.Category,
		Entries:   entries,
		CreatedAt: time.Now(),
	}

	if err := s.resourceRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// resolveEntry fills in the factor and contribution of a structured entry.
func (s *ResourceService) resolveEntry(ctx context.Context, in ResourceEntryInput) (domain.ResourceEntry, error) {
	factor := in.CO2Factor
	if factor == 0 && in.EmissionTypeID != "" {
		resolved, err := s.factors.FactorForType(ctx, in.EmissionTypeID)
		if err != nil {
			return domain.ResourceEntry{}, err
		}
		factor = resolved
	}

	co2 := in.CO2Kg
	if co2 == 0 {
		co2 = in.Quantity * factor
	}

	return domain.ResourceEntry{
		Quantity:  in.Quantity,
		CO2Factor: factor,
		CO2Kg:     co2,
	}, nil
}

// GetResource retrieves a resource record by ID.
func (s *ResourceService) GetResource(ctx context.Context, id string) (*domain.ResourceRecord, error) {
	if id == "" {
		return nil, ErrInvalidRecordID
	}
	return s.resourceRepo.GetByID(ctx, id)
}

// GetAllResources retrieves resource records, optionally scoped to an owner.
func (s *ResourceService) GetAllResources(ctx context.Context, ownerID string) ([]*domain.ResourceRecord, error) {
	return s.resourceRepo.GetAll(ctx, ownerID)
}

// DeleteResource removes a resource record by ID.
func (s *ResourceService) DeleteResource(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidRecordID
	}
	return s.resourceRepo.Delete(ctx, id)
}
