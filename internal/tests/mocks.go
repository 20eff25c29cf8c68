package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"carbontrack/internal/domain"
	"carbontrack/internal/geo"
	"carbontrack/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	GetAllError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetAll(ctx context.Context, ownerID string) ([]*domain.Trip, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		if ownerID != "" && t.OwnerID != ownerID {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockTripRepository) GetByYearAndOwner(ctx context.Context, year int, ownerID string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0)
	for _, t := range m.trips {
		if t.OwnerID != ownerID || t.Date.Year() != year {
			continue
		}
		copy := *t
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	m.trips[trip.ID] = trip
	return nil
}

func (m *MockTripRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.trips, id)
	return nil
}

// GetTrip returns trip for test assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// CountTrips returns the number of trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

// ──────────────────────────────────────────────
// MOCK RESOURCE REPOSITORY
// ──────────────────────────────────────────────

// MockResourceRepository is a mock implementation of ResourceRepository.
type MockResourceRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.ResourceRecord

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockResourceRepository creates a new mock resource repository.
func NewMockResourceRepository() *MockResourceRepository {
	return &MockResourceRepository{
		records: make(map[string]*domain.ResourceRecord),
	}
}

// AddRecord adds a resource record to the mock repository.
func (m *MockResourceRepository) AddRecord(record *domain.ResourceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
}

func (m *MockResourceRepository) Create(ctx context.Context, record *domain.ResourceRecord) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
	return nil
}

func (m *MockResourceRepository) GetByID(ctx context.Context, id string) (*domain.ResourceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *record
	return &copy, nil
}

func (m *MockResourceRepository) GetAll(ctx context.Context, ownerID string) ([]*domain.ResourceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ResourceRecord, 0, len(m.records))
	for _, r := range m.records {
		if ownerID != "" && r.OwnerID != ownerID {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockResourceRepository) GetByYearAndOwner(ctx context.Context, year int, ownerID string) ([]*domain.ResourceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ResourceRecord, 0)
	for _, r := range m.records {
		if r.OwnerID != ownerID || r.Date.Year() != year {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockResourceRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// CountRecords returns the number of records.
func (m *MockResourceRepository) CountRecords() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// ──────────────────────────────────────────────
// MOCK REPORT REPOSITORY
// ──────────────────────────────────────────────

// MockReportRepository is a mock implementation of ReportRepository. Create
// enforces the (year, owner) unique constraint the way the store does.
type MockReportRepository struct {
	mu      sync.RWMutex
	reports map[string]*domain.YearlyReport

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
	GetError    error

	// FailLookupsRemaining makes GetByYearAndOwner miss that many times
	// before behaving normally, to simulate a lost insert race.
	FailLookupsRemaining int32
}

// NewMockReportRepository creates a new mock report repository.
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{
		reports: make(map[string]*domain.YearlyReport),
	}
}

// AddReport adds a report to the mock repository.
func (m *MockReportRepository) AddReport(report *domain.YearlyReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.ID] = report
}

func (m *MockReportRepository) Create(ctx context.Context, report *domain.YearlyReport) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reports {
		if r.Year == report.Year && r.OwnerID == report.OwnerID {
			return repository.ErrDuplicateKey
		}
	}
	m.reports[report.ID] = report
	return nil
}

func (m *MockReportRepository) GetByID(ctx context.Context, id string) (*domain.YearlyReport, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	report, ok := m.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *report
	return &copy, nil
}

func (m *MockReportRepository) GetByYearAndOwner(ctx context.Context, year int, ownerID string) (*domain.YearlyReport, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	if atomic.LoadInt32(&m.FailLookupsRemaining) > 0 {
		atomic.AddInt32(&m.FailLookupsRemaining, -1)
		return nil, repository.ErrNotFound
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reports {
		if r.Year == year && r.OwnerID == ownerID {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockReportRepository) GetByKey(ctx context.Context, reportKey string) (*domain.YearlyReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reports {
		if r.ReportKey == reportKey {
			copy := *r
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockReportRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.reports, id)
	return nil
}

func (m *MockReportRepository) DeleteByKey(ctx context.Context, reportKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.reports {
		if r.ReportKey == reportKey {
			delete(m.reports, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

// CountReports returns the number of reports.
func (m *MockReportRepository) CountReports() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reports)
}

// ──────────────────────────────────────────────
// MOCK EMISSION TYPE REPOSITORY
// ──────────────────────────────────────────────

// MockEmissionTypeRepository is a mock implementation of
// EmissionTypeRepository.
type MockEmissionTypeRepository struct {
	mu    sync.RWMutex
	types map[string]*domain.EmissionType

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockEmissionTypeRepository creates a new mock emission type repository.
func NewMockEmissionTypeRepository() *MockEmissionTypeRepository {
	return &MockEmissionTypeRepository{
		types: make(map[string]*domain.EmissionType),
	}
}

// AddType adds an emission type to the mock repository.
func (m *MockEmissionTypeRepository) AddType(et *domain.EmissionType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[et.ID] = et
}

func (m *MockEmissionTypeRepository) Create(ctx context.Context, et *domain.EmissionType) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[et.ID] = et
	return nil
}

func (m *MockEmissionTypeRepository) GetByID(ctx context.Context, id string) (*domain.EmissionType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	et, ok := m.types[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *et
	return &copy, nil
}

func (m *MockEmissionTypeRepository) GetAll(ctx context.Context) ([]*domain.EmissionType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.EmissionType, 0, len(m.types))
	for _, et := range m.types {
		copy := *et
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireReportLock(ctx context.Context, year int, ownerID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := lockKey(year, ownerID)
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseReportLock(ctx context.Context, year int, ownerID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, lockKey(year, ownerID))
	return nil
}

// IsLocked checks if a (year, owner) pair is locked (for test assertions).
func (m *MockLockStore) IsLocked(year int, ownerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks[lockKey(year, ownerID)]
	return exists && time.Now().Before(expiry)
}

func lockKey(year int, ownerID string) string {
	return fmt.Sprintf("lock:report:%s:%d", ownerID, year)
}

// ──────────────────────────────────────────────
// MOCK GEOCODER
// ──────────────────────────────────────────────

// MockGeocoder is a mock address resolver.
type MockGeocoder struct {
	mu        sync.RWMutex
	addresses map[string]geo.Coordinate

	// Counters
	GeocodeCallCount int32

	// Error injection
	GeocodeError error
}

// NewMockGeocoder creates a new mock geocoder.
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{
		addresses: make(map[string]geo.Coordinate),
	}
}

// AddAddress registers a known address.
func (m *MockGeocoder) AddAddress(address string, coord geo.Coordinate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses[address] = coord
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	atomic.AddInt32(&m.GeocodeCallCount, 1)
	if m.GeocodeError != nil {
		return geo.Coordinate{}, m.GeocodeError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	coord, ok := m.addresses[address]
	if !ok {
		return geo.Coordinate{}, ErrMockAddressUnknown
	}
	return coord, nil
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockAddressUnknown = errors.New("mock: address not found")
	ErrMockDBFailure      = errors.New("mock: database failure")
	ErrMockTimeout        = errors.New("mock: operation timeout")
)
