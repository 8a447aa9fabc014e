package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ReturnKart/backhaul-backend/internal/models"
)

// MemoryStore holds all data in memory. Used for tests and local runs
// without Postgres.
type MemoryStore struct {
	trips       map[string]*models.Trip
	loads       map[string]*models.Load
	trucks      map[string]*models.Truck
	allocations map[string]*models.Allocation
	locations   map[string][]*models.TruckLocation

	// Mutexes for thread safety. When more than one is taken the order is
	// always trip → load → truck → allocation → location.
	tripMu  sync.RWMutex
	loadMu  sync.RWMutex
	truckMu sync.RWMutex
	allocMu sync.RWMutex
	locMu   sync.RWMutex

	// Counters for ID generation
	tripCounter  int
	loadCounter  int
	truckCounter int
	allocCounter int
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips:       make(map[string]*models.Trip),
		loads:       make(map[string]*models.Load),
		trucks:      make(map[string]*models.Truck),
		allocations: make(map[string]*models.Allocation),
		locations:   make(map[string][]*models.TruckLocation),
	}
}

// Trip operations

func (m *MemoryStore) CreateTrip(trip *models.Trip) (*models.Trip, error) {
	m.tripMu.Lock()
	defer m.tripMu.Unlock()

	m.tripCounter++
	if trip.TripID == "" {
		trip.TripID = fmt.Sprintf("TRIP%05d", m.tripCounter)
	}
	if trip.Status == "" {
		trip.Status = models.TripStatusActive
	}
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt

	m.trips[trip.TripID] = trip
	return trip, nil
}

func (m *MemoryStore) GetTrip(tripID string) (*models.Trip, error) {
	m.tripMu.RLock()
	defer m.tripMu.RUnlock()

	trip, exists := m.trips[tripID]
	if !exists {
		return nil, ErrNotFound
	}
	return trip, nil
}

// GetUnmatchedDeadheadingTrips returns active deadheading trips with no
// load bound to them, oldest first so earlier trips get first choice.
func (m *MemoryStore) GetUnmatchedDeadheadingTrips() ([]*models.Trip, error) {
	bound := make(map[string]bool)
	m.loadMu.RLock()
	for _, load := range m.loads {
		if load.AssignedTripID != "" {
			bound[load.AssignedTripID] = true
		}
	}
	m.loadMu.RUnlock()

	m.tripMu.RLock()
	defer m.tripMu.RUnlock()

	var trips []*models.Trip
	for _, trip := range m.trips {
		if trip.IsMatchable() && !bound[trip.TripID] {
			trips = append(trips, trip)
		}
	}
	sort.Slice(trips, func(i, j int) bool {
		if trips[i].CreatedAt.Equal(trips[j].CreatedAt) {
			return trips[i].TripID < trips[j].TripID
		}
		return trips[i].CreatedAt.Before(trips[j].CreatedAt)
	})
	return trips, nil
}

func (m *MemoryStore) MarkTripDeadheading(tripID string) (*models.Trip, error) {
	m.tripMu.Lock()
	defer m.tripMu.Unlock()

	trip, exists := m.trips[tripID]
	if !exists {
		return nil, ErrNotFound
	}
	if trip.Status != models.TripStatusActive {
		return nil, ErrConflict
	}
	trip.Deadheading = true
	trip.UpdatedAt = time.Now()
	return trip, nil
}

func (m *MemoryStore) CompleteTrip(tripID string) error {
	m.tripMu.Lock()
	defer m.tripMu.Unlock()

	trip, exists := m.trips[tripID]
	if !exists {
		return ErrNotFound
	}
	if trip.Status != models.TripStatusActive {
		return ErrConflict
	}
	now := time.Now()
	trip.Status = models.TripStatusCompleted
	trip.Deadheading = false
	trip.CompletedAt = &now
	trip.UpdatedAt = now
	return nil
}

// Load operations

func (m *MemoryStore) CreateLoad(load *models.Load) (*models.Load, error) {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	m.loadCounter++
	if load.LoadID == "" {
		load.LoadID = fmt.Sprintf("LOAD%05d", m.loadCounter)
	}
	load.Status = models.LoadStatusAvailable
	if load.Currency == "" {
		load.Currency = "INR"
	}
	load.CreatedAt = time.Now()
	load.UpdatedAt = load.CreatedAt

	m.loads[load.LoadID] = load
	return load, nil
}

func (m *MemoryStore) GetLoad(loadID string) (*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	load, exists := m.loads[loadID]
	if !exists {
		return nil, ErrNotFound
	}
	return load, nil
}

func (m *MemoryStore) GetAvailableLoads() ([]*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	var loads []*models.Load
	for _, load := range m.loads {
		if load.Status == models.LoadStatusAvailable {
			loads = append(loads, load)
		}
	}
	sort.Slice(loads, func(i, j int) bool { return loads[i].LoadID < loads[j].LoadID })
	return loads, nil
}

func (m *MemoryStore) GetLoadByTrip(tripID string) (*models.Load, error) {
	m.loadMu.RLock()
	defer m.loadMu.RUnlock()

	for _, load := range m.loads {
		if load.AssignedTripID == tripID {
			return load, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) AssignLoad(loadID, tripID, driverID string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	load, exists := m.loads[loadID]
	if !exists {
		return ErrNotFound
	}
	if load.Status != models.LoadStatusAvailable {
		return ErrConflict
	}
	now := time.Now()
	load.Status = models.LoadStatusAssigned
	load.AssignedTripID = tripID
	load.AssignedDriverID = driverID
	load.AssignedAt = &now
	load.UpdatedAt = now
	return nil
}

func (m *MemoryStore) ReleaseLoad(loadID string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	return m.releaseLoadLocked(loadID)
}

func (m *MemoryStore) releaseLoadLocked(loadID string) error {
	load, exists := m.loads[loadID]
	if !exists {
		return ErrNotFound
	}
	if load.Status != models.LoadStatusAssigned {
		return ErrConflict
	}
	load.Status = models.LoadStatusAvailable
	load.AssignedTripID = ""
	load.AssignedDriverID = ""
	load.AssignedAt = nil
	load.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) MarkLoadPickedUp(loadID string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	load, exists := m.loads[loadID]
	if !exists {
		return ErrNotFound
	}
	if load.Status != models.LoadStatusAssigned {
		return ErrConflict
	}
	now := time.Now()
	load.Status = models.LoadStatusPickedUp
	load.PickedUpAt = &now
	load.UpdatedAt = now
	return nil
}

func (m *MemoryStore) MarkLoadDelivered(loadID string) error {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	load, exists := m.loads[loadID]
	if !exists {
		return ErrNotFound
	}
	if load.Status != models.LoadStatusPickedUp {
		return ErrConflict
	}
	now := time.Now()
	load.Status = models.LoadStatusDelivered
	load.DeliveredAt = &now
	load.UpdatedAt = now
	return nil
}

// Truck operations

func (m *MemoryStore) CreateTruck(truck *models.Truck) (*models.Truck, error) {
	m.truckMu.Lock()
	defer m.truckMu.Unlock()

	m.truckCounter++
	if truck.TruckID == "" {
		truck.TruckID = fmt.Sprintf("TRK%05d", m.truckCounter)
	}
	if truck.Status == "" {
		truck.Status = models.TruckStatusIdle
	}
	truck.CreatedAt = time.Now()
	truck.UpdatedAt = truck.CreatedAt

	m.trucks[truck.TruckID] = truck
	return truck, nil
}

func (m *MemoryStore) GetTruck(truckID string) (*models.Truck, error) {
	m.truckMu.RLock()
	defer m.truckMu.RUnlock()

	truck, exists := m.trucks[truckID]
	if !exists {
		return nil, ErrNotFound
	}
	return truck, nil
}

func (m *MemoryStore) GetTrucksByOwner(ownerID string) ([]*models.Truck, error) {
	m.truckMu.RLock()
	defer m.truckMu.RUnlock()

	var trucks []*models.Truck
	for _, truck := range m.trucks {
		if truck.OwnerID == ownerID {
			trucks = append(trucks, truck)
		}
	}
	sort.Slice(trucks, func(i, j int) bool { return trucks[i].TruckID < trucks[j].TruckID })
	return trucks, nil
}

func (m *MemoryStore) SetTruckStatus(truckID, fromStatus, toStatus string) error {
	m.truckMu.Lock()
	defer m.truckMu.Unlock()
	return m.setTruckStatusLocked(truckID, fromStatus, toStatus)
}

func (m *MemoryStore) setTruckStatusLocked(truckID, fromStatus, toStatus string) error {
	truck, exists := m.trucks[truckID]
	if !exists {
		return ErrNotFound
	}
	if truck.Status != fromStatus {
		return ErrConflict
	}
	truck.Status = toStatus
	truck.UpdatedAt = time.Now()
	return nil
}

// Allocation operations

func (m *MemoryStore) CreateAllocation(truckID, loadID, ownerID, driverID string) (*models.Allocation, error) {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	m.truckMu.Lock()
	defer m.truckMu.Unlock()
	m.allocMu.Lock()
	defer m.allocMu.Unlock()

	load, exists := m.loads[loadID]
	if !exists {
		return nil, ErrNotFound
	}
	if load.Status != models.LoadStatusAvailable {
		return nil, ErrConflict
	}
	if err := m.setTruckStatusLocked(truckID, models.TruckStatusIdle, models.TruckStatusAllocated); err != nil {
		return nil, err
	}

	now := time.Now()
	load.Status = models.LoadStatusAssigned
	load.AssignedDriverID = driverID
	load.AssignedAt = &now
	load.UpdatedAt = now

	m.allocCounter++
	allocation := &models.Allocation{
		AllocationID: fmt.Sprintf("ALLOC%05d", m.allocCounter),
		TruckID:      truckID,
		LoadID:       loadID,
		OwnerID:      ownerID,
		Status:       models.AllocationStatusActive,
	}
	allocation.CreatedAt = now
	allocation.UpdatedAt = now

	m.allocations[allocation.AllocationID] = allocation
	return allocation, nil
}

func (m *MemoryStore) GetAllocation(allocationID string) (*models.Allocation, error) {
	m.allocMu.RLock()
	defer m.allocMu.RUnlock()

	allocation, exists := m.allocations[allocationID]
	if !exists {
		return nil, ErrNotFound
	}
	return allocation, nil
}

func (m *MemoryStore) CancelAllocation(allocationID string) (*models.Allocation, error) {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	m.truckMu.Lock()
	defer m.truckMu.Unlock()
	m.allocMu.Lock()
	defer m.allocMu.Unlock()

	allocation, exists := m.allocations[allocationID]
	if !exists {
		return nil, ErrNotFound
	}
	if allocation.Status != models.AllocationStatusActive {
		return nil, ErrConflict
	}

	if err := m.releaseLoadLocked(allocation.LoadID); err != nil {
		return nil, err
	}
	// Best effort: the truck may already have moved on (e.g. deadheading).
	_ = m.setTruckStatusLocked(allocation.TruckID, models.TruckStatusAllocated, models.TruckStatusIdle)

	now := time.Now()
	allocation.Status = models.AllocationStatusCancelled
	allocation.CancelledAt = &now
	allocation.UpdatedAt = now
	return allocation, nil
}

// Location operations

func (m *MemoryStore) RecordLocation(loc *models.TruckLocation) (*models.TruckLocation, error) {
	m.locMu.Lock()
	defer m.locMu.Unlock()

	if loc.RecordedAt.IsZero() {
		loc.RecordedAt = time.Now()
	}
	loc.CreatedAt = time.Now()
	loc.UpdatedAt = loc.CreatedAt

	m.locations[loc.TruckID] = append(m.locations[loc.TruckID], loc)
	return loc, nil
}

func (m *MemoryStore) GetLatestLocation(truckID string) (*models.TruckLocation, error) {
	m.locMu.RLock()
	defer m.locMu.RUnlock()

	pings := m.locations[truckID]
	if len(pings) == 0 {
		return nil, ErrNotFound
	}
	latest := pings[0]
	for _, p := range pings[1:] {
		if p.RecordedAt.After(latest.RecordedAt) {
			latest = p
		}
	}
	return latest, nil
}
