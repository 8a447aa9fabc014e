package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ReturnKart/backhaul-backend/internal/geo"
	"github.com/ReturnKart/backhaul-backend/internal/logger"
	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/observability"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

// ValidationError is a rejected request with a human-readable reason.
// Never retried automatically.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// CompatibleLoad is a load within allocation range of a vehicle.
type CompatibleLoad struct {
	Load                  *models.Load `json:"load"`
	DistanceFromVehicleKm float64      `json:"distance_from_vehicle_km"`
}

// CompatibleVehicle is a truck within allocation range of a load's pickup.
type CompatibleVehicle struct {
	Truck            *models.Truck     `json:"truck"`
	Location         models.Coordinate `json:"current_location"`
	DistanceToLoadKm float64           `json:"distance_to_load_km"`
}

// AllocationService is the manual, operator-driven counterpart to the
// auto-scheduler: it validates a human-chosen truck/load pairing and
// performs the same style of conditional commit.
type AllocationService struct {
	store         storage.Store
	engine        *MathEngine
	index         geo.TruckLocationIndex
	notifier      Notifier
	log           logger.Logger
	maxDistanceKm float64
}

func NewAllocationService(store storage.Store, engine *MathEngine, index geo.TruckLocationIndex, notifier Notifier, log logger.Logger, maxDistanceKm float64) *AllocationService {
	return &AllocationService{
		store:         store,
		engine:        engine,
		index:         index,
		notifier:      notifier,
		log:           log,
		maxDistanceKm: maxDistanceKm,
	}
}

// Validate checks whether the truck/load pairing is allocatable right
// now: truck exists and is free, load exists and is available, and the
// truck's last known position is within range of the pickup. Trucks with
// no recorded position skip the distance check.
func (s *AllocationService) Validate(vehicleID, loadID string) error {
	truck, err := s.store.GetTruck(vehicleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return validationErrorf("vehicle not found")
		}
		return err
	}
	if !truck.Allocatable() {
		return validationErrorf("vehicle is not available (status: %s)", truck.Status)
	}

	load, err := s.store.GetLoad(loadID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return validationErrorf("load not found")
		}
		return err
	}
	if load.Status != models.LoadStatusAvailable {
		return validationErrorf("load is not available (status: %s)", load.Status)
	}

	if loc, ok := s.lastKnown(vehicleID); ok {
		distance := s.engine.Distance(loc, load.Pickup)
		if distance > s.maxDistanceKm {
			return validationErrorf("vehicle is too far from pickup location (%.2fkm, max: %.0fkm)", distance, s.maxDistanceKm)
		}
	}

	return nil
}

// CreateAllocation re-validates and commits: allocation record created,
// load flipped to assigned with the truck's driver, truck flipped to
// allocated — all one conditional multi-record write in the store. A lost
// race comes back as a "no longer available" validation failure.
func (s *AllocationService) CreateAllocation(vehicleID, loadID, ownerID string) (*models.Allocation, error) {
	if err := s.Validate(vehicleID, loadID); err != nil {
		return nil, err
	}

	truck, err := s.store.GetTruck(vehicleID)
	if err != nil {
		return nil, err
	}

	allocation, err := s.store.CreateAllocation(vehicleID, loadID, ownerID, truck.DriverID)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, validationErrorf("load or vehicle is no longer available")
		}
		return nil, err
	}

	observability.AllocationsCreatedTotal.Inc()
	s.log.Info("allocation created",
		logger.String("allocation_id", allocation.AllocationID),
		logger.String("truck_id", vehicleID),
		logger.String("load_id", loadID))

	s.notifyDriver(truck, loadID)
	return allocation, nil
}

// CancelAllocation reverts the pairing: allocation cancelled, load back
// to available, truck back to idle.
func (s *AllocationService) CancelAllocation(allocationID string) (*models.Allocation, error) {
	allocation, err := s.store.CancelAllocation(allocationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, validationErrorf("allocation not found")
		}
		if errors.Is(err, storage.ErrConflict) {
			return nil, validationErrorf("allocation is not active")
		}
		return nil, err
	}

	observability.AllocationsCancelledTotal.Inc()
	s.log.Info("allocation cancelled", logger.String("allocation_id", allocationID))
	return allocation, nil
}

// GetCompatibleLoads lists available loads within range of the vehicle's
// last known position, nearest first.
func (s *AllocationService) GetCompatibleLoads(vehicleID string) ([]CompatibleLoad, error) {
	if _, err := s.store.GetTruck(vehicleID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, validationErrorf("vehicle not found")
		}
		return nil, err
	}

	loc, ok := s.lastKnown(vehicleID)
	if !ok {
		return nil, nil
	}

	loads, err := s.store.GetAvailableLoads()
	if err != nil {
		return nil, err
	}

	var compatible []CompatibleLoad
	for _, load := range loads {
		distance := s.engine.Distance(loc, load.Pickup)
		if distance <= s.maxDistanceKm {
			compatible = append(compatible, CompatibleLoad{Load: load, DistanceFromVehicleKm: distance})
		}
	}
	sort.Slice(compatible, func(i, j int) bool {
		return compatible[i].DistanceFromVehicleKm < compatible[j].DistanceFromVehicleKm
	})
	return compatible, nil
}

// GetCompatibleVehicles lists an owner's free trucks within range of the
// load's pickup, nearest first. Trucks without a known position are
// excluded: there is nothing to sort them by.
func (s *AllocationService) GetCompatibleVehicles(loadID, ownerID string) ([]CompatibleVehicle, error) {
	load, err := s.store.GetLoad(loadID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, validationErrorf("load not found")
		}
		return nil, err
	}

	trucks, err := s.store.GetTrucksByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	var compatible []CompatibleVehicle
	for _, truck := range trucks {
		if !truck.Allocatable() {
			continue
		}
		loc, ok := s.lastKnown(truck.TruckID)
		if !ok {
			continue
		}
		distance := s.engine.Distance(loc, load.Pickup)
		if distance <= s.maxDistanceKm {
			compatible = append(compatible, CompatibleVehicle{Truck: truck, Location: loc, DistanceToLoadKm: distance})
		}
	}
	sort.Slice(compatible, func(i, j int) bool {
		return compatible[i].DistanceToLoadKm < compatible[j].DistanceToLoadKm
	})
	return compatible, nil
}

// lastKnown reads the truck's position from the index, falling back to
// the store's location history (and backfilling the index on a hit).
func (s *AllocationService) lastKnown(truckID string) (models.Coordinate, bool) {
	if loc, ok := s.index.Latest(truckID); ok {
		return loc, true
	}
	ping, err := s.store.GetLatestLocation(truckID)
	if err != nil {
		return models.Coordinate{}, false
	}
	coord := ping.Coordinate()
	s.index.Upsert(truckID, coord)
	return coord, true
}

func (s *AllocationService) notifyDriver(truck *models.Truck, loadID string) {
	if truck.DriverPhone == "" {
		return
	}
	load, err := s.store.GetLoad(loadID)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("You have been assigned a new load from %s to %s",
		orUnknown(load.Pickup.Address, "pickup"), orUnknown(load.Dropoff.Address, "destination"))
	if err := s.notifier.Notify(truck.DriverPhone, "New Load Allocated", msg); err != nil {
		s.log.Warning("driver notification failed",
			logger.String("truck_id", truck.TruckID), logger.Error(err))
	}
}

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
