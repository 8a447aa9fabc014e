package storage

import (
	"errors"

	"github.com/ReturnKart/backhaul-backend/internal/models"
)

// Sentinel errors shared by both store implementations. ErrConflict means
// a conditional write found the record in a different state than expected:
// another actor (scheduler cycle or manual allocation) got there first.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record state changed concurrently")
)

// Store defines the interface for storage operations. Every transition
// that moves a load out of "available" or a truck out of "idle" is a
// check-and-set on the current status, never a blind overwrite.
type Store interface {
	// Trip operations
	CreateTrip(trip *models.Trip) (*models.Trip, error)
	GetTrip(tripID string) (*models.Trip, error)
	GetUnmatchedDeadheadingTrips() ([]*models.Trip, error)
	MarkTripDeadheading(tripID string) (*models.Trip, error)
	CompleteTrip(tripID string) error

	// Load operations
	CreateLoad(load *models.Load) (*models.Load, error)
	GetLoad(loadID string) (*models.Load, error)
	GetAvailableLoads() ([]*models.Load, error)
	GetLoadByTrip(tripID string) (*models.Load, error)
	AssignLoad(loadID, tripID, driverID string) error // available → assigned
	ReleaseLoad(loadID string) error                  // assigned → available (cancellation)
	MarkLoadPickedUp(loadID string) error             // assigned → picked_up
	MarkLoadDelivered(loadID string) error            // picked_up → delivered

	// Truck operations
	CreateTruck(truck *models.Truck) (*models.Truck, error)
	GetTruck(truckID string) (*models.Truck, error)
	GetTrucksByOwner(ownerID string) ([]*models.Truck, error)
	SetTruckStatus(truckID, fromStatus, toStatus string) error

	// Allocation operations. Create and cancel are multi-record writes:
	// allocation, load status and truck status change together or not at all.
	CreateAllocation(truckID, loadID, ownerID, driverID string) (*models.Allocation, error)
	GetAllocation(allocationID string) (*models.Allocation, error)
	CancelAllocation(allocationID string) (*models.Allocation, error)

	// Location operations
	RecordLocation(loc *models.TruckLocation) (*models.TruckLocation, error)
	GetLatestLocation(truckID string) (*models.TruckLocation, error)
}
