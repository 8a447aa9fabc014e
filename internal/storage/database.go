package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ReturnKart/backhaul-backend/internal/models"
)

// DatabaseStore is the PostgreSQL implementation backed by GORM.
// Conditional transitions are UPDATE ... WHERE status = ? statements
// checked via RowsAffected, so concurrent actors can never both move the
// same record.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store on top of an open GORM connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Trip operations

func (s *DatabaseStore) CreateTrip(trip *models.Trip) (*models.Trip, error) {
	if err := s.db.Create(trip).Error; err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *DatabaseStore) GetTrip(tripID string) (*models.Trip, error) {
	var trip models.Trip
	if err := s.db.Where("trip_id = ?", tripID).First(&trip).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &trip, nil
}

func (s *DatabaseStore) GetUnmatchedDeadheadingTrips() ([]*models.Trip, error) {
	bound := s.db.Model(&models.Load{}).
		Select("assigned_trip_id").
		Where("assigned_trip_id <> ''")

	var trips []*models.Trip
	err := s.db.
		Where("status = ? AND deadheading = ?", models.TripStatusActive, true).
		Where("trip_id NOT IN (?)", bound).
		Order("created_at ASC, trip_id ASC").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (s *DatabaseStore) MarkTripDeadheading(tripID string) (*models.Trip, error) {
	res := s.db.Model(&models.Trip{}).
		Where("trip_id = ? AND status = ?", tripID, models.TripStatusActive).
		Update("deadheading", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, missingOrConflict(s.db, &models.Trip{}, "trip_id", tripID)
	}
	return s.GetTrip(tripID)
}

func (s *DatabaseStore) CompleteTrip(tripID string) error {
	now := time.Now()
	res := s.db.Model(&models.Trip{}).
		Where("trip_id = ? AND status = ?", tripID, models.TripStatusActive).
		Updates(map[string]interface{}{
			"status":       models.TripStatusCompleted,
			"deadheading":  false,
			"completed_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingOrConflict(s.db, &models.Trip{}, "trip_id", tripID)
	}
	return nil
}

// Load operations

func (s *DatabaseStore) CreateLoad(load *models.Load) (*models.Load, error) {
	if err := s.db.Create(load).Error; err != nil {
		return nil, err
	}
	return load, nil
}

func (s *DatabaseStore) GetLoad(loadID string) (*models.Load, error) {
	var load models.Load
	if err := s.db.Where("load_id = ?", loadID).First(&load).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &load, nil
}

func (s *DatabaseStore) GetAvailableLoads() ([]*models.Load, error) {
	var loads []*models.Load
	err := s.db.
		Where("status = ?", models.LoadStatusAvailable).
		Order("load_id ASC").
		Find(&loads).Error
	if err != nil {
		return nil, err
	}
	return loads, nil
}

func (s *DatabaseStore) GetLoadByTrip(tripID string) (*models.Load, error) {
	var load models.Load
	if err := s.db.Where("assigned_trip_id = ?", tripID).First(&load).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &load, nil
}

func (s *DatabaseStore) AssignLoad(loadID, tripID, driverID string) error {
	now := time.Now()
	res := s.db.Model(&models.Load{}).
		Where("load_id = ? AND status = ?", loadID, models.LoadStatusAvailable).
		Updates(map[string]interface{}{
			"status":             models.LoadStatusAssigned,
			"assigned_trip_id":   tripID,
			"assigned_driver_id": driverID,
			"assigned_at":        &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingOrConflict(s.db, &models.Load{}, "load_id", loadID)
	}
	return nil
}

func (s *DatabaseStore) ReleaseLoad(loadID string) error {
	return s.releaseLoadTx(s.db, loadID)
}

func (s *DatabaseStore) releaseLoadTx(tx *gorm.DB, loadID string) error {
	res := tx.Model(&models.Load{}).
		Where("load_id = ? AND status = ?", loadID, models.LoadStatusAssigned).
		Updates(map[string]interface{}{
			"status":             models.LoadStatusAvailable,
			"assigned_trip_id":   "",
			"assigned_driver_id": "",
			"assigned_at":        nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingOrConflict(tx.Session(&gorm.Session{NewDB: true}), &models.Load{}, "load_id", loadID)
	}
	return nil
}

func (s *DatabaseStore) MarkLoadPickedUp(loadID string) error {
	now := time.Now()
	res := s.db.Model(&models.Load{}).
		Where("load_id = ? AND status = ?", loadID, models.LoadStatusAssigned).
		Updates(map[string]interface{}{
			"status":       models.LoadStatusPickedUp,
			"picked_up_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingOrConflict(s.db, &models.Load{}, "load_id", loadID)
	}
	return nil
}

func (s *DatabaseStore) MarkLoadDelivered(loadID string) error {
	now := time.Now()
	res := s.db.Model(&models.Load{}).
		Where("load_id = ? AND status = ?", loadID, models.LoadStatusPickedUp).
		Updates(map[string]interface{}{
			"status":       models.LoadStatusDelivered,
			"delivered_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingOrConflict(s.db, &models.Load{}, "load_id", loadID)
	}
	return nil
}

// Truck operations

func (s *DatabaseStore) CreateTruck(truck *models.Truck) (*models.Truck, error) {
	if err := s.db.Create(truck).Error; err != nil {
		return nil, err
	}
	return truck, nil
}

func (s *DatabaseStore) GetTruck(truckID string) (*models.Truck, error) {
	var truck models.Truck
	if err := s.db.Where("truck_id = ?", truckID).First(&truck).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &truck, nil
}

func (s *DatabaseStore) GetTrucksByOwner(ownerID string) ([]*models.Truck, error) {
	var trucks []*models.Truck
	err := s.db.
		Where("owner_id = ?", ownerID).
		Order("truck_id ASC").
		Find(&trucks).Error
	if err != nil {
		return nil, err
	}
	return trucks, nil
}

func (s *DatabaseStore) SetTruckStatus(truckID, fromStatus, toStatus string) error {
	return s.setTruckStatusTx(s.db, truckID, fromStatus, toStatus)
}

func (s *DatabaseStore) setTruckStatusTx(tx *gorm.DB, truckID, fromStatus, toStatus string) error {
	res := tx.Model(&models.Truck{}).
		Where("truck_id = ? AND status = ?", truckID, fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingOrConflict(tx.Session(&gorm.Session{NewDB: true}), &models.Truck{}, "truck_id", truckID)
	}
	return nil
}

// Allocation operations

func (s *DatabaseStore) CreateAllocation(truckID, loadID, ownerID, driverID string) (*models.Allocation, error) {
	allocation := &models.Allocation{
		TruckID: truckID,
		LoadID:  loadID,
		OwnerID: ownerID,
		Status:  models.AllocationStatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Load{}).
			Where("load_id = ? AND status = ?", loadID, models.LoadStatusAvailable).
			Updates(map[string]interface{}{
				"status":             models.LoadStatusAssigned,
				"assigned_driver_id": driverID,
				"assigned_at":        &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missingOrConflict(tx.Session(&gorm.Session{NewDB: true}), &models.Load{}, "load_id", loadID)
		}

		if err := s.setTruckStatusTx(tx, truckID, models.TruckStatusIdle, models.TruckStatusAllocated); err != nil {
			return err
		}

		return tx.Create(allocation).Error
	})
	if err != nil {
		return nil, err
	}
	return allocation, nil
}

func (s *DatabaseStore) GetAllocation(allocationID string) (*models.Allocation, error) {
	var allocation models.Allocation
	if err := s.db.Where("allocation_id = ?", allocationID).First(&allocation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &allocation, nil
}

func (s *DatabaseStore) CancelAllocation(allocationID string) (*models.Allocation, error) {
	var allocation models.Allocation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("allocation_id = ?", allocationID).First(&allocation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Allocation{}).
			Where("allocation_id = ? AND status = ?", allocationID, models.AllocationStatusActive).
			Updates(map[string]interface{}{
				"status":       models.AllocationStatusCancelled,
				"cancelled_at": &now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		if err := s.releaseLoadTx(tx, allocation.LoadID); err != nil {
			return err
		}
		// Best effort: the truck may already have moved on.
		if err := s.setTruckStatusTx(tx, allocation.TruckID, models.TruckStatusAllocated, models.TruckStatusIdle); err != nil &&
			!errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) {
			return err
		}

		allocation.Status = models.AllocationStatusCancelled
		allocation.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}

// Location operations

func (s *DatabaseStore) RecordLocation(loc *models.TruckLocation) (*models.TruckLocation, error) {
	if loc.RecordedAt.IsZero() {
		loc.RecordedAt = time.Now()
	}
	if err := s.db.Create(loc).Error; err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *DatabaseStore) GetLatestLocation(truckID string) (*models.TruckLocation, error) {
	var loc models.TruckLocation
	err := s.db.
		Where("truck_id = ?", truckID).
		Order("recorded_at DESC").
		First(&loc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// missingOrConflict disambiguates a zero-row conditional update: the record
// either does not exist (ErrNotFound) or is in another state (ErrConflict).
func missingOrConflict(db *gorm.DB, model interface{}, idColumn, id string) error {
	var count int64
	if err := db.Model(model).Where(idColumn+" = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
