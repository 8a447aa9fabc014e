package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Truck statuses. A truck is only eligible for manual allocation while
// idle; deadheading trucks belong to the auto-scheduler.
const (
	TruckStatusIdle        = "idle"
	TruckStatusAllocated   = "allocated"
	TruckStatusDeadheading = "deadheading"
	TruckStatusInactive    = "inactive"
)

// Truck represents a vehicle in an owner's fleet
type Truck struct {
	gorm.Model

	TruckID      string `json:"truck_id" gorm:"uniqueIndex"`
	OwnerID      string `json:"owner_id" gorm:"index"`
	DriverID     string `json:"driver_id" gorm:"index"`
	DriverPhone  string `json:"driver_phone"`
	LicensePlate string `json:"license_plate" gorm:"uniqueIndex"`
	CapacityKg   float64 `json:"capacity_kg"`

	Status string `json:"status" gorm:"default:idle;index"`
}

// BeforeCreate hook to auto-generate TruckID and normalize data
func (t *Truck) BeforeCreate(tx *gorm.DB) error {
	if t.TruckID == "" {
		t.TruckID = "TRK-" + uuid.NewString()
	}

	// Normalize license plate (remove spaces, convert to uppercase)
	t.LicensePlate = strings.ToUpper(strings.ReplaceAll(t.LicensePlate, " ", ""))

	// Normalize driver phone (ensure it starts with +91 if not already)
	if t.DriverPhone != "" && !strings.HasPrefix(t.DriverPhone, "+") {
		t.DriverPhone = "+91" + strings.TrimPrefix(t.DriverPhone, "91")
	}

	if t.Status == "" {
		t.Status = TruckStatusIdle
	}
	return nil
}

// Allocatable reports whether the truck can take a manual allocation.
func (t *Truck) Allocatable() bool {
	return t.Status != TruckStatusAllocated && t.Status != TruckStatusDeadheading && t.Status != TruckStatusInactive
}
