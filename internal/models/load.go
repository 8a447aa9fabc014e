package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Load lifecycle statuses. Transitions are strictly forward
// (available → assigned → picked_up → delivered) with a single reverse
// edge: cancellation puts an assigned load back to available.
const (
	LoadStatusAvailable = "available"
	LoadStatusAssigned  = "assigned"
	LoadStatusPickedUp  = "picked_up"
	LoadStatusDelivered = "delivered"
)

// Load represents a shipment posted by a vendor that needs a truck
type Load struct {
	gorm.Model

	LoadID   string  `json:"load_id" gorm:"uniqueIndex"`
	VendorID string  `json:"vendor_id" gorm:"index"`
	WeightKg float64 `json:"weight_kg"`

	Pickup  Coordinate `json:"pickup_location" gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff Coordinate `json:"destination" gorm:"embedded;embeddedPrefix:dropoff_"`

	PriceOffered float64 `json:"price_offered"`
	Currency     string  `json:"currency" gorm:"default:INR"`

	Status string `json:"status" gorm:"default:available;index"`

	// Status and the trip/driver binding always change together as a pair.
	// The store enforces that with conditional writes.
	AssignedTripID   string `json:"assigned_trip_id,omitempty" gorm:"index"`
	AssignedDriverID string `json:"assigned_driver_id,omitempty"`

	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// BeforeCreate hook to auto-generate LoadID and default status/currency
func (l *Load) BeforeCreate(tx *gorm.DB) error {
	if l.LoadID == "" {
		l.LoadID = "LOAD-" + uuid.NewString()
	}
	if l.Status == "" {
		l.Status = LoadStatusAvailable
	}
	if l.Currency == "" {
		l.Currency = "INR"
	}
	return nil
}
