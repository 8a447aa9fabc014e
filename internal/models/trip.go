package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trip lifecycle statuses
const (
	TripStatusActive    = "active"
	TripStatusCompleted = "completed"
)

// Trip represents a truck journey. Once the outbound delivery is done the
// driver marks the trip as deadheading and the return leg becomes eligible
// for backhaul matching.
type Trip struct {
	gorm.Model

	TripID   string `json:"trip_id" gorm:"uniqueIndex"`
	DriverID string `json:"driver_id" gorm:"index"`
	TruckID  string `json:"truck_id" gorm:"index"`

	Origin      Coordinate `json:"origin" gorm:"embedded;embeddedPrefix:origin_"`
	Destination Coordinate `json:"destination" gorm:"embedded;embeddedPrefix:destination_"`

	OutboundLoad string `json:"outbound_load"`

	Deadheading bool   `json:"deadheading" gorm:"default:false"`
	Status      string `json:"status" gorm:"default:active;index"`

	CompletedAt *time.Time `json:"completed_at"`
}

// BeforeCreate hook to auto-generate TripID and default the status
func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.TripID == "" {
		t.TripID = "TRIP-" + uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TripStatusActive
	}
	return nil
}

// IsMatchable reports whether the trip should be considered by the
// auto-scheduler: actively deadheading and not yet bound to a load.
// The "no bound load" half is checked against the store, since the
// binding lives on the Load record.
func (t *Trip) IsMatchable() bool {
	return t.Status == TripStatusActive && t.Deadheading
}
