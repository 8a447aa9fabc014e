package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allocation statuses
const (
	AllocationStatusActive    = "active"
	AllocationStatusCompleted = "completed"
	AllocationStatusCancelled = "cancelled"
)

// Allocation is an operator-made pairing of a truck and a load. Creating
// one flips the load to assigned and the truck to allocated; cancelling
// reverses both. Only one active allocation may exist per load.
type Allocation struct {
	gorm.Model

	AllocationID string `json:"allocation_id" gorm:"uniqueIndex"`
	TruckID      string `json:"truck_id" gorm:"index"`
	LoadID       string `json:"load_id" gorm:"index"`
	OwnerID      string `json:"owner_id" gorm:"index"`

	Status string `json:"status" gorm:"default:active;index"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// BeforeCreate hook to auto-generate AllocationID
func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	if a.AllocationID == "" {
		a.AllocationID = "ALLOC-" + uuid.NewString()
	}
	if a.Status == "" {
		a.Status = AllocationStatusActive
	}
	return nil
}
