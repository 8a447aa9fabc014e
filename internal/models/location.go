package models

import (
	"time"

	"gorm.io/gorm"
)

// TruckLocation is a GPS ping for a truck. The newest ping per truck is
// mirrored into the location index for fast distance checks; the table
// keeps the history.
type TruckLocation struct {
	gorm.Model

	TruckID    string  `json:"truck_id" gorm:"index"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	AccuracyM  float64 `json:"accuracy_m"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Coordinate converts the ping into the shared value type.
func (l *TruckLocation) Coordinate() Coordinate {
	return Coordinate{Lat: l.Lat, Lng: l.Lng}
}
