package models

import "fmt"

// Coordinate is a geographic point with an optional human-readable address.
// Embedded into Trip/Load columns with a prefix, so both routes and load
// endpoints share the same validation.
type Coordinate struct {
	Lat     float64 `json:"lat" gorm:"column:lat"`
	Lng     float64 `json:"lng" gorm:"column:lng"`
	Address string  `json:"address,omitempty" gorm:"column:address"`
}

// Validate checks the coordinate is a real point on the globe.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %.4f out of range [-90, 90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("longitude %.4f out of range [-180, 180]", c.Lng)
	}
	return nil
}
