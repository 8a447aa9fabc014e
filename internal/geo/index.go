// Package geo keeps the latest known position per truck. The allocation
// service reads it for distance checks; GPS ingestion writes it.
package geo

import (
	"sync"
	"time"

	"github.com/ReturnKart/backhaul-backend/internal/models"
)

// TruckLocationIndex is the minimal interface required by the allocation
// service and the location handlers.
type TruckLocationIndex interface {
	Upsert(truckID string, c models.Coordinate)
	Latest(truckID string) (models.Coordinate, bool)
}

type position struct {
	coord   models.Coordinate
	updated time.Time
}

// Index is the in-memory implementation.
type Index struct {
	mu     sync.RWMutex
	trucks map[string]position
}

func NewIndex() *Index {
	return &Index{trucks: make(map[string]position)}
}

func (g *Index) Upsert(truckID string, c models.Coordinate) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.trucks[truckID] = position{coord: c, updated: time.Now()}
}

func (g *Index) Latest(truckID string) (models.Coordinate, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.trucks[truckID]
	return p.coord, ok
}
