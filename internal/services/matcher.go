package services

import (
	"fmt"

	"github.com/ReturnKart/backhaul-backend/internal/models"
)

// MatchedLoad is a candidate that passed the deviation filter, annotated
// with how far its pickup sits from the trip's current position.
type MatchedLoad struct {
	Load        *models.Load
	DeviationKm float64
}

// Matcher filters candidate loads down to those whose pickup is within
// the maximum acceptable deviation from the trip. The cap is deliberately
// generous: recall over precision, the ranker sorts out the economics.
type Matcher struct {
	engine         *MathEngine
	maxDeviationKm float64
}

func NewMatcher(engine *MathEngine, maxDeviationKm float64) *Matcher {
	return &Matcher{engine: engine, maxDeviationKm: maxDeviationKm}
}

// Match returns the candidates within the deviation cap, unordered.
// A malformed coordinate anywhere in the input is an error; the pipeline
// decides how to degrade.
func (m *Matcher) Match(current, destination models.Coordinate, candidates []*models.Load) ([]MatchedLoad, error) {
	if err := current.Validate(); err != nil {
		return nil, fmt.Errorf("trip current position: %w", err)
	}
	if err := destination.Validate(); err != nil {
		return nil, fmt.Errorf("trip destination: %w", err)
	}

	var matched []MatchedLoad
	for _, load := range candidates {
		if err := load.Pickup.Validate(); err != nil {
			return nil, fmt.Errorf("load %s pickup: %w", load.LoadID, err)
		}
		deviation := m.engine.Distance(current, load.Pickup)
		if deviation <= m.maxDeviationKm {
			matched = append(matched, MatchedLoad{Load: load, DeviationKm: deviation})
		}
	}
	return matched, nil
}

// matchLenient is the degraded-mode variant: malformed candidates are
// skipped instead of failing the batch.
func (m *Matcher) matchLenient(current, destination models.Coordinate, candidates []*models.Load) []MatchedLoad {
	if current.Validate() != nil || destination.Validate() != nil {
		return nil
	}

	var matched []MatchedLoad
	for _, load := range candidates {
		if load.Pickup.Validate() != nil {
			continue
		}
		deviation := m.engine.Distance(current, load.Pickup)
		if deviation <= m.maxDeviationKm {
			matched = append(matched, MatchedLoad{Load: load, DeviationKm: deviation})
		}
	}
	return matched
}
