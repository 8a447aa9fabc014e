package services

import (
	"fmt"
	"sort"

	"github.com/ReturnKart/backhaul-backend/internal/models"
)

// Ranker turns matched loads into profitability-ordered opportunities.
type Ranker struct {
	engine *MathEngine
}

func NewRanker(engine *MathEngine) *Ranker {
	return &Ranker{engine: engine}
}

// Rank computes route metrics and the full cost breakdown for each
// matched load, drops everything that is not profitable, sorts the rest
// by profitability score and assigns a dense 1-based rank. Ties break by
// lower extra distance, then by load ID, so the order is total.
func (r *Ranker) Rank(current, destination models.Coordinate, matched []MatchedLoad) ([]models.Opportunity, error) {
	var ranked []models.Opportunity

	for _, m := range matched {
		if err := m.Load.Dropoff.Validate(); err != nil {
			return nil, fmt.Errorf("load %s dropoff: %w", m.Load.LoadID, err)
		}

		metrics := r.engine.RouteMetrics(current, destination, m.Load.Pickup, m.Load.Dropoff)

		fuelCost := r.engine.FuelCost(metrics.ExtraKm)
		timeCost := r.engine.TimeCost(metrics.ExtraHours)
		netProfit := r.engine.NetProfit(m.Load.PriceOffered, fuelCost, timeCost)
		if netProfit <= 0 {
			continue
		}

		ranked = append(ranked, models.Opportunity{
			Load:        m.Load,
			DeviationKm: m.DeviationKm,
			Metrics:     &metrics,
			Calculation: &models.Profitability{
				ExtraDistanceKm:    metrics.ExtraKm,
				EstimatedTimeHours: metrics.ExtraHours,
				FuelCost:           fuelCost,
				TimeCost:           timeCost,
				NetProfit:          netProfit,
				ProfitabilityScore: r.engine.ProfitabilityScore(netProfit, metrics.ExtraHours),
			},
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i].Calculation, ranked[j].Calculation
		if a.ProfitabilityScore != b.ProfitabilityScore {
			return a.ProfitabilityScore > b.ProfitabilityScore
		}
		if a.ExtraDistanceKm != b.ExtraDistanceKm {
			return a.ExtraDistanceKm < b.ExtraDistanceKm
		}
		return ranked[i].Load.LoadID < ranked[j].Load.LoadID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}
