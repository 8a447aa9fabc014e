package services

import (
	"sort"

	"github.com/ReturnKart/backhaul-backend/internal/config"
	"github.com/ReturnKart/backhaul-backend/internal/logger"
	"github.com/ReturnKart/backhaul-backend/internal/models"
)

// fallbackLimit caps the degraded-mode result set.
const fallbackLimit = 5

// MatchingPipeline composes Matcher → Ranker into one "ranked
// opportunities for a trip" operation. Stateless and read-only over its
// inputs, so per-trip calls can run concurrently.
type MatchingPipeline struct {
	matcher *Matcher
	ranker  *Ranker
	log     logger.Logger
}

func NewMatchingPipeline(engine *MathEngine, cfg config.EngineConfig, log logger.Logger) *MatchingPipeline {
	return &MatchingPipeline{
		matcher: NewMatcher(engine, cfg.MaxRouteDeviationKm),
		ranker:  NewRanker(engine),
		log:     log,
	}
}

// GetOpportunities returns ranked opportunities for the trip. If either
// stage fails (e.g. one malformed candidate), it degrades to a
// nearest-first list capped at fallbackLimit with no profitability data
// rather than stalling scheduling for the whole trip.
func (p *MatchingPipeline) GetOpportunities(trip *models.Trip, candidates []*models.Load) []models.Opportunity {
	matched, err := p.matcher.Match(trip.Origin, trip.Destination, candidates)
	if err != nil {
		p.log.Warning("matcher failed, using fallback matching",
			logger.String("trip_id", trip.TripID), logger.Error(err))
		return p.fallback(trip, candidates)
	}

	ranked, err := p.ranker.Rank(trip.Origin, trip.Destination, matched)
	if err != nil {
		p.log.Warning("ranker failed, using fallback matching",
			logger.String("trip_id", trip.TripID), logger.Error(err))
		return p.fallback(trip, candidates)
	}
	return ranked
}

// fallback: lenient matching sorted by deviation ascending, top entries
// only, profitability fields left empty.
func (p *MatchingPipeline) fallback(trip *models.Trip, candidates []*models.Load) []models.Opportunity {
	matched := p.matcher.matchLenient(trip.Origin, trip.Destination, candidates)

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].DeviationKm != matched[j].DeviationKm {
			return matched[i].DeviationKm < matched[j].DeviationKm
		}
		return matched[i].Load.LoadID < matched[j].Load.LoadID
	})

	if len(matched) > fallbackLimit {
		matched = matched[:fallbackLimit]
	}

	out := make([]models.Opportunity, 0, len(matched))
	for _, m := range matched {
		out = append(out, models.Opportunity{Load: m.Load, DeviationKm: m.DeviationKm})
	}
	return out
}
