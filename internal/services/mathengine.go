package services

import (
	"math"

	"github.com/ReturnKart/backhaul-backend/internal/config"
	"github.com/ReturnKart/backhaul-backend/internal/models"
)

const (
	earthRadiusKm = 6371.0
	// Straight line × 1.3 approximates real road distance.
	roadAdjustmentFactor = 1.3
)

// MathEngine is the core calculation service for distance, cost and
// profitability. All methods are pure: same inputs, same outputs.
type MathEngine struct {
	fuelConsumptionRatePerKm float64
	fuelPricePerUnit         float64
	driverHourlyRate         float64
	averageTruckSpeedKmh     float64
}

// NewMathEngine creates an engine with the configured constants.
func NewMathEngine(cfg config.EngineConfig) *MathEngine {
	if cfg.AverageTruckSpeedKmh <= 0 {
		cfg = config.DefaultEngineConfig()
	}
	return &MathEngine{
		fuelConsumptionRatePerKm: cfg.FuelConsumptionRatePerKm,
		fuelPricePerUnit:         cfg.FuelPricePerUnit,
		driverHourlyRate:         cfg.DriverHourlyRate,
		averageTruckSpeedKmh:     cfg.AverageTruckSpeedKmh,
	}
}

// Distance returns the approximate road distance between two points in
// kilometers: haversine great-circle distance scaled by the road
// adjustment factor.
func (e *MathEngine) Distance(a, b models.Coordinate) float64 {
	lat1 := degreesToRadians(a.Lat)
	lon1 := degreesToRadians(a.Lng)
	lat2 := degreesToRadians(b.Lat)
	lon2 := degreesToRadians(b.Lng)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(h))

	return round2(earthRadiusKm * c * roadAdjustmentFactor)
}

// EstimatedTime returns travel time in hours for a distance at the
// average truck speed.
func (e *MathEngine) EstimatedTime(distanceKm float64) float64 {
	return round2(distanceKm / e.averageTruckSpeedKmh)
}

// ExtraDistance is the marginal distance of accepting a load versus
// driving directly home:
//
//	d(current→pickup) + d(pickup→dropoff) + d(dropoff→destination) − d(current→destination)
//
// The road adjustment factor can make the legs disagree slightly, so the
// value is surfaced as-is, never clamped.
func (e *MathEngine) ExtraDistance(current, destination, pickup, dropoff models.Coordinate) float64 {
	toPickup := e.Distance(current, pickup)
	pickupToDrop := e.Distance(pickup, dropoff)
	dropToHome := e.Distance(dropoff, destination)
	direct := e.Distance(current, destination)

	return round2(toPickup + pickupToDrop + dropToHome - direct)
}

// FuelCost for a distance at the configured consumption rate and price.
func (e *MathEngine) FuelCost(distanceKm float64) float64 {
	return round2(distanceKm * e.fuelConsumptionRatePerKm * e.fuelPricePerUnit)
}

// TimeCost is the driver's wage for the hours spent.
func (e *MathEngine) TimeCost(timeHours float64) float64 {
	return round2(timeHours * e.driverHourlyRate)
}

// NetProfit = offer − fuel − time. May be negative.
func (e *MathEngine) NetProfit(offerPrice, fuelCost, timeCost float64) float64 {
	return round2(offerPrice - fuelCost - timeCost)
}

// ProfitabilityScore is profit per hour; 0 when no extra time is needed.
func (e *MathEngine) ProfitabilityScore(netProfit, totalTimeHours float64) float64 {
	if totalTimeHours == 0 {
		return 0.0
	}
	return round4(netProfit / totalTimeHours)
}

// FullProfitability composes the complete breakdown for one opportunity.
func (e *MathEngine) FullProfitability(current, destination, pickup, dropoff models.Coordinate, offerPrice float64) models.Profitability {
	extraDistance := e.ExtraDistance(current, destination, pickup, dropoff)
	estimatedTime := e.EstimatedTime(extraDistance)
	fuelCost := e.FuelCost(extraDistance)
	timeCost := e.TimeCost(estimatedTime)
	netProfit := e.NetProfit(offerPrice, fuelCost, timeCost)

	return models.Profitability{
		ExtraDistanceKm:    extraDistance,
		EstimatedTimeHours: estimatedTime,
		FuelCost:           fuelCost,
		TimeCost:           timeCost,
		NetProfit:          netProfit,
		ProfitabilityScore: e.ProfitabilityScore(netProfit, estimatedTime),
	}
}

// RouteMetrics compares the direct return leg with the detour through the
// load's pickup and dropoff.
func (e *MathEngine) RouteMetrics(current, destination, pickup, dropoff models.Coordinate) models.RouteMetrics {
	toPickup := e.Distance(current, pickup)
	pickupToDrop := e.Distance(pickup, dropoff)
	dropToHome := e.Distance(dropoff, destination)
	direct := e.Distance(current, destination)

	detour := round2(toPickup + pickupToDrop + dropToHome)
	directTime := e.EstimatedTime(direct)
	detourTime := e.EstimatedTime(detour)

	return models.RouteMetrics{
		DirectKm:       direct,
		DirectHours:    directTime,
		DetourKm:       detour,
		DetourHours:    detourTime,
		ExtraKm:        round2(detour - direct),
		ExtraHours:     round2(detourTime - directTime),
		ToPickupKm:     toPickup,
		PickupToDropKm: pickupToDrop,
		DropToHomeKm:   dropToHome,
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
