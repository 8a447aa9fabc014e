package services

import (
	"math"
	"testing"

	"github.com/ReturnKart/backhaul-backend/internal/config"
	"github.com/ReturnKart/backhaul-backend/internal/models"
)

// Reference points used across the engine tests.
var (
	delhi     = models.Coordinate{Lat: 28.6139, Lng: 77.2090}
	rohini    = models.Coordinate{Lat: 28.7041, Lng: 77.1025}
	cp        = models.Coordinate{Lat: 28.6517, Lng: 77.2219}
	pitampura = models.Coordinate{Lat: 28.6900, Lng: 77.1500}
	mumbai    = models.Coordinate{Lat: 19.0760, Lng: 72.8777}
)

func newTestEngine() *MathEngine {
	return NewMathEngine(config.DefaultEngineConfig())
}

func TestDistanceZeroForSamePoint(t *testing.T) {
	e := newTestEngine()
	if d := e.Distance(delhi, delhi); d != 0 {
		t.Errorf("Distance(p, p) = %v, want 0", d)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	e := newTestEngine()
	ab := e.Distance(delhi, mumbai)
	ba := e.Distance(mumbai, delhi)
	if ab != ba {
		t.Errorf("Distance not symmetric: %v vs %v", ab, ba)
	}
	if ab <= 0 {
		t.Errorf("Distance(delhi, mumbai) = %v, want > 0", ab)
	}
}

func TestDistanceKnownValues(t *testing.T) {
	e := newTestEngine()
	tests := []struct {
		name string
		a, b models.Coordinate
		want float64
	}{
		{"delhi to rohini", delhi, rohini, 18.77},
		{"delhi to cp", delhi, cp, 5.70},
		{"cp to pitampura", cp, pitampura, 10.67},
		{"pitampura to rohini", pitampura, rohini, 6.36},
	}
	for _, tt := range tests {
		if got := e.Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Distance = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEstimatedTime(t *testing.T) {
	e := newTestEngine()
	if got := e.EstimatedTime(120); got != 2.0 {
		t.Errorf("EstimatedTime(120) = %v, want 2.0", got)
	}
	if got := e.EstimatedTime(0); got != 0 {
		t.Errorf("EstimatedTime(0) = %v, want 0", got)
	}
}

func TestExtraDistanceMatchesLegSum(t *testing.T) {
	e := newTestEngine()
	got := e.ExtraDistance(delhi, rohini, cp, pitampura)
	if got != 3.96 {
		t.Errorf("ExtraDistance = %v, want 3.96", got)
	}
}

func TestExtraDistanceColinearNotLarge(t *testing.T) {
	// Pickup and dropoff sitting on the way home should add almost
	// nothing. The road factor can push the sum a hair either side of
	// zero, so only a sanity bound is asserted.
	e := newTestEngine()
	got := e.ExtraDistance(delhi, rohini, delhi, rohini)
	if math.Abs(got) > 0.02 {
		t.Errorf("ExtraDistance along the direct route = %v, want ~0", got)
	}
}

func TestCostModel(t *testing.T) {
	e := newTestEngine()
	if got := e.FuelCost(100); got != 52.50 {
		t.Errorf("FuelCost(100) = %v, want 52.50", got)
	}
	if got := e.TimeCost(2); got != 50.0 {
		t.Errorf("TimeCost(2) = %v, want 50.0", got)
	}
	if got := e.NetProfit(5000, 500, 300); got != 4200 {
		t.Errorf("NetProfit(5000, 500, 300) = %v, want 4200", got)
	}
}

func TestProfitabilityScore(t *testing.T) {
	e := newTestEngine()
	if got := e.ProfitabilityScore(4200, 3.5); got != 1200 {
		t.Errorf("ProfitabilityScore(4200, 3.5) = %v, want 1200", got)
	}
	if got := e.ProfitabilityScore(4200, 0); got != 0 {
		t.Errorf("ProfitabilityScore with zero hours = %v, want 0", got)
	}
	if got := e.ProfitabilityScore(-100, 2); got != -50 {
		t.Errorf("ProfitabilityScore(-100, 2) = %v, want -50", got)
	}
}

func TestFullProfitabilityDelhiScenario(t *testing.T) {
	e := newTestEngine()
	got := e.FullProfitability(delhi, rohini, cp, pitampura, 5000)

	want := models.Profitability{
		ExtraDistanceKm:    3.96,
		EstimatedTimeHours: 0.07,
		FuelCost:           2.08,
		TimeCost:           1.75,
		NetProfit:          4996.17,
		ProfitabilityScore: 71373.8571,
	}
	if got != want {
		t.Errorf("FullProfitability = %+v, want %+v", got, want)
	}
}

func TestRouteMetricsDelhiScenario(t *testing.T) {
	e := newTestEngine()
	m := e.RouteMetrics(delhi, rohini, cp, pitampura)

	if m.DirectKm != 18.77 {
		t.Errorf("DirectKm = %v, want 18.77", m.DirectKm)
	}
	if m.DetourKm != 22.73 {
		t.Errorf("DetourKm = %v, want 22.73", m.DetourKm)
	}
	if m.ExtraKm != 3.96 {
		t.Errorf("ExtraKm = %v, want 3.96", m.ExtraKm)
	}
	if m.DirectHours != 0.31 || m.DetourHours != 0.38 || m.ExtraHours != 0.07 {
		t.Errorf("hours = %v/%v/%v, want 0.31/0.38/0.07",
			m.DirectHours, m.DetourHours, m.ExtraHours)
	}
	if m.ToPickupKm != 5.70 || m.PickupToDropKm != 10.67 || m.DropToHomeKm != 6.36 {
		t.Errorf("legs = %v/%v/%v, want 5.70/10.67/6.36",
			m.ToPickupKm, m.PickupToDropKm, m.DropToHomeKm)
	}
}

func TestNewMathEngineFallsBackToDefaults(t *testing.T) {
	e := NewMathEngine(config.EngineConfig{})
	if got := e.EstimatedTime(60); got != 1.0 {
		t.Errorf("zero-value config: EstimatedTime(60) = %v, want 1.0", got)
	}
}
