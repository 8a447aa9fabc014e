package services

import (
	"testing"

	"github.com/ReturnKart/backhaul-backend/internal/models"
)

func TestRankDropsUnprofitableLoads(t *testing.T) {
	r := NewRanker(newTestEngine())

	matched := []MatchedLoad{
		{Load: load("L-GOOD", cp, pitampura, 5000), DeviationKm: 5.70},
		// Offer below the detour cost.
		{Load: load("L-CHEAP", cp, pitampura, 1), DeviationKm: 5.70},
	}

	ranked, err := r.Rank(delhi, rohini, matched)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("Rank kept %d loads, want 1", len(ranked))
	}
	if ranked[0].Load.LoadID != "L-GOOD" {
		t.Errorf("kept load = %s, want L-GOOD", ranked[0].Load.LoadID)
	}
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	r := NewRanker(newTestEngine())

	matched := []MatchedLoad{
		{Load: load("L-LOW", cp, pitampura, 3000), DeviationKm: 5.70},
		{Load: load("L-HIGH", cp, pitampura, 5000), DeviationKm: 5.70},
	}

	ranked, err := r.Rank(delhi, rohini, matched)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("Rank kept %d loads, want 2", len(ranked))
	}
	if ranked[0].Load.LoadID != "L-HIGH" || ranked[1].Load.LoadID != "L-LOW" {
		t.Errorf("order = %s, %s; want L-HIGH, L-LOW",
			ranked[0].Load.LoadID, ranked[1].Load.LoadID)
	}
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 {
		t.Errorf("ranks = %d, %d; want 1, 2", ranked[0].Rank, ranked[1].Rank)
	}
}

func TestRankTieBreaksByLoadID(t *testing.T) {
	r := NewRanker(newTestEngine())

	// Identical geometry and price: identical score and extra distance.
	matched := []MatchedLoad{
		{Load: load("L-B", cp, pitampura, 5000), DeviationKm: 5.70},
		{Load: load("L-A", cp, pitampura, 5000), DeviationKm: 5.70},
	}

	ranked, err := r.Rank(delhi, rohini, matched)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("Rank kept %d loads, want 2", len(ranked))
	}
	if ranked[0].Load.LoadID != "L-A" {
		t.Errorf("tie broken toward %s, want L-A", ranked[0].Load.LoadID)
	}
}

func TestRankPopulatesMetricsAndCalculation(t *testing.T) {
	r := NewRanker(newTestEngine())

	ranked, err := r.Rank(delhi, rohini, []MatchedLoad{
		{Load: load("L", cp, pitampura, 5000), DeviationKm: 5.70},
	})
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	opp := ranked[0]
	if opp.Metrics == nil || opp.Calculation == nil {
		t.Fatal("ranked opportunity missing metrics or calculation")
	}
	if opp.Calculation.NetProfit != 4996.17 {
		t.Errorf("NetProfit = %v, want 4996.17", opp.Calculation.NetProfit)
	}
	if opp.Calculation.ProfitabilityScore != 71373.8571 {
		t.Errorf("ProfitabilityScore = %v, want 71373.8571", opp.Calculation.ProfitabilityScore)
	}
	if opp.DeviationKm != 5.70 {
		t.Errorf("DeviationKm = %v, want 5.70", opp.DeviationKm)
	}
}

func TestRankErrorsOnMalformedDropoff(t *testing.T) {
	r := NewRanker(newTestEngine())

	_, err := r.Rank(delhi, rohini, []MatchedLoad{
		{Load: load("L-BAD", cp, models.Coordinate{Lat: 0, Lng: -200}, 5000)},
	})
	if err == nil {
		t.Fatal("Rank accepted a malformed dropoff, want error")
	}
}
