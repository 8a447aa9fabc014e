package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/ReturnKart/backhaul-backend/internal/config"
	"github.com/ReturnKart/backhaul-backend/internal/logger"
	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/services"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

func newTripApp(store storage.Store) *fiber.App {
	cfg := config.DefaultEngineConfig()
	pipeline := services.NewMatchingPipeline(services.NewMathEngine(cfg), cfg, logger.NewNop())
	h := NewTripHandler(store, pipeline, logger.NewNop())

	app := fiber.New()
	app.Post("/api/trips", h.CreateTrip)
	app.Get("/api/trips/:id", h.GetTrip)
	app.Patch("/api/trips/:id/deadhead", h.MarkDeadheading)
	app.Get("/api/trips/:id/opportunities", h.GetOpportunities)
	return app
}

func TestTripLifecycleOverHTTP(t *testing.T) {
	store := storage.NewMemoryStore()
	app := newTripApp(store)

	rec := postJSON(t, app, "/api/trips", map[string]interface{}{
		"driver_id":   "DRV-1",
		"truck_id":    "TRK-1",
		"origin":      map[string]float64{"lat": 28.6139, "lng": 77.2090},
		"destination": map[string]float64{"lat": 28.7041, "lng": 77.1025},
	})
	if rec.Code != fiber.StatusCreated {
		t.Fatalf("create trip status = %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Trip models.Trip `json:"trip"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tripID := created.Trip.TripID
	if tripID == "" {
		t.Fatal("created trip has no ID")
	}

	// Seed a profitable load, then flag the return leg.
	if _, err := store.CreateLoad(&models.Load{
		LoadID:       "L-1",
		Pickup:       models.Coordinate{Lat: 28.6517, Lng: 77.2219},
		Dropoff:      models.Coordinate{Lat: 28.6900, Lng: 77.1500},
		PriceOffered: 5000,
	}); err != nil {
		t.Fatalf("CreateLoad: %v", err)
	}

	req := httptest.NewRequest("PATCH", "/api/trips/"+tripID+"/deadhead", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("deadhead status = %d", resp.StatusCode)
	}
	trip, _ := store.GetTrip(tripID)
	if !trip.Deadheading {
		t.Error("trip not flagged deadheading")
	}

	req = httptest.NewRequest("GET", "/api/trips/"+tripID+"/opportunities", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var opps struct {
		Opportunities []models.Opportunity `json:"opportunities"`
		Count         int                  `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&opps); err != nil {
		t.Fatalf("decode opportunities: %v", err)
	}
	if opps.Count != 1 || len(opps.Opportunities) != 1 {
		t.Fatalf("got %d opportunities, want 1", opps.Count)
	}
	if opps.Opportunities[0].Calculation == nil || opps.Opportunities[0].Calculation.NetProfit != 4996.17 {
		t.Errorf("opportunity calculation = %+v", opps.Opportunities[0].Calculation)
	}

	// Preview only: the load stays available.
	l, _ := store.GetLoad("L-1")
	if l.Status != models.LoadStatusAvailable {
		t.Errorf("preview mutated load status to %s", l.Status)
	}
}

func TestCreateTripValidation(t *testing.T) {
	app := newTripApp(storage.NewMemoryStore())

	rec := postJSON(t, app, "/api/trips", map[string]interface{}{
		"driver_id":   "DRV-1",
		"origin":      map[string]float64{"lat": 95.0, "lng": 77.0},
		"destination": map[string]float64{"lat": 28.7, "lng": 77.1},
	})
	if rec.Code != fiber.StatusBadRequest {
		t.Errorf("bad origin status = %d, want 400", rec.Code)
	}

	rec = postJSON(t, app, "/api/trips", map[string]interface{}{
		"origin":      map[string]float64{"lat": 28.6, "lng": 77.2},
		"destination": map[string]float64{"lat": 28.7, "lng": 77.1},
	})
	if rec.Code != fiber.StatusBadRequest {
		t.Errorf("missing driver status = %d, want 400", rec.Code)
	}
}

func TestGetTripNotFound(t *testing.T) {
	app := newTripApp(storage.NewMemoryStore())

	req := httptest.NewRequest("GET", "/api/trips/TRIP-NOPE", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
