package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/ReturnKart/backhaul-backend/internal/config"
	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/services"
)

func newCalculateApp() *fiber.App {
	app := fiber.New()
	h := NewCalculateHandler(services.NewMathEngine(config.DefaultEngineConfig()))
	app.Post("/api/calculate/profitability", h.Profitability)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	if _, err := rec.Body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read response: %v", err)
	}
	return rec
}

func TestProfitabilityEndpoint(t *testing.T) {
	app := newCalculateApp()

	rec := postJSON(t, app, "/api/calculate/profitability", map[string]interface{}{
		"driver_current": map[string]float64{"lat": 28.6139, "lng": 77.2090},
		"driver_destination": map[string]float64{"lat": 28.7041, "lng": 77.1025},
		"vendor_pickup": map[string]float64{"lat": 28.6517, "lng": 77.2219},
		"vendor_destination": map[string]float64{"lat": 28.6900, "lng": 77.1500},
		"vendor_offering": 5000,
	})
	if rec.Code != fiber.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Metrics     models.RouteMetrics  `json:"route_metrics"`
		Calculation models.Profitability `json:"calculation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if body.Metrics.DirectKm != 18.77 {
		t.Errorf("direct distance = %v, want 18.77", body.Metrics.DirectKm)
	}
	if body.Calculation.ExtraDistanceKm != 3.96 {
		t.Errorf("extra distance = %v, want 3.96", body.Calculation.ExtraDistanceKm)
	}
	if body.Calculation.NetProfit != 4996.17 {
		t.Errorf("net profit = %v, want 4996.17", body.Calculation.NetProfit)
	}
	if body.Calculation.ProfitabilityScore != 71373.8571 {
		t.Errorf("score = %v, want 71373.8571", body.Calculation.ProfitabilityScore)
	}
}

func TestProfitabilityRejectsBadCoordinates(t *testing.T) {
	app := newCalculateApp()

	rec := postJSON(t, app, "/api/calculate/profitability", map[string]interface{}{
		"driver_current": map[string]float64{"lat": 95.0, "lng": 77.0},
		"driver_destination": map[string]float64{"lat": 28.7041, "lng": 77.1025},
		"vendor_pickup": map[string]float64{"lat": 28.6517, "lng": 77.2219},
		"vendor_destination": map[string]float64{"lat": 28.6900, "lng": 77.1500},
		"vendor_offering": 5000,
	})
	if rec.Code != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProfitabilityRejectsMalformedBody(t *testing.T) {
	app := newCalculateApp()

	req := httptest.NewRequest("POST", "/api/calculate/profitability", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
