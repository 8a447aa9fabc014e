package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/services"
)

// CalculateHandler exposes the profitability math as a stateless endpoint
type CalculateHandler struct {
	engine *services.MathEngine
}

// NewCalculateHandler creates a new calculate handler
func NewCalculateHandler(engine *services.MathEngine) *CalculateHandler {
	return &CalculateHandler{engine: engine}
}

type calculateRequest struct {
	CurrentLocation models.Coordinate `json:"driver_current"`
	Destination     models.Coordinate `json:"driver_destination"`
	Pickup          models.Coordinate `json:"vendor_pickup"`
	Dropoff         models.Coordinate `json:"vendor_destination"`
	PriceOffered    float64           `json:"vendor_offering"`
}

// Profitability calculates detour cost and profit for a hypothetical
// pickup without touching any stored records.
func (h *CalculateHandler) Profitability(c *fiber.Ctx) error {
	var req calculateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	for name, coord := range map[string]models.Coordinate{
		"driver_current":     req.CurrentLocation,
		"driver_destination": req.Destination,
		"vendor_pickup":      req.Pickup,
		"vendor_destination": req.Dropoff,
	} {
		if err := coord.Validate(); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid " + name + ": " + err.Error(),
			})
		}
	}

	metrics := h.engine.RouteMetrics(req.CurrentLocation, req.Destination, req.Pickup, req.Dropoff)
	calculation := h.engine.FullProfitability(req.CurrentLocation, req.Destination, req.Pickup, req.Dropoff, req.PriceOffered)

	return c.JSON(fiber.Map{
		"route_metrics": metrics,
		"calculation":   calculation,
	})
}
