package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ReturnKart/backhaul-backend/internal/logger"
	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/services"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

// TripHandler handles trip-related requests
type TripHandler struct {
	store    storage.Store
	pipeline *services.MatchingPipeline
	log      logger.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(store storage.Store, pipeline *services.MatchingPipeline, log logger.Logger) *TripHandler {
	return &TripHandler{
		store:    store,
		pipeline: pipeline,
		log:      log,
	}
}

// CreateTrip registers a new outbound trip
func (h *TripHandler) CreateTrip(c *fiber.Ctx) error {
	var trip models.Trip

	if err := c.BodyParser(&trip); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if trip.DriverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Driver ID is required",
		})
	}
	if err := trip.Origin.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid origin: " + err.Error(),
		})
	}
	if err := trip.Destination.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid destination: " + err.Error(),
		})
	}

	created, err := h.store.CreateTrip(&trip)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create trip",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Trip created successfully",
		"trip":    created,
	})
}

// GetTrip retrieves a single trip by ID
func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	trip, err := h.store.GetTrip(c.Params("id"))
	if err != nil {
		return respondError(c, err, "trip")
	}
	return c.JSON(trip)
}

// MarkDeadheading flags the trip's return leg as empty, which makes it
// eligible for backhaul matching. The truck, if known and idle, moves
// to deadheading as a best-effort side write.
func (h *TripHandler) MarkDeadheading(c *fiber.Ctx) error {
	trip, err := h.store.MarkTripDeadheading(c.Params("id"))
	if err != nil {
		return respondError(c, err, "trip")
	}

	if trip.TruckID != "" {
		if err := h.store.SetTruckStatus(trip.TruckID, models.TruckStatusIdle, models.TruckStatusDeadheading); err != nil {
			h.log.Warning("could not mark truck deadheading",
				logger.String("truck_id", trip.TruckID), logger.Error(err))
		}
	}

	return c.JSON(fiber.Map{
		"message": "Trip marked as deadheading",
		"trip":    trip,
	})
}

// GetOpportunities previews the ranked backhaul loads for a trip
// without committing anything.
func (h *TripHandler) GetOpportunities(c *fiber.Ctx) error {
	trip, err := h.store.GetTrip(c.Params("id"))
	if err != nil {
		return respondError(c, err, "trip")
	}

	loads, err := h.store.GetAvailableLoads()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve loads",
		})
	}

	opportunities := h.pipeline.GetOpportunities(trip, loads)
	return c.JSON(fiber.Map{
		"trip_id":       trip.TripID,
		"opportunities": opportunities,
		"count":         len(opportunities),
	})
}
