package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ReturnKart/backhaul-backend/internal/geo"
	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

// LocationHandler handles GPS ping ingestion and lookup
type LocationHandler struct {
	store storage.Store
	index geo.TruckLocationIndex
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(store storage.Store, index geo.TruckLocationIndex) *LocationHandler {
	return &LocationHandler{
		store: store,
		index: index,
	}
}

// RecordLocation stores a GPS ping and mirrors it into the fast index
func (h *LocationHandler) RecordLocation(c *fiber.Ctx) error {
	var ping models.TruckLocation

	if err := c.BodyParser(&ping); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if ping.TruckID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Truck ID is required",
		})
	}
	if err := ping.Coordinate().Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid coordinates: " + err.Error(),
		})
	}

	if _, err := h.store.GetTruck(ping.TruckID); err != nil {
		return respondError(c, err, "truck")
	}

	if ping.RecordedAt.IsZero() {
		ping.RecordedAt = time.Now()
	}

	created, err := h.store.RecordLocation(&ping)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record location",
		})
	}

	h.index.Upsert(ping.TruckID, ping.Coordinate())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Location recorded",
		"location": created,
	})
}

// GetLatestLocation returns a truck's most recent ping
func (h *LocationHandler) GetLatestLocation(c *fiber.Ctx) error {
	loc, err := h.store.GetLatestLocation(c.Params("id"))
	if err != nil {
		return respondError(c, err, "location")
	}
	return c.JSON(loc)
}
