package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ReturnKart/backhaul-backend/internal/logger"
	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/services"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

var (
	errMissingCoordinates   = errors.New("coordinates or an address are required")
	errGeocodingUnavailable = errors.New("address lookup is not configured, provide coordinates")
)

// LoadHandler handles load-related requests
type LoadHandler struct {
	store    storage.Store
	geocoder services.Geocoder
	log      logger.Logger
}

// NewLoadHandler creates a new load handler. The geocoder may be nil
// when no maps API key is configured; coordinates are then mandatory.
func NewLoadHandler(store storage.Store, geocoder services.Geocoder, log logger.Logger) *LoadHandler {
	return &LoadHandler{
		store:    store,
		geocoder: geocoder,
		log:      log,
	}
}

// CreateLoad handles creating a new load. Pickup and dropoff may be
// given as coordinates or, when a geocoder is configured, as addresses.
func (h *LoadHandler) CreateLoad(c *fiber.Ctx) error {
	var load models.Load

	if err := c.BodyParser(&load); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.resolveCoordinate(c, &load.Pickup); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid pickup location: " + err.Error(),
		})
	}
	if err := h.resolveCoordinate(c, &load.Dropoff); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid destination: " + err.Error(),
		})
	}
	if load.PriceOffered <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Price offered must be positive",
		})
	}

	created, err := h.store.CreateLoad(&load)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create load",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Load created successfully",
		"load":    created,
	})
}

// resolveCoordinate fills in lat/lng from the address when the caller
// gave only an address and a geocoder is available.
func (h *LoadHandler) resolveCoordinate(c *fiber.Ctx, coord *models.Coordinate) error {
	haveCoords := !(coord.Lat == 0 && coord.Lng == 0)
	if haveCoords {
		return coord.Validate()
	}
	if coord.Address == "" {
		return errMissingCoordinates
	}
	if h.geocoder == nil {
		return errGeocodingUnavailable
	}
	resolved, err := h.geocoder.Geocode(c.Context(), coord.Address)
	if err != nil {
		h.log.Warning("geocoding failed",
			logger.String("address", coord.Address), logger.Error(err))
		return err
	}
	*coord = resolved
	return nil
}

// GetLoad retrieves a single load by ID
func (h *LoadHandler) GetLoad(c *fiber.Ctx) error {
	load, err := h.store.GetLoad(c.Params("id"))
	if err != nil {
		return respondError(c, err, "load")
	}
	return c.JSON(load)
}

// GetAvailableLoads retrieves all loads still open for matching
func (h *LoadHandler) GetAvailableLoads(c *fiber.Ctx) error {
	loads, err := h.store.GetAvailableLoads()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve loads",
		})
	}
	return c.JSON(fiber.Map{
		"loads": loads,
		"count": len(loads),
	})
}

// AcceptLoad binds an available load to a deadheading trip. The trip
// comes from the trip_id query parameter.
func (h *LoadHandler) AcceptLoad(c *fiber.Ctx) error {
	loadID := c.Params("id")
	tripID := c.Query("trip_id")
	if tripID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "trip_id query parameter is required",
		})
	}

	trip, err := h.store.GetTrip(tripID)
	if err != nil {
		return respondError(c, err, "trip")
	}
	if !trip.IsMatchable() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Trip is not accepting loads",
		})
	}
	if existing, err := h.store.GetLoadByTrip(tripID); err == nil && existing != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Trip already has an assigned load",
		})
	}

	if err := h.store.AssignLoad(loadID, tripID, trip.DriverID); err != nil {
		return respondError(c, err, "load")
	}

	load, err := h.store.GetLoad(loadID)
	if err != nil {
		return respondError(c, err, "load")
	}
	return c.JSON(fiber.Map{
		"message": "Load accepted",
		"load":    load,
	})
}

// RejectLoad releases an assigned load back to the available pool
func (h *LoadHandler) RejectLoad(c *fiber.Ctx) error {
	loadID := c.Params("id")
	if err := h.store.ReleaseLoad(loadID); err != nil {
		return respondError(c, err, "load")
	}
	load, err := h.store.GetLoad(loadID)
	if err != nil {
		return respondError(c, err, "load")
	}
	return c.JSON(fiber.Map{
		"message": "Load released",
		"load":    load,
	})
}

// PickupLoad marks an assigned load as picked up
func (h *LoadHandler) PickupLoad(c *fiber.Ctx) error {
	loadID := c.Params("id")
	if err := h.store.MarkLoadPickedUp(loadID); err != nil {
		return respondError(c, err, "load")
	}
	load, err := h.store.GetLoad(loadID)
	if err != nil {
		return respondError(c, err, "load")
	}
	return c.JSON(fiber.Map{
		"message": "Load picked up",
		"load":    load,
	})
}

// DeliverLoad marks a picked-up load as delivered
func (h *LoadHandler) DeliverLoad(c *fiber.Ctx) error {
	loadID := c.Params("id")
	if err := h.store.MarkLoadDelivered(loadID); err != nil {
		return respondError(c, err, "load")
	}
	load, err := h.store.GetLoad(loadID)
	if err != nil {
		return respondError(c, err, "load")
	}
	return c.JSON(fiber.Map{
		"message": "Load delivered",
		"load":    load,
	})
}
