package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

// TruckHandler handles truck registration and lookup
type TruckHandler struct {
	store storage.Store
}

// NewTruckHandler creates a new truck handler
func NewTruckHandler(store storage.Store) *TruckHandler {
	return &TruckHandler{store: store}
}

// RegisterTruck creates a new truck in the fleet
func (h *TruckHandler) RegisterTruck(c *fiber.Ctx) error {
	var truck models.Truck

	if err := c.BodyParser(&truck); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if truck.OwnerID == "" || truck.LicensePlate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Owner ID and license plate are required",
		})
	}
	if truck.CapacityKg <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Capacity must be positive",
		})
	}

	created, err := h.store.CreateTruck(&truck)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register truck",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Truck registered successfully",
		"truck":   created,
	})
}

// GetTruck retrieves a single truck by ID
func (h *TruckHandler) GetTruck(c *fiber.Ctx) error {
	truck, err := h.store.GetTruck(c.Params("id"))
	if err != nil {
		return respondError(c, err, "truck")
	}
	return c.JSON(truck)
}

// GetTrucksByOwner lists an owner's fleet
func (h *TruckHandler) GetTrucksByOwner(c *fiber.Ctx) error {
	ownerID := c.Query("owner_id")
	if tokenOwner, ok := c.Locals("owner_id").(string); ok && tokenOwner != "" {
		ownerID = tokenOwner
	}
	if ownerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Owner ID is required",
		})
	}

	trucks, err := h.store.GetTrucksByOwner(ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve trucks",
		})
	}
	return c.JSON(fiber.Map{
		"trucks": trucks,
		"count":  len(trucks),
	})
}
