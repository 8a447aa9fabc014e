package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ReturnKart/backhaul-backend/internal/services"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

// AllocationHandler handles manual truck/load allocation requests
type AllocationHandler struct {
	allocations *services.AllocationService
	store       storage.Store
}

// NewAllocationHandler creates a new allocation handler
func NewAllocationHandler(allocations *services.AllocationService, store storage.Store) *AllocationHandler {
	return &AllocationHandler{
		allocations: allocations,
		store:       store,
	}
}

type createAllocationRequest struct {
	VehicleID string `json:"vehicle_id"`
	LoadID    string `json:"load_id"`
	OwnerID   string `json:"owner_id"`
}

// CreateAllocation validates and commits a manual truck/load pairing
func (h *AllocationHandler) CreateAllocation(c *fiber.Ctx) error {
	var req createAllocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.VehicleID == "" || req.LoadID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Vehicle ID and load ID are required",
		})
	}

	// Owner identity comes from the token when auth is enabled.
	if ownerID, ok := c.Locals("owner_id").(string); ok && ownerID != "" {
		req.OwnerID = ownerID
	}

	allocation, err := h.allocations.CreateAllocation(req.VehicleID, req.LoadID, req.OwnerID)
	if err != nil {
		return respondError(c, err, "allocation")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Allocation created successfully",
		"allocation": allocation,
	})
}

// GetAllocation retrieves a single allocation by ID
func (h *AllocationHandler) GetAllocation(c *fiber.Ctx) error {
	allocation, err := h.store.GetAllocation(c.Params("id"))
	if err != nil {
		return respondError(c, err, "allocation")
	}
	return c.JSON(allocation)
}

// CancelAllocation reverts an active allocation
func (h *AllocationHandler) CancelAllocation(c *fiber.Ctx) error {
	allocation, err := h.allocations.CancelAllocation(c.Params("id"))
	if err != nil {
		return respondError(c, err, "allocation")
	}
	return c.JSON(fiber.Map{
		"message":    "Allocation cancelled",
		"allocation": allocation,
	})
}

// GetCompatibleLoads lists loads within allocation range of a vehicle
func (h *AllocationHandler) GetCompatibleLoads(c *fiber.Ctx) error {
	vehicleID := c.Query("vehicle_id")
	if vehicleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "vehicle_id query parameter is required",
		})
	}

	loads, err := h.allocations.GetCompatibleLoads(vehicleID)
	if err != nil {
		return respondError(c, err, "vehicle")
	}
	return c.JSON(fiber.Map{
		"loads": loads,
		"count": len(loads),
	})
}

// GetCompatibleVehicles lists an owner's free trucks within range of a load
func (h *AllocationHandler) GetCompatibleVehicles(c *fiber.Ctx) error {
	loadID := c.Query("load_id")
	if loadID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "load_id query parameter is required",
		})
	}

	ownerID := c.Query("owner_id")
	if tokenOwner, ok := c.Locals("owner_id").(string); ok && tokenOwner != "" {
		ownerID = tokenOwner
	}
	if ownerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Owner ID is required",
		})
	}

	vehicles, err := h.allocations.GetCompatibleVehicles(loadID, ownerID)
	if err != nil {
		return respondError(c, err, "load")
	}
	return c.JSON(fiber.Map{
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}
