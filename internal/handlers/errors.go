package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ReturnKart/backhaul-backend/internal/services"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

// respondError maps service and storage errors onto HTTP responses.
// Validation failures and lost races are client errors; anything else
// is a 500 with a generic message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": vErr.Reason,
		})
	}
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fallback + " not found",
		})
	}
	if errors.Is(err, storage.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": fallback + " is not in the required state",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to process " + fallback,
	})
}
