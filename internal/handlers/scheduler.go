package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ReturnKart/backhaul-backend/internal/jobs"
)

// SchedulerHandler exposes control over the auto-scheduler
type SchedulerHandler struct {
	scheduler *jobs.AutoScheduler
}

// NewSchedulerHandler creates a new scheduler handler
func NewSchedulerHandler(scheduler *jobs.AutoScheduler) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler}
}

// Start launches the periodic matching loop
func (h *SchedulerHandler) Start(c *fiber.Ctx) error {
	if h.scheduler.Running() {
		return c.JSON(fiber.Map{
			"message": "Scheduler already running",
			"stats":   h.scheduler.Stats(),
		})
	}
	h.scheduler.Start()
	return c.JSON(fiber.Map{
		"message": "Scheduler started",
		"stats":   h.scheduler.Stats(),
	})
}

// Stop halts the periodic matching loop, waiting out any in-flight cycle
func (h *SchedulerHandler) Stop(c *fiber.Ctx) error {
	h.scheduler.Stop()
	return c.JSON(fiber.Map{
		"message": "Scheduler stopped",
		"stats":   h.scheduler.Stats(),
	})
}

// ForceRun executes one matching cycle immediately
func (h *SchedulerHandler) ForceRun(c *fiber.Ctx) error {
	h.scheduler.ForceRun()
	return c.JSON(fiber.Map{
		"message": "Cycle executed",
		"stats":   h.scheduler.Stats(),
	})
}

// Status reports the scheduler's counters
func (h *SchedulerHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.scheduler.Stats())
}
