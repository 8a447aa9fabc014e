package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ReturnKart/backhaul-backend/internal/handlers"
	"github.com/ReturnKart/backhaul-backend/internal/middleware"
)

// Deps bundles the handlers the router wires up.
type Deps struct {
	Health     *handlers.HealthHandler
	Trips      *handlers.TripHandler
	Loads      *handlers.LoadHandler
	Trucks     *handlers.TruckHandler
	Locations  *handlers.LocationHandler
	Allocation *handlers.AllocationHandler
	Calculate  *handlers.CalculateHandler
	Scheduler  *handlers.SchedulerHandler

	// JWTSecret enables owner auth on the allocation routes when set.
	JWTSecret string
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, d Deps) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to ReturnKart Backhaul Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":    "/health",
				"api":       "/api",
				"metrics":   "/metrics",
				"scheduler": "/api/scheduler",
			},
		})
	})

	app.Get("/health", d.Health.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Trip routes
	trips := api.Group("/trips")
	trips.Post("/", d.Trips.CreateTrip)
	trips.Get("/:id", d.Trips.GetTrip)
	trips.Patch("/:id/deadhead", d.Trips.MarkDeadheading)
	trips.Get("/:id/opportunities", d.Trips.GetOpportunities)

	// Load routes
	loads := api.Group("/loads")
	loads.Post("/", d.Loads.CreateLoad)
	loads.Get("/available", d.Loads.GetAvailableLoads)
	loads.Get("/:id", d.Loads.GetLoad)
	loads.Patch("/:id/accept", d.Loads.AcceptLoad)
	loads.Patch("/:id/reject", d.Loads.RejectLoad)
	loads.Patch("/:id/pickup", d.Loads.PickupLoad)
	loads.Patch("/:id/deliver", d.Loads.DeliverLoad)

	// Truck and location routes
	trucks := api.Group("/trucks")
	trucks.Post("/", d.Trucks.RegisterTruck)
	trucks.Get("/", d.Trucks.GetTrucksByOwner)
	trucks.Get("/:id", d.Trucks.GetTruck)
	trucks.Get("/:id/location", d.Locations.GetLatestLocation)
	api.Post("/locations", d.Locations.RecordLocation)

	// Allocation routes. Owner auth applies only when a secret is
	// configured, so local development works without tokens.
	allocations := api.Group("/allocations")
	if d.JWTSecret != "" {
		allocations.Use(middleware.RequireOwner(d.JWTSecret))
	}
	allocations.Post("/", d.Allocation.CreateAllocation)
	allocations.Get("/compatible-loads", d.Allocation.GetCompatibleLoads)
	allocations.Get("/compatible-vehicles", d.Allocation.GetCompatibleVehicles)
	allocations.Get("/:id", d.Allocation.GetAllocation)
	allocations.Delete("/:id", d.Allocation.CancelAllocation)

	// Profitability calculator
	api.Post("/calculate/profitability", d.Calculate.Profitability)

	// Scheduler control
	scheduler := api.Group("/scheduler")
	scheduler.Post("/start", d.Scheduler.Start)
	scheduler.Post("/stop", d.Scheduler.Stop)
	scheduler.Post("/force-run", d.Scheduler.ForceRun)
	scheduler.Get("/status", d.Scheduler.Status)
}
