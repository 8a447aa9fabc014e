package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ReturnKart/backhaul-backend/database"
	"github.com/ReturnKart/backhaul-backend/internal/config"
	"github.com/ReturnKart/backhaul-backend/internal/geo"
	"github.com/ReturnKart/backhaul-backend/internal/handlers"
	"github.com/ReturnKart/backhaul-backend/internal/jobs"
	"github.com/ReturnKart/backhaul-backend/internal/logger"
	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/routes"
	"github.com/ReturnKart/backhaul-backend/internal/services"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	zlog := logger.New(cfg.ServiceName)

	// Initialize storage
	var store storage.Store
	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		log.Println("🔄 Running database migrations...")
		err = db.AutoMigrate(
			&models.Trip{},
			&models.Load{},
			&models.Truck{},
			&models.Allocation{},
			&models.TruckLocation{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}

		store = storage.NewDatabaseStore(db)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Location index: Redis-backed when configured, in-process otherwise
	var index geo.TruckLocationIndex
	if cfg.RedisAddr != "" {
		index = geo.NewRedisIndex(cfg.RedisAddr, cfg.RedisPassword, "truck_locations")
		log.Println("✅ Using Redis location index")
	} else {
		index = geo.NewIndex()
	}

	// Driver notifications go out over WhatsApp when Twilio is configured
	var notifier services.Notifier = services.NoopNotifier{}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioWhatsAppFrom != "" {
		tn, err := services.NewTwilioNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, zlog)
		if err != nil {
			log.Fatal("Failed to initialize Twilio notifier:", err)
		}
		notifier = tn
		log.Println("✅ Twilio notifier initialized")
	} else {
		log.Println("⚠️  Twilio credentials not found - driver notifications disabled")
	}

	// Address lookup for loads posted without coordinates
	var geocoder services.Geocoder
	if cfg.GoogleMapsAPIKey != "" {
		gc, err := services.NewGoogleGeocoder(cfg.GoogleMapsAPIKey)
		if err != nil {
			log.Fatal("Failed to initialize geocoder:", err)
		}
		geocoder = gc
		log.Println("✅ Google Maps geocoder initialized")
	}

	// Matching and allocation machinery
	engine := services.NewMathEngine(cfg.Engine)
	pipeline := services.NewMatchingPipeline(engine, cfg.Engine, zlog)
	allocations := services.NewAllocationService(store, engine, index, notifier, zlog, cfg.Engine.MaxAllocationDistanceKm)
	scheduler := jobs.NewAutoScheduler(store, pipeline, zlog, cfg.Engine.SchedulerInterval)

	if cfg.AutoSchedulerEnabled {
		scheduler.Start()
	}

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: cfg.ServiceName + " v" + version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, routes.Deps{
		Health:     handlers.NewHealthHandler(cfg.ServiceName, version),
		Trips:      handlers.NewTripHandler(store, pipeline, zlog),
		Loads:      handlers.NewLoadHandler(store, geocoder, zlog),
		Trucks:     handlers.NewTruckHandler(store),
		Locations:  handlers.NewLocationHandler(store, index),
		Allocation: handlers.NewAllocationHandler(allocations, store),
		Calculate:  handlers.NewCalculateHandler(engine),
		Scheduler:  handlers.NewSchedulerHandler(scheduler),
		JWTSecret:  cfg.JWTSecret,
	})

	// Handle graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		log.Println("\n🛑 Gracefully shutting down...")
		scheduler.Stop()
		_ = app.Shutdown()
	}()

	port := strconv.Itoa(cfg.AppPort)
	log.Println("========================================")
	log.Printf("🚀 %s starting on port %s", cfg.ServiceName, port)
	log.Printf("🌍 Environment: %s", cfg.Environment)
	log.Printf("⏱️  Scheduler: enabled=%v interval=%s", cfg.AutoSchedulerEnabled, cfg.Engine.SchedulerInterval)
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}
