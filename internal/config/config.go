package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds every tunable for the process. Values come from the
// environment (a .env file is honoured for local development) with
// defaults that let the binary run without setup.
type Config struct {
	ServiceName string
	AppPort     int
	Environment string

	UseMemoryStore         bool
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPass                 string
	DBName                 string
	InstanceConnectionName string

	RedisAddr     string
	RedisPassword string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string

	GoogleMapsAPIKey string

	JWTSecret string

	AutoSchedulerEnabled bool

	Engine EngineConfig
}

// EngineConfig carries the matching and cost-model constants.
type EngineConfig struct {
	MaxRouteDeviationKm      float64
	MaxAllocationDistanceKm  float64
	SchedulerInterval        time.Duration
	AverageTruckSpeedKmh     float64
	FuelConsumptionRatePerKm float64
	FuelPricePerUnit         float64
	DriverHourlyRate         float64
}

// Load reads the configuration from the environment.
func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "backhaul-backend"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("PORT", 8080))
	cfg.Environment = cast.ToString(getOrReturnDefault("ENVIRONMENT", "development"))

	cfg.UseMemoryStore = cast.ToBool(getOrReturnDefault("USE_MEMORY_STORE", false))
	cfg.DBHost = cast.ToString(getOrReturnDefault("DB_HOST", "localhost"))
	cfg.DBPort = cast.ToString(getOrReturnDefault("DB_PORT", "5432"))
	cfg.DBUser = cast.ToString(getOrReturnDefault("DB_USER", "postgres"))
	cfg.DBPass = cast.ToString(getOrReturnDefault("DB_PASS", ""))
	cfg.DBName = cast.ToString(getOrReturnDefault("DB_NAME", "backhaul"))
	cfg.InstanceConnectionName = os.Getenv("INSTANCE_CONNECTION_NAME")

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.TwilioWhatsAppFrom = os.Getenv("TWILIO_WHATSAPP_FROM")

	cfg.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")

	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	cfg.AutoSchedulerEnabled = cast.ToBool(getOrReturnDefault("AUTO_SCHEDULER_ENABLED", true))

	cfg.Engine = loadEngineConfig()

	return cfg
}

func loadEngineConfig() EngineConfig {
	e := EngineConfig{}

	e.MaxRouteDeviationKm = cast.ToFloat64(getOrReturnDefault("MAX_ROUTE_DEVIATION_KM", 500.0))
	e.MaxAllocationDistanceKm = cast.ToFloat64(getOrReturnDefault("MAX_ALLOCATION_DISTANCE_KM", 500.0))
	e.SchedulerInterval = time.Duration(cast.ToInt(getOrReturnDefault("SCHEDULER_INTERVAL_SECONDS", 120))) * time.Second
	e.AverageTruckSpeedKmh = cast.ToFloat64(getOrReturnDefault("AVERAGE_TRUCK_SPEED_KMH", 60.0))
	e.FuelConsumptionRatePerKm = cast.ToFloat64(getOrReturnDefault("FUEL_CONSUMPTION_RATE_PER_KM", 0.35))
	e.FuelPricePerUnit = cast.ToFloat64(getOrReturnDefault("FUEL_PRICE_PER_UNIT", 1.50))
	e.DriverHourlyRate = cast.ToFloat64(getOrReturnDefault("DRIVER_HOURLY_RATE", 25.0))

	return e
}

// DefaultEngineConfig returns the engine constants without touching the
// environment. Used by tests and as a safety net for zero-value configs.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxRouteDeviationKm:      500.0,
		MaxAllocationDistanceKm:  500.0,
		SchedulerInterval:        120 * time.Second,
		AverageTruckSpeedKmh:     60.0,
		FuelConsumptionRatePerKm: 0.35,
		FuelPricePerUnit:         1.50,
		DriverHourlyRate:         25.0,
	}
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
