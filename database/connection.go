package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ReturnKart/backhaul-backend/internal/config"
)

// Connect opens a PostgreSQL connection. When INSTANCE_CONNECTION_NAME
// is set the connection goes through the Cloud SQL Unix socket,
// otherwise plain TCP for local development.
func Connect(cfg config.Config) (*gorm.DB, error) {
	var dsn string
	if cfg.InstanceConnectionName != "" {
		dsn = fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.InstanceConnectionName, cfg.DBUser, cfg.DBPass, cfg.DBName)
	} else {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}
