package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/infrastructure/config"
)

// NewConnection opens the planner database described by cfg.
// PostgreSQL is the production target; SQLite covers local runs and tests.
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if cfg.LogSQL {
		logMode = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pool limits only apply to postgres; SQLite runs on a single file handle.
	if cfg.Type == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying db: %w", err)
		}
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	}

	return db, nil
}

func openDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "postgres":
		if cfg.URL != "" {
			return postgres.Open(cfg.URL), nil
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
		return postgres.Open(dsn), nil

	case "sqlite":
		return sqlite.Open(sqliteDSN(cfg.Path)), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// sqliteDSN adds the pragmas a file-backed planner database needs: worker
// goroutines commit route trees while API handlers poll job status, so
// writers must wait out the lock instead of failing fast, and route_stops
// rows must follow their route on delete.
func sqliteDSN(path string) string {
	if path == "" || strings.HasPrefix(path, ":memory:") {
		return ":memory:"
	}
	return path + "?_busy_timeout=5000&_foreign_keys=on"
}

// NewTestConnection opens a fresh in-memory SQLite database with the full
// schema applied. Every call returns an isolated database.
func NewTestConnection() (*gorm.DB, error) {
	db, err := NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: ":memory:"})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate test database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for every planner model. The
// daemon runs this once at boot; tests run it per database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&persistence.VehicleModel{},
		&persistence.ShipmentModel{},
		&persistence.DepotModel{},
		&persistence.DriverModel{},
		&persistence.LaborLogModel{},
		&persistence.PlanJobModel{},
		&persistence.RouteModel{},
		&persistence.RouteStopModel{},
		&persistence.JobLogModel{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
