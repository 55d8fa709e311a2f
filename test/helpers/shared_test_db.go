package helpers

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/infrastructure/database"
)

// SharedTestDB backs the behaviour suite. godog scenarios share one
// in-memory database and truncate between scenarios instead of paying
// for a migration per scenario.
var SharedTestDB *gorm.DB

// InitializeSharedTestDB opens and migrates the shared database.
// TestMain calls it once before any scenario runs.
func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// planner tables in child-before-parent order so deletes never trip
// foreign keys
var truncationOrder = []string{
	"route_stops",
	"routes",
	"labor_logs",
	"job_logs",
	"plan_jobs",
	"shipments",
	"drivers",
	"vehicles",
	"depots",
}

// TruncateAllTables wipes every planner table. Scenario reset hooks call
// this so each scenario starts from an empty database.
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	for _, table := range truncationOrder {
		if err := SharedTestDB.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// CloseSharedTestDB releases the shared connection after the suite.
func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	return database.Close(SharedTestDB)
}
