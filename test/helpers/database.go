package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/coldroute-go/internal/infrastructure/database"
)

// NewTestDB opens a fresh in-memory SQLite database with the planner
// schema migrated. The database is private to the calling test and is
// closed automatically when the test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
