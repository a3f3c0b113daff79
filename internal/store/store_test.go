package store

import (
	"database/sql"
	"testing"

	"github.com/albudairi/techrewards/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTechnician(t *testing.T, ts *TechnicianStore, name, phone string) int64 {
	t.Helper()
	tech, err := ts.Create(name, phone, "hash", "electrician")
	if err != nil {
		t.Fatalf("create technician %s: %v", name, err)
	}
	return tech.ID
}
