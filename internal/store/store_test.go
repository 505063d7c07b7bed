package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Rohit-1301/Health/internal/database"
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

func createTestUser(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()
	u, err := NewUserStore(db).Create(context.Background(), email, "Test User", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func strPtr(s string) *string { return &s }
