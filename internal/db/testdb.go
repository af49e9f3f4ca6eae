package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns a fresh in-memory SQLite pool with the campuscare schema
// applied. The pool is closed when the test ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("creating test database schema: %v", err)
	}

	return database
}
