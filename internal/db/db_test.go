package db

import (
	"path/filepath"
	"testing"
)

func TestEnsureSchemaIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campuscare.sqlite3")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := EnsureSchema(database); err != nil {
			t.Fatalf("EnsureSchema run %d: %v", i+1, err)
		}
	}

	for _, table := range []string{"users", "lost_items", "found_items", "settings", "revoked_tokens"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestForeignKeysEnabled(t *testing.T) {
	database := NewTestDB(t)

	var on int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if on != 1 {
		t.Errorf("expected foreign_keys=1, got %d", on)
	}
}

func TestItemConstraints(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(
		`INSERT INTO lost_items (item_name, description, contact, created_at) VALUES ('', 'x', 'y', CURRENT_TIMESTAMP)`,
	)
	if err == nil {
		t.Error("expected CHECK constraint to reject empty item_name")
	}

	_, err = database.Exec(
		`INSERT INTO found_items (item_name, description, contact, created_at, owner_id) VALUES ('a', 'b', 'c', CURRENT_TIMESTAMP, 999)`,
	)
	if err == nil {
		t.Error("expected foreign key constraint to reject unknown owner")
	}
}
