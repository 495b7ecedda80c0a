package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dori/taskdeck/internal/kvstore"
	"github.com/dori/taskdeck/internal/kvstore/compliance"
)

var _ kvstore.Store = (*DB)(nil)

func TestSQLiteStore_Compliance(t *testing.T) {
	compliance.RunStoreComplianceTest(t, func(t *testing.T) kvstore.Store {
		db, err := Open(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("Failed to open database: %v", err)
		}
		return db
	})
}

// TestReopenKeepsData verifies migrations are idempotent and that blobs
// written by one connection are visible after reopening the file.
func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Set("tasks", `[{"id":"t1"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()

	value, ok, err := db.Get("tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != `[{"id":"t1"}]` {
		t.Fatalf("Expected stored tasks, got ok=%v value=%q", ok, value)
	}
}

// TestSetUpdatesTimestamp checks that overwriting a key bumps updated_at.
func TestSetUpdatesTimestamp(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Set("darkMode", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var first time.Time
	if err := db.QueryRow(`SELECT updated_at FROM kv WHERE key = ?`, "darkMode").Scan(&first); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := db.Set("darkMode", "false"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	var second time.Time
	if err := db.QueryRow(`SELECT updated_at FROM kv WHERE key = ?`, "darkMode").Scan(&second); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if !second.After(first) {
		t.Errorf("Expected updated_at to advance, got %v then %v", first, second)
	}
}

// TestOpenCreatesSchema checks the embedded migration is applied once and
// that opening inside a missing directory creates it.
func TestOpenCreatesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := OpenWithConfig(context.Background(), Config{Path: dbPath, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	version, err := db.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("Expected schema version 1, got %d", version)
	}
	db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()
	if version, _ := db.SchemaVersion(context.Background()); version != 1 {
		t.Errorf("Expected schema version 1 after reopen, got %d", version)
	}
}
