// Package testutil provides shared fixtures for tests that need a real backend.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/pulse/internal/storage"
)

// TestDB is a migrated SQLite store living in the test's temp dir.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates and migrates a file-backed store. It is closed on cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "pulse.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &TestDB{Storage: store, t: t}
}

// Worksheet returns the named worksheet pre-filled with rows.
//
// Example:
//
//	ws := testutil.SetupTestDB(t).Worksheet("revenue",
//		[]string{"timestamp", "client", "revenue", "note"},
//		[]string{"2025-06-01 09:00:00", "Acme", "100", ""},
//	)
func (db *TestDB) Worksheet(name string, rows ...[]string) *storage.Worksheet {
	db.t.Helper()

	ws, err := db.Storage.Worksheet(name)
	if err != nil {
		db.t.Fatalf("failed to open worksheet %s: %v", name, err)
	}
	for _, row := range rows {
		if err := ws.AppendRow(context.Background(), row); err != nil {
			db.t.Fatalf("failed to seed worksheet %s: %v", name, err)
		}
	}
	return ws
}
