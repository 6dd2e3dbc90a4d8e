package db

import (
	"context"
	"testing"
)

// NewTestDB creates a fresh in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := openSQLite(sqliteDSN(":memory:", []string{"foreign_keys(1)"}))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	// Each connection to :memory: is a separate database.
	database.SetMaxOpenConns(1)

	if err := Migrate(context.Background(), database); err != nil {
		database.Close()
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() { database.Close() })

	return database
}
