package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/dayroute/internal/db"
	"github.com/alexanderramin/dayroute/internal/domain"
)

// NewTestDB opens a migrated in-memory database that is closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// EventStore is the part of the event repository SeedEvents needs.
type EventStore interface {
	Upsert(ctx context.Context, e *domain.Event) error
}

// SeedEvents stores events in the catalog so itinerary rows can reference
// them.
func SeedEvents(t *testing.T, repo EventStore, events ...domain.Event) {
	t.Helper()
	for i := range events {
		if err := repo.Upsert(context.Background(), &events[i]); err != nil {
			t.Fatalf("seeding event %s: %v", events[i].ID, err)
		}
	}
}
