package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every statement in order. Statements are idempotent, so
// it is safe to run on each start.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		event_date  TEXT NOT NULL DEFAULT '',
		start_min   INTEGER NOT NULL CHECK(start_min >= 0 AND start_min < 1440),
		duration    INTEGER NOT NULL CHECK(duration > 0),
		location    TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL
		            CHECK(category IN ('music','workshop','cinema','food','art','sport',
		                               'culture','recreation','shopping','theater','photo','other')),
		popularity  INTEGER NOT NULL DEFAULT 0 CHECK(popularity BETWEEN 0 AND 100),
		price       INTEGER,
		capacity    INTEGER,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_events_category ON events(category)`,
	`CREATE INDEX IF NOT EXISTS idx_events_date_start ON events(event_date, start_min)`,

	`CREATE TABLE IF NOT EXISTS itinerary_entries (
		user_id     TEXT NOT NULL,
		event_id    TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		pin_min     INTEGER CHECK(pin_min IS NULL OR (pin_min >= 0 AND pin_min < 1440)),
		planned_min INTEGER,
		travel_min  INTEGER NOT NULL DEFAULT 0 CHECK(travel_min >= 0),
		added_at    TEXT NOT NULL,
		PRIMARY KEY (user_id, event_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_itinerary_user_position ON itinerary_entries(user_id, position)`,

	// Added after the first release; older databases gain it here.
	`ALTER TABLE itinerary_entries ADD COLUMN added_by TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS generations (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		mode             TEXT NOT NULL CHECK(mode IN ('classic','coverage')),
		source           TEXT NOT NULL CHECK(source IN ('local','remote')),
		fallback_reason  TEXT NOT NULL DEFAULT '',
		constraints_json TEXT NOT NULL,
		created_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_generations_user_created ON generations(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS route_variants (
		id            TEXT PRIMARY KEY,
		generation_id TEXT NOT NULL REFERENCES generations(id) ON DELETE CASCADE,
		rank          INTEGER NOT NULL,
		strategy      TEXT NOT NULL,
		source        TEXT NOT NULL,
		name          TEXT NOT NULL,
		score         INTEGER NOT NULL CHECK(score BETWEEN 0 AND 100),
		total_time    INTEGER NOT NULL,
		travel_time   INTEGER NOT NULL,
		event_count   INTEGER NOT NULL,
		payload_json  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_route_variants_generation ON route_variants(generation_id, rank)`,
}
