package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/dayroute/internal/db"
	"github.com/alexanderramin/dayroute/internal/domain"
)

// SQLiteItineraryRepo implements ItineraryRepo using a SQLite database.
type SQLiteItineraryRepo struct {
	db db.DBTX
}

// NewSQLiteItineraryRepo creates a new SQLiteItineraryRepo.
func NewSQLiteItineraryRepo(conn db.DBTX) *SQLiteItineraryRepo {
	return &SQLiteItineraryRepo{db: conn}
}

func (r *SQLiteItineraryRepo) Load(ctx context.Context, userID string) ([]domain.ItineraryItem, error) {
	query := `SELECT e.id, e.title, e.description, e.event_date, e.start_min, e.duration,
		e.location, e.category, e.popularity, e.price, e.capacity,
		i.position, i.pin_min, i.planned_min, i.travel_min, i.added_by, i.added_at
		FROM itinerary_entries i
		JOIN events e ON e.id = i.event_id
		WHERE i.user_id = ?
		ORDER BY i.position`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("loading itinerary: %w", err)
	}
	defer rows.Close()

	var items []domain.ItineraryItem
	for rows.Next() {
		var (
			it              domain.ItineraryItem
			startMin        int
			category        string
			price, capacity sql.NullInt64
			pinMin, planned sql.NullInt64
			addedAt         string
		)
		err := rows.Scan(
			&it.Event.ID,
			&it.Event.Title,
			&it.Event.Description,
			&it.Event.Date,
			&startMin,
			&it.Event.Duration,
			&it.Event.Location,
			&category,
			&it.Event.Popularity,
			&price,
			&capacity,
			&it.Position,
			&pinMin,
			&planned,
			&it.TravelTime,
			&it.AddedBy,
			&addedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning itinerary row: %w", err)
		}
		it.Event.Time = domain.Clock(startMin)
		it.Event.Category = domain.Category(category)
		it.Event.Price = parseNullableInt(price)
		it.Event.Capacity = parseNullableInt(capacity)
		it.Pin = parseNullableClock(pinMin)
		it.PlannedTime = parseNullableClock(planned)
		it.AddedAt = parseTime(addedAt)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLiteItineraryRepo) Add(ctx context.Context, userID, eventID string, pin *domain.Clock, addedBy string) error {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE id = ?`, eventID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking event %s: %w", eventID, err)
	}
	if exists == 0 {
		return fmt.Errorf("event %s: %w", eventID, ErrNotFound)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM itinerary_entries WHERE user_id = ? AND event_id = ?`,
		userID, eventID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking itinerary entry: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("event %s in itinerary: %w", eventID, ErrConflict)
	}

	query := `INSERT INTO itinerary_entries (user_id, event_id, position, pin_min, added_by, added_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM itinerary_entries WHERE user_id = ?), ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		userID,
		eventID,
		userID,
		nullableClockToValue(pin),
		addedBy,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("adding %s to itinerary: %w", eventID, err)
	}
	return nil
}

// Remove deletes the entry and closes the gap it leaves in positions.
func (r *SQLiteItineraryRepo) Remove(ctx context.Context, userID, eventID string) error {
	var pos int
	err := r.db.QueryRowContext(ctx,
		`SELECT position FROM itinerary_entries WHERE user_id = ? AND event_id = ?`,
		userID, eventID).Scan(&pos)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("event %s in itinerary: %w", eventID, ErrNotFound)
		}
		return fmt.Errorf("reading itinerary entry: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM itinerary_entries WHERE user_id = ? AND event_id = ?`,
		userID, eventID); err != nil {
		return fmt.Errorf("removing %s from itinerary: %w", eventID, err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE itinerary_entries SET position = position - 1 WHERE user_id = ? AND position > ?`,
		userID, pos); err != nil {
		return fmt.Errorf("renumbering itinerary: %w", err)
	}
	return nil
}

func (r *SQLiteItineraryRepo) SetPin(ctx context.Context, userID, eventID string, pin *domain.Clock) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE itinerary_entries SET pin_min = ? WHERE user_id = ? AND event_id = ?`,
		nullableClockToValue(pin), userID, eventID)
	if err != nil {
		return fmt.Errorf("pinning %s: %w", eventID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s in itinerary: %w", eventID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteItineraryRepo) Save(ctx context.Context, userID string, events []domain.PlannedEvent) error {
	if _, err := r.Clear(ctx, userID); err != nil {
		return err
	}
	now := nowUTC()
	query := `INSERT INTO itinerary_entries
		(user_id, event_id, position, pin_min, planned_min, travel_min, added_by, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for i, e := range events {
		var pin *domain.Clock
		if e.IsFixed {
			t := e.PlannedTime
			pin = &t
		}
		_, err := r.db.ExecContext(ctx, query,
			userID,
			e.ID,
			i+1,
			nullableClockToValue(pin),
			int(e.PlannedTime),
			e.TravelTime,
			e.AddedBy,
			now,
		)
		if err != nil {
			return fmt.Errorf("saving itinerary entry %s: %w", e.ID, err)
		}
	}
	return nil
}

func (r *SQLiteItineraryRepo) Clear(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM itinerary_entries WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("clearing itinerary: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
