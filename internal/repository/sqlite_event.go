package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/dayroute/internal/db"
	"github.com/alexanderramin/dayroute/internal/domain"
)

// SQLiteEventRepo implements EventRepo using a SQLite database.
type SQLiteEventRepo struct {
	db db.DBTX
}

// NewSQLiteEventRepo creates a new SQLiteEventRepo.
func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: conn}
}

const eventColumns = `id, title, description, event_date, start_min, duration,
	location, category, popularity, price, capacity`

func (r *SQLiteEventRepo) Upsert(ctx context.Context, e *domain.Event) error {
	now := nowUTC()
	query := `INSERT INTO events (` + eventColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			event_date = excluded.event_date,
			start_min = excluded.start_min,
			duration = excluded.duration,
			location = excluded.location,
			category = excluded.category,
			popularity = excluded.popularity,
			price = excluded.price,
			capacity = excluded.capacity,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Title,
		e.Description,
		e.Date,
		int(e.Time),
		e.Duration,
		e.Location,
		string(e.Category),
		e.Popularity,
		nullableIntToValue(e.Price),
		nullableIntToValue(e.Capacity),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upserting event %s: %w", e.ID, err)
	}
	return nil
}

func (r *SQLiteEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}
	return e, nil
}

func (r *SQLiteEventRepo) List(ctx context.Context, f EventFilter) ([]domain.Event, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(f.Category))
	}
	if f.Date != "" {
		where = append(where, "event_date = ?")
		args = append(args, f.Date)
	}
	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY event_date, start_min, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteEventRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*domain.Event, error) {
	var (
		e               domain.Event
		startMin        int
		category        string
		price, capacity sql.NullInt64
	)
	err := s.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Date,
		&startMin,
		&e.Duration,
		&e.Location,
		&category,
		&e.Popularity,
		&price,
		&capacity,
	)
	if err != nil {
		return nil, err
	}
	e.Time = domain.Clock(startMin)
	e.Category = domain.Category(category)
	e.Price = parseNullableInt(price)
	e.Capacity = parseNullableInt(capacity)
	return &e, nil
}
