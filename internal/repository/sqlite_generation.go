package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/dayroute/internal/db"
	"github.com/alexanderramin/dayroute/internal/domain"
)

// SQLiteGenerationRepo implements GenerationRepo using a SQLite database.
// Each variant is stored whole as JSON next to the columns used for listing.
type SQLiteGenerationRepo struct {
	db db.DBTX
}

// NewSQLiteGenerationRepo creates a new SQLiteGenerationRepo.
func NewSQLiteGenerationRepo(conn db.DBTX) *SQLiteGenerationRepo {
	return &SQLiteGenerationRepo{db: conn}
}

func (r *SQLiteGenerationRepo) Save(ctx context.Context, g *domain.Generation) error {
	constraints, err := json.Marshal(g.Constraints)
	if err != nil {
		return fmt.Errorf("encoding constraints: %w", err)
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO generations (id, user_id, mode, source, fallback_reason, constraints_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		g.ID,
		g.UserID,
		g.Mode,
		string(g.Source),
		g.FallbackReason,
		string(constraints),
		formatTime(g.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting generation %s: %w", g.ID, err)
	}

	variantQuery := `INSERT INTO route_variants (id, generation_id, rank, strategy, source, name,
		score, total_time, travel_time, event_count, payload_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, v := range g.Variants {
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding variant %s: %w", v.ID, err)
		}
		_, err = r.db.ExecContext(ctx, variantQuery,
			v.ID,
			g.ID,
			v.Rank,
			string(v.Strategy),
			string(v.Source),
			v.Name,
			v.Score,
			v.TotalTime,
			v.TravelTime,
			v.EventCount,
			string(payload),
		)
		if err != nil {
			return fmt.Errorf("inserting variant %s: %w", v.ID, err)
		}
	}
	return nil
}

const generationColumns = `id, user_id, mode, source, fallback_reason, constraints_json, created_at`

func (r *SQLiteGenerationRepo) GetByID(ctx context.Context, id string) (*domain.Generation, error) {
	query := `SELECT ` + generationColumns + ` FROM generations WHERE id = ?`
	g, err := scanGeneration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("generation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning generation: %w", err)
	}
	if g.Variants, err = r.listVariants(ctx, g.ID); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *SQLiteGenerationRepo) Latest(ctx context.Context, userID string) (*domain.Generation, error) {
	gens, err := r.ListByUser(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(gens) == 0 {
		return nil, fmt.Errorf("generation for %s: %w", userID, ErrNotFound)
	}
	return gens[0], nil
}

// ListByUser returns the newest generations first. A limit of zero or less
// returns all of them.
func (r *SQLiteGenerationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Generation, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT ` + generationColumns + ` FROM generations
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing generations: %w", err)
	}

	var gens []*domain.Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning generation row: %w", err)
		}
		gens = append(gens, g)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, g := range gens {
		if g.Variants, err = r.listVariants(ctx, g.ID); err != nil {
			return nil, err
		}
	}
	return gens, nil
}

func (r *SQLiteGenerationRepo) FindVariant(ctx context.Context, variantID string) (*domain.RouteVariant, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload_json FROM route_variants WHERE id = ?`, variantID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("variant %s: %w", variantID, ErrNotFound)
		}
		return nil, fmt.Errorf("reading variant: %w", err)
	}
	var v domain.RouteVariant
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, fmt.Errorf("decoding variant %s: %w", variantID, err)
	}
	return &v, nil
}

// Prune keeps the newest keep generations for the user and deletes the
// rest along with their variants.
func (r *SQLiteGenerationRepo) Prune(ctx context.Context, userID string, keep int) (int, error) {
	query := `DELETE FROM generations
		WHERE user_id = ?
		AND id NOT IN (
			SELECT id FROM generations WHERE user_id = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)`
	res, err := r.db.ExecContext(ctx, query, userID, userID, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning generations: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *SQLiteGenerationRepo) listVariants(ctx context.Context, generationID string) ([]domain.RouteVariant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload_json FROM route_variants WHERE generation_id = ? ORDER BY rank`, generationID)
	if err != nil {
		return nil, fmt.Errorf("listing variants: %w", err)
	}
	defer rows.Close()

	var variants []domain.RouteVariant
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning variant row: %w", err)
		}
		var v domain.RouteVariant
		if err := json.Unmarshal([]byte(payload), &v); err != nil {
			return nil, fmt.Errorf("decoding variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

func scanGeneration(s scanner) (*domain.Generation, error) {
	var (
		g           domain.Generation
		source      string
		constraints string
		createdAt   string
	)
	if err := s.Scan(&g.ID, &g.UserID, &g.Mode, &source, &g.FallbackReason, &constraints, &createdAt); err != nil {
		return nil, err
	}
	g.Source = domain.VariantSource(source)
	g.CreatedAt = parseTime(createdAt)
	if err := json.Unmarshal([]byte(constraints), &g.Constraints); err != nil {
		return nil, fmt.Errorf("decoding constraints: %w", err)
	}
	return &g, nil
}
