package service

import (
	"context"

	"github.com/alexanderramin/dayroute/internal/contract"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/importer"
	"github.com/alexanderramin/dayroute/internal/repository"
)

type CatalogService interface {
	Import(ctx context.Context, path string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.CatalogSchema) (*ImportResult, error)
	List(ctx context.Context, f repository.EventFilter) ([]domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
}

// PlannerService manages a user's working itinerary and the variants
// generated from it.
type PlannerService interface {
	Show(ctx context.Context, userID string) ([]domain.ItineraryItem, error)
	Add(ctx context.Context, userID, eventID string, pin *domain.Clock, addedBy string) error
	Remove(ctx context.Context, userID, eventID string) error
	Pin(ctx context.Context, userID, eventID string, at domain.Clock) error
	Unpin(ctx context.Context, userID, eventID string) error
	Clear(ctx context.Context, userID string) (int, error)

	Generate(ctx context.Context, userID string, opts GenerateOptions) (*contract.GenerateResponse, error)
	Latest(ctx context.Context, userID string) (*domain.Generation, error)
	History(ctx context.Context, userID string, limit int) ([]*domain.Generation, error)
	Variant(ctx context.Context, userID, variantID string) (*domain.RouteVariant, error)
	Select(ctx context.Context, userID, variantID string) ([]domain.PlannedEvent, error)
	Export(ctx context.Context, userID string, format ExportFormat) (string, error)
}

// ImportResult summarizes a catalog import.
type ImportResult struct {
	Festival   string
	EventCount int
	Created    int
	Updated    int
}
