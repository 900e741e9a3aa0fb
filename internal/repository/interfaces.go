package repository

import (
	"context"

	"github.com/alexanderramin/dayroute/internal/domain"
)

// EventFilter narrows EventRepo.List. Zero values match everything.
type EventFilter struct {
	Category domain.Category
	Date     string
}

type EventRepo interface {
	Upsert(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, f EventFilter) ([]domain.Event, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ItineraryRepo stores one working itinerary per user.
type ItineraryRepo interface {
	Load(ctx context.Context, userID string) ([]domain.ItineraryItem, error)
	Add(ctx context.Context, userID, eventID string, pin *domain.Clock, addedBy string) error
	Remove(ctx context.Context, userID, eventID string) error
	SetPin(ctx context.Context, userID, eventID string, pin *domain.Clock) error
	// Save replaces the whole itinerary with a selected variant. Fixed
	// events keep their planned time as pin.
	Save(ctx context.Context, userID string, events []domain.PlannedEvent) error
	Clear(ctx context.Context, userID string) (int, error)
}

type GenerationRepo interface {
	Save(ctx context.Context, g *domain.Generation) error
	GetByID(ctx context.Context, id string) (*domain.Generation, error)
	Latest(ctx context.Context, userID string) (*domain.Generation, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Generation, error)
	FindVariant(ctx context.Context, variantID string) (*domain.RouteVariant, error)
	Prune(ctx context.Context, userID string, keep int) (int, error)
}
