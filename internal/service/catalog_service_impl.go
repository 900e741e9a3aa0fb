package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/dayroute/internal/db"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/importer"
	"github.com/alexanderramin/dayroute/internal/repository"
)

type catalogService struct {
	events   repository.EventRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewCatalogService(
	events repository.EventRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) CatalogService {
	return &catalogService{
		events:   events,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *catalogService) Import(ctx context.Context, path string) (*ImportResult, error) {
	schema, err := importer.LoadCatalog(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

// ImportSchema validates the whole catalog, then upserts every event in one
// transaction.
func (s *catalogService) ImportSchema(ctx context.Context, schema *importer.CatalogSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"festival": schema.Festival}
	defer func() {
		if result != nil {
			fields["created"] = result.Created
			fields["updated"] = result.Updated
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import_catalog",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateCatalog(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	var events []domain.Event
	events, err = importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting catalog: %w", err)
	}

	result = &ImportResult{Festival: schema.Festival, EventCount: len(events)}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEvents := repository.NewSQLiteEventRepo(tx)
		for i := range events {
			_, getErr := txEvents.GetByID(ctx, events[i].ID)
			switch {
			case getErr == nil:
				result.Updated++
			case errors.Is(getErr, repository.ErrNotFound):
				result.Created++
			default:
				return getErr
			}
			if err := txEvents.Upsert(ctx, &events[i]); err != nil {
				return fmt.Errorf("storing event %q: %w", events[i].Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *catalogService) List(ctx context.Context, f repository.EventFilter) ([]domain.Event, error) {
	return s.events.List(ctx, f)
}

func (s *catalogService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

func formatValidationErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = "  - " + e.Error()
	}
	return fmt.Errorf("catalog validation failed:\n%s", strings.Join(msgs, "\n"))
}
