package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/dayroute/internal/contract"
	"github.com/alexanderramin/dayroute/internal/db"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/repository"
	"github.com/alexanderramin/dayroute/internal/scheduler"
)

// DefaultKeepGenerations is how many generations per user survive pruning.
const DefaultKeepGenerations = 20

// GenerateOptions tune one planner generation. A nil Constraints uses the
// planner defaults; an empty Mode uses the planner's default mode.
type GenerateOptions struct {
	Mode        contract.GenerateMode
	Constraints *domain.Constraints
	AllowRemote bool
}

type PlannerConfig struct {
	Constraints     domain.Constraints
	Mode            contract.GenerateMode
	KeepGenerations int
}

func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		Constraints:     domain.DefaultConstraints(),
		Mode:            contract.ModeClassic,
		KeepGenerations: DefaultKeepGenerations,
	}
}

type plannerService struct {
	itinerary   repository.ItineraryRepo
	generations repository.GenerationRepo
	variants    *VariantService
	uow         db.UnitOfWork
	cfg         PlannerConfig
	observer    UseCaseObserver
}

func NewPlannerService(
	itinerary repository.ItineraryRepo,
	generations repository.GenerationRepo,
	variants *VariantService,
	uow db.UnitOfWork,
	cfg PlannerConfig,
	observers ...UseCaseObserver,
) PlannerService {
	if cfg.KeepGenerations <= 0 {
		cfg.KeepGenerations = DefaultKeepGenerations
	}
	return &plannerService{
		itinerary:   itinerary,
		generations: generations,
		variants:    variants,
		uow:         uow,
		cfg:         cfg,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *plannerService) Show(ctx context.Context, userID string) ([]domain.ItineraryItem, error) {
	return s.itinerary.Load(ctx, userID)
}

// Add appends the event. A pin that would overlap another pinned event is
// rejected before anything is written.
func (s *plannerService) Add(ctx context.Context, userID, eventID string, pin *domain.Clock, addedBy string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItinerary := repository.NewSQLiteItineraryRepo(tx)
		if err := txItinerary.Add(ctx, userID, eventID, pin, addedBy); err != nil {
			return err
		}
		if pin == nil {
			return nil
		}
		return checkPins(ctx, txItinerary, userID)
	})
}

func (s *plannerService) Remove(ctx context.Context, userID, eventID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteItineraryRepo(tx).Remove(ctx, userID, eventID)
	})
}

func (s *plannerService) Pin(ctx context.Context, userID, eventID string, at domain.Clock) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItinerary := repository.NewSQLiteItineraryRepo(tx)
		if err := txItinerary.SetPin(ctx, userID, eventID, &at); err != nil {
			return err
		}
		return checkPins(ctx, txItinerary, userID)
	})
}

func (s *plannerService) Unpin(ctx context.Context, userID, eventID string) error {
	return s.itinerary.SetPin(ctx, userID, eventID, nil)
}

func (s *plannerService) Clear(ctx context.Context, userID string) (int, error) {
	return s.itinerary.Clear(ctx, userID)
}

func checkPins(ctx context.Context, itinerary repository.ItineraryRepo, userID string) error {
	items, err := itinerary.Load(ctx, userID)
	if err != nil {
		return err
	}
	return scheduler.ValidateCandidates(domain.Candidates(items))
}

// Generate builds variants from the working itinerary and records them so
// a later Select can find them.
func (s *plannerService) Generate(ctx context.Context, userID string, opts GenerateOptions) (resp *contract.GenerateResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user": userID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "plan_generate",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	var items []domain.ItineraryItem
	items, err = s.itinerary.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading itinerary: %w", err)
	}
	fields["events"] = len(items)

	req := contract.GenerateRequest{
		Candidates:  domain.Candidates(items),
		Constraints: s.cfg.Constraints,
		Mode:        s.cfg.Mode,
		AllowRemote: opts.AllowRemote,
	}
	if opts.Constraints != nil {
		req.Constraints = *opts.Constraints
	}
	if opts.Mode != "" {
		req.Mode = opts.Mode
	}

	resp, err = s.variants.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["generation_id"] = resp.GenerationID

	gen := &domain.Generation{
		ID:             resp.GenerationID,
		UserID:         userID,
		Mode:           string(resp.Mode),
		Source:         resp.Source,
		FallbackReason: resp.FallbackReason,
		Constraints:    req.Constraints,
		Variants:       resp.Variants,
		CreatedAt:      startedAt,
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txGenerations := repository.NewSQLiteGenerationRepo(tx)
		if err := txGenerations.Save(ctx, gen); err != nil {
			return err
		}
		pruned, err := txGenerations.Prune(ctx, userID, s.cfg.KeepGenerations)
		fields["pruned"] = pruned
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recording generation: %w", err)
	}
	return resp, nil
}

func (s *plannerService) Latest(ctx context.Context, userID string) (*domain.Generation, error) {
	return s.generations.Latest(ctx, userID)
}

func (s *plannerService) History(ctx context.Context, userID string, limit int) ([]*domain.Generation, error) {
	return s.generations.ListByUser(ctx, userID, limit)
}

func (s *plannerService) Variant(ctx context.Context, userID, variantID string) (*domain.RouteVariant, error) {
	gens, err := s.generations.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	_, v, err := findVariant(gens, variantID)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// findVariant looks the id up newest generation first. An empty id picks
// the best variant of the newest generation.
func findVariant(gens []*domain.Generation, variantID string) (*domain.Generation, domain.RouteVariant, error) {
	if variantID == "" {
		if len(gens) == 0 || len(gens[0].Variants) == 0 {
			return nil, domain.RouteVariant{}, fmt.Errorf("no generated variants: %w", domain.ErrVariantNotFound)
		}
		return gens[0], gens[0].Variants[0], nil
	}
	for _, g := range gens {
		if v, ok := g.Variant(variantID); ok {
			return g, v, nil
		}
	}
	return nil, domain.RouteVariant{}, fmt.Errorf("%s: %w", variantID, domain.ErrVariantNotFound)
}

// Select replaces the working itinerary with the variant's events as
// generated. Nothing is rescored.
func (s *plannerService) Select(ctx context.Context, userID, variantID string) (events []domain.PlannedEvent, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user": userID, "variant": variantID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "select_variant",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		gens, err := repository.NewSQLiteGenerationRepo(tx).ListByUser(ctx, userID, 0)
		if err != nil {
			return err
		}
		g, v, err := findVariant(gens, variantID)
		if err != nil {
			return err
		}
		fields["variant"] = v.ID
		if events, err = SelectVariant(g.Variants, v.ID); err != nil {
			return err
		}
		return repository.NewSQLiteItineraryRepo(tx).Save(ctx, userID, events)
	})
	if err != nil {
		if errors.Is(err, domain.ErrVariantNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("selecting variant: %w", err)
	}
	return events, nil
}
