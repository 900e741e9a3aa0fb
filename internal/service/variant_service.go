package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/alexanderramin/dayroute/internal/contract"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/llm"
	"github.com/alexanderramin/dayroute/internal/scheduler"
	"github.com/alexanderramin/dayroute/internal/travel"
	"github.com/google/uuid"
)

const (
	// MinLocalEvents is the smallest candidate set the local strategies accept.
	MinLocalEvents = 2
	// MinRemoteEvents is the smallest candidate set sent to a SuggestionProvider.
	MinRemoteEvents = 3
	// VariantCount is how many variants every generation returns.
	VariantCount = 3

	DefaultRemoteTimeout = 30 * time.Second
)

// SuggestionProvider proposes itineraries from outside the engine. It is
// called at most once per generation and may fail in any way.
type SuggestionProvider interface {
	Suggest(ctx context.Context, cands []domain.Candidate, c domain.Constraints) ([]contract.RouteSuggestion, error)
}

// RemoteSuggestionError wraps any failure of the remote path. Generate
// recovers from it locally and never returns it.
type RemoteSuggestionError struct {
	Err error
}

func (e *RemoteSuggestionError) Error() string {
	return "remote suggestion failed: " + e.Err.Error()
}

func (e *RemoteSuggestionError) Unwrap() error { return e.Err }

// Code is the llm error code of the underlying failure.
func (e *RemoteSuggestionError) Code() string {
	if errors.Is(e.Err, domain.ErrInvalidVariant) {
		return "INVALID_VARIANT"
	}
	return llm.ErrorCode(e.Err)
}

type VariantOption func(*VariantService)

func WithSuggestionProvider(p SuggestionProvider) VariantOption {
	return func(s *VariantService) { s.provider = p }
}

func WithRemoteTimeout(d time.Duration) VariantOption {
	return func(s *VariantService) {
		if d > 0 {
			s.remoteTimeout = d
		}
	}
}

func WithScoringWeights(w scheduler.ScoringWeights) VariantOption {
	return func(s *VariantService) { s.weights = w }
}

// WithIDGenerator replaces the uuid generation IDs, for tests.
func WithIDGenerator(fn func() string) VariantOption {
	return func(s *VariantService) { s.newID = fn }
}

func WithLogger(l *slog.Logger) VariantOption {
	return func(s *VariantService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithUseCaseObserver(o UseCaseObserver) VariantOption {
	return func(s *VariantService) { s.observer = useCaseObserverOrNoop([]UseCaseObserver{o}) }
}

// VariantService turns a candidate set into three ranked itineraries. It
// holds no per-call state and is safe for concurrent use when its
// estimator is.
type VariantService struct {
	builder       *scheduler.Builder
	provider      SuggestionProvider
	weights       scheduler.ScoringWeights
	remoteTimeout time.Duration
	newID         func() string
	logger        *slog.Logger
	observer      UseCaseObserver
}

func NewVariantService(est travel.Estimator, opts ...VariantOption) *VariantService {
	s := &VariantService{
		builder:       scheduler.NewBuilder(est),
		weights:       scheduler.DefaultWeights(),
		remoteTimeout: DefaultRemoteTimeout,
		newID:         func() string { return uuid.New().String() },
		logger:        slog.New(slog.DiscardHandler),
		observer:      NoopUseCaseObserver{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Generate returns exactly three variants or an error. The only error a
// well-formed request can produce is an insufficient-input one; remote
// failures fall back to the local coverage strategies.
func (s *VariantService) Generate(ctx context.Context, req contract.GenerateRequest) (resp *contract.GenerateResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"candidates": len(req.Candidates),
		"mode":       string(req.Mode),
	}
	defer func() {
		if resp != nil {
			fields["generation_id"] = resp.GenerationID
			fields["source"] = string(resp.Source)
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generate_variants",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	mode, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	resp = &contract.GenerateResponse{
		GenerationID: s.newID(),
		Source:       domain.SourceLocal,
		Mode:         mode,
	}

	if s.remoteEligible(req) {
		variants, rerr := s.generateRemote(ctx, resp.GenerationID, req)
		if rerr == nil {
			resp.Source = domain.SourceRemote
			resp.Mode = contract.ModeCoverage
			resp.Variants = rankVariants(variants)
			return resp, nil
		}
		s.logger.WarnContext(ctx, "remote suggestion failed, using local strategies",
			"generation_id", resp.GenerationID,
			"code", rerr.Code(),
			"error", rerr.Err.Error(),
		)
		fields[degradedField] = rerr.Code()
		resp.FallbackReason = rerr.Error()
		resp.Mode = contract.ModeCoverage
	}

	strategies := scheduler.ClassicStrategies()
	if resp.Mode == contract.ModeCoverage {
		strategies = scheduler.CoverageStrategies()
	}

	variants := make([]domain.RouteVariant, 0, VariantCount)
	for _, strat := range strategies {
		v, verr := s.buildLocal(resp.GenerationID, strat, req.Candidates, req.Constraints)
		if verr != nil {
			return nil, classifyBuildError(verr)
		}
		variants = append(variants, v)
	}
	resp.Variants = rankVariants(variants)
	return resp, nil
}

func (s *VariantService) validate(req contract.GenerateRequest) (contract.GenerateMode, error) {
	if n := len(req.Candidates); n < MinLocalEvents {
		ie := &domain.InsufficientInputError{Required: MinLocalEvents, Got: n}
		return "", &contract.GenerateError{Code: contract.ErrInsufficientInput, Message: ie.Error(), Err: ie}
	}

	mode := req.Mode
	switch mode {
	case "":
		mode = contract.ModeClassic
	case contract.ModeClassic, contract.ModeCoverage:
	default:
		return "", invalidInput(fmt.Errorf("unknown mode %q", req.Mode))
	}

	if err := req.Constraints.Validate(); err != nil {
		return "", invalidInput(fmt.Errorf("constraints: %w", err))
	}
	for _, c := range req.Candidates {
		if err := c.Event.Validate(); err != nil {
			return "", invalidInput(err)
		}
	}
	if err := scheduler.ValidateCandidates(req.Candidates); err != nil {
		return "", invalidInput(err)
	}
	return mode, nil
}

func invalidInput(err error) error {
	return &contract.GenerateError{Code: contract.ErrInvalidInput, Message: err.Error(), Err: err}
}

func classifyBuildError(err error) error {
	if errors.Is(err, domain.ErrPinnedOverlap) {
		return invalidInput(err)
	}
	return &contract.GenerateError{Code: contract.ErrInternalError, Message: err.Error(), Err: err}
}

func (s *VariantService) remoteEligible(req contract.GenerateRequest) bool {
	return s.provider != nil && req.AllowRemote && len(req.Candidates) >= MinRemoteEvents
}

type suggestResult struct {
	suggestions []contract.RouteSuggestion
	err         error
}

// callProvider bounds the provider by the remote timeout even when it
// ignores its context.
func (s *VariantService) callProvider(ctx context.Context, req contract.GenerateRequest) ([]contract.RouteSuggestion, error) {
	rctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	ch := make(chan suggestResult, 1)
	go func() {
		sugs, err := s.provider.Suggest(rctx, req.Candidates, req.Constraints)
		ch <- suggestResult{suggestions: sugs, err: err}
	}()

	select {
	case r := <-ch:
		return r.suggestions, r.err
	case <-rctx.Done():
		return nil, fmt.Errorf("%w after %s: %v", llm.ErrTimeout, s.remoteTimeout, rctx.Err())
	}
}

func (s *VariantService) generateRemote(ctx context.Context, generationID string, req contract.GenerateRequest) ([]domain.RouteVariant, *RemoteSuggestionError) {
	suggestions, err := s.callProvider(ctx, req)
	if err != nil {
		return nil, &RemoteSuggestionError{Err: err}
	}
	if len(suggestions) == 0 {
		return nil, &RemoteSuggestionError{Err: fmt.Errorf("%w: no variants", llm.ErrInvalidOutput)}
	}

	slots := scheduler.CoverageStrategies()
	pins := domain.PinsOf(req.Candidates)
	variants := make([]domain.RouteVariant, 0, VariantCount)
	for i, sug := range suggestions {
		if i == len(slots) {
			break
		}
		v, err := s.fromSuggestion(generationID, slots[i], sug, req, pins)
		if err != nil {
			return nil, &RemoteSuggestionError{Err: fmt.Errorf("variant %d: %w", i+1, err)}
		}
		variants = append(variants, v)
	}

	for _, strat := range slots[len(variants):] {
		v, err := s.buildLocal(generationID, strat, req.Candidates, req.Constraints)
		if err != nil {
			return nil, &RemoteSuggestionError{Err: fmt.Errorf("filling %s slot: %w", strat.Kind, err)}
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// fromSuggestion maps 1-based refs back onto the candidates. Refs that do
// not resolve are dropped; everything else must hold up or the whole
// suggestion is rejected.
func (s *VariantService) fromSuggestion(generationID string, slot scheduler.Strategy, sug contract.RouteSuggestion, req contract.GenerateRequest, pins map[string]domain.Clock) (domain.RouteVariant, error) {
	if len(sug.PlannedTimes) != len(sug.Refs) || len(sug.TravelTimes) != len(sug.Refs) {
		return domain.RouteVariant{}, fmt.Errorf("%w: %d refs, %d times, %d travel times",
			llm.ErrInvalidOutput, len(sug.Refs), len(sug.PlannedTimes), len(sug.TravelTimes))
	}

	events := make([]domain.PlannedEvent, 0, len(sug.Refs))
	for i, ref := range sug.Refs {
		if ref < 1 || ref > len(req.Candidates) {
			continue
		}
		c := req.Candidates[ref-1]
		events = append(events, domain.PlannedEvent{
			Event:       c.Event,
			Order:       len(events),
			PlannedTime: sug.PlannedTimes[i],
			TravelTime:  sug.TravelTimes[i],
			IsFixed:     c.Pinned(),
			AddedBy:     c.AddedBy,
		})
	}
	if len(events) == 0 {
		return domain.RouteVariant{}, fmt.Errorf("%w: no resolvable events", domain.ErrInvalidVariant)
	}
	events[0].TravelTime = 0

	for i := 1; i < len(events); i++ {
		if events[i].PlannedTime <= events[i-1].PlannedTime {
			return domain.RouteVariant{}, fmt.Errorf("%w: %s at %s is not after %s at %s", domain.ErrInvalidVariant,
				events[i].ID, events[i].PlannedTime, events[i-1].ID, events[i-1].PlannedTime)
		}
	}
	present := make(map[string]bool, len(events))
	for _, e := range events {
		present[e.ID] = true
	}
	for id := range pins {
		if !present[id] {
			return domain.RouteVariant{}, fmt.Errorf("%w: pinned event %s left out", domain.ErrInvalidVariant, id)
		}
	}

	total, travelMin := domain.Totals(events)
	v := domain.RouteVariant{
		ID:            variantID(generationID, slot.Kind),
		Name:          orDefault(sug.Name, slot.Name),
		Description:   orDefault(sug.Description, slot.Description),
		Strategy:      slot.Kind,
		Source:        domain.SourceRemote,
		Events:        events,
		TotalTime:     total,
		TravelTime:    travelMin,
		EventCount:    len(events),
		Score:         scheduler.ScoreEvents(events, slot.Intent, s.weights).Score,
		Advantages:    orDefaultList(sug.Advantages, slot.Advantages),
		Disadvantages: orDefaultList(sug.Disadvantages, slot.Disadvantages),
		Warnings:      scheduler.DayWarnings(events, req.Constraints),
	}
	if err := domain.CheckVariant(v, pins); err != nil {
		return domain.RouteVariant{}, err
	}
	return v, nil
}

func (s *VariantService) buildLocal(generationID string, strat scheduler.Strategy, cands []domain.Candidate, c domain.Constraints) (domain.RouteVariant, error) {
	selected := strat.Select(cands, c)
	sched, err := s.builder.Build(selected, c)
	if err != nil {
		return domain.RouteVariant{}, fmt.Errorf("building %s route: %w", strat.Kind, err)
	}

	v := domain.RouteVariant{
		ID:            variantID(generationID, strat.Kind),
		Name:          strat.Name,
		Description:   strat.Description,
		Strategy:      strat.Kind,
		Source:        domain.SourceLocal,
		Events:        sched.Events,
		TotalTime:     sched.TotalTime,
		TravelTime:    sched.TravelTime,
		EventCount:    len(sched.Events),
		Score:         scheduler.ScoreEvents(sched.Events, strat.Intent, s.weights).Score,
		Advantages:    slices.Clone(strat.Advantages),
		Disadvantages: slices.Clone(strat.Disadvantages),
		Warnings:      sched.Warnings,
	}
	if err := domain.CheckVariant(v, domain.PinsOf(selected)); err != nil {
		return domain.RouteVariant{}, err
	}
	return v, nil
}

// rankVariants orders by score, keeping strategy order on ties, and
// numbers the result from 1.
func rankVariants(variants []domain.RouteVariant) []domain.RouteVariant {
	slices.SortStableFunc(variants, func(a, b domain.RouteVariant) int {
		return b.Score - a.Score
	})
	for i := range variants {
		variants[i].Rank = i + 1
	}
	return variants
}

func variantID(generationID string, kind domain.StrategyKind) string {
	return generationID + "-" + string(kind)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orDefaultList(s, def []string) []string {
	if len(s) == 0 {
		return slices.Clone(def)
	}
	return s
}

// SelectVariant returns a copy of the events of the variant with id. It
// does not rescore.
func SelectVariant(variants []domain.RouteVariant, id string) ([]domain.PlannedEvent, error) {
	for _, v := range variants {
		if v.ID == id {
			return slices.Clone(v.Events), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, domain.ErrVariantNotFound)
}
