package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/dayroute/internal/contract"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/travel"
	"github.com/stretchr/testify/require"
)

// fakeProvider answers Suggest with canned suggestions or an error. With
// block set it waits until released, ignoring its context.
type fakeProvider struct {
	suggestions []contract.RouteSuggestion
	err         error
	block       chan struct{}
	calls       atomic.Int32
}

func (p *fakeProvider) Suggest(ctx context.Context, cands []domain.Candidate, c domain.Constraints) ([]contract.RouteSuggestion, error) {
	p.calls.Add(1)
	if p.block != nil {
		<-p.block
	}
	return p.suggestions, p.err
}

func seededService(t *testing.T, seed uint64, opts ...VariantOption) *VariantService {
	t.Helper()
	est, err := travel.NewComplexityEstimator(travel.DefaultConfig(), travel.NewSeededSource(seed))
	require.NoError(t, err)
	opts = append([]VariantOption{WithIDGenerator(func() string { return "gen" })}, opts...)
	return NewVariantService(est, opts...)
}

func event(id, title, at string, duration int, cat domain.Category, popularity int, location string) domain.Event {
	return domain.Event{
		ID:         id,
		Title:      title,
		Time:       domain.MustClock(at),
		Duration:   duration,
		Location:   location,
		Category:   cat,
		Popularity: popularity,
	}
}

// festival is the four-event popularity scenario: A 95, B 80, C 85, D 90.
func festival() []domain.Candidate {
	return []domain.Candidate{
		{Event: event("1", "A", "09:00", 90, domain.CategoryMusic, 95, "Main Stage")},
		{Event: event("2", "B", "10:30", 60, domain.CategoryWorkshop, 80, "Craft Tent")},
		{Event: event("3", "C", "12:00", 90, domain.CategoryCinema, 85, "Open Air Cinema")},
		{Event: event("4", "D", "14:00", 60, domain.CategoryFood, 90, "Food Court")},
	}
}

func pinAt(c domain.Candidate, at string) domain.Candidate {
	pin := domain.MustClock(at)
	c.Pin = &pin
	return c
}

func clocks(times ...string) []domain.Clock {
	out := make([]domain.Clock, len(times))
	for i, s := range times {
		out[i] = domain.MustClock(s)
	}
	return out
}

func eventIDs(v domain.RouteVariant) []string {
	out := make([]string, len(v.Events))
	for i, e := range v.Events {
		out[i] = e.ID
	}
	return out
}

func variantByStrategy(t *testing.T, resp *contract.GenerateResponse, kind domain.StrategyKind) domain.RouteVariant {
	t.Helper()
	for _, v := range resp.Variants {
		if v.Strategy == kind {
			return v
		}
	}
	t.Fatalf("no %s variant in %d variants", kind, len(resp.Variants))
	return domain.RouteVariant{}
}

// requireWellFormed checks the structural guarantees of every response.
func requireWellFormed(t *testing.T, resp *contract.GenerateResponse, cands []domain.Candidate) {
	t.Helper()
	require.NotNil(t, resp)
	require.Len(t, resp.Variants, VariantCount)

	pins := domain.PinsOf(cands)
	seen := make(map[string]bool)
	for i, v := range resp.Variants {
		require.Equal(t, i+1, v.Rank)
		require.NotEmpty(t, v.Events, "variant %s", v.ID)
		require.NoError(t, domain.CheckVariant(v, pins))
		require.LessOrEqual(t, v.EventCount, len(cands))
		require.False(t, seen[v.ID], "duplicate variant id %s", v.ID)
		seen[v.ID] = true
		if i > 0 {
			require.GreaterOrEqual(t, resp.Variants[i-1].Score, v.Score)
		}
		require.GreaterOrEqual(t, v.Score, 0)
		require.LessOrEqual(t, v.Score, 98)
	}
}

// newHTTPTestServer skips the test when the sandbox forbids listening.
func newHTTPTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("skipping HTTP integration test: local listener unavailable (%v)", r)
			}
		}()
		srv = httptest.NewServer(handler)
	}()
	return srv
}
