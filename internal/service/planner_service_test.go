package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/dayroute/internal/db"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/repository"
	"github.com/alexanderramin/dayroute/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plannerUser = "alice"

func newPlanner(t *testing.T, database *sql.DB, uow db.UnitOfWork, cfg PlannerConfig) PlannerService {
	t.Helper()
	return NewPlannerService(
		repository.NewSQLiteItineraryRepo(database),
		repository.NewSQLiteGenerationRepo(database),
		seededService(t, 1),
		uow,
		cfg,
	)
}

func seedFestival(t *testing.T, database *sql.DB) {
	t.Helper()
	var events []domain.Event
	for _, c := range festival() {
		events = append(events, c.Event)
	}
	testutil.SeedEvents(t, repository.NewSQLiteEventRepo(database), events...)
}

// plannerTestSetup stores the festival events and returns a planner over them.
func plannerTestSetup(t *testing.T) (PlannerService, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	seedFestival(t, database)
	cfg := DefaultPlannerConfig()
	cfg.Constraints.StartTime = domain.MustClock("09:00")
	return newPlanner(t, database, testutil.NewTestUoW(database), cfg), database
}

func addAll(t *testing.T, p PlannerService, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, p.Add(context.Background(), plannerUser, id, nil, plannerUser))
	}
}

func itemIDs(items []domain.ItineraryItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Event.ID
	}
	return out
}

func TestPlanner_AddShowRemove(t *testing.T) {
	p, _ := plannerTestSetup(t)
	ctx := context.Background()
	addAll(t, p, "1", "2", "3")

	items, err := p.Show(ctx, plannerUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, itemIDs(items))

	require.NoError(t, p.Remove(ctx, plannerUser, "2"))
	items, err = p.Show(ctx, plannerUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, itemIDs(items))

	assert.ErrorIs(t, p.Add(ctx, plannerUser, "1", nil, ""), repository.ErrConflict)
	assert.ErrorIs(t, p.Add(ctx, plannerUser, "99", nil, ""), repository.ErrNotFound)
}

func TestPlanner_OverlappingPinIsRejected(t *testing.T) {
	p, _ := plannerTestSetup(t)
	ctx := context.Background()

	require.NoError(t, p.Add(ctx, plannerUser, "1", testutil.Pin("12:00"), ""))
	err := p.Add(ctx, plannerUser, "2", testutil.Pin("13:00"), "")
	assert.ErrorIs(t, err, domain.ErrPinnedOverlap, "A runs 12:00-13:30")

	items, err := p.Show(ctx, plannerUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, itemIDs(items), "failed add is rolled back")

	addAll(t, p, "2")
	assert.ErrorIs(t, p.Pin(ctx, plannerUser, "2", domain.MustClock("11:30")), domain.ErrPinnedOverlap)
	require.NoError(t, p.Pin(ctx, plannerUser, "2", domain.MustClock("13:30")))
	require.NoError(t, p.Unpin(ctx, plannerUser, "1"))

	items, err = p.Show(ctx, plannerUser)
	require.NoError(t, err)
	assert.Nil(t, items[0].Pin)
	require.NotNil(t, items[1].Pin)
	assert.Equal(t, "13:30", items[1].Pin.String())
}

func TestPlanner_GenerateNeedsTwoEvents(t *testing.T) {
	p, _ := plannerTestSetup(t)
	ctx := context.Background()
	addAll(t, p, "1")

	_, err := p.Generate(ctx, plannerUser, GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrInsufficientInput)

	_, err = p.Latest(ctx, plannerUser)
	assert.ErrorIs(t, err, repository.ErrNotFound, "nothing recorded")
}

func TestPlanner_GenerateThenSelect(t *testing.T) {
	p, _ := plannerTestSetup(t)
	ctx := context.Background()
	addAll(t, p, "1", "2", "3", "4")
	require.NoError(t, p.Pin(ctx, plannerUser, "3", domain.MustClock("15:00")))

	resp, err := p.Generate(ctx, plannerUser, GenerateOptions{})
	require.NoError(t, err)
	require.Len(t, resp.Variants, 3)

	latest, err := p.Latest(ctx, plannerUser)
	require.NoError(t, err)
	assert.Equal(t, resp.GenerationID, latest.ID)
	require.Len(t, latest.Variants, 3)
	for i, v := range resp.Variants {
		assert.Equal(t, v.ID, latest.Variants[i].ID)
		assert.Equal(t, eventIDs(v), eventIDs(latest.Variants[i]))
	}
	assert.Equal(t, "09:00", latest.Constraints.StartTime.String())

	chosen := resp.Variants[2]
	events, err := p.Select(ctx, plannerUser, chosen.ID)
	require.NoError(t, err)
	assert.Equal(t, chosen.Events, events)

	items, err := p.Show(ctx, plannerUser)
	require.NoError(t, err)
	require.Len(t, items, len(chosen.Events))
	for i, it := range items {
		want := chosen.Events[i]
		assert.Equal(t, want.ID, it.Event.ID)
		require.NotNil(t, it.PlannedTime)
		assert.Equal(t, want.PlannedTime, *it.PlannedTime)
		assert.Equal(t, want.TravelTime, it.TravelTime)
		if want.ID == "3" {
			require.NotNil(t, it.Pin, "pinned event stays pinned after select")
			assert.Equal(t, "15:00", it.Pin.String())
		}
	}
}

func TestPlanner_SelectDefaultsToBest(t *testing.T) {
	p, _ := plannerTestSetup(t)
	ctx := context.Background()
	addAll(t, p, "1", "2", "3", "4")

	resp, err := p.Generate(ctx, plannerUser, GenerateOptions{})
	require.NoError(t, err)
	best, ok := resp.Best()
	require.True(t, ok)

	events, err := p.Select(ctx, plannerUser, "")
	require.NoError(t, err)
	assert.Equal(t, best.Events, events)
}

func TestPlanner_SelectUnknownVariant(t *testing.T) {
	p, _ := plannerTestSetup(t)
	ctx := context.Background()
	addAll(t, p, "1", "2")

	_, err := p.Select(ctx, plannerUser, "")
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)

	_, err = p.Generate(ctx, plannerUser, GenerateOptions{})
	require.NoError(t, err)
	_, err = p.Select(ctx, plannerUser, "nope")
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)

	_, err = p.Select(ctx, "bob", "")
	assert.ErrorIs(t, err, domain.ErrVariantNotFound, "generations are per user")
}

func TestPlanner_SelectRollsBackOnWriteFailure(t *testing.T) {
	p, database := plannerTestSetup(t)
	ctx := context.Background()
	addAll(t, p, "1", "2", "3")
	resp, err := p.Generate(ctx, plannerUser, GenerateOptions{})
	require.NoError(t, err)

	uow := &testutil.FailOnNthExecUoW{
		DB:     database,
		FailOn: 2,
		Match:  "INSERT INTO itinerary_entries",
		Err:    errors.New("disk full"),
	}
	failing := newPlanner(t, database, uow, DefaultPlannerConfig())

	_, err = failing.Select(ctx, plannerUser, resp.Variants[0].ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 2, uow.Execs(), "first stop written before the failure")

	items, err := p.Show(ctx, plannerUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, itemIDs(items))
	for _, it := range items {
		assert.Nil(t, it.PlannedTime, "working list untouched")
	}
}

func TestPlanner_HistoryIsPruned(t *testing.T) {
	database := testutil.NewTestDB(t)
	seedFestival(t, database)
	cfg := DefaultPlannerConfig()
	cfg.KeepGenerations = 2
	seq := 0
	p := NewPlannerService(
		repository.NewSQLiteItineraryRepo(database),
		repository.NewSQLiteGenerationRepo(database),
		seededService(t, 1, WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("gen-%d", seq)
		})),
		testutil.NewTestUoW(database),
		cfg,
	)
	ctx := context.Background()
	addAll(t, p, "1", "2")

	var last string
	for i := 0; i < 3; i++ {
		resp, err := p.Generate(ctx, plannerUser, GenerateOptions{})
		require.NoError(t, err)
		last = resp.GenerationID
	}

	gens, err := p.History(ctx, plannerUser, 0)
	require.NoError(t, err)
	require.Len(t, gens, 2)
	assert.Equal(t, last, gens[0].ID)

	v, err := p.Variant(ctx, plannerUser, gens[1].Variants[0].ID)
	require.NoError(t, err)
	assert.Equal(t, gens[1].Variants[0].ID, v.ID)
}

func TestPlanner_Export(t *testing.T) {
	p, _ := plannerTestSetup(t)
	ctx := context.Background()

	_, err := p.Export(ctx, plannerUser, ExportText)
	assert.ErrorIs(t, err, ErrEmptyItinerary)

	addAll(t, p, "2", "1", "4")
	require.NoError(t, p.Pin(ctx, plannerUser, "4", domain.MustClock("16:00")))

	text, err := p.Export(ctx, plannerUser, ExportText)
	require.NoError(t, err)
	assert.Equal(t, "B → A → D", text)

	raw, err := p.Export(ctx, plannerUser, ExportJSON)
	require.NoError(t, err)
	var doc struct {
		UserID    string `json:"userId"`
		Route     string `json:"route"`
		TotalTime int    `json:"totalTime"`
		Events    []struct {
			ID   string  `json:"id"`
			Time string  `json:"time"`
			Pin  *string `json:"pin"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, plannerUser, doc.UserID)
	assert.Equal(t, "B → A → D", doc.Route)
	assert.Equal(t, 210, doc.TotalTime)
	require.Len(t, doc.Events, 3)
	assert.Equal(t, "10:30", doc.Events[0].Time)
	require.NotNil(t, doc.Events[2].Pin)
	assert.Equal(t, "16:00", *doc.Events[2].Pin)

	_, err = p.Export(ctx, plannerUser, "pdf")
	assert.Error(t, err)
}
