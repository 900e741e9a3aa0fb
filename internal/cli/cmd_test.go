package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/dayroute/internal/contract"
	"github.com/alexanderramin/dayroute/internal/db"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/repository"
	"github.com/alexanderramin/dayroute/internal/service"
	"github.com/alexanderramin/dayroute/internal/testutil"
	"github.com/alexanderramin/dayroute/internal/travel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `festival: Summer Fest
date: "2025-07-12"
events:
  - id: "1"
    title: Opening Concert
    time: "10:00"
    duration: 60
    location: Main Stage
    category: music
    popularity: 95
  - id: "2"
    title: Pottery Workshop
    time: "11:30"
    duration: 90
    location: Craft Tent
    category: workshop
    popularity: 70
  - id: "3"
    title: Street Food Tour
    time: "13:00"
    duration: 60
    location: Food Court
    category: food
    popularity: 80
  - id: "4"
    title: Open Air Film
    time: "15:00"
    duration: 120
    location: Open Air Cinema
    category: cinema
    popularity: 85
`

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)

	est, err := travel.NewComplexityEstimator(travel.DefaultConfig(), travel.NewSeededSource(1))
	require.NoError(t, err)
	variants := service.NewVariantService(est)

	cfg := service.DefaultPlannerConfig()
	return &App{
		Catalog: service.NewCatalogService(repository.NewSQLiteEventRepo(database), uow),
		Planner: service.NewPlannerService(
			repository.NewSQLiteItineraryRepo(database),
			repository.NewSQLiteGenerationRepo(database),
			variants, uow, cfg,
		),
		User:        "alice",
		Constraints: cfg.Constraints,
		// Explain left nil: deterministic summaries only.
	}
}

// seedCatalog imports testCatalog through the CLI.
func seedCatalog(t *testing.T, app *App) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))
	_, err := executeCmd(t, app, "event", "import", path)
	require.NoError(t, err)
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestEventImport(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	out, err := executeCmd(t, app, "event", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 4 events from Summer Fest (4 new, 0 updated)")

	out, err = executeCmd(t, app, "event", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "(0 new, 4 updated)")

	_, err = executeCmd(t, app, "event", "import", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEventList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "event", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No events found.")

	seedCatalog(t, app)

	out, err = executeCmd(t, app, "event", "list")
	require.NoError(t, err)
	for _, title := range []string{"Opening Concert", "Pottery Workshop", "Street Food Tour", "Open Air Film"} {
		assert.Contains(t, out, title)
	}

	out, err = executeCmd(t, app, "event", "list", "--category", "food", "--json")
	require.NoError(t, err)
	var events []domain.Event
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Street Food Tour", events[0].Title)

	_, err = executeCmd(t, app, "event", "list", "--category", "karaoke")
	assert.ErrorContains(t, err, "unknown category")
}

func TestEventShow(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	out, err := executeCmd(t, app, "event", "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Pottery Workshop")
	assert.Contains(t, out, "Craft Tent")

	_, err = executeCmd(t, app, "event", "show", "99")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPlanAddPinShow(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	out, err := executeCmd(t, app, "plan", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your itinerary is empty")

	_, err = executeCmd(t, app, "plan", "add", "1", "2", "--pin", "12:00")
	assert.ErrorContains(t, err, "--pin applies to a single event")

	_, err = executeCmd(t, app, "plan", "add", "1", "--pin", "12:00")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "plan", "add", "3", "--pin", "12:30")
	assert.ErrorIs(t, err, domain.ErrPinnedOverlap)

	out, err = executeCmd(t, app, "plan", "add", "2", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2")
	assert.Contains(t, out, "Added 3")

	_, err = executeCmd(t, app, "plan", "add", "2")
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = executeCmd(t, app, "plan", "pin", "3", "bogus")
	assert.ErrorContains(t, err, "invalid time")

	out, err = executeCmd(t, app, "plan", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Route: Opening Concert → Pottery Workshop → Street Food Tour")

	out, err = executeCmd(t, app, "plan", "show", "--json")
	require.NoError(t, err)
	var items []struct {
		ID  string  `json:"id"`
		Pin *string `json:"pin"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 3)
	require.NotNil(t, items[0].Pin)
	assert.Equal(t, "12:00", *items[0].Pin)

	_, err = executeCmd(t, app, "plan", "unpin", "1")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "plan", "remove", "2")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "plan", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 events")
}

func TestPlanGenerate_JSON(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)
	_, err := executeCmd(t, app, "plan", "add", "1", "2", "3", "4")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "generate", "--json", "--start", "09:00")
	require.NoError(t, err)
	var resp contract.GenerateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Variants, 3)
	assert.Equal(t, domain.SourceLocal, resp.Source)
	for i, v := range resp.Variants {
		assert.Equal(t, i+1, v.Rank)
		assert.NotEmpty(t, v.Events)
	}

	out, err = executeCmd(t, app, "plan", "generate", "--mode", "coverage")
	require.NoError(t, err)
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "#3")
	assert.Contains(t, out, "dayroute plan select")

	out, err = executeCmd(t, app, "plan", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "coverage")
	assert.Contains(t, out, "classic")
}

func TestPlanGenerate_InsufficientInput(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)
	_, err := executeCmd(t, app, "plan", "add", "1")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "generate", "--json")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientInput)

	var doc struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, string(contract.ErrInsufficientInput), doc.Error.Code)

	_, err = executeCmd(t, app, "plan", "generate", "--start", "25:00")
	assert.ErrorContains(t, err, "invalid --start")
}

func TestPlanGenerate_MaxTotalZeroDisablesBudget(t *testing.T) {
	app := testApp(t)
	app.Constraints.MaxTotalTime = 30
	seedCatalog(t, app)
	_, err := executeCmd(t, app, "plan", "add", "1", "2", "3", "4")
	require.NoError(t, err)

	var resp contract.GenerateResponse
	out, err := executeCmd(t, app, "plan", "generate", "--json", "--local")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	for _, v := range resp.Variants {
		assert.True(t, v.HasWarning(domain.WarnBudgetExceeded), v.ID)
	}

	out, err = executeCmd(t, app, "plan", "generate", "--json", "--local", "--max-total", "0")
	require.NoError(t, err)
	resp = contract.GenerateResponse{}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Variants, 3)
	for _, v := range resp.Variants {
		assert.False(t, v.HasWarning(domain.WarnBudgetExceeded), v.ID)
	}

	_, err = executeCmd(t, app, "plan", "generate", "--local", "--max-total=-5")
	assert.Error(t, err)
}

func generateJSON(t *testing.T, app *App) contract.GenerateResponse {
	t.Helper()
	out, err := executeCmd(t, app, "plan", "generate", "--json")
	require.NoError(t, err)
	var resp contract.GenerateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

func TestPlanSelect_ByID(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)
	_, err := executeCmd(t, app, "plan", "add", "1", "2", "3")
	require.NoError(t, err)
	resp := generateJSON(t, app)
	chosen := resp.Variants[1]

	out, err := executeCmd(t, app, "plan", "select", chosen.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Selected")

	titles := make([]string, len(chosen.Events))
	for i, e := range chosen.Events {
		titles[i] = e.Title
	}
	out, err = executeCmd(t, app, "plan", "export")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(titles, " → ")+"\n", out)

	_, err = executeCmd(t, app, "plan", "select", "nope")
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)
}

func TestPlanSelect_InteractivePicker(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)
	_, err := executeCmd(t, app, "plan", "add", "1", "2", "4")
	require.NoError(t, err)
	resp := generateJSON(t, app)

	var offered []domain.RouteVariant
	app.IsInteractive = func() bool { return true }
	app.PickVariant = func(vs []domain.RouteVariant) (string, error) {
		offered = vs
		return vs[2].ID, nil
	}

	out, err := executeCmd(t, app, "plan", "select", "--json")
	require.NoError(t, err)
	assert.Nil(t, offered, "--json never prompts")
	var events []domain.PlannedEvent
	require.NoError(t, json.Unmarshal([]byte(out), &events))
	best, _ := resp.Best()
	assert.Equal(t, len(best.Events), len(events))

	_, err = executeCmd(t, app, "plan", "select")
	require.NoError(t, err)
	require.Len(t, offered, 3)
	assert.Equal(t, resp.Variants[0].ID, offered[0].ID)
}

func TestPlanExplain(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	_, err := executeCmd(t, app, "plan", "explain")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = executeCmd(t, app, "plan", "add", "1", "2")
	require.NoError(t, err)
	resp := generateJSON(t, app)

	out, err := executeCmd(t, app, "plan", "explain")
	require.NoError(t, err)
	assert.Contains(t, out, resp.Variants[0].Name)
	assert.Contains(t, out, "Source: deterministic")

	out, err = executeCmd(t, app, "plan", "explain", resp.Variants[1].ID, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "deterministic"`)
}

func TestPlanExport_ToFile(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	_, err := executeCmd(t, app, "plan", "export")
	assert.ErrorIs(t, err, service.ErrEmptyItinerary)

	_, err = executeCmd(t, app, "plan", "add", "3", "1")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "day.json")
	out, err := executeCmd(t, app, "plan", "export", "--format", "json", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		UserID string `json:"userId"`
		Route  string `json:"route"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "alice", doc.UserID)
	assert.Equal(t, "Street Food Tour → Opening Concert", doc.Route)
}

func TestUserFlag_SeparatesItineraries(t *testing.T) {
	app := testApp(t)
	seedCatalog(t, app)

	_, err := executeCmd(t, app, "plan", "add", "1")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "--user", "bob", "plan", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your itinerary is empty")
}
