package scheduler

import (
	"math/rand"
	"slices"
	"strconv"
	"testing"

	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/travel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomCandidates draws up to five events. Pins are laid out left to right
// so they never overlap.
func randomCandidates(rng *rand.Rand) []domain.Candidate {
	n := rng.Intn(5) + 1
	cats := domain.Categories
	cands := make([]domain.Candidate, n)
	pinAt := 8 * 60
	for i := range cands {
		e := domain.Event{
			ID:         strconv.Itoa(i + 1),
			Title:      "Event " + strconv.Itoa(i+1),
			Time:       domain.Clock(8*60 + rng.Intn(10*60)),
			Duration:   30 + rng.Intn(61),
			Location:   "Stage " + strconv.Itoa(rng.Intn(4)),
			Category:   cats[rng.Intn(len(cats))],
			Popularity: rng.Intn(101),
		}
		cands[i] = domain.Candidate{Event: e}
		if rng.Intn(3) == 0 {
			pinAt += rng.Intn(31)
			pin := domain.Clock(pinAt)
			cands[i].Pin = &pin
			pinAt += e.Duration
		}
	}
	rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
	return cands
}

// TestBuild_Invariants property-tests the builder against the structural
// checks every variant must pass.
func TestBuild_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := constraintsFrom("08:00")

	for trial := 0; trial < 300; trial++ {
		cands := randomCandidates(rng)
		est, err := travel.NewComplexityEstimator(travel.DefaultConfig(), travel.NewSeededSource(uint64(trial)))
		require.NoError(t, err)

		sched, err := NewBuilder(est).Build(cands, c)
		require.NoError(t, err, "trial %d", trial)

		// Invariant 1: every candidate appears exactly once
		got := plannedIDs(sched.Events)
		want := ids(cands)
		slices.Sort(got)
		slices.Sort(want)
		assert.Equal(t, want, got, "trial %d: events must be conserved", trial)

		// Invariant 2: order, gaps, totals and pins are consistent
		assert.NoError(t, domain.CheckVariant(asVariant(sched), domain.PinsOf(cands)), "trial %d", trial)

		// Invariant 3: flexible events keep their relative order
		var flexIn, flexOut []string
		for _, cd := range cands {
			if !cd.Pinned() {
				flexIn = append(flexIn, cd.Event.ID)
			}
		}
		for _, e := range sched.Events {
			if !e.IsFixed {
				flexOut = append(flexOut, e.ID)
			}
		}
		assert.Equal(t, flexIn, flexOut, "trial %d: flexible order must be preserved", trial)

		// Invariant 4: nothing starts before the day does unless pinned there
		for _, e := range sched.Events {
			if !e.IsFixed {
				assert.GreaterOrEqual(t, int(e.PlannedTime), int(c.StartTime),
					"trial %d: %s planned before start", trial, e.ID)
			}
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		cands := randomCandidates(rng)
		run := func() *Schedule {
			est, err := travel.NewComplexityEstimator(travel.DefaultConfig(), travel.NewSeededSource(99))
			require.NoError(t, err)
			s, err := NewBuilder(est).Build(cands, constraintsFrom("08:00"))
			require.NoError(t, err)
			return s
		}
		assert.Equal(t, run(), run(), "trial %d: same seed must yield the same schedule", trial)
	}
}
