package scheduler

import (
	"fmt"
	"slices"

	"github.com/alexanderramin/dayroute/internal/domain"
)

// SelectFunc picks and orders a subset of candidates. It must not mutate
// its input.
type SelectFunc func(cands []domain.Candidate, c domain.Constraints) []domain.Candidate

// Strategy is a named policy for turning the candidate set into one
// ordered itinerary.
type Strategy struct {
	Kind          domain.StrategyKind
	Name          string
	Description   string
	Intent        domain.Intent
	MinSize       int
	MaxSize       int // 0 means every candidate
	Advantages    []string
	Disadvantages []string
	selectFn      SelectFunc
}

// Select runs the strategy on a copy of cands.
func (s Strategy) Select(cands []domain.Candidate, c domain.Constraints) []domain.Candidate {
	return s.selectFn(slices.Clone(cands), c)
}

const (
	shortTarget  = 4
	mediumTarget = 6
	fullCap      = 9

	popularityBlend  = 0.7
	newCategoryBonus = 15.0
)

var strategies = map[domain.StrategyKind]Strategy{
	domain.StrategyTime: {
		Kind:          domain.StrategyTime,
		Name:          "Time-optimized",
		Description:   "Minimal waiting between events",
		Intent:        domain.IntentTime,
		Advantages:    []string{"Follows the event timetable", "Least idle time between stops"},
		Disadvantages: []string{"Ignores popularity", "Categories may cluster"},
		selectFn:      selectByTime,
	},
	domain.StrategyPopularity: {
		Kind:          domain.StrategyPopularity,
		Name:          "By popularity",
		Description:   "The most popular events early in the day",
		Intent:        domain.IntentPopularity,
		Advantages:    []string{"Highlights first", "Best-rated events before crowds tire"},
		Disadvantages: []string{"More walking between venues", "Late events may drift from their timetable"},
		selectFn:      selectByPopularity,
	},
	domain.StrategyBalanced: {
		Kind:          domain.StrategyBalanced,
		Name:          "Balanced",
		Description:   "Variety of activities through the day",
		Intent:        domain.IntentDiversity,
		Advantages:    []string{"Alternates activity types", "Less fatigue from similar events"},
		Disadvantages: []string{"Not the shortest route", "Top events may come late"},
		selectFn:      selectBalanced,
	},
	domain.StrategyShort: {
		Kind:          domain.StrategyShort,
		Name:          "Short intensive",
		Description:   "The most popular events in 3-4 hours",
		Intent:        domain.IntentPopularity,
		MinSize:       3,
		MaxSize:       shortTarget,
		Advantages:    []string{"Maximum impressions in little time", "Only the most popular places", "Minimal fatigue"},
		Disadvantages: []string{"Few events", "Does not cover the whole day"},
		selectFn:      selectShort,
	},
	domain.StrategyMedium: {
		Kind:          domain.StrategyMedium,
		Name:          "Balanced day",
		Description:   "Diverse events for 5-6 hours",
		Intent:        domain.IntentDiversity,
		MinSize:       5,
		MaxSize:       7,
		Advantages:    []string{"Good balance of time and impressions", "Variety of activities", "Time left to rest"},
		Disadvantages: []string{"Not every selected event", "Requires moderate activity"},
		selectFn:      selectMedium,
	},
	domain.StrategyFull: {
		Kind:          domain.StrategyFull,
		Name:          "Full day",
		Description:   "The most events across 7-8 hours",
		Intent:        domain.IntentTime,
		MaxSize:       fullCap,
		Advantages:    []string{"Covers the most events", "Packed day", "Variety of impressions"},
		Disadvantages: []string{"Can be tiring", "Little free time", "Requires good stamina"},
		selectFn:      selectFull,
	},
}

// StrategyByKind returns the strategy registered for kind.
func StrategyByKind(kind domain.StrategyKind) (Strategy, error) {
	s, ok := strategies[kind]
	if !ok {
		return Strategy{}, fmt.Errorf("unknown strategy %q", kind)
	}
	return s, nil
}

// ClassicStrategies is the default trio: time, popularity, balanced.
func ClassicStrategies() []Strategy {
	return []Strategy{
		strategies[domain.StrategyTime],
		strategies[domain.StrategyPopularity],
		strategies[domain.StrategyBalanced],
	}
}

// CoverageStrategies is the short/medium/full trio whose different sizes
// mirror the remote suggestion slots.
func CoverageStrategies() []Strategy {
	return []Strategy{
		strategies[domain.StrategyShort],
		strategies[domain.StrategyMedium],
		strategies[domain.StrategyFull],
	}
}

func selectByTime(cands []domain.Candidate, _ domain.Constraints) []domain.Candidate {
	slices.SortStableFunc(cands, byStart)
	return cands
}

func selectByPopularity(cands []domain.Candidate, _ domain.Constraints) []domain.Candidate {
	slices.SortStableFunc(cands, byPopularity)
	return cands
}

// selectBalanced deals events round-robin across categories so no category
// repeats before every other category has appeared once.
func selectBalanced(cands []domain.Candidate, _ domain.Constraints) []domain.Candidate {
	slices.SortStableFunc(cands, tieBreak)

	var order []domain.Category
	groups := make(map[domain.Category][]domain.Candidate)
	for _, c := range cands {
		cat := c.Event.Category
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], c)
	}

	out := make([]domain.Candidate, 0, len(cands))
	for len(out) < len(cands) {
		for _, cat := range order {
			if g := groups[cat]; len(g) > 0 {
				out = append(out, g[0])
				groups[cat] = g[1:]
			}
		}
	}
	return out
}

func selectShort(cands []domain.Candidate, _ domain.Constraints) []domain.Candidate {
	picked := keepPinned(cands, shortTarget, byPopularity)
	slices.SortStableFunc(picked, byPopularity)
	return picked
}

// selectMedium greedily takes the best blend of popularity and a bonus for
// a category not yet in the route.
func selectMedium(cands []domain.Candidate, _ domain.Constraints) []domain.Candidate {
	target := min(mediumTarget, len(cands))

	var picked, rest []domain.Candidate
	seenCat := make(map[domain.Category]bool)
	for _, c := range cands {
		if c.Pinned() {
			picked = append(picked, c)
			seenCat[c.Event.Category] = true
		} else {
			rest = append(rest, c)
		}
	}
	slices.SortStableFunc(picked, byStart)

	for len(picked) < target && len(rest) > 0 {
		best := 0
		bestScore := blendScore(rest[0], seenCat)
		for i := 1; i < len(rest); i++ {
			s := blendScore(rest[i], seenCat)
			if s > bestScore || (s == bestScore && tieBreak(rest[i], rest[best]) < 0) {
				best, bestScore = i, s
			}
		}
		picked = append(picked, rest[best])
		seenCat[rest[best].Event.Category] = true
		rest = slices.Delete(rest, best, best+1)
	}
	return picked
}

func blendScore(c domain.Candidate, seen map[domain.Category]bool) float64 {
	s := popularityBlend * float64(c.Event.Popularity)
	if !seen[c.Event.Category] {
		s += newCategoryBonus
	}
	return s
}

// selectFull keeps the caller's order, capped at fullCap.
func selectFull(cands []domain.Candidate, _ domain.Constraints) []domain.Candidate {
	if len(cands) <= fullCap {
		return cands
	}
	pinned := 0
	for _, c := range cands {
		if c.Pinned() {
			pinned++
		}
	}
	room := max(fullCap-pinned, 0)
	out := make([]domain.Candidate, 0, fullCap)
	for _, c := range cands {
		if c.Pinned() {
			out = append(out, c)
		} else if room > 0 {
			out = append(out, c)
			room--
		}
	}
	return out
}

// keepPinned returns every pinned candidate plus the best unpinned ones by
// rank until limit is reached.
func keepPinned(cands []domain.Candidate, limit int, rank func(a, b domain.Candidate) int) []domain.Candidate {
	var picked, rest []domain.Candidate
	for _, c := range cands {
		if c.Pinned() {
			picked = append(picked, c)
		} else {
			rest = append(rest, c)
		}
	}
	slices.SortStableFunc(rest, rank)
	for _, c := range rest {
		if len(picked) >= limit {
			break
		}
		picked = append(picked, c)
	}
	return picked
}
