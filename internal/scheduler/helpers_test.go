package scheduler

import (
	"github.com/alexanderramin/dayroute/internal/domain"
)

// fixedTravel is an Estimator returning the same minutes for every pair.
type fixedTravel int

func (f fixedTravel) Estimate(_, _ string) int { return int(f) }

func ev(id, at string, duration int, cat domain.Category, popularity int) domain.Event {
	return domain.Event{
		ID:         id,
		Title:      "Event " + id,
		Time:       domain.MustClock(at),
		Duration:   duration,
		Location:   "Venue " + id,
		Category:   cat,
		Popularity: popularity,
	}
}

func cand(e domain.Event) domain.Candidate {
	return domain.Candidate{Event: e}
}

func pinned(e domain.Event, at string) domain.Candidate {
	pin := domain.MustClock(at)
	return domain.Candidate{Event: e, Pin: &pin}
}

func ids(cands []domain.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Event.ID
	}
	return out
}

func plannedIDs(events []domain.PlannedEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func asVariant(s *Schedule) domain.RouteVariant {
	return domain.RouteVariant{
		ID:         "test",
		Events:     s.Events,
		TotalTime:  s.TotalTime,
		TravelTime: s.TravelTime,
		EventCount: len(s.Events),
	}
}

func hasWarning(ws []domain.Warning, code domain.WarningCode) bool {
	for _, w := range ws {
		if w.Code == code {
			return true
		}
	}
	return false
}

func constraintsFrom(start string) domain.Constraints {
	c := domain.DefaultConstraints()
	c.StartTime = domain.MustClock(start)
	c.MaxTotalTime = 0
	return c
}
