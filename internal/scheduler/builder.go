package scheduler

import (
	"errors"
	"fmt"
	"slices"

	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/travel"
)

// ErrEmptySchedule is returned when Build is called without events.
var ErrEmptySchedule = errors.New("no events to schedule")

// Schedule is a fully time-stamped itinerary with its totals and any
// conditions the caller may want to surface.
type Schedule struct {
	Events     []domain.PlannedEvent
	TotalTime  int
	TravelTime int
	Warnings   []domain.Warning
}

// OverBudget reports whether the schedule exceeded MaxTotalTime.
func (s *Schedule) OverBudget() bool {
	for _, w := range s.Warnings {
		if w.Code == domain.WarnBudgetExceeded {
			return true
		}
	}
	return false
}

// Builder assigns planned times and travel gaps to an ordered event list.
type Builder struct {
	est travel.Estimator
}

func NewBuilder(est travel.Estimator) *Builder {
	return &Builder{est: est}
}

// slot is an event placed on the timeline, in absolute minutes after the
// start of the day (no wraparound).
type slot struct {
	cand   domain.Candidate
	start  int
	travel int
}

// buildState carries one Build call; travel between a pair of events is
// estimated once so feasibility checks and placement agree.
type buildState struct {
	est      travel.Estimator
	cache    map[[2]string]int
	slots    []slot
	warnings []domain.Warning
	prev     *domain.Candidate
	prevEnd  int
}

func (s *buildState) travelBetween(from, to domain.Candidate) int {
	key := [2]string{from.Event.ID, to.Event.ID}
	if m, ok := s.cache[key]; ok {
		return m
	}
	m := s.est.Estimate(from.Event.Location, to.Event.Location)
	m = min(max(m, 0), domain.MaxTravelMinutes)
	s.cache[key] = m
	return m
}

func (s *buildState) place(c domain.Candidate, start, travelMin int) {
	s.slots = append(s.slots, slot{cand: c, start: start, travel: travelMin})
	s.prev = &s.slots[len(s.slots)-1].cand
	s.prevEnd = start + c.Event.Duration
}

func (s *buildState) placeAnchor(a domain.Candidate) {
	pin := int(*a.Pin)
	travelMin := 0
	if s.prev != nil {
		travelMin = s.travelBetween(*s.prev, a)
		if gap := pin - s.prevEnd; travelMin > gap {
			s.warnings = append(s.warnings, domain.Warning{
				Code:    domain.WarnTightTransfer,
				EventID: a.Event.ID,
				Message: fmt.Sprintf("only %d min to reach %q from %q, estimated %d min", gap, a.Event.Title, s.prev.Event.Title, travelMin),
			})
			travelMin = gap
		}
	}
	s.place(a, pin, travelMin)
}

// Build walks cands in order. Flexible events are packed from the start
// time; pinned events keep their pin. A flexible event that cannot finish
// (travel included) before the next pinned event is moved after it by the
// minimum amount, and a SCHEDULE_CONFLICT warning is recorded.
func (b *Builder) Build(cands []domain.Candidate, c domain.Constraints) (*Schedule, error) {
	if len(cands) == 0 {
		return nil, ErrEmptySchedule
	}

	anchors, flexible, err := splitAnchors(cands)
	if err != nil {
		return nil, err
	}

	st := &buildState{est: b.est, cache: make(map[[2]string]int)}
	startOfDay := int(c.StartTime)
	next := 0

	for _, f := range flexible {
		displacedBy := ""
		for {
			start, travelMin := startOfDay, 0
			if st.prev != nil {
				travelMin = st.travelBetween(*st.prev, f)
				start = max(st.prevEnd+travelMin, startOfDay)
			}
			if next < len(anchors) {
				a := anchors[next]
				if start+f.Event.Duration+st.travelBetween(f, a) > int(*a.Pin) {
					if start < int(*a.Pin) {
						displacedBy = a.Event.Title
					}
					st.placeAnchor(a)
					next++
					continue
				}
			}
			st.place(f, start, travelMin)
			break
		}
		if displacedBy != "" {
			st.warnings = append(st.warnings, domain.Warning{
				Code:    domain.WarnScheduleConflict,
				EventID: f.Event.ID,
				Message: fmt.Sprintf("%q moved after pinned %q", f.Event.Title, displacedBy),
			})
		}
	}
	for ; next < len(anchors); next++ {
		st.placeAnchor(anchors[next])
	}

	return finish(st, c), nil
}

// splitAnchors separates pinned candidates (sorted by pin) from flexible
// ones (in caller order) and rejects duplicates and overlapping pins.
func splitAnchors(cands []domain.Candidate) (anchors, flexible []domain.Candidate, err error) {
	seen := make(map[string]bool, len(cands))
	for _, c := range cands {
		if seen[c.Event.ID] {
			return nil, nil, fmt.Errorf("event %s listed twice", c.Event.ID)
		}
		seen[c.Event.ID] = true
		if c.Pinned() {
			anchors = append(anchors, c)
		} else {
			flexible = append(flexible, c)
		}
	}
	slices.SortStableFunc(anchors, func(a, b domain.Candidate) int {
		return int(*a.Pin) - int(*b.Pin)
	})
	for i := 1; i < len(anchors); i++ {
		prev, cur := anchors[i-1], anchors[i]
		if int(*prev.Pin)+prev.Event.Duration > int(*cur.Pin) {
			return nil, nil, fmt.Errorf("%w: %q (%s, %d min) and %q (%s)",
				domain.ErrPinnedOverlap, prev.Event.Title, *prev.Pin, prev.Event.Duration, cur.Event.Title, *cur.Pin)
		}
	}
	return anchors, flexible, nil
}

func finish(st *buildState, c domain.Constraints) *Schedule {
	sched := &Schedule{
		Events:   make([]domain.PlannedEvent, len(st.slots)),
		Warnings: st.warnings,
	}
	for i, s := range st.slots {
		sched.Events[i] = domain.PlannedEvent{
			Event:       s.cand.Event,
			Order:       i,
			PlannedTime: domain.Clock(0).Add(s.start),
			TravelTime:  s.travel,
			IsFixed:     s.cand.Pinned(),
			AddedBy:     s.cand.AddedBy,
		}
	}
	sched.TotalTime, sched.TravelTime = domain.Totals(sched.Events)
	sched.Warnings = append(sched.Warnings, DayWarnings(sched.Events, c)...)
	return sched
}

// DayWarnings reports budget and end-of-day overruns for a planned route.
func DayWarnings(events []domain.PlannedEvent, c domain.Constraints) []domain.Warning {
	if len(events) == 0 {
		return nil
	}
	var warnings []domain.Warning
	total, _ := domain.Totals(events)
	if c.MaxTotalTime > 0 && total > c.MaxTotalTime {
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarnBudgetExceeded,
			Message: fmt.Sprintf("route takes %d min, budget is %d min", total, c.MaxTotalTime),
		})
	}
	first, last := events[0], events[len(events)-1]
	end := int(first.PlannedTime) + elapsed(events)
	if end > int(c.EndTime) {
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarnEndTimeExceeded,
			EventID: last.ID,
			Message: fmt.Sprintf("route ends at %s, after %s", last.PlannedEnd(), c.EndTime),
		})
	}
	return warnings
}

// elapsed is the span from the first start to the last end, following the
// clock forward across midnight.
func elapsed(events []domain.PlannedEvent) int {
	span := 0
	for i := 1; i < len(events); i++ {
		d := int(events[i].PlannedTime) - int(events[i-1].PlannedTime)
		if d < 0 {
			d += domain.MinutesPerDay
		}
		span += d
	}
	return span + events[len(events)-1].Duration
}

// ValidateCandidates rejects input Build would refuse: duplicate events and
// overlapping pins.
func ValidateCandidates(cands []domain.Candidate) error {
	_, _, err := splitAnchors(cands)
	return err
}
