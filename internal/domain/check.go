package domain

import "fmt"

// CheckVariant verifies the structural invariants every returned itinerary
// must satisfy: contiguous order, non-overlapping times including travel,
// consistent totals, and that pinned events sit exactly at their pins.
func CheckVariant(v RouteVariant, pins map[string]Clock) error {
	if len(v.Events) == 0 {
		return fmt.Errorf("%w: %s has no events", ErrInvalidVariant, v.ID)
	}
	if v.EventCount != len(v.Events) {
		return fmt.Errorf("%w: %s event count %d != %d", ErrInvalidVariant, v.ID, v.EventCount, len(v.Events))
	}

	seen := make(map[string]bool, len(v.Events))
	for i, e := range v.Events {
		if e.Order != i {
			return fmt.Errorf("%w: %s event %s has order %d at position %d", ErrInvalidVariant, v.ID, e.ID, e.Order, i)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: %s repeats event %s", ErrInvalidVariant, v.ID, e.ID)
		}
		seen[e.ID] = true
		if e.TravelTime < 0 {
			return fmt.Errorf("%w: %s event %s has negative travel", ErrInvalidVariant, v.ID, e.ID)
		}
		if i == 0 {
			if e.TravelTime != 0 {
				return fmt.Errorf("%w: %s first event %s has travel %d", ErrInvalidVariant, v.ID, e.ID, e.TravelTime)
			}
			continue
		}
		prev := v.Events[i-1]
		gap := forwardMinutes(prev.PlannedTime, e.PlannedTime)
		if gap < prev.Duration+e.TravelTime {
			return fmt.Errorf("%w: %s event %s at %s overlaps %s ending %s plus %d min travel",
				ErrInvalidVariant, v.ID, e.ID, e.PlannedTime, prev.ID, prev.PlannedEnd(), e.TravelTime)
		}
	}

	total, travel := Totals(v.Events)
	if v.TotalTime != total || v.TravelTime != travel {
		return fmt.Errorf("%w: %s totals %d/%d, expected %d/%d", ErrInvalidVariant, v.ID, v.TotalTime, v.TravelTime, total, travel)
	}

	for _, e := range v.Events {
		pin, ok := pins[e.ID]
		if !ok {
			continue
		}
		if !e.IsFixed || e.PlannedTime != pin {
			return fmt.Errorf("%w: %s moved pinned event %s from %s to %s", ErrInvalidVariant, v.ID, e.ID, pin, e.PlannedTime)
		}
	}
	return nil
}

// forwardMinutes is the distance from a to b moving forward on the clock.
func forwardMinutes(a, b Clock) int {
	d := (int(b) - int(a)) % MinutesPerDay
	if d < 0 {
		d += MinutesPerDay
	}
	return d
}

// PinsOf collects the pinned candidates into an ID-to-time map.
func PinsOf(cands []Candidate) map[string]Clock {
	pins := make(map[string]Clock)
	for _, c := range cands {
		if c.Pin != nil {
			pins[c.Event.ID] = *c.Pin
		}
	}
	return pins
}
