package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Event is a catalog point of interest. The engine treats it as read-only.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Date        string   `json:"date,omitempty"`
	Time        Clock    `json:"time"`
	Duration    int      `json:"duration"`
	Location    string   `json:"location"`
	Category    Category `json:"category"`
	Popularity  int      `json:"popularity"`
	Price       *int     `json:"price,omitempty"`
	Capacity    *int     `json:"capacity,omitempty"`
}

// MaxEventDuration and MaxTravelMinutes keep duration plus travel between
// two consecutive events under a day, so clock gaps read forward are exact.
const (
	MaxEventDuration = 12 * 60
	MaxTravelMinutes = 4 * 60
)

// End returns the nominal end of the event.
func (e Event) End() Clock {
	return e.Time.Add(e.Duration)
}

// Validate reports every field-level problem with the event.
func (e Event) Validate() error {
	var errs []error
	if strings.TrimSpace(e.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if e.Date != "" {
		if _, err := time.Parse(dateLayout, e.Date); err != nil {
			errs = append(errs, fmt.Errorf("date %q: expected YYYY-MM-DD", e.Date))
		}
	}
	if e.Time < 0 || int(e.Time) >= MinutesPerDay {
		errs = append(errs, fmt.Errorf("time %d out of range", e.Time))
	}
	if e.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %d", e.Duration))
	} else if e.Duration > MaxEventDuration {
		errs = append(errs, fmt.Errorf("duration must not exceed %d minutes, got %d", MaxEventDuration, e.Duration))
	}
	if !e.Category.Valid() {
		errs = append(errs, fmt.Errorf("unknown category %q", e.Category))
	}
	if e.Popularity < 0 || e.Popularity > 100 {
		errs = append(errs, fmt.Errorf("popularity must be within 0..100, got %d", e.Popularity))
	}
	if e.Price != nil && *e.Price < 0 {
		errs = append(errs, fmt.Errorf("price must not be negative, got %d", *e.Price))
	}
	if e.Capacity != nil && *e.Capacity < 0 {
		errs = append(errs, fmt.Errorf("capacity must not be negative, got %d", *e.Capacity))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("event %q: %w", e.ID, errors.Join(errs...))
}

// Candidate is an event offered to variant generation. A non-nil Pin fixes
// the event at that planned time in every variant that includes it.
type Candidate struct {
	Event   Event  `json:"event"`
	Pin     *Clock `json:"pin,omitempty"`
	AddedBy string `json:"addedBy,omitempty"`
}

func (c Candidate) Pinned() bool { return c.Pin != nil }

// StartHint is the time strategies sort by: the pin when present, otherwise
// the event's nominal start.
func (c Candidate) StartHint() Clock {
	if c.Pin != nil {
		return *c.Pin
	}
	return c.Event.Time
}

// PlannedEvent is an Event placed into one itinerary.
type PlannedEvent struct {
	Event
	Order       int    `json:"order"`
	PlannedTime Clock  `json:"plannedTime"`
	TravelTime  int    `json:"travelTime"`
	IsFixed     bool   `json:"isFixed"`
	AddedBy     string `json:"addedBy,omitempty"`
}

// PlannedEnd is the end of the event within its itinerary.
func (p PlannedEvent) PlannedEnd() Clock {
	return p.PlannedTime.Add(p.Duration)
}
