package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/dayroute/internal/domain"
)

var testEventCounter atomic.Int64

// Event options
type EventOption func(*domain.Event)

func WithID(id string) EventOption {
	return func(e *domain.Event) {
		e.ID = id
	}
}

func WithTime(hhmm string) EventOption {
	return func(e *domain.Event) {
		e.Time = domain.MustClock(hhmm)
	}
}

func WithDuration(min int) EventOption {
	return func(e *domain.Event) {
		e.Duration = min
	}
}

func WithLocation(loc string) EventOption {
	return func(e *domain.Event) {
		e.Location = loc
	}
}

func WithCategory(c domain.Category) EventOption {
	return func(e *domain.Event) {
		e.Category = c
	}
}

func WithPopularity(p int) EventOption {
	return func(e *domain.Event) {
		e.Popularity = p
	}
}

func WithDate(d string) EventOption {
	return func(e *domain.Event) {
		e.Date = d
	}
}

func WithPrice(p int) EventOption {
	return func(e *domain.Event) {
		e.Price = &p
	}
}

// NewTestEvent returns a valid one-hour music event at noon. IDs are numeric
// strings unless overridden.
func NewTestEvent(title string, opts ...EventOption) *domain.Event {
	e := &domain.Event{
		ID:         fmt.Sprintf("%d", testEventCounter.Add(1)),
		Title:      title,
		Date:       "2025-07-12",
		Time:       domain.MustClock("12:00"),
		Duration:   60,
		Location:   "Main Stage",
		Category:   domain.CategoryMusic,
		Popularity: 50,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Pin returns a pointer to the parsed clock, for pinned candidates.
func Pin(hhmm string) *domain.Clock {
	c := domain.MustClock(hhmm)
	return &c
}
