package domain

import "fmt"

type StrategyKind string

const (
	StrategyTime       StrategyKind = "time"
	StrategyPopularity StrategyKind = "popularity"
	StrategyBalanced   StrategyKind = "balanced"
	StrategyShort      StrategyKind = "short"
	StrategyMedium     StrategyKind = "medium"
	StrategyFull       StrategyKind = "full"
)

// Intent is what a strategy optimizes for; it selects the scoring bonus.
type Intent string

const (
	IntentTime       Intent = "time"
	IntentPopularity Intent = "popularity"
	IntentDiversity  Intent = "diversity"
)

type VariantSource string

const (
	SourceLocal  VariantSource = "local"
	SourceRemote VariantSource = "remote"
)

type WarningCode string

const (
	WarnScheduleConflict WarningCode = "SCHEDULE_CONFLICT"
	WarnBudgetExceeded   WarningCode = "BUDGET_EXCEEDED"
	WarnEndTimeExceeded  WarningCode = "END_TIME_EXCEEDED"
	WarnTightTransfer    WarningCode = "TIGHT_TRANSFER"
)

// Warning flags a condition the caller may want to surface. The itinerary
// carrying it is still valid.
type Warning struct {
	Code    WarningCode `json:"code"`
	EventID string      `json:"eventId,omitempty"`
	Message string      `json:"message"`
}

// Constraints bound a single day plan.
type Constraints struct {
	StartTime    Clock `json:"startTime" yaml:"start_time"`
	EndTime      Clock `json:"endTime" yaml:"end_time"`
	MaxTotalTime int   `json:"maxTotalTime" yaml:"max_total_time"`
}

// DefaultConstraints returns a 10:00-22:00 day with an eight hour budget.
func DefaultConstraints() Constraints {
	return Constraints{
		StartTime:    MustClock("10:00"),
		EndTime:      MustClock("22:00"),
		MaxTotalTime: 480,
	}
}

func (c Constraints) Validate() error {
	if c.EndTime <= c.StartTime {
		return fmt.Errorf("end time %s must be after start time %s", c.EndTime, c.StartTime)
	}
	if c.MaxTotalTime < 0 {
		return fmt.Errorf("max total time must not be negative, got %d", c.MaxTotalTime)
	}
	return nil
}

// RouteVariant is one complete, scored itinerary.
type RouteVariant struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Strategy      StrategyKind   `json:"strategy"`
	Source        VariantSource  `json:"source"`
	Rank          int            `json:"rank"`
	Events        []PlannedEvent `json:"events"`
	TotalTime     int            `json:"totalTime"`
	TravelTime    int            `json:"travelTime"`
	EventCount    int            `json:"eventCount"`
	Score         int            `json:"score"`
	Advantages    []string       `json:"advantages"`
	Disadvantages []string       `json:"disadvantages"`
	Warnings      []Warning      `json:"warnings,omitempty"`
}

// Totals returns the total minutes (durations plus travel) and the travel
// minutes of events.
func Totals(events []PlannedEvent) (total, travel int) {
	for _, e := range events {
		total += e.Duration + e.TravelTime
		travel += e.TravelTime
	}
	return total, travel
}

// HasWarning reports whether the variant carries a warning with code.
func (v RouteVariant) HasWarning(code WarningCode) bool {
	for _, w := range v.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
