package contract

import "github.com/alexanderramin/dayroute/internal/domain"

// RouteSuggestion is one itinerary proposed by a remote collaborator. Refs
// are 1-based positions in the candidate list sent with the request;
// PlannedTimes and TravelTimes run parallel to Refs.
type RouteSuggestion struct {
	Name          string
	Description   string
	Refs          []int
	PlannedTimes  []domain.Clock
	TravelTimes   []int
	Advantages    []string
	Disadvantages []string
	Score         int
}
