package domain

import "time"

// ItineraryItem is one stop of a user's working itinerary. PlannedTime is
// set once a generated variant has been selected.
type ItineraryItem struct {
	Event       Event
	Position    int
	Pin         *Clock
	PlannedTime *Clock
	TravelTime  int
	AddedBy     string
	AddedAt     time.Time
}

// Candidate turns the item into generation input.
func (i ItineraryItem) Candidate() Candidate {
	return Candidate{Event: i.Event, Pin: i.Pin, AddedBy: i.AddedBy}
}

// Candidates converts a whole itinerary, keeping its order.
func Candidates(items []ItineraryItem) []Candidate {
	out := make([]Candidate, len(items))
	for i, it := range items {
		out[i] = it.Candidate()
	}
	return out
}

// Generation is one stored set of generated variants.
type Generation struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Mode           string         `json:"mode"`
	Source         VariantSource  `json:"source"`
	FallbackReason string         `json:"fallbackReason,omitempty"`
	Constraints    Constraints    `json:"constraints"`
	Variants       []RouteVariant `json:"variants"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Variant returns the variant with id.
func (g *Generation) Variant(id string) (RouteVariant, bool) {
	for _, v := range g.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return RouteVariant{}, false
}
