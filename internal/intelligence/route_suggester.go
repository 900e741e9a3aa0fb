package intelligence

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/dayroute/internal/contract"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/llm"
)

// maxSuggestions is how many variants are taken from one response.
const maxSuggestions = 3

// routeLLMResponse is the JSON the model is asked to produce.
type routeLLMResponse struct {
	Variants []routeLLMVariant `json:"variants"`
}

type routeLLMVariant struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	SelectedEvents []int    `json:"selectedEvents"`
	PlannedTimes   []string `json:"plannedTimes"`
	TravelTimes    []int    `json:"travelTimes"`
	Advantages     []string `json:"advantages"`
	Disadvantages  []string `json:"disadvantages"`
	Score          float64  `json:"score"`
}

// RouteSuggester asks a language model for itinerary variants. It does not
// fall back: every failure is returned so the caller can switch to local
// strategies.
type RouteSuggester struct {
	client llm.LLMClient
}

func NewRouteSuggester(client llm.LLMClient) *RouteSuggester {
	return &RouteSuggester{client: client}
}

// Suggest returns up to three suggestions. Refs in the result point into
// cands (1-based) and are not checked against its length.
func (s *RouteSuggester) Suggest(ctx context.Context, cands []domain.Candidate, c domain.Constraints) ([]contract.RouteSuggestion, error) {
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskRouteSuggest,
		SystemPrompt: routeSystemPrompt,
		UserPrompt:   buildRouteUserPrompt(cands, c),
	})
	if err != nil {
		return nil, fmt.Errorf("route suggestion failed: %w", err)
	}

	parsed, err := llm.ExtractJSON(resp.Text, validateRouteResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to extract route suggestions: %w", err)
	}

	variants := parsed.Variants
	if len(variants) > maxSuggestions {
		variants = variants[:maxSuggestions]
	}
	out := make([]contract.RouteSuggestion, len(variants))
	for i, v := range variants {
		out[i] = toSuggestion(v)
	}
	return out, nil
}

func buildRouteUserPrompt(cands []domain.Candidate, c domain.Constraints) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The visitor chose %d events.\n\nEVENTS:\n", len(cands))
	for i, cd := range cands {
		e := cd.Event
		fmt.Fprintf(&b, "%d. %s (%s), %s, %d min, %s, popularity %d%%",
			i+1, e.Title, e.Location, e.Time, e.Duration, e.Category, e.Popularity)
		if cd.Pin != nil {
			fmt.Fprintf(&b, ", PINNED at %s", *cd.Pin)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\nCONSTRAINTS:\n")
	fmt.Fprintf(&b, "- Start time: %s\n", c.StartTime)
	fmt.Fprintf(&b, "- End time: %s\n", c.EndTime)
	if c.MaxTotalTime > 0 {
		fmt.Fprintf(&b, "- Maximum total time: %d hours\n", c.MaxTotalTime/60)
	}
	return b.String()
}

func validateRouteResponse(resp routeLLMResponse) error {
	if len(resp.Variants) == 0 {
		return fmt.Errorf("variants must not be empty")
	}
	for i, v := range resp.Variants {
		n := len(v.SelectedEvents)
		if n == 0 {
			return fmt.Errorf("variant %d: selectedEvents must not be empty", i+1)
		}
		if len(v.PlannedTimes) != n || len(v.TravelTimes) != n {
			return fmt.Errorf("variant %d: %d events but %d planned times and %d travel times",
				i+1, n, len(v.PlannedTimes), len(v.TravelTimes))
		}
		for j, t := range v.PlannedTimes {
			if _, err := domain.ParseClock(t); err != nil {
				return fmt.Errorf("variant %d: planned time %d: %w", i+1, j+1, err)
			}
		}
		for j, m := range v.TravelTimes {
			if m < 0 {
				return fmt.Errorf("variant %d: travel time %d is negative", i+1, j+1)
			}
		}
	}
	return nil
}

// toSuggestion converts an already validated variant.
func toSuggestion(v routeLLMVariant) contract.RouteSuggestion {
	times := make([]domain.Clock, len(v.PlannedTimes))
	for i, t := range v.PlannedTimes {
		times[i] = domain.MustClock(t)
	}
	return contract.RouteSuggestion{
		Name:          strings.TrimSpace(v.Name),
		Description:   strings.TrimSpace(v.Description),
		Refs:          v.SelectedEvents,
		PlannedTimes:  times,
		TravelTimes:   v.TravelTimes,
		Advantages:    v.Advantages,
		Disadvantages: v.Disadvantages,
		Score:         int(math.Round(v.Score)),
	}
}
