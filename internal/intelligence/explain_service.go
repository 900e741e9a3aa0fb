package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/llm"
)

// VariantExplanation is a short narrative of one itinerary.
type VariantExplanation struct {
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	Source     string   `json:"source"` // "llm" or "deterministic"
}

// ExplainService narrates itineraries. It never fails: any model problem
// yields the deterministic summary.
type ExplainService interface {
	ExplainVariant(ctx context.Context, v domain.RouteVariant) *VariantExplanation
}

type explainService struct {
	client llm.LLMClient
}

func NewExplainService(client llm.LLMClient) ExplainService {
	return &explainService{client: client}
}

func (s *explainService) ExplainVariant(ctx context.Context, v domain.RouteVariant) *VariantExplanation {
	if s.client == nil {
		return DeterministicExplain(v)
	}
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskRouteExplain,
		SystemPrompt: explainSystemPrompt,
		UserPrompt:   describeVariant(v),
	})
	if err != nil {
		return DeterministicExplain(v)
	}

	parsed, err := llm.ExtractJSON(resp.Text, func(e VariantExplanation) error {
		if strings.TrimSpace(e.Summary) == "" {
			return fmt.Errorf("summary is required")
		}
		return nil
	})
	if err != nil {
		return DeterministicExplain(v)
	}
	parsed.Source = "llm"
	return &parsed
}

// DeterministicExplain summarizes v from its own numbers.
func DeterministicExplain(v domain.RouteVariant) *VariantExplanation {
	exp := &VariantExplanation{Source: "deterministic"}
	if len(v.Events) == 0 {
		exp.Summary = "This route has no events."
		return exp
	}

	first, last := v.Events[0], v.Events[len(v.Events)-1]
	exp.Summary = fmt.Sprintf("%s: %d events from %s to %s, %d min in total of which %d min walking.",
		v.Name, v.EventCount, first.PlannedTime, last.PlannedEnd(), v.TotalTime, v.TravelTime)

	top := first
	for _, e := range v.Events[1:] {
		if e.Popularity > top.Popularity {
			top = e
		}
	}
	exp.Highlights = append(exp.Highlights, fmt.Sprintf("Most popular stop: %s at %s (%d%%)", top.Title, top.PlannedTime, top.Popularity))
	for _, e := range v.Events {
		if e.IsFixed {
			exp.Highlights = append(exp.Highlights, fmt.Sprintf("%s stays pinned at %s", e.Title, e.PlannedTime))
		}
	}
	for _, w := range v.Warnings {
		exp.Highlights = append(exp.Highlights, "Warning: "+w.Message)
	}
	return exp
}

func describeVariant(v domain.RouteVariant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Itinerary %q (%s). Total %d min, walking %d min.\n", v.Name, v.Description, v.TotalTime, v.TravelTime)
	for _, e := range v.Events {
		fmt.Fprintf(&b, "%d. %s %s at %s, %d min, %s, popularity %d%%, walk %d min before\n",
			e.Order+1, e.PlannedTime, e.Title, e.Location, e.Duration, e.Category, e.Popularity, e.TravelTime)
	}
	return b.String()
}
