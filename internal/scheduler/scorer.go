package scheduler

import (
	"fmt"
	"math"

	"github.com/alexanderramin/dayroute/internal/domain"
)

const (
	// BaseScore is where every itinerary starts.
	BaseScore = 80
	// ScoreCeiling keeps a perfect score out of reach.
	ScoreCeiling = 98
)

type ScoringWeights struct {
	TravelCeilingMin   float64 // average travel at or above this earns nothing
	TimeEfficiency     float64
	PopularityBaseline float64
	Popularity         float64
	Diversity          float64
	PinnedBonus        float64
}

func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		TravelCeilingMin:   30,
		TimeEfficiency:     15,
		PopularityBaseline: 80,
		Popularity:         0.5,
		Diversity:          15,
		PinnedBonus:        2,
	}
}

type ScoreReasonCode string

const (
	ReasonTimeEfficiency ScoreReasonCode = "TIME_EFFICIENCY"
	ReasonPopularity     ScoreReasonCode = "POPULARITY"
	ReasonCategorySpread ScoreReasonCode = "CATEGORY_SPREAD"
	ReasonPinnedKept     ScoreReasonCode = "PINNED_KEPT"
)

type ScoreReason struct {
	Code    ScoreReasonCode
	Message string
	Delta   float64
}

type ScoreResult struct {
	Score   int
	Reasons []ScoreReason
}

// ScoreEvents rates an itinerary for the given intent on a 0-98 scale.
func ScoreEvents(events []domain.PlannedEvent, intent domain.Intent, w ScoringWeights) ScoreResult {
	var result ScoreResult
	if len(events) == 0 {
		return result
	}

	score := float64(BaseScore)
	var factors []func([]domain.PlannedEvent, ScoringWeights) (float64, *ScoreReason)
	switch intent {
	case domain.IntentTime:
		factors = append(factors, scoreTimeEfficiency)
	case domain.IntentPopularity:
		factors = append(factors, scorePopularity)
	case domain.IntentDiversity:
		factors = append(factors, scoreCategorySpread)
	}
	factors = append(factors, scorePinned)

	for _, f := range factors {
		delta, reason := f(events, w)
		score += delta
		if reason != nil {
			result.Reasons = append(result.Reasons, *reason)
		}
	}

	result.Score = clampScore(int(math.Round(score)))
	return result
}

func scoreTimeEfficiency(events []domain.PlannedEvent, w ScoringWeights) (float64, *ScoreReason) {
	avg := 0.0
	if transitions := len(events) - 1; transitions > 0 {
		_, travel := domain.Totals(events)
		avg = float64(travel) / float64(transitions)
	}
	delta := 0.0
	if w.TravelCeilingMin > 0 && avg < w.TravelCeilingMin {
		delta = w.TimeEfficiency * (w.TravelCeilingMin - avg) / w.TravelCeilingMin
	}
	return delta, &ScoreReason{
		Code:    ReasonTimeEfficiency,
		Message: fmt.Sprintf("Average transfer %.0f min", avg),
		Delta:   delta,
	}
}

func scorePopularity(events []domain.PlannedEvent, w ScoringWeights) (float64, *ScoreReason) {
	sum := 0
	for _, e := range events {
		sum += e.Popularity
	}
	avg := float64(sum) / float64(len(events))
	delta := w.Popularity * (avg - w.PopularityBaseline)
	return delta, &ScoreReason{
		Code:    ReasonPopularity,
		Message: fmt.Sprintf("Average popularity %.0f%%", avg),
		Delta:   delta,
	}
}

func scoreCategorySpread(events []domain.PlannedEvent, w ScoringWeights) (float64, *ScoreReason) {
	distinct := make(map[domain.Category]bool)
	for _, e := range events {
		distinct[e.Category] = true
	}
	delta := w.Diversity * float64(len(distinct)) / float64(len(events))
	return delta, &ScoreReason{
		Code:    ReasonCategorySpread,
		Message: fmt.Sprintf("%d categories across %d events", len(distinct), len(events)),
		Delta:   delta,
	}
}

func scorePinned(events []domain.PlannedEvent, w ScoringWeights) (float64, *ScoreReason) {
	n := 0
	for _, e := range events {
		if e.IsFixed {
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	delta := w.PinnedBonus * float64(n)
	return delta, &ScoreReason{
		Code:    ReasonPinnedKept,
		Message: fmt.Sprintf("Keeps %d pinned event(s) in place", n),
		Delta:   delta,
	}
}

func clampScore(s int) int {
	return max(0, min(ScoreCeiling, s))
}
