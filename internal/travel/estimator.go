package travel

import (
	"fmt"
	"strings"
)

// Estimator approximates transit minutes between two location names.
type Estimator interface {
	Estimate(from, to string) int
}

// Config tunes a ComplexityEstimator.
type Config struct {
	JitterMin   int            `yaml:"jitter_min"`
	JitterMax   int            `yaml:"jitter_max"`
	RankPenalty int            `yaml:"rank_penalty"`
	Ranks       map[string]int `yaml:"ranks"`
}

// DefaultConfig returns the festival-grounds defaults: 5-35 minutes of
// jitter plus 4 minutes per complexity step.
func DefaultConfig() Config {
	ranks := make(map[string]int, len(defaultRanks))
	for k, v := range defaultRanks {
		ranks[k] = v
	}
	return Config{
		JitterMin:   5,
		JitterMax:   35,
		RankPenalty: 4,
		Ranks:       ranks,
	}
}

// defaultRanks orders well-known locations by how hard they are to reach.
// Central squares and the main stage are 0; outlying venues are higher.
var defaultRanks = map[string]int{
	"central square":       0,
	"main stage":           0,
	"central alley":        1,
	"main entrance":        1,
	"food court":           1,
	"culinary arena":       2,
	"gallery":              2,
	"art zone":             2,
	"dance floor":          2,
	"tent 2":               3,
	"creative workshop":    3,
	"lawn":                 4,
	"evening amphitheater": 5,
	"riverside":            6,
}

// ComplexityEstimator adds a rank-difference penalty to bounded random
// jitter. Unknown locations get jitter only.
type ComplexityEstimator struct {
	rand        RandomSource
	jitterMin   int
	jitterMax   int
	rankPenalty int
	ranks       map[string]int
}

// NewComplexityEstimator validates cfg and builds an estimator drawing
// jitter from src.
func NewComplexityEstimator(cfg Config, src RandomSource) (*ComplexityEstimator, error) {
	if src == nil {
		return nil, fmt.Errorf("travel estimator: random source is required")
	}
	if cfg.JitterMin < 1 {
		return nil, fmt.Errorf("travel estimator: jitter_min must be at least 1, got %d", cfg.JitterMin)
	}
	if cfg.JitterMax < cfg.JitterMin {
		return nil, fmt.Errorf("travel estimator: jitter_max %d below jitter_min %d", cfg.JitterMax, cfg.JitterMin)
	}
	if cfg.RankPenalty < 0 {
		return nil, fmt.Errorf("travel estimator: rank_penalty must not be negative, got %d", cfg.RankPenalty)
	}
	ranks := make(map[string]int, len(cfg.Ranks))
	for name, r := range cfg.Ranks {
		ranks[normalize(name)] = r
	}
	return &ComplexityEstimator{
		rand:        src,
		jitterMin:   cfg.JitterMin,
		jitterMax:   cfg.JitterMax,
		rankPenalty: cfg.RankPenalty,
		ranks:       ranks,
	}, nil
}

func (e *ComplexityEstimator) Estimate(from, to string) int {
	minutes := e.rand.Next(e.jitterMin, e.jitterMax)
	rf, okFrom := e.Rank(from)
	rt, okTo := e.Rank(to)
	if okFrom && okTo {
		diff := rf - rt
		if diff < 0 {
			diff = -diff
		}
		minutes += diff * e.rankPenalty
	}
	return minutes
}

// Rank returns the complexity rank of a known location.
func (e *ComplexityEstimator) Rank(location string) (int, bool) {
	r, ok := e.ranks[normalize(location)]
	return r, ok
}

func normalize(location string) string {
	return strings.Join(strings.Fields(strings.ToLower(location)), " ")
}
