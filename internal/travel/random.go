package travel

import (
	"math/rand/v2"
	"sync"
)

// RandomSource yields integers in the inclusive range [min, max].
// Implementations must be safe for concurrent use.
type RandomSource interface {
	Next(min, max int) int
}

// SeededSource is a goroutine-safe PCG source. Two sources created with the
// same seed produce the same sequence.
type SeededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource creates a SeededSource from seed.
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSource) Next(min, max int) int {
	if max <= min {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.IntN(max-min+1)
}

// Constant always returns n clamped into the requested range.
type Constant int

func (c Constant) Next(min, max int) int {
	return clamp(int(c), min, max)
}

// Sequence cycles through fixed values, clamping each into the requested
// range. Useful for tests that need varying but predictable jitter.
type Sequence struct {
	mu     sync.Mutex
	values []int
	pos    int
}

func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) Next(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return min
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return clamp(v, min, max)
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if max >= min && v > max {
		return max
	}
	return v
}
