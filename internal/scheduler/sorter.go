package scheduler

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/dayroute/internal/domain"
)

// CompareIDs orders event IDs numerically when both parse as integers and
// lexically otherwise.
func CompareIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return cmp.Compare(na, nb)
	}
	return strings.Compare(a, b)
}

// tieBreak is the shared fallback for every strategy:
// 1. Nominal start time: earliest first
// 2. Event ID: ascending
func tieBreak(a, b domain.Candidate) int {
	if c := cmp.Compare(a.Event.Time, b.Event.Time); c != 0 {
		return c
	}
	return CompareIDs(a.Event.ID, b.Event.ID)
}

// byStart orders by effective start (pin or nominal), pinned events first
// on equal time.
func byStart(a, b domain.Candidate) int {
	if c := cmp.Compare(a.StartHint(), b.StartHint()); c != 0 {
		return c
	}
	if a.Pinned() != b.Pinned() {
		if a.Pinned() {
			return -1
		}
		return 1
	}
	return tieBreak(a, b)
}

// byPopularity orders by popularity, highest first.
func byPopularity(a, b domain.Candidate) int {
	if c := cmp.Compare(b.Event.Popularity, a.Event.Popularity); c != 0 {
		return c
	}
	return tieBreak(a, b)
}

// CanonicalSort sorts candidates by effective start time with the shared
// tie-break, giving a reproducible base order for every strategy.
func CanonicalSort(cands []domain.Candidate) {
	slices.SortStableFunc(cands, byStart)
}
