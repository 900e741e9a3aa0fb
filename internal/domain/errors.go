package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientInput matches any *InsufficientInputError via errors.Is.
	ErrInsufficientInput = errors.New("not enough events")

	// ErrPinnedOverlap indicates two pinned events occupy overlapping time.
	ErrPinnedOverlap = errors.New("pinned events overlap")

	// ErrVariantNotFound indicates a select against an unknown variant ID.
	ErrVariantNotFound = errors.New("route variant not found")

	// ErrInvalidVariant indicates an itinerary that breaks ordering,
	// timing, or totals invariants.
	ErrInvalidVariant = errors.New("invalid route variant")
)

// InsufficientInputError is returned when fewer events than a generation
// path requires were supplied. Callers should ask the user to add events.
type InsufficientInputError struct {
	Required int
	Got      int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("need at least %d events to build routes, got %d", e.Required, e.Got)
}

func (e *InsufficientInputError) Is(target error) bool {
	return target == ErrInsufficientInput
}
