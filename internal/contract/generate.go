package contract

import (
	"errors"

	"github.com/alexanderramin/dayroute/internal/domain"
)

// GenerateMode picks the local strategy trio.
type GenerateMode string

const (
	// ModeClassic runs time, popularity and balanced.
	ModeClassic GenerateMode = "classic"
	// ModeCoverage runs short, medium and full, mirroring the remote slots.
	ModeCoverage GenerateMode = "coverage"
)

type GenerateRequest struct {
	Candidates  []domain.Candidate
	Constraints domain.Constraints
	Mode        GenerateMode
	AllowRemote bool
}

// NewGenerateRequest returns a classic-mode request with default
// constraints and the remote path enabled.
func NewGenerateRequest(cands []domain.Candidate) GenerateRequest {
	return GenerateRequest{
		Candidates:  cands,
		Constraints: domain.DefaultConstraints(),
		Mode:        ModeClassic,
		AllowRemote: true,
	}
}

type GenerateResponse struct {
	GenerationID   string                `json:"generationId"`
	Variants       []domain.RouteVariant `json:"variants"`
	Source         domain.VariantSource  `json:"source"`
	Mode           GenerateMode          `json:"mode"`
	FallbackReason string                `json:"fallbackReason,omitempty"`
}

// Best returns the rank 1 variant.
func (r *GenerateResponse) Best() (domain.RouteVariant, bool) {
	for _, v := range r.Variants {
		if v.Rank == 1 {
			return v, true
		}
	}
	return domain.RouteVariant{}, false
}

type GenerateErrorCode string

const (
	ErrInsufficientInput GenerateErrorCode = "INSUFFICIENT_INPUT"
	ErrInvalidInput      GenerateErrorCode = "INVALID_INPUT"
	ErrInternalError     GenerateErrorCode = "INTERNAL_ERROR"
)

type GenerateError struct {
	Code    GenerateErrorCode
	Message string
	Err     error
}

func (e *GenerateError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *GenerateError) Unwrap() error { return e.Err }

// CodeOf returns the code of a *GenerateError anywhere in err's chain, or
// ErrInternalError.
func CodeOf(err error) GenerateErrorCode {
	var ge *GenerateError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ErrInternalError
}
