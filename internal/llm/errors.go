package llm

import "errors"

var (
	// ErrOllamaUnavailable means the server could not be reached.
	ErrOllamaUnavailable = errors.New("ollama server unavailable")

	// ErrTimeout means the call ran past its task timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput means the model answered but not in the requested shape.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted means every attempt failed for a reason other than
	// timeout or connectivity.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrDisabled is returned by clients built from a config with Enabled=false.
	ErrDisabled = errors.New("llm disabled")
)

// ErrorCode maps an llm error to a short stable code for logs.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrOllamaUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrDisabled):
		return "DISABLED"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
