package conversations

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/agent-console/internal/completion"
)

// Domain errors for conversation operations.
var (
	ErrNotFound         = errors.New("conversation not found")
	ErrValidation       = errors.New("invalid conversation request")
	ErrImmutable        = errors.New("messages are immutable")
	ErrInvalidState     = errors.New("invalid conversation state")
	ErrGenerationFailed = errors.New("reply generation failed")

	// ErrAgentNotFound reports a missing, deleted or foreign agent. It matches ErrNotFound.
	ErrAgentNotFound = fmt.Errorf("%w: agent unavailable", ErrNotFound)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsRetryable reports whether err is a generation failure the caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrGenerationFailed) && completion.IsRetryable(err)
}

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrImmutable), errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrGenerationFailed):
		if completion.IsTimeout(err) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
