package agents

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for agent operations.
var (
	ErrNotFound     = errors.New("agent not found")
	ErrDuplicate    = errors.New("agent name already exists")
	ErrValidation   = errors.New("invalid agent")
	ErrInvalidState = errors.New("invalid agent state transition")
	ErrRuntime      = errors.New("agent runtime failed")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrRuntime):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
