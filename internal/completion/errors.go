package completion

import (
	"context"
	"errors"
	"net"

	"github.com/sashabaranov/go-openai"
)

var (
	// ErrUnavailable is returned when no provider is configured.
	ErrUnavailable = errors.New("completion provider unavailable")

	// ErrEmptyResponse is returned when the provider answers without any choice.
	ErrEmptyResponse = errors.New("completion provider returned no choices")

	// ErrEmptyHistory is returned when Generate is called without turns.
	ErrEmptyHistory = errors.New("completion history is empty")
)

// IsRetryable reports whether err is transient: timeouts, network failures,
// rate limiting and upstream 5xx responses.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrUnavailable) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if code := statusCode(err); code != 0 {
		return code == 429 || code >= 500
	}
	return false
}

// IsTimeout reports whether err was caused by a deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
