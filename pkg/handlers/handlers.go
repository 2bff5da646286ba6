// Package handlers provides JSON request and response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// ErrBadRequest marks request bodies that could not be decoded.
var ErrBadRequest = errors.New("bad request")

// RespondJSON writes data as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes {"error": "..."} with the given status code.
// Server errors are logged at error level, client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "status", status)
	} else {
		logger.Warn("request rejected", "error", err, "status", status)
	}
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// DecodeJSON decodes the request body into T, reading at most maxBytes.
// Unknown fields are allowed; trailing data is rejected.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (T, error) {
	var v T

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)

	if err := dec.Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return v, fmt.Errorf("%w: body exceeds %d bytes", ErrBadRequest, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return v, fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return v, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	if dec.More() {
		return v, fmt.Errorf("%w: unexpected data after JSON body", ErrBadRequest)
	}

	return v, nil
}
