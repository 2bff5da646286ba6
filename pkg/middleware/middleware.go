// Package middleware provides composable net/http middleware and a stack to apply them.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// System is an ordered middleware stack. The first registered middleware is outermost.
type System interface {
	Use(mw Middleware)
	Apply(h http.Handler) http.Handler
}

type stack struct {
	middlewares []Middleware
}

// New creates an empty middleware stack.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw Middleware) {
	s.middlewares = append(s.middlewares, mw)
}

func (s *stack) Apply(h http.Handler) http.Handler {
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		h = s.middlewares[i](h)
	}
	return h
}

// StatusRecorder captures the status code written by downstream handlers.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

// NewStatusRecorder wraps w, defaulting the status to 200.
func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (r *StatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *StatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
