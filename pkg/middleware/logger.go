package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// Logger logs one line per request after the handler returns.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := NewStatusRecorder(w)

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"status", rec.Status,
				"addr", r.RemoteAddr,
				"duration", time.Since(start),
			)
		})
	}
}

// Recover converts handler panics into a 500 response and logs the panic value.
func Recover(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Error("panic in handler", "panic", v, "method", r.Method, "uri", r.URL.RequestURI())
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
