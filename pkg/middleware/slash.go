package middleware

import (
	"net/http"
	"strings"
)

// TrimSlash redirects paths with a trailing slash to the canonical form without it.
// The root path is left alone and the query string is preserved.
func TrimSlash() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if len(path) <= 1 || !strings.HasSuffix(path, "/") {
				next.ServeHTTP(w, r)
				return
			}

			target := strings.TrimRight(path, "/")
			if target == "" {
				target = "/"
			}
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
	}
}
