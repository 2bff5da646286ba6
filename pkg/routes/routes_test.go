package routes_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/agent-console/pkg/routes"
)

func respond(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}
}

func TestSystem_Build(t *testing.T) {
	sys := routes.New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	sys.RegisterRoute(routes.Route{Method: "GET", Pattern: "/healthz", Handler: respond(http.StatusOK)})
	sys.RegisterGroup(routes.Group{
		Prefix: "/api/agents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: respond(http.StatusOK)},
			{Method: "POST", Pattern: "/{id}/start", Handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-ID", r.PathValue("id"))
				w.WriteHeader(http.StatusAccepted)
			}},
		},
		Children: []routes.Group{{
			Prefix: "/{id}/nested",
			Routes: []routes.Route{{Method: "GET", Pattern: "", Handler: respond(http.StatusTeapot)}},
		}},
	})

	h := sys.Build()

	tests := []struct {
		method     string
		path       string
		wantStatus int
	}{
		{"GET", "/healthz", http.StatusOK},
		{"GET", "/api/agents", http.StatusOK},
		{"POST", "/api/agents/abc/start", http.StatusAccepted},
		{"GET", "/api/agents/abc/nested", http.StatusTeapot},
		{"DELETE", "/api/agents", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}

	if len(sys.Groups()) != 1 || len(sys.Routes()) != 1 {
		t.Errorf("Groups()=%d Routes()=%d, want 1 and 1", len(sys.Groups()), len(sys.Routes()))
	}
}
