package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/agent-console/pkg/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Body)
	return string(body)
}

func TestMetrics_Record(t *testing.T) {
	m := metrics.New("test")

	m.ObserveCompletion("gpt-4o", 20*time.Millisecond, nil)
	m.ObserveCompletion("gpt-4o", 10*time.Millisecond, errors.New("timeout"))
	m.AgentTransition("stopped", "starting")
	m.MessageAppended("user")

	out := scrape(t, m)
	for _, want := range []string{
		`test_completion_requests_total{model="gpt-4o",outcome="success"} 1`,
		`test_completion_requests_total{model="gpt-4o",outcome="error"} 1`,
		`test_agent_status_transitions_total{from="stopped",to="starting"} 1`,
		`test_messages_appended_total{role="user"} 1`,
		`go_goroutines`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestMetrics_Middleware(t *testing.T) {
	m := metrics.New("test")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/agents/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := m.Middleware()(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/agents/abc", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	out := scrape(t, m)
	for _, want := range []string{
		`test_http_requests_total{endpoint="GET /api/agents/{id}",method="GET",status="404"} 1`,
		`test_http_requests_total{endpoint="unmatched",method="GET",status="404"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}
