package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/agent-console/internal/api"
	"github.com/JaimeStill/agent-console/internal/config"
	"github.com/JaimeStill/agent-console/internal/infrastructure"
	"github.com/JaimeStill/agent-console/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *infrastructure.Infrastructure) {
	t.Helper()

	cfg, err := config.Parse([]byte("[database]\ndriver = \"memory\"\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Finalize())

	infra, err := infrastructure.NewWithLogger(cfg, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, infra.Start())

	handler, err := api.NewHandler(cfg, infra)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, infra
}

func do(t *testing.T, srv *httptest.Server, owner, method, path, body string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if owner != "" {
		req.Header.Set("X-Owner-ID", owner)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestHandler_HealthChecks(t *testing.T) {
	srv, infra := newServer(t)

	resp, body := do(t, srv, "", "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body)

	resp, _ = do(t, srv, "", "GET", "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	infra.Lifecycle.WaitForStartup()
	resp, _ = do(t, srv, "", "GET", "/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_OwnerRequired(t *testing.T) {
	srv, _ := newServer(t)

	resp, _ := do(t, srv, "", "GET", "/api/agents", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, srv, "alice", "GET", "/api/agents", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_EndToEnd(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := do(t, srv, "alice", "POST", "/api/agents", `{"name":"demo","type":"chat"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var agent struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &agent))

	resp, body = do(t, srv, "alice", "POST", "/api/conversations", `{"agent_id":"`+agent.ID+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var conv struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &conv))

	// completion is disabled by default, so the send fails but keeps the user message
	resp, _ = do(t, srv, "alice", "POST", "/api/conversations/"+conv.ID+"/messages", `{"content":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	resp, body = do(t, srv, "alice", "GET", "/api/conversations/"+conv.ID+"/messages", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var msgs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0]["role"])

	resp, _ = do(t, srv, "bob", "GET", "/api/conversations/"+conv.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_OpenAPIAndMetrics(t *testing.T) {
	srv, _ := newServer(t)

	resp, body := do(t, srv, "", "GET", "/api/openapi.json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	for _, path := range []string{
		"/api/agents",
		"/api/agents/{id}/start",
		"/api/conversations/{id}/agent",
		"/api/conversations/{id}/complete",
		"/api/conversations/{id}/cancel",
		"/api/conversations/{id}/messages",
		"/api/conversations/{id}/messages/{messageId}",
		"/healthz",
	} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.Contains(t, body, `"in": "header"`)
	assert.Contains(t, body, `"name": "X-Owner-ID"`)

	do(t, srv, "alice", "GET", "/api/agents", "")

	assert.Eventually(t, func() bool {
		resp, body := do(t, srv, "", "GET", "/metrics", "")
		return resp.StatusCode == http.StatusOK &&
			strings.Contains(body, "agent_console_http_requests_total") &&
			strings.Contains(body, `endpoint="GET /api/agents"`)
	}, 2*time.Second, 20*time.Millisecond)
}
