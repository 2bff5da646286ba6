package completion_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/agent-console/internal/completion"
	"github.com/JaimeStill/agent-console/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatServer(t *testing.T, handle func(w http.ResponseWriter, r *http.Request, req chatRequest)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		handle(w, r, req)
	})
	mux.HandleFunc("GET /v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"id":"test-model","object":"model"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func reply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]string{"role": "assistant", "content": content},
		}},
		"usage": map[string]int{"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5},
	})
}

func newProvider(url string) completion.Provider {
	return completion.NewOpenAI(&completion.Config{
		Enabled: true,
		BaseURL: url + "/v1",
		APIKey:  "test",
		Model:   "default-model",
		Timeout: "5s",
	}, logging.Discard())
}

func TestOpenAI_Generate(t *testing.T) {
	var got chatRequest
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request, req chatRequest) {
		got = req
		reply(w, "hello back")
	})

	temp := 0.5
	text, err := newProvider(srv.URL).Generate(context.Background(), []completion.Turn{
		{Role: completion.RoleUser, Content: "hi"},
		{Role: completion.RoleAssistant, Content: "hello"},
		{Role: completion.RoleUser, Content: "how are you"},
	}, completion.Options{SystemPrompt: "be brief", Temperature: &temp, MaxTokens: 64})

	require.NoError(t, err)
	assert.Equal(t, "hello back", text)
	assert.Equal(t, "default-model", got.Model)
	assert.Equal(t, 64, got.MaxTokens)
	assert.InDelta(t, 0.5, got.Temperature, 0.001)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "be brief", got.Messages[0].Content)
	assert.Equal(t, "how are you", got.Messages[3].Content)
}

func TestOpenAI_ZeroTemperatureSent(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		reply(w, "ok")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	zero := 0.0
	_, err := newProvider(srv.URL).Generate(context.Background(),
		[]completion.Turn{{Role: completion.RoleUser, Content: "hi"}},
		completion.Options{Temperature: &zero})

	require.NoError(t, err)
	require.Contains(t, body, "temperature")
	assert.InDelta(t, 0.0, body["temperature"], 1e-6)
}

func TestOpenAI_AgentTimeoutExceedsDefault(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request, req chatRequest) {
		time.Sleep(300 * time.Millisecond)
		reply(w, "slow reply")
	})

	p := completion.NewOpenAI(&completion.Config{
		Enabled: true,
		BaseURL: srv.URL + "/v1",
		APIKey:  "test",
		Model:   "default-model",
		Timeout: "100ms",
	}, logging.Discard())

	text, err := p.Generate(context.Background(),
		[]completion.Turn{{Role: completion.RoleUser, Content: "hi"}},
		completion.Options{Timeout: 2 * time.Second})

	require.NoError(t, err)
	assert.Equal(t, "slow reply", text)
}

func TestOpenAI_ModelOverride(t *testing.T) {
	var model string
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request, req chatRequest) {
		model = req.Model
		reply(w, "ok")
	})

	_, err := newProvider(srv.URL).Generate(context.Background(),
		[]completion.Turn{{Role: completion.RoleUser, Content: "hi"}},
		completion.Options{Model: "agent-model"})

	require.NoError(t, err)
	assert.Equal(t, "agent-model", model)
}

func TestOpenAI_Failures(t *testing.T) {
	tests := []struct {
		name          string
		handle        func(w http.ResponseWriter, r *http.Request, req chatRequest)
		opts          completion.Options
		wantRetryable bool
		wantTimeout   bool
		wantIs        error
	}{
		{
			name: "upstream 503",
			handle: func(w http.ResponseWriter, r *http.Request, req chatRequest) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			},
			wantRetryable: true,
		},
		{
			name: "bad request",
			handle: func(w http.ResponseWriter, r *http.Request, req chatRequest) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":{"message":"bad model","type":"invalid_request_error"}}`))
			},
		},
		{
			name: "no choices",
			handle: func(w http.ResponseWriter, r *http.Request, req chatRequest) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
			},
			wantIs: completion.ErrEmptyResponse,
		},
		{
			name: "timeout",
			handle: func(w http.ResponseWriter, r *http.Request, req chatRequest) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			opts:          completion.Options{Timeout: 50 * time.Millisecond},
			wantRetryable: true,
			wantTimeout:   true,
			wantIs:        context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, tt.handle)

			_, err := newProvider(srv.URL).Generate(context.Background(),
				[]completion.Turn{{Role: completion.RoleUser, Content: "hi"}}, tt.opts)

			require.Error(t, err)
			assert.Equal(t, tt.wantRetryable, completion.IsRetryable(err), "IsRetryable(%v)", err)
			assert.Equal(t, tt.wantTimeout, completion.IsTimeout(err), "IsTimeout(%v)", err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestOpenAI_EmptyHistory(t *testing.T) {
	_, err := newProvider("http://127.0.0.1:1").Generate(context.Background(), nil, completion.Options{})
	assert.ErrorIs(t, err, completion.ErrEmptyHistory)
}

func TestOpenAI_Ping(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request, req chatRequest) {})
	assert.NoError(t, newProvider(srv.URL).Ping(context.Background()))
}

func TestUnavailable(t *testing.T) {
	p := completion.Unavailable()

	text, err := p.Generate(context.Background(), []completion.Turn{{Role: "user", Content: "hi"}}, completion.Options{})
	assert.Empty(t, text)
	assert.True(t, errors.Is(err, completion.ErrUnavailable))
	assert.ErrorIs(t, p.Ping(context.Background()), completion.ErrUnavailable)
}
