package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/agent-console/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	handlers.RespondJSON(w, http.StatusCreated, map[string]string{"name": "helper"})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["name"] != "helper" {
		t.Errorf("body[name] = %q, want helper", body["name"])
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := httptest.NewRecorder()

	handlers.RespondError(w, logger, http.StatusConflict, errors.New("invalid state"))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["error"] != "invalid state" {
		t.Errorf("body[error] = %q, want %q", body["error"], "invalid state")
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Content string `json:"content"`
	}

	tests := []struct {
		name    string
		body    string
		max     int64
		want    string
		wantErr bool
	}{
		{"valid", `{"content":"hi"}`, 1024, "hi", false},
		{"unknown fields allowed", `{"content":"hi","extra":1}`, 1024, "hi", false},
		{"empty", ``, 1024, "", true},
		{"malformed", `{"content":`, 1024, "", true},
		{"trailing data", `{"content":"a"}{"content":"b"}`, 1024, "", true},
		{"too large", `{"content":"` + strings.Repeat("x", 64) + `"}`, 16, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			got, err := handlers.DecodeJSON[payload](w, r, tt.max)
			if tt.wantErr {
				if !errors.Is(err, handlers.ErrBadRequest) {
					t.Errorf("DecodeJSON() error = %v, want ErrBadRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if got.Content != tt.want {
				t.Errorf("Content = %q, want %q", got.Content, tt.want)
			}
		})
	}
}
