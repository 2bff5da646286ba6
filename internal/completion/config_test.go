package completion_test

import (
	"testing"
	"time"

	"github.com/JaimeStill/agent-console/internal/completion"
)

func TestConfig_Finalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     completion.Config
		wantErr bool
	}{
		{"disabled defaults", completion.Config{}, false},
		{"enabled with base url", completion.Config{Enabled: true, BaseURL: "http://localhost:11434/v1"}, false},
		{"enabled without endpoint", completion.Config{Enabled: true}, true},
		{"bad timeout", completion.Config{Timeout: "soon"}, true},
		{"negative timeout", completion.Config{Timeout: "-1s"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg.TimeoutDuration() <= 0 {
				t.Errorf("TimeoutDuration() = %v", cfg.TimeoutDuration())
			}
		})
	}
}

func TestConfig_Env(t *testing.T) {
	t.Setenv("TEST_COMPLETION_ENABLED", "true")
	t.Setenv("TEST_COMPLETION_API_KEY", "sk-test")
	t.Setenv("TEST_COMPLETION_TIMEOUT", "15s")

	cfg := completion.Config{}
	err := cfg.Finalize(&completion.Env{
		Enabled: "TEST_COMPLETION_ENABLED",
		APIKey:  "TEST_COMPLETION_API_KEY",
		Timeout: "TEST_COMPLETION_TIMEOUT",
	})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if !cfg.Enabled || cfg.APIKey != "sk-test" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.TimeoutDuration() != 15*time.Second {
		t.Errorf("TimeoutDuration() = %v, want 15s", cfg.TimeoutDuration())
	}
}
