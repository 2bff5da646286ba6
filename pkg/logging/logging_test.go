package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/JaimeStill/agent-console/pkg/logging"
)

func TestConfig_Finalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logging.Config
		env     map[string]string
		want    logging.Config
		wantErr bool
	}{
		{"defaults", logging.Config{}, nil, logging.Config{Level: logging.LevelInfo, Format: logging.FormatText}, false},
		{"env override", logging.Config{Level: logging.LevelWarn}, map[string]string{"TEST_LOG_LEVEL": "debug", "TEST_LOG_FORMAT": "json"}, logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON}, false},
		{"bad level", logging.Config{Level: "verbose"}, nil, logging.Config{}, true},
		{"bad format", logging.Config{Format: "xml"}, nil, logging.Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := tt.cfg
			err := cfg.Finalize(&logging.Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"})
			if tt.wantErr {
				if err == nil {
					t.Error("Finalize() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Finalize() error = %v", err)
			}
			if cfg != tt.want {
				t.Errorf("Finalize() = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{Level: logging.LevelWarn, Format: logging.FormatJSON}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "system", "agents")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Error("info record emitted at warn level")
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, out)
	}
	if rec["msg"] != "shown" || rec["system"] != "agents" {
		t.Errorf("record = %v", rec)
	}
}
