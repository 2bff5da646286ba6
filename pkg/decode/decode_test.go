package decode_test

import (
	"testing"

	"github.com/JaimeStill/agent-console/pkg/decode"
)

func TestFromMap(t *testing.T) {
	type target struct {
		Model     string `json:"model"`
		MaxTokens *int   `json:"max_tokens"`
	}

	got, err := decode.FromMap[target](map[string]any{"model": "m", "max_tokens": float64(64)})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}
	if got.Model != "m" || got.MaxTokens == nil || *got.MaxTokens != 64 {
		t.Errorf("FromMap() = %+v", got)
	}

	if _, err := decode.FromMap[target](map[string]any{"max_tokens": "many"}); err == nil {
		t.Error("FromMap() with string for int error = nil")
	}
	if _, err := decode.FromMap[target](map[string]any{"max_tokens": 1.5}); err == nil {
		t.Error("FromMap() with fractional int error = nil")
	}
}
