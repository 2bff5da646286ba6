package agents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/JaimeStill/agent-console/internal/completion"
	"github.com/JaimeStill/agent-console/pkg/decode"
)

// Configuration defaults.
const (
	DefaultTemperature    = 0.7
	DefaultMaxTokens      = 4096
	DefaultTimeout        = 60.0
	DefaultCodeLanguage   = "python"
	DefaultMaxCodeLines   = 100
	DefaultSandboxTimeout = 30.0

	MaxTimeout            = 3600.0
	maxSystemPromptLength = 8000
)

var codeLanguages = []string{"python", "javascript", "bash"}

var (
	commonKeys  = []string{"model", "temperature", "max_tokens", "timeout", "system_prompt"}
	codeActKeys = []string{"enable_code_execution", "code_language", "max_code_lines", "sandbox_timeout", "enable_auto_retry"}
)

// Config is the validated agent configuration. Unrecognized options are kept in
// Extra and written back unchanged.
type Config struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      float64
	SystemPrompt string
	CodeAct      *CodeActConfig
	Extra        map[string]any
}

// CodeActConfig holds options that only apply to codeact agents.
type CodeActConfig struct {
	EnableCodeExecution bool
	CodeLanguage        string
	MaxCodeLines        int
	SandboxTimeout      float64
	EnableAutoRetry     bool
}

// fields mirrors the recognized JSON options. Pointers distinguish omitted from zero.
type fields struct {
	Model               *string  `json:"model"`
	Temperature         *float64 `json:"temperature"`
	MaxTokens           *int     `json:"max_tokens"`
	Timeout             *float64 `json:"timeout"`
	SystemPrompt        *string  `json:"system_prompt"`
	EnableCodeExecution *bool    `json:"enable_code_execution"`
	CodeLanguage        *string  `json:"code_language"`
	MaxCodeLines        *int     `json:"max_code_lines"`
	SandboxTimeout      *float64 `json:"sandbox_timeout"`
	EnableAutoRetry     *bool    `json:"enable_auto_retry"`
}

// ParseConfig validates raw JSON options for an agent of type t and applies defaults.
// Empty input yields the defaults. Codeact options on other types are rejected.
func ParseConfig(t Type, raw json.RawMessage) (Config, error) {
	opts := map[string]any{}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &opts); err != nil {
			return Config{}, validationError("config must be a JSON object: %v", err)
		}
	}

	known := make(map[string]any)
	extra := make(map[string]any)
	for key, value := range opts {
		switch {
		case slices.Contains(commonKeys, key):
			known[key] = value
		case slices.Contains(codeActKeys, key):
			if t != TypeCodeAct {
				return Config{}, validationError("config option %q only applies to codeact agents", key)
			}
			known[key] = value
		default:
			extra[key] = value
		}
	}

	f, err := decode.FromMap[fields](known)
	if err != nil {
		return Config{}, validationError("config: %v", err)
	}

	cfg := Config{
		Model:        deref(f.Model, ""),
		Temperature:  deref(f.Temperature, DefaultTemperature),
		MaxTokens:    deref(f.MaxTokens, DefaultMaxTokens),
		Timeout:      deref(f.Timeout, DefaultTimeout),
		SystemPrompt: deref(f.SystemPrompt, ""),
	}
	if len(extra) > 0 {
		cfg.Extra = extra
	}
	if t == TypeCodeAct {
		cfg.CodeAct = &CodeActConfig{
			EnableCodeExecution: deref(f.EnableCodeExecution, true),
			CodeLanguage:        deref(f.CodeLanguage, DefaultCodeLanguage),
			MaxCodeLines:        deref(f.MaxCodeLines, DefaultMaxCodeLines),
			SandboxTimeout:      deref(f.SandboxTimeout, DefaultSandboxTimeout),
			EnableAutoRetry:     deref(f.EnableAutoRetry, true),
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return validationError("temperature must be between 0.0 and 2.0")
	}
	if c.MaxTokens <= 0 {
		return validationError("max_tokens must be positive")
	}
	if c.Timeout <= 0 || c.Timeout > MaxTimeout {
		return validationError("timeout must be in (0, %g] seconds", MaxTimeout)
	}
	if len([]rune(c.SystemPrompt)) > maxSystemPromptLength {
		return validationError("system_prompt exceeds %d characters", maxSystemPromptLength)
	}
	if c.CodeAct != nil {
		if !slices.Contains(codeLanguages, c.CodeAct.CodeLanguage) {
			return validationError("code_language must be one of %v", codeLanguages)
		}
		if c.CodeAct.MaxCodeLines <= 0 {
			return validationError("max_code_lines must be positive")
		}
		if c.CodeAct.SandboxTimeout <= 0 || c.CodeAct.SandboxTimeout > MaxTimeout {
			return validationError("sandbox_timeout must be in (0, %g] seconds", MaxTimeout)
		}
	}
	return nil
}

// TimeoutDuration returns the per-call timeout.
func (c Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout * float64(time.Second))
}

// CompletionOptions converts the configuration into provider options.
func (c Config) CompletionOptions() completion.Options {
	temperature := c.Temperature
	return completion.Options{
		Model:        c.Model,
		Temperature:  &temperature,
		MaxTokens:    c.MaxTokens,
		SystemPrompt: c.SystemPrompt,
		Timeout:      c.TimeoutDuration(),
	}
}

// Clone returns a copy that shares no maps with c.
func (c Config) Clone() Config {
	out := c
	if c.CodeAct != nil {
		ca := *c.CodeAct
		out.CodeAct = &ca
	}
	if c.Extra != nil {
		out.Extra = maps.Clone(c.Extra)
	}
	return out
}

// MarshalJSON flattens recognized options and extras into a single object.
// Recognized options take precedence over extras of the same name.
func (c Config) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+10)
	maps.Copy(out, c.Extra)

	if c.Model != "" {
		out["model"] = c.Model
	}
	out["temperature"] = c.Temperature
	out["max_tokens"] = c.MaxTokens
	out["timeout"] = c.Timeout
	if c.SystemPrompt != "" {
		out["system_prompt"] = c.SystemPrompt
	}
	if ca := c.CodeAct; ca != nil {
		out["enable_code_execution"] = ca.EnableCodeExecution
		out["code_language"] = ca.CodeLanguage
		out["max_code_lines"] = ca.MaxCodeLines
		out["sandbox_timeout"] = ca.SandboxTimeout
		out["enable_auto_retry"] = ca.EnableAutoRetry
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal agent config: %w", err)
	}
	return data, nil
}

func deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
