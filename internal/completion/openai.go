package completion

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type openAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewOpenAI creates a provider for any OpenAI-compatible chat completions endpoint.
func NewOpenAI(cfg *Config, logger *slog.Logger) Provider {
	key := cfg.APIKey
	if key == "" {
		key = "sk-none"
	}

	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{}

	return &openAIProvider{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.TimeoutDuration(),
		logger:  logger.With("system", "completion", "provider", "openai"),
	}
}

func (p *openAIProvider) Name() string {
	return "openai"
}

func (p *openAIProvider) Generate(ctx context.Context, history []Turn, opts Options) (string, error) {
	if len(history) == 0 {
		return "", ErrEmptyHistory
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = p.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := p.request(history, opts)

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("chat completion: %w", ctxErr)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	p.logger.Debug("completion generated",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	return resp.Choices[0].Message.Content, nil
}

func (p *openAIProvider) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (p *openAIProvider) request(history []Turn, opts Options) openai.ChatCompletionRequest {
	model := opts.Model
	if model == "" {
		model = p.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if prompt := strings.TrimSpace(opts.SystemPrompt); prompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt,
		})
	}
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: opts.MaxTokens,
	}
	if opts.Temperature != nil {
		req.Temperature = float32(*opts.Temperature)
		// omitempty drops an exact zero from the request body.
		if req.Temperature == 0 {
			req.Temperature = math.SmallestNonzeroFloat32
		}
	}
	return req
}
