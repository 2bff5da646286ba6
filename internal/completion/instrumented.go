package completion

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/agent-console/pkg/metrics"
)

type instrumented struct {
	next         Provider
	metrics      *metrics.Metrics
	defaultModel string
	logger       *slog.Logger
}

// Instrument wraps p so every Generate call is timed, counted and logged.
func Instrument(p Provider, m *metrics.Metrics, defaultModel string, logger *slog.Logger) Provider {
	return &instrumented{
		next:         p,
		metrics:      m,
		defaultModel: defaultModel,
		logger:       logger.With("system", "completion"),
	}
}

func (i *instrumented) Generate(ctx context.Context, history []Turn, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = i.defaultModel
	}

	start := time.Now()
	reply, err := i.next.Generate(ctx, history, opts)
	elapsed := time.Since(start)

	i.metrics.ObserveCompletion(model, elapsed, err)
	if err != nil {
		i.logger.Warn("completion failed",
			"provider", i.next.Name(),
			"model", model,
			"turns", len(history),
			"duration", elapsed,
			"retryable", IsRetryable(err),
			"error", err,
		)
		return "", err
	}

	i.logger.Info("completion succeeded",
		"provider", i.next.Name(),
		"model", model,
		"turns", len(history),
		"duration", elapsed,
	)
	return reply, nil
}

func (i *instrumented) Ping(ctx context.Context) error {
	return i.next.Ping(ctx)
}

func (i *instrumented) Name() string {
	return i.next.Name()
}
