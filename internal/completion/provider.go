package completion

import (
	"log/slog"

	"github.com/JaimeStill/agent-console/pkg/metrics"
)

// New returns the configured provider wrapped with instrumentation.
// A disabled configuration yields Unavailable.
func New(cfg *Config, m *metrics.Metrics, logger *slog.Logger) Provider {
	var p Provider = Unavailable()
	if cfg.Enabled {
		p = NewOpenAI(cfg, logger)
	} else {
		logger.Warn("completion provider disabled; message sends will fail", "system", "completion")
	}
	return Instrument(p, m, cfg.Model, logger)
}
