// Package metrics exposes Prometheus instrumentation for HTTP traffic,
// completion calls, agent status transitions and message appends.
// Collectors are registered on a dedicated registry owned by Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/agent-console/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the registry and every collector the service records to.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	completionRequests *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	agentTransitions   *prometheus.CounterVec
	messagesAppended   *prometheus.CounterVec
}

// New creates collectors under namespace on a fresh registry, including Go runtime and process collectors.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		completionRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completion_requests_total",
				Help:      "Total number of completion provider requests",
			},
			[]string{"model", "outcome"},
		),
		completionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "completion_request_duration_seconds",
				Help:      "Completion provider request duration in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"model"},
		),
		agentTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "agent_status_transitions_total",
				Help:      "Committed agent status transitions",
			},
			[]string{"from", "to"},
		),
		messagesAppended: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_appended_total",
				Help:      "Messages appended to conversations",
			},
			[]string{"role"},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and duration labelled by the matched route pattern.
func (m *Metrics) Middleware() middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := middleware.NewStatusRecorder(w)

			next.ServeHTTP(rec, r)

			endpoint := r.Pattern
			if endpoint == "" {
				endpoint = "unmatched"
			}
			m.httpRequests.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.Status)).Inc()
			m.httpDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		})
	}
}

// ObserveCompletion records one completion call.
func (m *Metrics) ObserveCompletion(model string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.completionRequests.WithLabelValues(model, outcome).Inc()
	m.completionDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}

// AgentTransition records a committed status change.
func (m *Metrics) AgentTransition(from, to string) {
	m.agentTransitions.WithLabelValues(from, to).Inc()
}

// MessageAppended records a persisted message.
func (m *Metrics) MessageAppended(role string) {
	m.messagesAppended.WithLabelValues(role).Inc()
}
