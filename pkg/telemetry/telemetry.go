// Package telemetry adapts dashboard events to zap logs and Prometheus counters.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
)

// Logger records every event as a structured zap entry.
func Logger(logger *zap.Logger) dashboard.Telemetry {
	if logger == nil {
		logger = zap.L()
	}
	return dashboard.TelemetryFunc(func(_ context.Context, event string, payload map[string]any) {
		logger.Info(event, payloadFields(payload)...)
	})
}

func payloadFields(payload map[string]any) []zap.Field {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, zap.Any(key, payload[key]))
	}
	return fields
}

// Metrics counts events by name.
type Metrics struct {
	events *prometheus.CounterVec
}

// NewMetrics registers the storedash_events_total counter on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		events: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "storedash_events_total",
				Help: "Total number of dashboard events by name",
			},
			[]string{"event"},
		),
	}
}

// Record implements dashboard.Telemetry.
func (m *Metrics) Record(_ context.Context, event string, _ map[string]any) {
	m.events.WithLabelValues(event).Inc()
}

type fanout []dashboard.Telemetry

// Fanout forwards each event to every non-nil sink.
func Fanout(sinks ...dashboard.Telemetry) dashboard.Telemetry {
	out := make(fanout, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			out = append(out, sink)
		}
	}
	return out
}

func (f fanout) Record(ctx context.Context, event string, payload map[string]any) {
	for _, sink := range f {
		sink.Record(ctx, event, payload)
	}
}

// NewMetricsServer creates an HTTP server serving /metrics (Prometheus) and /healthz.
func NewMetricsServer(addr string, gatherer prometheus.Gatherer) *http.Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	return &http.Server{
		Addr:    addr,
		Handler: mux,
	}
}

type stateLogger struct {
	logger *zap.Logger
}

// StateLogger logs controller state transitions at debug level.
func StateLogger(logger *zap.Logger) dashboard.StateHook {
	if logger == nil {
		logger = zap.L()
	}
	return stateLogger{logger: logger}
}

func (s stateLogger) StateChanged(_ context.Context, state dashboard.State) {
	s.logger.Debug("dashboard state",
		zap.Bool("loading", state.Loading),
		zap.Bool("has_analytics", state.HasAnalytics()),
		zap.String("error", state.Error),
		zap.String("cycle", state.Cycle),
	)
}
