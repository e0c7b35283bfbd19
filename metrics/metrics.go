// Package metrics defines the Prometheus instrumentation platypus
// exposes for command throughput and refresh activity, following the
// CounterVec/HistogramVec MetricSet pattern used for cache
// instrumentation elsewhere in the retrieved example repos.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Set is the registered collector group for one server instance.
type Set struct {
	CommandsTotal  *prometheus.CounterVec
	RefreshesTotal *prometheus.CounterVec
	RefreshLatency *prometheus.HistogramVec
	SourceErrors   *prometheus.CounterVec
}

var latencyBuckets = []float64{1, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096}

// New builds a Set of collectors. reg, when non-nil, receives all
// metrics registered; pass nil to use prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Set {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	s := &Set{
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "platypus_commands_total",
			Help: "Commands handled, by command kind and outcome.",
		}, []string{"command", "outcome"}),

		RefreshesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "platypus_refreshes_total",
			Help: "Source refreshes performed, by source name and outcome.",
		}, []string{"source", "outcome"}),

		RefreshLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "platypus_refresh_latency_ms",
			Help:    "Source call latency in milliseconds.",
			Buckets: latencyBuckets,
		}, []string{"source"}),

		SourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "platypus_source_errors_total",
			Help: "Source calls that produced no value, by source name.",
		}, []string{"source"}),
	}

	reg.MustRegister(s.CommandsTotal, s.RefreshesTotal, s.RefreshLatency, s.SourceErrors)
	return s
}

// ObserveCommand records one handled command.
func (s *Set) ObserveCommand(command, outcome string) {
	s.CommandsTotal.WithLabelValues(command, outcome).Inc()
}

// ObserveRefresh records one source refresh, including its latency.
func (s *Set) ObserveRefresh(source, outcome string, started time.Time) {
	s.RefreshesTotal.WithLabelValues(source, outcome).Inc()
	s.RefreshLatency.WithLabelValues(source).Observe(float64(time.Since(started).Milliseconds()))
	if outcome != "hit" {
		s.SourceErrors.WithLabelValues(source).Inc()
	}
}
