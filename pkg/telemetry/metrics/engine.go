package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"persona-hq/animus/pkg/config"
)

// EngineMetrics tracks expression compilation and evaluation.
//
// Metrics:
//   - animus_engine_compilations_total: compile count by outcome
//   - animus_engine_compile_duration_seconds: compile latency
//   - animus_engine_cache_hits_total: compile-cache hits
//   - animus_engine_evaluations_total: evaluation count by outcome
//   - animus_engine_evaluation_duration_seconds: evaluation latency
type EngineMetrics struct {
	compilationsTotal  *prometheus.CounterVec
	compileDuration    prometheus.Histogram
	cacheHitsTotal     prometheus.Counter
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
}

func newEngineMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *EngineMetrics {
	em := &EngineMetrics{
		compilationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compilations_total",
				Help:      "Total number of expression compilations",
			},
			[]string{"status"},
		),

		compileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "compile_duration_seconds",
				Help:      "Duration of expression compilation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~260ms
			},
		),

		cacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of compile-cache hits",
			},
		),

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of expression evaluations",
			},
			[]string{"status"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of expression evaluation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
			},
		),
	}

	registry.MustRegister(
		em.compilationsTotal,
		em.compileDuration,
		em.cacheHitsTotal,
		em.evaluationsTotal,
		em.evaluationDuration,
	)

	return em
}

// ObserveCompile records one compile outcome.
func (em *EngineMetrics) ObserveCompile(duration time.Duration, cacheHit bool, err error) {
	em.compilationsTotal.WithLabelValues(statusLabel(err)).Inc()
	em.compileDuration.Observe(duration.Seconds())
	if cacheHit {
		em.cacheHitsTotal.Inc()
	}
}

// ObserveEvaluation records one evaluation outcome.
func (em *EngineMetrics) ObserveEvaluation(duration time.Duration, err error) {
	em.evaluationsTotal.WithLabelValues(statusLabel(err)).Inc()
	em.evaluationDuration.Observe(duration.Seconds())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
