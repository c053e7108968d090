package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"persona-hq/animus/pkg/config"
)

// FactMetrics tracks fact-list evaluation.
//
// Metrics:
//   - animus_engine_fact_evaluations_total: fact-list runs by outcome
//   - animus_engine_directives_total: applied directives by kind
//   - animus_engine_guard_failures_total: guard evaluation failures
type FactMetrics struct {
	evaluationsTotal *prometheus.CounterVec
	directivesTotal  *prometheus.CounterVec
	guardFailures    prometheus.Counter
}

func newFactMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *FactMetrics {
	fm := &FactMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "fact_evaluations_total",
				Help:      "Total number of fact-list evaluations",
			},
			[]string{"status"},
		),

		directivesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "directives_total",
				Help:      "Total number of applied directives by kind",
			},
			[]string{"kind"},
		),

		guardFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "guard_failures_total",
				Help:      "Total number of guard evaluation failures",
			},
		),
	}

	registry.MustRegister(fm.evaluationsTotal, fm.directivesTotal, fm.guardFailures)
	return fm
}

// ObserveEvaluation records one fact-list run.
func (fm *FactMetrics) ObserveEvaluation(err error) {
	fm.evaluationsTotal.WithLabelValues(statusLabel(err)).Inc()
}

// ObserveDirective records one applied directive.
func (fm *FactMetrics) ObserveDirective(kind string) {
	fm.directivesTotal.WithLabelValues(kind).Inc()
}

// ObserveGuardFailure records one guard evaluation failure.
func (fm *FactMetrics) ObserveGuardFailure() {
	fm.guardFailures.Inc()
}
