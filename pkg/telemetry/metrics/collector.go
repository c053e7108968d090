package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"persona-hq/animus/pkg/config"
)

// Collector owns all Prometheus metrics for one Animus engine: metric
// registration, the registry, and the per-concern metric groups.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	engineMetrics *EngineMetrics
	factMetrics   *FactMetrics
}

// NewCollector creates a metrics collector with the given configuration
// and registry. A nil registry gets a fresh private one.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "animus"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "engine"
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		engineMetrics: newEngineMetrics(cfg, registry),
		factMetrics:   newFactMetrics(cfg, registry),
	}
}

// Engine returns the expression-engine metric group. It satisfies the
// engine's observer interface.
func (c *Collector) Engine() *EngineMetrics {
	return c.engineMetrics
}

// Facts returns the fact-evaluation metric group.
func (c *Collector) Facts() *FactMetrics {
	return c.factMetrics
}

// Registry returns the underlying Prometheus registry, for tests and
// for embedding into an existing metrics endpoint.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
