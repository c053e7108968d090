// Package metrics provides Prometheus metrics for the Animus engine:
// expression compilation and evaluation, fact processing, and guard
// failures.
//
// The Collector owns a private registry so that multiple engines in one
// process do not collide. Its EngineMetrics satisfy the engine's
// observer interface and can be attached directly:
//
//	collector := metrics.NewCollector(cfg, nil)
//	engine := fcl.NewEngine().WithObserver(collector.Engine())
package metrics
