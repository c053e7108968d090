// Package telemetry groups the observability sub-packages: structured
// logging and Prometheus metrics.
package telemetry
