package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"persona-hq/animus/pkg/msgfilter"
)

// Validate checks the configuration for values that would fail at
// runtime. It is called by Load; call it directly when building a
// Config programmatically.
func (c *Config) Validate() error {
	if c.Engine.DefaultContextFilter != "" {
		if _, err := msgfilter.Compile(c.Engine.DefaultContextFilter); err != nil {
			return fmt.Errorf("engine.default_context_filter: %w", err)
		}
	}

	switch c.Store.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("store.backend: unknown backend %q (want sqlite or memory)", c.Store.Backend)
	}
	if c.Store.Backend == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store.path: required for the sqlite backend")
	}

	if c.Store.Retention.Enabled {
		if c.Store.Retention.MaxAge < time.Hour {
			return fmt.Errorf("store.retention.max_age: %s is below the 1h minimum", c.Store.Retention.MaxAge)
		}
		if _, err := cron.ParseStandard(c.Store.Retention.Schedule); err != nil {
			return fmt.Errorf("store.retention.schedule: %w", err)
		}
	}

	if c.Trace.Enabled && c.Trace.Path == "" {
		return fmt.Errorf("trace.path: required when tracing is enabled")
	}
	if c.Trace.MaxRecords < 0 {
		return fmt.Errorf("trace.max_records: must not be negative")
	}

	if c.Loader.Watch && c.Loader.DebounceInterval <= 0 {
		return fmt.Errorf("loader.debounce_interval: must be positive in watch mode")
	}

	switch c.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level: unknown level %q", c.Telemetry.Logging.Level)
	}

	switch c.Telemetry.Logging.Format {
	case "json", "text", "console":
	default:
		return fmt.Errorf("telemetry.logging.format: unknown format %q", c.Telemetry.Logging.Format)
	}

	return nil
}
