package config

import "time"

// Default creates a Config with all defaults applied. The result runs
// without any external files: memory storage, no watcher, no trace
// recording.
func Default() *Config {
	cfg := &Config{}
	// Booleans that default to true are set here; loading unmarshals
	// over this struct, so an explicit false in the file still wins.
	cfg.Telemetry.Metrics.Enabled = true
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills zero-valued fields with their documented
// defaults. Explicit values, including explicit falses for booleans
// that default to false, are left untouched.
func (c *Config) applyDefaults() {
	if c.Engine.DefaultContextFilter == "" {
		c.Engine.DefaultContextFilter = "chars < 4000"
	}

	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	if c.Store.Path == "" {
		c.Store.Path = "animus.db"
	}
	if c.Store.Retention.MaxAge == 0 {
		c.Store.Retention.MaxAge = 720 * time.Hour
	}
	if c.Store.Retention.Schedule == "" {
		c.Store.Retention.Schedule = "0 3 * * *"
	}

	if c.Trace.Path == "" {
		c.Trace.Path = "animus-trace.db"
	}
	if c.Trace.MaxRecords == 0 {
		c.Trace.MaxRecords = 10000
	}

	if c.Loader.Dir == "" {
		c.Loader.Dir = "characters"
	}
	if c.Loader.DebounceInterval == 0 {
		c.Loader.DebounceInterval = 500 * time.Millisecond
	}

	if c.Telemetry.Logging.Level == "" {
		c.Telemetry.Logging.Level = "info"
	}
	if c.Telemetry.Logging.Format == "" {
		c.Telemetry.Logging.Format = "console"
	}

	if c.Telemetry.Metrics.Namespace == "" {
		c.Telemetry.Metrics.Namespace = "animus"
	}
	if c.Telemetry.Metrics.Subsystem == "" {
		c.Telemetry.Metrics.Subsystem = "engine"
	}
}
