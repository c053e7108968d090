package config

import "time"

// Config is the root configuration structure for Animus. It contains
// all configuration sections for the expression engine, character
// storage, guard tracing, the character loader, and telemetry.
type Config struct {
	// Engine contains expression-engine configuration including warmup
	// expressions and the default context filter.
	Engine EngineConfig `yaml:"engine"`

	// Store contains character/fact persistence configuration including
	// backend selection and retention settings.
	Store StoreConfig `yaml:"store"`

	// Trace contains guard-trace recording configuration. Guard traces
	// capture per-fact guard evaluation failures for author debugging.
	Trace TraceConfig `yaml:"trace"`

	// Loader contains character-file loading configuration including
	// the character directory and watch mode.
	Loader LoaderConfig `yaml:"loader"`

	// Telemetry contains observability configuration: logging and
	// metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EngineConfig contains configuration for the expression engine.
type EngineConfig struct {
	// DefaultContextFilter is the message-inclusion filter applied when
	// a character carries no $context directive. Empty means include
	// the host's full window.
	// Default: "chars < 4000"
	DefaultContextFilter string `yaml:"default_context_filter"`

	// WarmupExpressions are compiled into the cache at startup so the
	// first evaluation of common guards pays no compile cost.
	WarmupExpressions []string `yaml:"warmup_expressions"`
}

// StoreConfig contains configuration for character and fact storage.
type StoreConfig struct {
	// Backend selects the storage implementation: "sqlite" or "memory".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path. Ignored by the memory
	// backend.
	// Default: "animus.db"
	Path string `yaml:"path"`

	// Retention contains settings for pruning soft-deleted characters.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig controls pruning of soft-deleted characters.
type RetentionConfig struct {
	// Enabled turns the retention scheduler on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// MaxAge is how long a soft-deleted character is kept before the
	// pruner removes it permanently.
	// Default: 720h (30 days)
	MaxAge time.Duration `yaml:"max_age"`

	// Schedule is the cron expression for pruning runs.
	// Default: "0 3 * * *" (daily at 03:00)
	Schedule string `yaml:"schedule"`
}

// TraceConfig contains configuration for guard-trace recording.
type TraceConfig struct {
	// Enabled turns guard-trace recording on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite trace database file path.
	// Default: "animus-trace.db"
	Path string `yaml:"path"`

	// MaxRecords caps the number of retained trace records; the oldest
	// are dropped past the cap. Zero means unlimited.
	// Default: 10000
	MaxRecords int `yaml:"max_records"`
}

// LoaderConfig contains configuration for the character-file loader.
type LoaderConfig struct {
	// Dir is the directory holding character definition files.
	// Default: "characters"
	Dir string `yaml:"dir"`

	// Watch reloads character files automatically when they change on
	// disk.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval coalesces rapid filesystem events into a single
	// reload.
	// Default: 500ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json", "text", or "console".
	// Default: "console"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "animus"
	Namespace string `yaml:"namespace"`

	// Subsystem is the second metric name component.
	// Default: "engine"
	Subsystem string `yaml:"subsystem"`

	// ListenAddress is the address for the metrics HTTP endpoint.
	// Empty disables the endpoint; metrics can still be gathered
	// programmatically.
	// Default: ""
	ListenAddress string `yaml:"listen_address"`
}
