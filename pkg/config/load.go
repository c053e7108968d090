package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides, applied after the file is read.
const (
	envStorePath     = "ANIMUS_STORE_PATH"
	envTracePath     = "ANIMUS_TRACE_PATH"
	envCharactersDir = "ANIMUS_CHARACTERS_DIR"
	envLogLevel      = "ANIMUS_LOG_LEVEL"
)

// Load reads, defaults, and validates configuration from a YAML file.
// A missing file is not an error: the defaults are used as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadReader reads configuration from an io.Reader, for tests and
// embedded use.
func LoadReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envStorePath); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv(envTracePath); v != "" {
		c.Trace.Path = v
	}
	if v := os.Getenv(envCharactersDir); v != "" {
		c.Loader.Dir = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.Telemetry.Logging.Level = v
	}
}
