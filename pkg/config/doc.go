// Package config defines the configuration structure for Animus and
// handles loading, defaulting, and validation.
//
// Configuration is read from a YAML file, with environment variable
// overrides for deployment-sensitive values. All sections have working
// defaults: an empty file yields a runnable in-memory setup.
//
// Example:
//
//	cfg, err := config.Load("animus.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
package config
