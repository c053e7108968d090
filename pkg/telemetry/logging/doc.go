// Package logging provides structured logging for Animus, built on
// log/slog with json, text, and console output formats.
//
// The console format is meant for interactive use and local
// development; deployments should prefer json.
package logging
