package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"persona-hq/animus/pkg/config"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in logfmt-style plain text.
	FormatText LogFormat = "text"
	// FormatConsole outputs logs in a human-readable console format.
	FormatConsole LogFormat = "console"
)

// New creates a structured logger from the logging configuration. A nil
// writer defaults to stderr.
func New(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	case FormatConsole:
		consoleOpts := *opts
		consoleOpts.ReplaceAttr = trimConsoleAttrs
		handler = slog.NewTextHandler(w, &consoleOpts)
	}

	return slog.New(handler), nil
}

// MustDefault creates the logger or falls back to slog's default when
// the configuration is unusable. Intended for early startup, before
// configuration errors can be reported properly.
func MustDefault(cfg config.LoggingConfig) *slog.Logger {
	logger, err := New(cfg, nil)
	if err != nil {
		return slog.Default()
	}
	return logger
}

// trimConsoleAttrs drops the timestamp for console output; terminals
// supply their own sense of time.
func trimConsoleAttrs(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level: %q", s)
}

func parseFormat(s string) (LogFormat, error) {
	switch LogFormat(s) {
	case FormatJSON, FormatText, FormatConsole:
		return LogFormat(s), nil
	case "":
		return FormatConsole, nil
	}
	return "", fmt.Errorf("invalid log format: %q", s)
}
