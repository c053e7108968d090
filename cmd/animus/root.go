package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"persona-hq/animus/pkg/cli"
	"persona-hq/animus/pkg/config"
	"persona-hq/animus/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "animus",
	Short: "Animus - character-chat expression and directive engine",
	Long: `Animus is a sandboxed expression and directive engine for
character-chat platforms.

Character authors write fact lines - plain text plus $-directives gated
by $if guard expressions - and the engine evaluates them per message in
a closed sandbox:
  - Expression language with a fixed identifier set and method surface
  - Directive parsing ($respond, $retry, $stream, $context, ...)
  - Character definition files with lint and hot reload
  - Guard-failure tracing for author debugging`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the config file, applies the verbose override, and
// installs the configured logger as the process default.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, cli.NewConfigError("", err.Error())
	}

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return nil, nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	return cfg, logger, nil
}
