package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"persona-hq/animus/pkg/cli"
	"persona-hq/animus/pkg/config"
	"persona-hq/animus/pkg/facts"
	"persona-hq/animus/pkg/fcl"
	"persona-hq/animus/pkg/fcl/compiler"
	"persona-hq/animus/pkg/loader"
	"persona-hq/animus/pkg/store"
	"persona-hq/animus/pkg/telemetry/logging"
	"persona-hq/animus/pkg/telemetry/metrics"
	"persona-hq/animus/pkg/trace"
)

var runFlags struct {
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the character engine",
	Long: `Start the character engine with the specified configuration.

The engine loads character definitions into the configured store, keeps
them in sync when watching is enabled, runs the retention pruner, and
serves Prometheus metrics.

Examples:
  # Start with default config
  animus run

  # Start with custom config
  animus run --config /etc/animus/config.yaml

  # Validate config without starting
  animus run --dry-run`,
	RunE: runEngine,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
}

func runEngine(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
		logger, err = logging.New(cfg.Telemetry.Logging, os.Stderr)
		if err != nil {
			return cli.NewConfigError("telemetry.logging", err.Error())
		}
		slog.SetDefault(logger)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	logger.Info("Animus starting", "version", Version)

	// Metrics
	var collector *metrics.Collector
	var engine *fcl.Engine
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Telemetry.Metrics, nil)
		engine = fcl.NewEngine().WithObserver(collector.Engine())
	} else {
		engine = fcl.NewEngine()
	}

	// Compiling the configured warmup expressions up front both primes
	// the cache and surfaces config mistakes at startup.
	for _, expr := range cfg.Engine.WarmupExpressions {
		if _, err := engine.Compile(expr); err != nil {
			logger.Warn("warmup expression failed to compile",
				"expression", expr, "error", err)
		}
	}

	// Store
	st, err := openStore(cfg.Store)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer st.Close()

	pruner := store.NewPruner(st, cfg.Store.Retention)

	// Trace recorder
	var recorder *trace.Recorder
	if cfg.Trace.Enabled {
		recorder, err = trace.NewRecorder(cfg.Trace.Path, cfg.Trace.MaxRecords)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer recorder.Close()
	}

	ctx := cli.SetupSignalHandler()

	if err := pruner.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer pruner.Stop()

	sync := &characterSync{
		dir:      cfg.Loader.Dir,
		store:    st,
		engine:   engine,
		recorder: recorder,
		logger:   logger,
	}
	if collector != nil {
		sync.observer = collector.Facts()
	}

	// Initial character load
	if err := sync.run(ctx, true); err != nil {
		return cli.NewCommandError("run", err)
	}

	// Hot reload
	var watcher *loader.Watcher
	if cfg.Loader.Watch {
		watcher, err = loader.NewWatcher(cfg.Loader.Dir, cfg.Loader.DebounceInterval, logger)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		go func() {
			err := watcher.Watch(ctx, func() error {
				return sync.run(ctx, false)
			})
			if err != nil {
				logger.Error("character watcher exited", "error", err)
			}
		}()
		defer watcher.Stop()
	}

	// Metrics endpoint
	if collector != nil {
		srv := startMetricsServer(cfg.Telemetry.Metrics, collector, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("Animus running",
		"store", cfg.Store.Backend,
		"characters_dir", cfg.Loader.Dir,
		"watch", cfg.Loader.Watch,
		"trace", cfg.Trace.Enabled,
	)

	<-ctx.Done()
	logger.Info("Animus shutting down")
	return nil
}

func openStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return store.NewSQLiteStore(cfg.Path)
	default:
		return store.NewMemoryStore(), nil
	}
}

// characterSync loads definition files and upserts them into the store
// by name. Characters removed from disk stay in the store; the store,
// not the directory, is the system of record for deletion.
type characterSync struct {
	dir      string
	store    store.Store
	engine   *fcl.Engine
	recorder *trace.Recorder
	observer facts.Observer
	logger   *slog.Logger
}

func (s *characterSync) run(ctx context.Context, progress bool) error {
	defs, err := loader.LoadDir(s.dir)
	if err != nil {
		return err
	}

	var reporter cli.ProgressReporter
	if progress && len(defs) > 0 {
		reporter = cli.NewProgressReporter(os.Stderr)
		reporter.Start(int64(len(defs)))
	}

	for i, def := range defs {
		if err := s.upsert(ctx, def); err != nil {
			if reporter != nil {
				reporter.Error(err)
			}
			return fmt.Errorf("syncing %s: %w", def.Name, err)
		}
		s.checkGuards(def)
		if reporter != nil {
			reporter.Update(int64(i + 1))
		}
	}
	if reporter != nil {
		reporter.Finish()
	}

	s.logger.Info("characters synced", "count", len(defs), "dir", s.dir)
	return nil
}

func (s *characterSync) upsert(ctx context.Context, def *loader.Definition) error {
	ch, err := s.store.GetByName(ctx, def.Name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		ch = &store.Character{Name: def.Name}
	case err != nil:
		return err
	}

	ch.Owner = def.Owner
	ch.Avatar = def.Avatar
	ch.FactLines = append([]string(nil), def.Facts...)
	return s.store.Save(ctx, ch)
}

// checkGuards compiles every guard in the definition so broken guards
// surface at load time instead of mid-conversation. Failures land in
// the trace recorder for the author to inspect; they never block the
// sync.
func (s *characterSync) checkGuards(def *loader.Definition) {
	for _, line := range def.Facts {
		if facts.IsComment(line) {
			continue
		}
		fact, err := facts.Classify(line)
		if err != nil {
			s.logger.Warn("malformed fact line",
				"character", def.Name, "line", line, "error", err)
			continue
		}
		if !fact.Conditional {
			continue
		}
		if _, err := s.engine.Compile(fact.Guard); err != nil {
			s.logger.Warn("guard failed to compile",
				"character", def.Name, "guard", fact.Guard, "error", err)
			if s.recorder != nil {
				s.recorder.ForCharacter(def.Name).TraceGuardError(line, fact.Guard, err)
			}
		}
	}

	// A dry evaluation against an empty context exercises the directive
	// handling and feeds the fact metrics. The compile loop above already
	// traces each broken guard, so this run carries no tracer.
	ev := facts.NewEvaluator(s.engine).WithLogger(s.logger)
	if s.observer != nil {
		ev = ev.WithObserver(s.observer)
	}
	if _, err := ev.Evaluate(def.Facts, &compiler.EvalContext{}); err != nil {
		s.logger.Warn("fact list failed dry evaluation",
			"character", def.Name, "error", err)
	}
}

func startMetricsServer(cfg config.MetricsConfig, collector *metrics.Collector, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics endpoint listening", "address", cfg.ListenAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	return srv
}
