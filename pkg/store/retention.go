package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"persona-hq/animus/pkg/config"
)

// Pruner removes soft-deleted characters past their retention age on a
// cron schedule.
type Pruner struct {
	store  Store
	cfg    config.RetentionConfig
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewPruner creates a pruner over the store.
func NewPruner(store Store, cfg config.RetentionConfig) *Pruner {
	return &Pruner{
		store:  store,
		cfg:    cfg,
		cron:   cron.New(),
		logger: slog.Default().With("component", "store.pruner"),
	}
}

// Start schedules pruning runs. Disabled retention is a no-op.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled {
		p.logger.Debug("retention disabled, pruner not started")
		return nil
	}
	if p.running {
		return nil
	}

	_, err := p.cron.AddFunc(p.cfg.Schedule, func() {
		if _, err := p.RunOnce(ctx); err != nil {
			p.logger.Error("retention prune failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling retention prune %q: %w", p.cfg.Schedule, err)
	}

	p.cron.Start()
	p.running = true
	p.logger.Info("retention pruner started",
		"schedule", p.cfg.Schedule, "max_age", p.cfg.MaxAge)
	return nil
}

// RunOnce prunes immediately, independent of the schedule.
func (p *Pruner) RunOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-p.cfg.MaxAge)
	return p.store.PruneDeleted(ctx, cutoff)
}

// Stop halts the schedule, waiting for an in-flight run to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	<-p.cron.Stop().Done()
	p.running = false
	p.logger.Info("retention pruner stopped")
}
