package store

import (
	"context"
	"testing"
	"time"

	"persona-hq/animus/pkg/config"
)

func TestPrunerRunOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ch := &Character{Name: "Iris", Owner: "o"}
	if err := s.Save(ctx, ch); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Delete(ctx, ch.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	// A negative max age puts the cutoff in the future, so the fresh
	// soft-delete is already past retention.
	pruner := NewPruner(s, config.RetentionConfig{MaxAge: -time.Hour})
	n, err := pruner.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce error: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}
}

func TestPrunerDisabled(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), config.RetentionConfig{Enabled: false})
	if err := pruner.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	pruner.Stop() // Not running; must not block.
}

func TestPrunerStartStop(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), config.RetentionConfig{
		Enabled:  true,
		MaxAge:   time.Hour,
		Schedule: "0 3 * * *",
	})
	if err := pruner.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	pruner.Stop()
}

func TestPrunerBadSchedule(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), config.RetentionConfig{
		Enabled:  true,
		Schedule: "not a schedule",
	})
	if err := pruner.Start(context.Background()); err == nil {
		t.Error("Start succeeded with an invalid schedule")
	}
}
