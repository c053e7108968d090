package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeDefinition(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDefinition(t, dir, "iris.yaml", `
name: Iris
owner: "12345678901234567"
avatar: https://example.com/iris.png
facts:
  - is a dragon librarian
  - "$if mentioned: $respond"
`)

	def, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if def.Name != "Iris" {
		t.Errorf("Name = %q, want Iris", def.Name)
	}
	if def.Owner != "12345678901234567" {
		t.Errorf("Owner = %q", def.Owner)
	}
	if len(def.Facts) != 2 || def.Facts[1] != "$if mentioned: $respond" {
		t.Errorf("Facts = %v", def.Facts)
	}
	if def.Path != path {
		t.Errorf("Path = %q, want %q", def.Path, path)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing name", "facts:\n  - hello\n", "has no name"},
		{"blank name", "name: \"  \"\n", "has no name"},
		{"bad yaml", "name: [unclosed\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDefinition(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml", tt.content)
			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFile error = %v, want %q", err, tt.wantErr)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "zara.yml", "name: Zara\n")
	writeDefinition(t, dir, "iris.yaml", "name: Iris\n")
	writeDefinition(t, dir, "notes.txt", "not a definition\n")
	writeDefinition(t, dir, ".hidden.yaml", "name: Ghost\n")

	defs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("LoadDir = %d definitions, want 2", len(defs))
	}
	if defs[0].Name != "Iris" || defs[1].Name != "Zara" {
		t.Errorf("order = [%s %s], want [Iris Zara]", defs[0].Name, defs[1].Name)
	}
}

func TestLoadDirDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "a.yaml", "name: Iris\n")
	writeDefinition(t, dir, "b.yaml", "name: IRIS\n")

	_, err := LoadDir(dir)
	if err == nil || !strings.Contains(err.Error(), "duplicate character name") {
		t.Errorf("LoadDir error = %v, want duplicate name error", err)
	}
}

func TestWatcherTriggersReload(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher(dir, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}

	var reloads atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error {
			reloads.Add(1)
			return nil
		})
	}()

	// Let the watcher register the directory before writing.
	time.Sleep(50 * time.Millisecond)
	writeDefinition(t, dir, "iris.yaml", "name: Iris\n")
	writeDefinition(t, dir, "ignored.txt", "noise\n")

	deadline := time.After(2 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("reload never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), 0, nil)
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	// Never started; Stop is a no-op.
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
}
