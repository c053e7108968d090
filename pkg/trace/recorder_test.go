package trace

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"persona-hq/animus/pkg/facts"
)

func newTestRecorder(t *testing.T, maxRecords int) *Recorder {
	t.Helper()
	r, err := NewRecorder(filepath.Join(t.TempDir(), "trace.db"), maxRecords)
	if err != nil {
		t.Fatalf("NewRecorder error: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordAndRecent(t *testing.T) {
	r := newTestRecorder(t, 0)
	var _ facts.Tracer = r
	var _ facts.Tracer = r.ForCharacter("Iris")

	r.TraceGuardError("$if oops: hidden", "oops", errors.New("Unknown identifier: oops"))
	r.ForCharacter("Iris").TraceGuardError("$if bad(: x", "bad(", errors.New("parse failure"))

	records, err := r.Recent(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Recent = %d records, want 2", len(records))
	}
	// Newest first.
	if records[0].Character != "Iris" || records[0].Guard != "bad(" {
		t.Errorf("newest record = %+v", records[0])
	}

	irisOnly, err := r.Recent(context.Background(), "Iris", 10)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(irisOnly) != 1 {
		t.Errorf("character filter returned %d records, want 1", len(irisOnly))
	}
}

func TestRecordCap(t *testing.T) {
	r := newTestRecorder(t, 3)
	for i := 0; i < 10; i++ {
		r.TraceGuardError("line", "guard", errors.New("boom"))
	}

	records, err := r.Recent(context.Background(), "", 100)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("retained = %d records, want 3", len(records))
	}
}
