package trace

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS guard_traces (
	id         TEXT PRIMARY KEY,
	character  TEXT NOT NULL DEFAULT '',
	line       TEXT NOT NULL,
	guard      TEXT NOT NULL,
	error      TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_guard_traces_created
	ON guard_traces(created_at);
`

// Record is one stored guard failure.
type Record struct {
	ID        string
	Character string
	Line      string
	Guard     string
	Error     string
	CreatedAt time.Time
}

// Recorder stores guard failures in a SQLite file.
type Recorder struct {
	db         *sql.DB
	maxRecords int
	logger     *slog.Logger
}

// NewRecorder opens (creating if needed) the trace database at path.
// maxRecords caps retention; zero means unlimited.
func NewRecorder(path string, maxRecords int) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace database: %w", err)
	}

	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring trace database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing trace schema: %w", err)
	}

	return &Recorder{
		db:         db,
		maxRecords: maxRecords,
		logger:     slog.Default().With("component", "trace.recorder"),
	}, nil
}

// TraceGuardError records one guard failure. It satisfies the fact
// evaluator's tracer interface; recording errors are logged, never
// surfaced, so a broken trace store cannot break evaluation.
func (r *Recorder) TraceGuardError(line, guard string, evalErr error) {
	r.record("", line, guard, evalErr)
}

// ForCharacter returns a tracer that tags records with the character
// name.
func (r *Recorder) ForCharacter(name string) CharacterTracer {
	return CharacterTracer{recorder: r, character: name}
}

// CharacterTracer is a Recorder view that attributes guard failures to
// one character.
type CharacterTracer struct {
	recorder  *Recorder
	character string
}

// TraceGuardError records one guard failure for the character.
func (t CharacterTracer) TraceGuardError(line, guard string, evalErr error) {
	t.recorder.record(t.character, line, guard, evalErr)
}

func (r *Recorder) record(character, line, guard string, evalErr error) {
	_, err := r.db.Exec(
		`INSERT INTO guard_traces (id, character, line, guard, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), character, line, guard, evalErr.Error(), time.Now().UTC().UnixNano())
	if err != nil {
		r.logger.Error("recording guard trace failed", "error", err)
		return
	}

	if r.maxRecords > 0 {
		_, err = r.db.Exec(
			`DELETE FROM guard_traces WHERE id NOT IN (
				SELECT id FROM guard_traces ORDER BY created_at DESC LIMIT ?
			)`, r.maxRecords)
		if err != nil {
			r.logger.Error("trimming guard traces failed", "error", err)
		}
	}
}

// Recent returns up to limit records, newest first, optionally filtered
// by character (empty matches all).
func (r *Recorder) Recent(ctx context.Context, character string, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, character, line, guard, error, created_at FROM guard_traces
		 WHERE (? = '' OR character = ?)
		 ORDER BY created_at DESC LIMIT ?`,
		character, character, limit)
	if err != nil {
		return nil, fmt.Errorf("querying guard traces: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var created int64
		if err := rows.Scan(&rec.ID, &rec.Character, &rec.Line, &rec.Guard, &rec.Error, &created); err != nil {
			return nil, fmt.Errorf("scanning guard trace: %w", err)
		}
		rec.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the trace database.
func (r *Recorder) Close() error {
	return r.db.Close()
}
