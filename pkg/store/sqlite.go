package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS characters (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	owner      TEXT NOT NULL,
	avatar     TEXT NOT NULL DEFAULT '',
	fact_lines TEXT NOT NULL DEFAULT '[]',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	deleted_at INTEGER
);

CREATE INDEX IF NOT EXISTS idx_characters_name
	ON characters(name COLLATE NOCASE) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_characters_deleted
	ON characters(deleted_at) WHERE deleted_at IS NOT NULL;
`

// SQLiteStore is a durable Store backed by a SQLite database file.
// Suitable for single-instance deployments.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and
// prepares the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening character database: %w", err)
	}

	// Single writer; WAL keeps readers unblocked during writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring character database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing character schema: %w", err)
	}

	logger := slog.Default().With("component", "store.sqlite")
	logger.Info("character store opened", "path", path)

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Save inserts or updates a character.
func (s *SQLiteStore) Save(ctx context.Context, ch *Character) error {
	lines, err := json.Marshal(ch.FactLines)
	if err != nil {
		return fmt.Errorf("encoding fact lines: %w", err)
	}

	now := time.Now().UTC()

	if ch.ID == "" {
		if _, err := s.GetByName(ctx, ch.Name); err == nil {
			return ErrNameTaken
		}
		ch.ID = uuid.NewString()
		ch.CreatedAt = now
		ch.UpdatedAt = now

		_, err := s.db.ExecContext(ctx,
			`INSERT INTO characters (id, name, owner, avatar, fact_lines, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ch.ID, ch.Name, ch.Owner, ch.Avatar, string(lines),
			ch.CreatedAt.Unix(), ch.UpdatedAt.Unix())
		if err != nil {
			return fmt.Errorf("inserting character: %w", err)
		}
		return nil
	}

	if other, err := s.GetByName(ctx, ch.Name); err == nil && other.ID != ch.ID {
		return ErrNameTaken
	}

	ch.UpdatedAt = now
	res, err := s.db.ExecContext(ctx,
		`UPDATE characters SET name = ?, owner = ?, avatar = ?, fact_lines = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		ch.Name, ch.Owner, ch.Avatar, string(lines), ch.UpdatedAt.Unix(), ch.ID)
	if err != nil {
		return fmt.Errorf("updating character: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the live character with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Character, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, owner, avatar, fact_lines, created_at, updated_at
		 FROM characters WHERE id = ? AND deleted_at IS NULL`, id)
	return scanCharacter(row)
}

// GetByName returns the live character with the given name.
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (*Character, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, owner, avatar, fact_lines, created_at, updated_at
		 FROM characters WHERE name = ? COLLATE NOCASE AND deleted_at IS NULL`, name)
	return scanCharacter(row)
}

// List returns all live characters ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]*Character, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, owner, avatar, fact_lines, created_at, updated_at
		 FROM characters WHERE deleted_at IS NULL ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	var out []*Character
	for rows.Next() {
		ch, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// Delete soft-deletes the character with the given ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE characters SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC().Unix(), id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// PruneDeleted removes characters soft-deleted before the cutoff.
func (s *SQLiteStore) PruneDeleted(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM characters WHERE deleted_at IS NOT NULL AND deleted_at < ?`,
		cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("pruning characters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned soft-deleted characters", "count", n)
	}
	return int(n), nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (*Character, error) {
	var (
		ch       Character
		lines    string
		created  int64
		updated  int64
	)
	err := row.Scan(&ch.ID, &ch.Name, &ch.Owner, &ch.Avatar, &lines, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning character: %w", err)
	}

	if err := json.Unmarshal([]byte(lines), &ch.FactLines); err != nil {
		return nil, fmt.Errorf("decoding fact lines: %w", err)
	}
	ch.CreatedAt = time.Unix(created, 0).UTC()
	ch.UpdatedAt = time.Unix(updated, 0).UTC()
	return &ch, nil
}
